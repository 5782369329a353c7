package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/church-network-api/internal/access"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
	"github.com/yukikurage/church-network-api/internal/models"
	"github.com/yukikurage/church-network-api/internal/repository"
	"gorm.io/gorm"
)

// ErrReceiverNotFound is returned when the receiver is missing or in another tree.
var ErrReceiverNotFound = fmt.Errorf("%w: receiving organization not found", apierrors.ErrNotFound)

// MessageService handles notes exchanged between organizations of one tree.
type MessageService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewMessageService creates a new MessageService.
func NewMessageService(db *gorm.DB, log logrus.FieldLogger) *MessageService {
	return &MessageService{
		db:  db,
		log: log,
	}
}

// SendMessageInput is the payload for sending a message
type SendMessageInput struct {
	ReceiverOrganizationID uint64 `json:"receiver_organization_id" validate:"required"`
	Content                string `json:"content" validate:"required"`
}

// Send stores a message from the caller's organization to another
// organization under the same root.
func (s *MessageService) Send(ctx context.Context, id access.Identity, input SendMessageInput) (*models.Message, error) {
	if !id.Valid() {
		return nil, apierrors.ErrMissingIdentity
	}
	if err := validatePayload(input); err != nil {
		return nil, err
	}

	var msg *models.Message
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		orgs := repository.NewOrganizationRepository(tx)

		senderRoot, err := orgs.RootOf(id.OrganizationID())
		if err != nil {
			return storeError("resolve sender", err)
		}
		receiverRoot, err := orgs.RootOf(input.ReceiverOrganizationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReceiverNotFound
			}
			return storeError("resolve receiver", err)
		}
		if senderRoot.ID != receiverRoot.ID {
			return ErrReceiverNotFound
		}

		msg = &models.Message{
			SenderOrganizationID:   id.OrganizationID(),
			ReceiverOrganizationID: input.ReceiverOrganizationID,
			Content:                input.Content,
		}
		return storeError("create message", repository.NewMessageRepository(tx).Create(msg))
	})
	if err != nil {
		logFailure(s.log, "send message", id, err)
		return nil, err
	}
	return msg, nil
}

// List returns messages sent or received by the caller's organization ordered by id.
func (s *MessageService) List(ctx context.Context, id access.Identity) ([]models.Message, error) {
	if !id.Valid() {
		return nil, apierrors.ErrMissingIdentity
	}

	messages, err := repository.NewMessageRepository(s.db.WithContext(ctx)).ListForOrganization(id.OrganizationID())
	if err != nil {
		err = storeError("list messages", err)
		logFailure(s.log, "list messages", id, err)
		return nil, err
	}
	return messages, nil
}
