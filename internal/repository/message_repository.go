package repository

import (
	"github.com/yukikurage/church-network-api/internal/models"
	"gorm.io/gorm"
)

// GormMessageRepository is a GORM implementation of MessageRepository
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

// Create stores a message
func (r *GormMessageRepository) Create(msg *models.Message) error {
	return r.db.Create(msg).Error
}

// ListForOrganization lists messages sent or received by orgID
func (r *GormMessageRepository) ListForOrganization(orgID uint64) ([]models.Message, error) {
	messages := []models.Message{}
	if err := r.db.
		Where("sender_organization_id = ? OR receiver_organization_id = ?", orgID, orgID).
		Order("id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
