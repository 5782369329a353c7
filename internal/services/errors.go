package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/church-network-api/internal/access"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
	"github.com/yukikurage/church-network-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = fmt.Errorf("%w: email already registered", apierrors.ErrConflict)
	ErrInvalidCredentials   = fmt.Errorf("%w: invalid email or password", apierrors.ErrMissingIdentity)
	ErrOrganizationNotFound = fmt.Errorf("%w: organization not found", apierrors.ErrNotFound)
	ErrBranchNotFound       = fmt.Errorf("%w: branch not found or does not belong to your organization", apierrors.ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("%w: user not found", apierrors.ErrNotFound)
	ErrEventNotFound        = fmt.Errorf("%w: event not found", apierrors.ErrNotFound)
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// storeError converts a repository failure into the error taxonomy. Errors that
// already carry a kind pass through unchanged.
func storeError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrParentNotFound), errors.Is(err, repository.ErrDepthExceeded):
		return fmt.Errorf("%w: %w", apierrors.ErrNotFound, err)
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s", apierrors.ErrNotFound, op)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", apierrors.ErrConflict, op)
	case apierrors.Kind(err) != apierrors.ErrInternal:
		return err
	default:
		return apierrors.Internal(op, err)
	}
}

// inTx runs fn inside one transaction. The transaction is rolled back when fn
// returns an error or panics.
func inTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// logFailure records denied operations at warn and store failures at error.
// Other kinds are client mistakes and are not logged here.
func logFailure(log logrus.FieldLogger, op string, id access.Identity, err error) {
	entry := log.WithError(err).WithFields(logrus.Fields{
		"op":     op,
		"caller": id.String(),
	})
	switch apierrors.Kind(err) {
	case apierrors.ErrForbidden:
		entry.Warn("Access denied")
	case apierrors.ErrInternal:
		entry.Error("Store failure")
	}
}
