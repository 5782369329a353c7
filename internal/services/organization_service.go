package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/church-network-api/internal/access"
	"github.com/yukikurage/church-network-api/internal/models"
	"github.com/yukikurage/church-network-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OrganizationService provides business logic for the organization hierarchy.
type OrganizationService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(db *gorm.DB, log logrus.FieldLogger) *OrganizationService {
	return &OrganizationService{
		db:  db,
		log: log,
	}
}

// RegisterRootInput represents the information needed to register a root organization.
type RegisterRootInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterRoot creates a root organization together with its root admin.
// Both rows are written in one transaction; a duplicate email leaves neither.
func (s *OrganizationService) RegisterRoot(ctx context.Context, input RegisterRootInput) (*models.User, *models.Organization, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validatePayload(input); err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, ErrFailedToHashPassword
	}

	var (
		user *models.User
		org  *models.Organization
	)
	err = inTx(ctx, s.db, func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		if _, err := users.FindByEmail(input.Email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeError("check email", err)
		}

		org, err = repository.NewOrganizationRepository(tx).CreateRoot(input.Name)
		if err != nil {
			return storeError("create organization", err)
		}

		user = &models.User{
			Email:          input.Email,
			PasswordHash:   string(hash),
			Role:           models.RoleRootAdmin,
			OrganizationID: org.ID,
		}
		if err := users.Create(user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return storeError("create user", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.WithFields(logrus.Fields{
		"organization_id": org.ID,
		"user_id":         user.ID,
	}).Info("Registered root organization")
	return user, org, nil
}

// CreateBranchInput represents parameters to create a branch.
type CreateBranchInput struct {
	Name string `json:"name" validate:"required"`
}

// CreateBranch creates a branch under the caller's root organization.
func (s *OrganizationService) CreateBranch(ctx context.Context, id access.Identity, input CreateBranchInput) (*models.Organization, error) {
	input.Name = strings.TrimSpace(input.Name)

	var branch *models.Organization
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		orgs := repository.NewOrganizationRepository(tx)
		if err := access.NewEvaluator(orgs).RequireRole(id, models.RoleRootAdmin); err != nil {
			return err
		}
		if err := validatePayload(input); err != nil {
			return err
		}

		var err error
		branch, err = orgs.CreateBranch(id.OrganizationID(), input.Name)
		return storeError("create branch", err)
	})
	if err != nil {
		logFailure(s.log, "create branch", id, err)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"organization_id": branch.ID,
		"parent_id":       id.OrganizationID(),
	}).Info("Created branch")
	return branch, nil
}

// ListBranches returns the direct branches of the caller's root organization.
func (s *OrganizationService) ListBranches(ctx context.Context, id access.Identity) ([]models.Organization, error) {
	var branches []models.Organization
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		orgs := repository.NewOrganizationRepository(tx)
		if err := access.NewEvaluator(orgs).RequireRole(id, models.RoleRootAdmin); err != nil {
			return err
		}

		var err error
		branches, err = orgs.ListBranches(id.OrganizationID())
		return storeError("list branches", err)
	})
	if err != nil {
		return nil, err
	}
	return branches, nil
}
