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

// AuthService handles principals: branch admin creation and credential checks.
type AuthService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *gorm.DB, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		db:  db,
		log: log,
	}
}

// CreateBranchAdminInput represents the information needed to create a branch admin.
type CreateBranchAdminInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	BranchOrgID uint64 `json:"branch_organization_id" validate:"required"`
}

// CreateBranchAdmin creates a principal administering one of the caller's branches.
func (s *AuthService) CreateBranchAdmin(ctx context.Context, id access.Identity, input CreateBranchAdminInput) (*models.User, error) {
	input.Email = strings.TrimSpace(input.Email)

	var user *models.User
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		orgs := repository.NewOrganizationRepository(tx)
		if err := access.NewEvaluator(orgs).RequireRole(id, models.RoleRootAdmin); err != nil {
			return err
		}
		if err := validatePayload(input); err != nil {
			return err
		}

		branch, err := orgs.FindByID(input.BranchOrgID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBranchNotFound
			}
			return storeError("find branch", err)
		}
		if branch.ParentID == nil || *branch.ParentID != id.OrganizationID() {
			return ErrBranchNotFound
		}

		users := repository.NewUserRepository(tx)
		if _, err := users.FindByEmail(input.Email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeError("check email", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return ErrFailedToHashPassword
		}

		user = &models.User{
			Email:          input.Email,
			PasswordHash:   string(hash),
			Role:           models.RoleBranchAdmin,
			OrganizationID: branch.ID,
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
		logFailure(s.log, "create branch admin", id, err)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":         user.ID,
		"organization_id": user.OrganizationID,
	}).Info("Created branch admin")
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns the principal with its identity.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, access.Identity, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validatePayload(input); err != nil {
		return nil, access.Identity{}, err
	}

	user, err := repository.NewUserRepository(s.db.WithContext(ctx)).FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, access.Identity{}, ErrInvalidCredentials
		}
		return nil, access.Identity{}, storeError("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, access.Identity{}, ErrInvalidCredentials
	}

	identity, err := access.NewIdentity(user.ID, user.Role.String(), user.OrganizationID)
	if err != nil {
		return nil, access.Identity{}, err
	}
	return user, identity, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := repository.NewUserRepository(s.db.WithContext(ctx)).FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("find user", err)
	}
	return user, nil
}
