package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/church-network-api/internal/access"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
	"github.com/yukikurage/church-network-api/internal/models"
	"github.com/yukikurage/church-network-api/internal/repository"
	"gorm.io/gorm"
)

// DeleteRule selects how records of a kind may be deleted.
type DeleteRule int

const (
	// DeleteDisabled rejects every delete.
	DeleteDisabled DeleteRule = iota
	// DeleteScoped allows callers that can manage the owning organization.
	DeleteScoped
	// DeleteRootOnly allows any root admin, without an ownership check.
	DeleteRootOnly
)

// Payload is a create or update body that may name a target organization.
type Payload interface {
	RequestedOrganization() *uint64
}

// Target is embedded by payloads to carry the optional organization_id.
type Target struct {
	OrganizationID *uint64 `json:"organization_id"`
}

func (t Target) RequestedOrganization() *uint64 {
	return t.OrganizationID
}

// ResourceKind describes one scoped record type to the generic service.
type ResourceKind[T any, PT models.ScopedPtr[T], In Payload] struct {
	Name   string
	Plural string

	// FilterColumns are the secondary equality filters List accepts.
	FilterColumns []string

	Updatable bool
	Delete    DeleteRule

	// New builds an unsaved record from a validated payload.
	New func(in In) PT
	// Apply copies the mutable fields of in onto record.
	Apply func(record PT, in In)
	// Check validates references in the payload against the caller's read scope.
	Check func(tx *gorm.DB, scope access.Scope, in In) error
	// BeforeDelete runs in the delete transaction before the row is removed.
	BeforeDelete func(tx *gorm.DB, record PT) error
}

// ListInput represents filters for listing scoped records
type ListInput struct {
	OrganizationID *uint64
	Filters        map[string]uint64
	Page           int
	PageSize       int
}

// ResourceService applies the access policy to list, create, update and
// delete for one resource kind.
type ResourceService[T any, PT models.ScopedPtr[T], In Payload] struct {
	db   *gorm.DB
	kind ResourceKind[T, PT, In]
	log  logrus.FieldLogger
}

// NewResourceService creates a ResourceService for kind.
func NewResourceService[T any, PT models.ScopedPtr[T], In Payload](db *gorm.DB, kind ResourceKind[T, PT, In], log logrus.FieldLogger) *ResourceService[T, PT, In] {
	return &ResourceService[T, PT, In]{
		db:   db,
		kind: kind,
		log:  log.WithField("resource", kind.Plural),
	}
}

// Kind returns the descriptor the service was built with.
func (s *ResourceService[T, PT, In]) Kind() ResourceKind[T, PT, In] {
	return s.kind
}

// List returns the records visible to the caller ordered by id.
func (s *ResourceService[T, PT, In]) List(ctx context.Context, id access.Identity, input ListInput) ([]T, error) {
	var records []T
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		scope, err := access.NewEvaluator(repository.NewOrganizationRepository(tx)).ReadScope(id, input.OrganizationID)
		if err != nil {
			return storeError("resolve read scope", err)
		}

		match := make(map[string]any)
		for _, column := range s.kind.FilterColumns {
			if value, ok := input.Filters[column]; ok {
				match[column] = value
			}
		}

		records, err = repository.NewScopedRepository[T, PT](tx).List(repository.ListFilter{
			OrganizationIDs: scope.OrganizationIDs,
			Match:           match,
			Page:            input.Page,
			PageSize:        input.PageSize,
		})
		return storeError("list "+s.kind.Plural, err)
	})
	if err != nil {
		logFailure(s.log, "list", id, err)
		return nil, err
	}
	return records, nil
}

// Create validates the payload, resolves the write target and inserts the record.
func (s *ResourceService[T, PT, In]) Create(ctx context.Context, id access.Identity, input In) (PT, error) {
	if !id.Valid() {
		return nil, apierrors.ErrMissingIdentity
	}
	if err := validatePayload(input); err != nil {
		return nil, err
	}

	var record PT
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		evaluator := access.NewEvaluator(repository.NewOrganizationRepository(tx))
		target, err := evaluator.WriteTarget(id, input.RequestedOrganization())
		if err != nil {
			return storeError("resolve write target", err)
		}

		if err := s.check(tx, evaluator, id, input); err != nil {
			return err
		}

		record = s.kind.New(input)
		record.SetOrganizationID(target)
		return storeError("create "+s.kind.Name, repository.NewScopedRepository[T, PT](tx).Create(record))
	})
	if err != nil {
		logFailure(s.log, "create", id, err)
		return nil, err
	}
	return record, nil
}

// Update replaces the mutable fields of an existing record. A missing record
// is reported before an ownership failure, and both before payload errors.
func (s *ResourceService[T, PT, In]) Update(ctx context.Context, id access.Identity, recordID uint64, input In) (PT, error) {
	if !s.kind.Updatable {
		return nil, fmt.Errorf("%w: %s cannot be updated", apierrors.ErrForbidden, s.kind.Plural)
	}

	var record PT
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		evaluator := access.NewEvaluator(repository.NewOrganizationRepository(tx))
		repo := repository.NewScopedRepository[T, PT](tx)

		var err error
		record, err = s.loadManaged(repo, evaluator, id, recordID)
		if err != nil {
			return err
		}

		if err := validatePayload(input); err != nil {
			return err
		}
		if err := s.check(tx, evaluator, id, input); err != nil {
			return err
		}

		s.kind.Apply(record, input)
		return storeError("update "+s.kind.Name, repo.Update(record))
	})
	if err != nil {
		logFailure(s.log, "update", id, err)
		return nil, err
	}
	return record, nil
}

// Delete removes a record according to the kind's DeleteRule.
func (s *ResourceService[T, PT, In]) Delete(ctx context.Context, id access.Identity, recordID uint64) error {
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		evaluator := access.NewEvaluator(repository.NewOrganizationRepository(tx))
		repo := repository.NewScopedRepository[T, PT](tx)

		var (
			record PT
			err    error
		)
		switch s.kind.Delete {
		case DeleteScoped:
			record, err = s.loadManaged(repo, evaluator, id, recordID)
		case DeleteRootOnly:
			if err = evaluator.RequireRole(id, models.RoleRootAdmin); err == nil {
				record, err = s.load(repo, recordID)
			}
		default:
			err = fmt.Errorf("%w: %s cannot be deleted", apierrors.ErrForbidden, s.kind.Plural)
		}
		if err != nil {
			return err
		}

		if s.kind.BeforeDelete != nil {
			if err := s.kind.BeforeDelete(tx, record); err != nil {
				return storeError("prepare delete", err)
			}
		}
		return storeError("delete "+s.kind.Name, repo.Delete(record.GetID()))
	})
	if err != nil {
		logFailure(s.log, "delete", id, err)
		return err
	}
	return nil
}

func (s *ResourceService[T, PT, In]) load(repo repository.ScopedRepository[T, PT], recordID uint64) (PT, error) {
	record, err := repo.FindByID(recordID)
	if err != nil {
		return nil, storeError(fmt.Sprintf("%s %d", s.kind.Name, recordID), err)
	}
	return record, nil
}

// loadManaged loads a record and checks the caller may manage its organization.
func (s *ResourceService[T, PT, In]) loadManaged(repo repository.ScopedRepository[T, PT], evaluator *access.Evaluator, id access.Identity, recordID uint64) (PT, error) {
	if !id.Valid() {
		return nil, apierrors.ErrMissingIdentity
	}
	record, err := s.load(repo, recordID)
	if err != nil {
		return nil, err
	}

	ok, err := evaluator.CanManageSingle(id, record.GetOrganizationID())
	if err != nil {
		return nil, storeError("check ownership", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: not allowed to manage %s %d", apierrors.ErrForbidden, s.kind.Name, recordID)
	}
	return record, nil
}

func (s *ResourceService[T, PT, In]) check(tx *gorm.DB, evaluator *access.Evaluator, id access.Identity, input In) error {
	if s.kind.Check == nil {
		return nil
	}
	scope, err := evaluator.ReadScope(id, nil)
	if err != nil {
		return storeError("resolve read scope", err)
	}
	return s.kind.Check(tx, scope, input)
}
