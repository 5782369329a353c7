package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/church-network-api/internal/access"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
	"github.com/yukikurage/church-network-api/internal/models"
	"github.com/yukikurage/church-network-api/internal/repository"
	"gorm.io/gorm"
)

// Balance is the financial position of one organization.
type Balance struct {
	OrganizationID   uint64
	OrganizationName string
	DonationsTotal   decimal.Decimal
	ExpensesTotal    decimal.Decimal
	Balance          decimal.Decimal
}

// Stats summarizes a root organization's hierarchy.
type Stats struct {
	BranchCount int64
	MemberCount int64
}

// FinanceService aggregates donations and expenses over the hierarchy.
type FinanceService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewFinanceService creates a new FinanceService.
func NewFinanceService(db *gorm.DB, log logrus.FieldLogger) *FinanceService {
	return &FinanceService{
		db:  db,
		log: log,
	}
}

// OrgBalance returns the balance of one organization the caller may manage.
// Authorization is decided before existence.
func (s *FinanceService) OrgBalance(ctx context.Context, id access.Identity, orgID uint64) (*Balance, error) {
	var balance *Balance
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		orgs := repository.NewOrganizationRepository(tx)
		ok, err := access.NewEvaluator(orgs).CanManageSingle(id, orgID)
		if err != nil {
			return storeError("check ownership", err)
		}
		if !ok {
			return fmt.Errorf("%w: not allowed to view the balance of organization %d", apierrors.ErrForbidden, orgID)
		}

		org, err := orgs.FindByID(orgID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrganizationNotFound
			}
			return storeError("find organization", err)
		}

		balance, err = balanceOf(tx, org)
		return err
	})
	if err != nil {
		logFailure(s.log, "org balance", id, err)
		return nil, err
	}
	return balance, nil
}

// SubtreeBalances returns the balance of the caller's organization and each of
// its branches, ordered by organization id. A non-empty searchTerm keeps only
// organizations whose name contains it, ignoring case.
func (s *FinanceService) SubtreeBalances(ctx context.Context, id access.Identity, searchTerm string) ([]Balance, error) {
	balances := []Balance{}
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		orgs := repository.NewOrganizationRepository(tx)
		if err := access.NewEvaluator(orgs).RequireRole(id, models.RoleRootAdmin); err != nil {
			return err
		}

		ids, err := orgs.ResolveSubtree(id.OrganizationID())
		if err != nil {
			return storeError("resolve subtree", err)
		}
		nodes, err := orgs.FindByIDs(ids)
		if err != nil {
			return storeError("load organizations", err)
		}

		term := strings.ToLower(strings.TrimSpace(searchTerm))
		for i := range nodes {
			if term != "" && !strings.Contains(strings.ToLower(nodes[i].Name), term) {
				continue
			}
			b, err := balanceOf(tx, &nodes[i])
			if err != nil {
				return err
			}
			balances = append(balances, *b)
		}
		return nil
	})
	if err != nil {
		logFailure(s.log, "subtree balances", id, err)
		return nil, err
	}
	return balances, nil
}

// Stats counts the direct branches of the caller's root and the members
// across the root and those branches.
func (s *FinanceService) Stats(ctx context.Context, id access.Identity) (*Stats, error) {
	var stats Stats
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		orgs := repository.NewOrganizationRepository(tx)
		if err := access.NewEvaluator(orgs).RequireRole(id, models.RoleRootAdmin); err != nil {
			return err
		}

		branches, err := orgs.ListBranches(id.OrganizationID())
		if err != nil {
			return storeError("list branches", err)
		}
		stats.BranchCount = int64(len(branches))

		ids, err := orgs.ResolveSubtree(id.OrganizationID())
		if err != nil {
			return storeError("resolve subtree", err)
		}
		stats.MemberCount, err = repository.NewScopedRepository[models.Member](tx).Count(ids)
		return storeError("count members", err)
	})
	if err != nil {
		logFailure(s.log, "stats", id, err)
		return nil, err
	}
	return &stats, nil
}

// balanceOf sums donations and expenses owned by org. Organizations without
// rows total zero.
func balanceOf(tx *gorm.DB, org *models.Organization) (*Balance, error) {
	scope := []uint64{org.ID}

	donations, err := repository.NewScopedRepository[models.Donation](tx).Sum("amount", scope)
	if err != nil {
		return nil, storeError("sum donations", err)
	}
	expenses, err := repository.NewScopedRepository[models.Expense](tx).Sum("amount", scope)
	if err != nil {
		return nil, storeError("sum expenses", err)
	}

	return &Balance{
		OrganizationID:   org.ID,
		OrganizationName: org.Name,
		DonationsTotal:   donations,
		ExpensesTotal:    expenses,
		Balance:          donations.Sub(expenses),
	}, nil
}
