package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/church-network-api/internal/access"
	"github.com/yukikurage/church-network-api/internal/models"
	"github.com/yukikurage/church-network-api/internal/repository"
	"gorm.io/gorm"
)

// MemberInput is the payload for creating a member
type MemberInput struct {
	Target
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// EventInput is the payload for creating an event
type EventInput struct {
	Target
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Description string `json:"description"`
}

// DonationInput is the payload for recording a donation
type DonationInput struct {
	Target
	Amount    *decimal.Decimal `json:"amount" validate:"required"`
	DonorName string           `json:"donor_name"`
	Date      string           `json:"date" validate:"required"`
	Type      string           `json:"type" validate:"omitempty,oneof=tithe offering"`
}

// AttendanceInput is the payload for recording attendance at an event
type AttendanceInput struct {
	Target
	EventID     uint64 `json:"event_id" validate:"required"`
	MemberCount *int   `json:"member_count" validate:"required,min=0"`
	Date        string `json:"date" validate:"required"`
}

// ProjectInput is the payload for creating or updating a project
type ProjectInput struct {
	Target
	Name   string           `json:"name" validate:"required"`
	Budget *decimal.Decimal `json:"budget" validate:"required"`
}

// ExpenseInput is the payload for creating or updating an expense.
// ProjectID is stored as given; it is not checked against existing projects.
type ExpenseInput struct {
	Target
	Description string           `json:"description" validate:"required"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Date        string           `json:"date" validate:"required"`
	ProjectID   *uint64          `json:"project_id"`
}

var MemberKind = ResourceKind[models.Member, *models.Member, MemberInput]{
	Name:   "member",
	Plural: "members",
	New: func(in MemberInput) *models.Member {
		return &models.Member{Name: in.Name, Phone: in.Phone, Address: in.Address}
	},
}

var EventKind = ResourceKind[models.Event, *models.Event, EventInput]{
	Name:   "event",
	Plural: "events",
	New: func(in EventInput) *models.Event {
		return &models.Event{Title: in.Title, Date: in.Date, Description: in.Description}
	},
}

// Branch admins cannot delete donations, whichever organization owns them.
var DonationKind = ResourceKind[models.Donation, *models.Donation, DonationInput]{
	Name:   "donation",
	Plural: "donations",
	Delete: DeleteRootOnly,
	New: func(in DonationInput) *models.Donation {
		return &models.Donation{
			Amount:    *in.Amount,
			DonorName: in.DonorName,
			Date:      in.Date,
			Type:      models.DonationType(in.Type),
		}
	},
}

var AttendanceKind = ResourceKind[models.Attendance, *models.Attendance, AttendanceInput]{
	Name:          "attendance",
	Plural:        "attendance",
	FilterColumns: []string{"event_id"},
	New: func(in AttendanceInput) *models.Attendance {
		return &models.Attendance{EventID: in.EventID, MemberCount: *in.MemberCount, Date: in.Date}
	},
	// The event must exist and be visible to the caller, else ErrEventNotFound.
	Check: func(tx *gorm.DB, scope access.Scope, in AttendanceInput) error {
		event, err := repository.NewScopedRepository[models.Event](tx).FindByID(in.EventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return storeError("find event", err)
		}
		if !scope.Contains(event.OrganizationID) {
			return ErrEventNotFound
		}
		return nil
	},
}

var ProjectKind = ResourceKind[models.Project, *models.Project, ProjectInput]{
	Name:      "project",
	Plural:    "projects",
	Updatable: true,
	Delete:    DeleteScoped,
	New: func(in ProjectInput) *models.Project {
		return &models.Project{Name: in.Name, Budget: *in.Budget}
	},
	Apply: func(p *models.Project, in ProjectInput) {
		p.Name = in.Name
		p.Budget = *in.Budget
	},
	BeforeDelete: func(tx *gorm.DB, p *models.Project) error {
		return repository.ClearProjectReferences(tx, p.ID)
	},
}

var ExpenseKind = ResourceKind[models.Expense, *models.Expense, ExpenseInput]{
	Name:          "expense",
	Plural:        "expenses",
	FilterColumns: []string{"project_id"},
	Updatable:     true,
	Delete:        DeleteScoped,
	New: func(in ExpenseInput) *models.Expense {
		return &models.Expense{
			Description: in.Description,
			Amount:      *in.Amount,
			Date:        in.Date,
			ProjectID:   in.ProjectID,
		}
	},
	Apply: func(e *models.Expense, in ExpenseInput) {
		e.Description = in.Description
		e.Amount = *in.Amount
		e.Date = in.Date
		e.ProjectID = in.ProjectID
	},
}

// Resources groups the six scoped resource services.
type Resources struct {
	Members    *ResourceService[models.Member, *models.Member, MemberInput]
	Events     *ResourceService[models.Event, *models.Event, EventInput]
	Donations  *ResourceService[models.Donation, *models.Donation, DonationInput]
	Attendance *ResourceService[models.Attendance, *models.Attendance, AttendanceInput]
	Projects   *ResourceService[models.Project, *models.Project, ProjectInput]
	Expenses   *ResourceService[models.Expense, *models.Expense, ExpenseInput]
}

// NewResources creates the services for every scoped resource kind.
func NewResources(db *gorm.DB, log logrus.FieldLogger) *Resources {
	return &Resources{
		Members:    NewResourceService(db, MemberKind, log),
		Events:     NewResourceService(db, EventKind, log),
		Donations:  NewResourceService(db, DonationKind, log),
		Attendance: NewResourceService(db, AttendanceKind, log),
		Projects:   NewResourceService(db, ProjectKind, log),
		Expenses:   NewResourceService(db, ExpenseKind, log),
	}
}
