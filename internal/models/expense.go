package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense may reference a project. The reference is not a foreign key:
// unknown project ids are accepted, and deleting a project clears it.
type Expense struct {
	ID          uint64          `gorm:"primarykey" json:"id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Date        string          `gorm:"type:varchar(32);not null" json:"date"`
	ProjectID   *uint64         `gorm:"index" json:"project_id"`
	OrgScope
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *Expense) GetID() uint64 { return e.ID }
