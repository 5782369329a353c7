package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Project struct {
	ID     uint64          `gorm:"primarykey" json:"id"`
	Name   string          `gorm:"type:varchar(255);not null" json:"name"`
	Budget decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"budget"`
	OrgScope
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Project) GetID() uint64 { return p.ID }
