package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DonationType string

const (
	DonationTypeTithe    DonationType = "tithe"
	DonationTypeOffering DonationType = "offering"
)

type Donation struct {
	ID        uint64          `gorm:"primarykey" json:"id"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	DonorName string          `gorm:"type:varchar(255)" json:"donor_name"`
	Date      string          `gorm:"type:varchar(32);not null" json:"date"`
	Type      DonationType    `gorm:"type:varchar(32)" json:"type"`
	OrgScope
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (d *Donation) GetID() uint64 { return d.ID }
