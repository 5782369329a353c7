package models

import "time"

type Event struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Date        string `gorm:"type:varchar(32);not null" json:"date"`
	Description string `gorm:"type:text" json:"description"`
	OrgScope
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (e *Event) GetID() uint64 { return e.ID }
