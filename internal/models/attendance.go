package models

import "time"

// Attendance records a head count for an event. Deleting the event removes it.
type Attendance struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	EventID     uint64 `gorm:"not null;index" json:"event_id"`
	MemberCount int    `gorm:"not null" json:"member_count"`
	Date        string `gorm:"type:varchar(32);not null" json:"date"`
	OrgScope
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Event        Event        `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Attendance) TableName() string { return "attendance" }

func (a *Attendance) GetID() uint64 { return a.ID }
