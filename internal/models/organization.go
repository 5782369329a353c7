package models

import (
	"time"
)

// Organization is a node in the church hierarchy. Roots have no parent;
// branches reference their root through ParentID.
type Organization struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	ParentID  *uint64   `gorm:"index" json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Branches []Organization `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsRoot reports whether the organization sits at the top of its tree.
func (o *Organization) IsRoot() bool {
	return o.ParentID == nil
}
