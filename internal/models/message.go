package models

import "time"

// Message is a note sent from one organization to another in the same tree.
type Message struct {
	ID                     uint64    `gorm:"primarykey" json:"id"`
	SenderOrganizationID   uint64    `gorm:"not null;index" json:"sender_organization_id"`
	ReceiverOrganizationID uint64    `gorm:"not null;index" json:"receiver_organization_id"`
	Content                string    `gorm:"type:text;not null" json:"content"`
	CreatedAt              time.Time `json:"created_at"`

	// Relations
	Sender   Organization `gorm:"foreignKey:SenderOrganizationID;constraint:OnDelete:CASCADE" json:"-"`
	Receiver Organization `gorm:"foreignKey:ReceiverOrganizationID;constraint:OnDelete:CASCADE" json:"-"`
}
