package models

// ScopedRecord is implemented by every record owned by one organization.
type ScopedRecord interface {
	GetID() uint64
	GetOrganizationID() uint64
	SetOrganizationID(id uint64)
}

// ScopedPtr constrains generic code to pointers of scoped record types.
type ScopedPtr[T any] interface {
	*T
	ScopedRecord
}

// OrgScope is embedded by scoped records to carry the owning organization.
type OrgScope struct {
	OrganizationID uint64 `gorm:"not null;index" json:"organization_id"`
}

func (s *OrgScope) GetOrganizationID() uint64 {
	return s.OrganizationID
}

func (s *OrgScope) SetOrganizationID(id uint64) {
	s.OrganizationID = id
}
