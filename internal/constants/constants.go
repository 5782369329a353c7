package constants

// Session and context keys
const (
	SessionCookieName = "church_session"

	SessionKeyUserID         = "user_id"
	SessionKeyRole           = "role"
	SessionKeyOrganizationID = "organization_id"

	ContextKeyIdentity  = "identity"
	ContextKeyRecordID  = "record_id"
	ContextKeyRequestID = "request_id"

	HeaderRequestID = "X-Request-ID"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// MinPasswordLength is the shortest credential accepted at registration.
const MinPasswordLength = 8
