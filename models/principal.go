package models

// Role tags the authenticated principal.
type Role string

const (
	RoleBarber   Role = "BARBER"
	RoleCustomer Role = "CUSTOMER"
)

// Principal is the session identity resolved once at the HTTP boundary by
// the auth middleware. The core trusts UserID as given.
type Principal struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}
