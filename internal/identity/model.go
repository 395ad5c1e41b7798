package identity

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleClient Role = "client"
	RoleLawyer Role = "lawyer"
	RoleAdmin  Role = "admin"
)

// Valid reports whether the role is a member of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleLawyer, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Credentials request structure.
type Credentials struct {
	Name     string
	Email    string
	Password string
}
