package domain

import "time"

// Role is the access level of an admin panel user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// AuthMethod describes how a user signs in.
type AuthMethod string

const (
	AuthLocal AuthMethod = "local"
	AuthSSO   AuthMethod = "sso"
)

// User is an account managed on the users page.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	Auth         AuthMethod `json:"auth"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// RecordID returns the user id.
func (u User) RecordID() string { return u.ID }
