package model

import "time"

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

func ValidRole(role string) bool {
	return role == RolePatient || role == RoleDoctor || role == RoleAdmin
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Approved     bool      `json:"approved"`
	Blocked      bool      `json:"blocked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AccountUser is the user representation returned by the API; it never
// carries the password hash.
type AccountUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
	Blocked  bool   `json:"blocked"`
}

func (u User) Account() AccountUser {
	return AccountUser{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		Approved: u.Approved,
		Blocked:  u.Blocked,
	}
}
