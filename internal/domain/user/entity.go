package user

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	Status       Status

	// Biometric enrollment. FaceEmbedding set implies FaceConsentAt set.
	FaceEmbedding []float64
	FaceConsentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
