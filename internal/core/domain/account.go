package domain

import "time"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleBank  Role = "BANK"
)

// Account is the login identity. A BANK account owns exactly one BloodBank.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
