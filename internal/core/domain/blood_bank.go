package domain

import "time"

type BloodBank struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"-"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	City       string    `json:"city"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	Email      *string   `json:"email,omitempty"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (b *BloodBank) HasLocation() bool {
	return b.Latitude != nil && b.Longitude != nil
}

// BankSearch filters the public bank listing. Empty fields match everything.
type BankSearch struct {
	City         string
	BloodGroup   BloodGroup
	WithLocation bool
}
