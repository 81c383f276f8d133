package domain

import "time"

type Donor struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	BloodGroup BloodGroup `json:"blood_group"`
	Phone      string     `json:"phone"`
	City       string     `json:"city"`
	Email      *string    `json:"email,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// SOSRequest is an unauthenticated urgent blood-need posting.
type SOSRequest struct {
	ID            string     `json:"id"`
	RequesterName string     `json:"requester_name"`
	BloodGroup    BloodGroup `json:"blood_group"`
	City          string     `json:"city"`
	Phone         string     `json:"phone"`
	HospitalName  *string    `json:"hospital_name,omitempty"`
	Address       *string    `json:"address,omitempty"`
	UrgencyNotes  *string    `json:"urgency_notes,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
}

// RecordFilter narrows donor and SOS listings. Empty fields match everything.
type RecordFilter struct {
	City       string
	BloodGroup BloodGroup
	Limit      int
}
