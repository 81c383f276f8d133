package domain

// BloodBankRegistration is the raw sign-up form of a blood bank.
type BloodBankRegistration struct {
	Username        string   `json:"username" validate:"required,max=150,username"`
	Password        string   `json:"password1" validate:"required,min=8,max=72,notnumeric"`
	PasswordConfirm string   `json:"password2" validate:"required,eqfield=Password"`
	Name            string   `json:"name" validate:"required,max=200"`
	City            string   `json:"city" validate:"required,max=100"`
	Address         string   `json:"address" validate:"required"`
	Phone           string   `json:"phone" validate:"required,max=15"`
	Email           string   `json:"email" validate:"omitempty,email,max=254"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type DonorRegistration struct {
	Name       string `json:"name" validate:"required,max=200"`
	BloodGroup string `json:"blood_group" validate:"required,bloodgroup"`
	Phone      string `json:"phone" validate:"required,max=15"`
	City       string `json:"city" validate:"required,max=100"`
	Email      string `json:"email" validate:"omitempty,email,max=254"`
}

type SOSSubmission struct {
	RequesterName string `json:"requester_name" validate:"required,max=200"`
	BloodGroup    string `json:"blood_group" validate:"required,bloodgroup"`
	City          string `json:"city" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"required,max=15"`
	HospitalName  string `json:"hospital_name" validate:"max=200"`
	Address       string `json:"address"`
	UrgencyNotes  string `json:"urgency_notes"`
}
