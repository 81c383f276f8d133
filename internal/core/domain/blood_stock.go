package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BloodStock struct {
	ID           string          `json:"id"`
	BloodBankID  string          `json:"blood_bank_id"`
	BloodGroup   BloodGroup      `json:"blood_group"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	IsAvailable  bool            `json:"is_available"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// DefaultStock is the row created for a group the bank has no stock entry for.
func DefaultStock(bankID string, group BloodGroup) BloodStock {
	return BloodStock{
		BloodBankID:  bankID,
		BloodGroup:   group,
		Quantity:     0,
		PricePerUnit: decimal.Zero,
		IsAvailable:  false,
	}
}

// StockUpdate carries the editable fields of one stock row.
type StockUpdate struct {
	StockID      string          `json:"id"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	IsAvailable  bool            `json:"is_available"`
}

// StockWithBank is a stock row joined with the owning bank's name and city,
// as needed by the mirror row layout.
type StockWithBank struct {
	BloodStock
	BankName string
	BankCity string
}
