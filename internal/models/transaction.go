package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a confirmed record persisted after the user accepts a parsed
// draft. Date and time are kept as the pipeline's canonical string forms.
type Transaction struct {
	ID              uuid.UUID `db:"id"`
	UserID          uuid.UUID `db:"user_id"`
	Amount          *float64  `db:"amount"`
	TransactionType string    `db:"transaction_type"`
	Category        string    `db:"category"`
	MerchantName    string    `db:"merchant_name"`
	Description     string    `db:"description"`
	PaymentMethod   string    `db:"payment_method"`
	Location        string    `db:"location"`
	TransactionDate string    `db:"transaction_date"`
	TransactionTime string    `db:"transaction_time"`
	Confidence      float64   `db:"confidence"`
	CreatedAt       time.Time `db:"created_at"`
}
