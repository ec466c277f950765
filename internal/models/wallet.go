package models

import "time"

// Wallet is a user's internal credit balance.
type Wallet struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Balance   float64   `db:"balance" json:"balance"`
	Currency  string    `db:"currency" json:"currency"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Wallet transaction types ledgered against bookings.
const (
	TxnPurchase      = "PURCHASE"
	TxnBookingHold   = "BOOKING_HOLD"
	TxnBookingRefund = "BOOKING_REFUND"
	TxnTutorPayout   = "BOOKING_PAYMENT_TUTOR"
	TxnCommission    = "BOOKING_COMMISSION"
)

// WalletTransaction is one ledger entry. Amount is signed: holds are
// negative, refunds and payouts positive.
type WalletTransaction struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Type        string    `db:"type" json:"type"`
	Amount      float64   `db:"amount" json:"amount"`
	Description string    `db:"description" json:"description"`
	ReferenceID string    `db:"reference_id" json:"reference_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
