package service

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

type walletStore interface {
	GetOrCreate(ctx context.Context, userID, currency string) (*models.Wallet, error)
	Credit(ctx context.Context, userID string, amount float64, txn models.WalletTransaction) error
	Debit(ctx context.Context, userID string, amount float64, txn models.WalletTransaction) error
	ListTransactions(ctx context.Context, userID string, limit int) ([]models.WalletTransaction, error)
}

// WalletService manages the internal credit ledger. Booking funds flow
// through it in three stages: a hold at creation, a refund on any
// cancellation or rejection, and a split payout to the tutor once the
// session is settled.
type WalletService struct {
	wallets        walletStore
	currency       string
	commissionRate float64
	platformUserID string
	logger         *zap.Logger
}

// NewWalletService constructs the service. commissionRate is the platform
// share of each settled booking, e.g. 0.05; platformUserID names the wallet
// that collects it, empty disables the commission leg.
func NewWalletService(wallets walletStore, currency string, commissionRate float64, platformUserID string, logger *zap.Logger) *WalletService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletService{
		wallets:        wallets,
		currency:       currency,
		commissionRate: commissionRate,
		platformUserID: platformUserID,
		logger:         logger,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Balance returns the user's wallet, creating it on first access.
func (s *WalletService) Balance(ctx context.Context, userID string) (*models.Wallet, error) {
	return s.wallets.GetOrCreate(ctx, userID, s.currency)
}

// TopUp credits purchased funds to a wallet.
func (s *WalletService) TopUp(ctx context.Context, userID string, amount float64) (*models.Wallet, error) {
	amount = roundCents(amount)
	if _, err := s.wallets.GetOrCreate(ctx, userID, s.currency); err != nil {
		return nil, err
	}

	txn := models.WalletTransaction{
		UserID:      userID,
		Type:        models.TxnPurchase,
		Amount:      amount,
		Description: "wallet top-up",
	}
	if err := s.wallets.Credit(ctx, userID, amount, txn); err != nil {
		return nil, err
	}
	return s.wallets.GetOrCreate(ctx, userID, s.currency)
}

// Transactions returns the user's ledger, newest first.
func (s *WalletService) Transactions(ctx context.Context, userID string, limit int) ([]models.WalletTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.wallets.ListTransactions(ctx, userID, limit)
}

// Hold escrows the lesson fee from the student's wallet against a booking.
func (s *WalletService) Hold(ctx context.Context, studentID, bookingID string, amount float64) error {
	amount = roundCents(amount)
	if _, err := s.wallets.GetOrCreate(ctx, studentID, s.currency); err != nil {
		return err
	}

	txn := models.WalletTransaction{
		UserID:      studentID,
		Type:        models.TxnBookingHold,
		Amount:      -amount,
		Description: fmt.Sprintf("hold for booking %s", bookingID),
		ReferenceID: bookingID,
	}
	return s.wallets.Debit(ctx, studentID, amount, txn)
}

// Refund returns a held fee to the student after a cancellation or rejection.
func (s *WalletService) Refund(ctx context.Context, studentID, bookingID string, amount float64) error {
	amount = roundCents(amount)
	txn := models.WalletTransaction{
		UserID:      studentID,
		Type:        models.TxnBookingRefund,
		Amount:      amount,
		Description: fmt.Sprintf("refund for booking %s", bookingID),
		ReferenceID: bookingID,
	}
	return s.wallets.Credit(ctx, studentID, amount, txn)
}

// ReleaseToTutor pays out a settled booking: the tutor receives the held
// amount minus the platform commission.
func (s *WalletService) ReleaseToTutor(ctx context.Context, tutorID, bookingID string, amount float64) error {
	commission := roundCents(amount * s.commissionRate)
	payout := roundCents(amount - commission)

	if _, err := s.wallets.GetOrCreate(ctx, tutorID, s.currency); err != nil {
		return err
	}

	txn := models.WalletTransaction{
		UserID:      tutorID,
		Type:        models.TxnTutorPayout,
		Amount:      payout,
		Description: fmt.Sprintf("payout for booking %s (commission %.2f)", bookingID, commission),
		ReferenceID: bookingID,
	}
	if err := s.wallets.Credit(ctx, tutorID, payout, txn); err != nil {
		return err
	}

	if commission > 0 && s.platformUserID != "" {
		if _, err := s.wallets.GetOrCreate(ctx, s.platformUserID, s.currency); err != nil {
			return err
		}
		commissionTxn := models.WalletTransaction{
			UserID:      s.platformUserID,
			Type:        models.TxnCommission,
			Amount:      commission,
			Description: fmt.Sprintf("commission for booking %s", bookingID),
			ReferenceID: bookingID,
		}
		if err := s.wallets.Credit(ctx, s.platformUserID, commission, commissionTxn); err != nil {
			s.logger.Warn("failed to collect commission", zap.String("booking_id", bookingID), zap.Error(err))
		}
	}

	s.logger.Info("booking settled",
		zap.String("booking_id", bookingID),
		zap.String("tutor_id", tutorID),
		zap.Float64("payout", payout),
		zap.Float64("commission", commission),
	)
	return nil
}
