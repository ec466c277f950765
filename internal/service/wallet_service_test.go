package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type walletStoreStub struct {
	balances map[string]float64
	ledger   []models.WalletTransaction
}

func newWalletStoreStub() *walletStoreStub {
	return &walletStoreStub{balances: map[string]float64{}}
}

func (s *walletStoreStub) GetOrCreate(ctx context.Context, userID, currency string) (*models.Wallet, error) {
	if _, ok := s.balances[userID]; !ok {
		s.balances[userID] = 0
	}
	return &models.Wallet{UserID: userID, Balance: s.balances[userID], Currency: currency}, nil
}

func (s *walletStoreStub) Credit(ctx context.Context, userID string, amount float64, txn models.WalletTransaction) error {
	s.balances[userID] += amount
	s.ledger = append(s.ledger, txn)
	return nil
}

func (s *walletStoreStub) Debit(ctx context.Context, userID string, amount float64, txn models.WalletTransaction) error {
	if s.balances[userID] < amount {
		return appErrors.Clone(appErrors.ErrInsufficientFunds, "")
	}
	s.balances[userID] -= amount
	s.ledger = append(s.ledger, txn)
	return nil
}

func (s *walletStoreStub) ListTransactions(ctx context.Context, userID string, limit int) ([]models.WalletTransaction, error) {
	var out []models.WalletTransaction
	for _, txn := range s.ledger {
		if txn.UserID == userID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (s *walletStoreStub) byType(txnType string) []models.WalletTransaction {
	var out []models.WalletTransaction
	for _, txn := range s.ledger {
		if txn.Type == txnType {
			out = append(out, txn)
		}
	}
	return out
}

func TestWalletTopUpAndBalance(t *testing.T) {
	store := newWalletStoreStub()
	svc := NewWalletService(store, "EUR", 0.05, "", nil)

	wallet, err := svc.TopUp(context.Background(), "student-1", 100.005)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, wallet.Balance, 0.001)
	assert.Equal(t, "EUR", wallet.Currency)

	txns := store.byType(models.TxnPurchase)
	require.Len(t, txns, 1)
	assert.InDelta(t, 100.0, txns[0].Amount, 0.001)
}

func TestWalletHoldAndRefund(t *testing.T) {
	store := newWalletStoreStub()
	svc := NewWalletService(store, "EUR", 0.05, "", nil)

	_, err := svc.TopUp(context.Background(), "student-1", 100)
	require.NoError(t, err)

	require.NoError(t, svc.Hold(context.Background(), "student-1", "bk-1", 60))
	assert.InDelta(t, 40.0, store.balances["student-1"], 0.001)

	holds := store.byType(models.TxnBookingHold)
	require.Len(t, holds, 1)
	assert.InDelta(t, -60.0, holds[0].Amount, 0.001)
	assert.Equal(t, "bk-1", holds[0].ReferenceID)

	// a second hold beyond the remaining balance is refused
	err = svc.Hold(context.Background(), "student-1", "bk-2", 60)
	assert.Equal(t, appErrors.ErrInsufficientFunds.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Refund(context.Background(), "student-1", "bk-1", 60))
	assert.InDelta(t, 100.0, store.balances["student-1"], 0.001)
}

func TestWalletReleaseToTutorSplitsCommission(t *testing.T) {
	store := newWalletStoreStub()
	svc := NewWalletService(store, "EUR", 0.05, "platform", nil)

	require.NoError(t, svc.ReleaseToTutor(context.Background(), "tutor-1", "bk-1", 60))

	assert.InDelta(t, 57.0, store.balances["tutor-1"], 0.001)
	assert.InDelta(t, 3.0, store.balances["platform"], 0.001)

	payouts := store.byType(models.TxnTutorPayout)
	require.Len(t, payouts, 1)
	assert.Equal(t, "tutor-1", payouts[0].UserID)
	assert.Equal(t, "bk-1", payouts[0].ReferenceID)

	commissions := store.byType(models.TxnCommission)
	require.Len(t, commissions, 1)
	assert.Equal(t, "platform", commissions[0].UserID)
	assert.InDelta(t, 3.0, commissions[0].Amount, 0.001)
}

func TestWalletReleaseWithoutPlatformWallet(t *testing.T) {
	store := newWalletStoreStub()
	svc := NewWalletService(store, "EUR", 0.05, "", nil)

	require.NoError(t, svc.ReleaseToTutor(context.Background(), "tutor-1", "bk-1", 33.33))

	// 33.33 * 0.05 rounds to 1.67
	assert.InDelta(t, 31.66, store.balances["tutor-1"], 0.001)
	assert.Empty(t, store.byType(models.TxnCommission))
}
