package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

// WalletRepository provides the credit ledger. Balance mutations are guarded
// SQL updates so two concurrent holds cannot overdraw a wallet.
type WalletRepository struct {
	db *sqlx.DB
}

// NewWalletRepository constructs the repository.
func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// GetOrCreate returns the user's wallet, creating an empty one on first use.
func (r *WalletRepository) GetOrCreate(ctx context.Context, userID, currency string) (*models.Wallet, error) {
	const query = `SELECT id, user_id, balance, currency, updated_at FROM wallets WHERE user_id = $1`

	var w models.Wallet
	err := r.db.GetContext(ctx, &w, query, userID)
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	w = models.Wallet{
		ID:        uuid.NewString(),
		UserID:    userID,
		Balance:   0,
		Currency:  currency,
		UpdatedAt: time.Now().UTC(),
	}
	const insert = `INSERT INTO wallets (id, user_id, balance, currency, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, insert, w.ID, w.UserID, w.Balance, w.Currency, w.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}
	return &w, nil
}

// Credit adds funds and records a ledger entry.
func (r *WalletRepository) Credit(ctx context.Context, userID string, amount float64, txn models.WalletTransaction) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %f", amount)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin credit: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const update = `UPDATE wallets SET balance = balance + $1, updated_at = $2 WHERE user_id = $3`
	res, err := tx.ExecContext(ctx, update, amount, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "wallet not found")
	}

	if err := insertTransaction(ctx, tx, txn); err != nil {
		return err
	}
	return tx.Commit()
}

// Debit withdraws funds and records a ledger entry. The balance guard in
// the WHERE clause is what makes concurrent holds safe: the losing update
// affects zero rows and surfaces as insufficient funds.
func (r *WalletRepository) Debit(ctx context.Context, userID string, amount float64, txn models.WalletTransaction) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %f", amount)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin debit: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const update = `UPDATE wallets SET balance = balance - $1, updated_at = $2 WHERE user_id = $3 AND balance >= $1`
	res, err := tx.ExecContext(ctx, update, amount, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("debit wallet: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit wallet: %w", err)
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrInsufficientFunds, "")
	}

	if err := insertTransaction(ctx, tx, txn); err != nil {
		return err
	}
	return tx.Commit()
}

// ListTransactions returns a user's ledger entries, newest first.
func (r *WalletRepository) ListTransactions(ctx context.Context, userID string, limit int) ([]models.WalletTransaction, error) {
	const query = `
SELECT id, user_id, type, amount, description, reference_id, created_at
FROM wallet_transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	var list []models.WalletTransaction
	if err := r.db.SelectContext(ctx, &list, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	return list, nil
}

func insertTransaction(ctx context.Context, tx *sqlx.Tx, txn models.WalletTransaction) error {
	const query = `
INSERT INTO wallet_transactions (id, user_id, type, amount, description, reference_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	if _, err := tx.ExecContext(ctx, query, txn.ID, txn.UserID, txn.Type, txn.Amount, txn.Description, txn.ReferenceID, txn.CreatedAt); err != nil {
		return fmt.Errorf("insert wallet transaction: %w", err)
	}
	return nil
}
