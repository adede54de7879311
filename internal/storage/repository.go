// Package storage persists ledger snapshots to SQLite. The database is
// a mirror of the in-memory store: the whole snapshot is written on
// every save, and read back once at startup.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"pettycash/internal/core"
	"pettycash/internal/ledger"
)

const fundsKey = "available_funds_cents"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadSnapshot reads the persisted state. The second return value is
// false when nothing has been saved yet (first run).
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context) (ledger.Snapshot, bool, error) {
	var snap ledger.Snapshot

	var fundsStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM ledger_settings WHERE key = ?`, fundsKey).Scan(&fundsStr)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ledger.Snapshot{}, false, nil
	case err != nil:
		return ledger.Snapshot{}, false, fmt.Errorf("read available funds: %w", err)
	}
	cents, err := strconv.ParseInt(fundsStr, 10, 64)
	if err != nil {
		return ledger.Snapshot{}, false, fmt.Errorf("parse available funds %q: %w", fundsStr, err)
	}
	snap.AvailableFunds = core.Money{Cents: cents}

	txs, err := r.ListTransactions(ctx)
	if err != nil {
		return ledger.Snapshot{}, false, err
	}
	snap.Transactions = txs

	slog.InfoContext(ctx, "Snapshot loaded from SQLite",
		"transactions", len(snap.Transactions),
		"available_funds_cents", snap.AvailableFunds.Cents)
	return snap, true, nil
}

// SaveSnapshot replaces the persisted state wholesale in one database
// transaction. In-memory state is the source of truth, so a failed save
// is reported but never rolls anything back upstream.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, snap ledger.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions
			(id, borrow_date, amount_cents, returned_cents, borrower,
			 contact, description, return_date, return_notes, attachment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range snap.Transactions {
		if _, err := stmt.ExecContext(ctx,
			t.ID,
			t.BorrowDate.String(),
			t.Amount.Cents,
			t.ReturnedAmount.Cents,
			t.Borrower,
			t.Contact,
			t.Description,
			t.ReturnDate.String(),
			t.ReturnNotes,
			t.Attachment,
			t.CreatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		fundsKey, strconv.FormatInt(snap.AvailableFunds.Cents, 10),
	); err != nil {
		return fmt.Errorf("save available funds: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// GetTransaction reads a single persisted transaction, used by the sync
// worker to resolve queue messages.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, borrow_date, amount_cents, returned_cents, borrower,
		       contact, description, return_date, return_notes, attachment, created_at
		FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return t, err
}

// ListTransactions returns all persisted transactions, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, borrow_date, amount_cents, returned_cents, borrower,
		       contact, description, return_date, return_notes, attachment, created_at
		FROM transactions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                      core.Transaction
		borrowDate, returnDate string
		createdAt              string
	)
	err := row.Scan(
		&t.ID,
		&borrowDate,
		&t.Amount.Cents,
		&t.ReturnedAmount.Cents,
		&t.Borrower,
		&t.Contact,
		&t.Description,
		&returnDate,
		&t.ReturnNotes,
		&t.Attachment,
		&createdAt,
	)
	if err != nil {
		return core.Transaction{}, err
	}

	if t.BorrowDate, err = core.ParseDate(borrowDate); err != nil {
		return core.Transaction{}, fmt.Errorf("parse borrow date %q: %w", borrowDate, err)
	}
	if returnDate != "" {
		if t.ReturnDate, err = core.ParseDate(returnDate); err != nil {
			return core.Transaction{}, fmt.Errorf("parse return date %q: %w", returnDate, err)
		}
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return t, nil
}
