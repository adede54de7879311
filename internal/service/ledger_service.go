// Package service orchestrates ledger operations across the in-memory
// store, the SQLite snapshot mirror and the AMQP sync queue.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pettycash/internal/amqp"
	"pettycash/internal/core"
	"pettycash/internal/ledger"
)

// ErrUnauthorized is returned when an admin-gated operation is called
// with the wrong secret.
var ErrUnauthorized = errors.New("admin secret mismatch")

// SnapshotSaver persists the full ledger state.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, snap ledger.Snapshot) error
	Close() error
}

// SyncPublisher announces transaction changes to the sync queue.
type SyncPublisher interface {
	PublishSync(ctx context.Context, id, op string) error
	Close() error
}

// LedgerService wraps the store with persistence and change events.
// The in-memory store is the source of truth; snapshot saves and queue
// publishes are best-effort and never fail the caller's request.
type LedgerService struct {
	store       *ledger.Store
	saver       SnapshotSaver
	publisher   SyncPublisher
	adminSecret string
}

func NewLedgerService(store *ledger.Store, saver SnapshotSaver, publisher SyncPublisher, adminSecret string) *LedgerService {
	return &LedgerService{
		store:       store,
		saver:       saver,
		publisher:   publisher,
		adminSecret: adminSecret,
	}
}

// AddTransaction validates and records a new borrow entry.
func (s *LedgerService) AddTransaction(ctx context.Context, candidate core.Transaction) (core.Transaction, error) {
	t, err := s.store.Add(candidate)
	if err != nil {
		return core.Transaction{}, err
	}
	s.persist(ctx)
	s.publish(ctx, t.ID, amqp.OpUpsert)
	return t, nil
}

// EditTransaction replaces the mutable fields of an existing entry.
func (s *LedgerService) EditTransaction(ctx context.Context, id string, candidate core.Transaction) (core.Transaction, error) {
	t, err := s.store.Edit(id, candidate)
	if err != nil {
		return core.Transaction{}, err
	}
	s.persist(ctx)
	s.publish(ctx, t.ID, amqp.OpUpsert)
	return t, nil
}

// RecordReturn adds a repayment against an entry.
func (s *LedgerService) RecordReturn(ctx context.Context, id string, amount core.Money, date core.Date, notes string) (core.Transaction, error) {
	t, err := s.store.Return(id, amount, date, notes)
	if err != nil {
		return core.Transaction{}, err
	}
	s.persist(ctx)
	s.publish(ctx, t.ID, amqp.OpUpsert)
	return t, nil
}

// DeleteTransaction removes an entry. Deleting an unknown ID is a
// silent no-op and publishes nothing.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) {
	if !s.store.Delete(id) {
		return
	}
	s.persist(ctx)
	s.publish(ctx, id, amqp.OpDelete)
}

func (s *LedgerService) GetTransaction(id string) (core.Transaction, error) {
	return s.store.Get(id)
}

func (s *LedgerService) ListTransactions(f core.Filter) []core.Transaction {
	return s.store.Filtered(f)
}

func (s *LedgerService) Stats() core.Stats {
	return s.store.Stats()
}

func (s *LedgerService) AvailableFunds() core.Money {
	return s.store.AvailableFunds()
}

// SetAvailableFunds updates the fund pool. Gated behind the admin
// secret because it rewrites the ledger baseline.
func (s *LedgerService) SetAvailableFunds(ctx context.Context, secret string, m core.Money) error {
	if secret != s.adminSecret {
		return ErrUnauthorized
	}
	if err := s.store.SetAvailableFunds(m); err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}

// Snapshot exposes the current full state, used by the autosave loop.
func (s *LedgerService) Snapshot() ledger.Snapshot {
	return s.store.Snapshot()
}

// SaveSnapshot writes the current state through the configured saver.
func (s *LedgerService) SaveSnapshot(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	return s.saver.SaveSnapshot(ctx, s.store.Snapshot())
}

func (s *LedgerService) persist(ctx context.Context) {
	if s.saver == nil {
		return
	}
	if err := s.saver.SaveSnapshot(ctx, s.store.Snapshot()); err != nil {
		slog.ErrorContext(ctx, "Failed to save ledger snapshot", "error", err)
	}
}

func (s *LedgerService) publish(ctx context.Context, id, op string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, id, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"transaction_id", id, "op", op, "error", err)
	}
}

// Close closes the saver and the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.saver != nil {
		if err := s.saver.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
