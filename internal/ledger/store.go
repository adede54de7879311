// Package ledger owns the in-memory transaction set and the available
// funds float. The store is the single writer; persistence and remote
// sync are mirrors fed from snapshots, never the source of truth.
package ledger

import (
	"crypto/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"pettycash/internal/core"
)

// Snapshot is the unit of persistence: the full transaction set plus
// the administered float, round-tripped through the storage adapter.
type Snapshot struct {
	Transactions   []core.Transaction
	AvailableFunds core.Money
}

type Store struct {
	mu      sync.Mutex
	txs     []core.Transaction
	funds   core.Money
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

func New() *Store {
	return &Store{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// newID must be called with the mutex held; the monotonic entropy
// source is not safe for concurrent use.
func (s *Store) newID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// Add validates and appends a new transaction, assigning its ID and
// creation timestamp. The candidate's ID and CreatedAt are ignored.
func (s *Store) Add(candidate core.Transaction) (core.Transaction, error) {
	if err := candidate.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate.CreatedAt = s.now().UTC()
	candidate.ID = s.newID(candidate.CreatedAt)
	s.txs = append(s.txs, candidate)
	return candidate, nil
}

// Edit overwrites every editable field of the transaction with the
// given id. ID and CreatedAt are preserved. The store is left untouched
// when validation fails or the id is unknown.
func (s *Store) Edit(id string, candidate core.Transaction) (core.Transaction, error) {
	if err := candidate.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return core.Transaction{}, core.ErrNotFound
	}
	candidate.ID = s.txs[i].ID
	candidate.CreatedAt = s.txs[i].CreatedAt
	s.txs[i] = candidate
	return candidate, nil
}

// Return applies a repayment. The amount is deliberately unchecked: it
// may be negative or push the cumulative repayment past the borrowed
// amount. Only the return date is required. Available funds are not
// adjusted; the repayment only shrinks pending returns.
func (s *Store) Return(id string, amount core.Money, date core.Date, notes string) (core.Transaction, error) {
	if date.IsZero() {
		return core.Transaction{}, core.ErrMissingReturnDate
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return core.Transaction{}, core.ErrNotFound
	}
	s.txs[i].ReturnedAmount.Cents += amount.Cents
	s.txs[i].ReturnDate = date
	s.txs[i].ReturnNotes = notes
	return s.txs[i], nil
}

// Delete removes the transaction with the given id. Deleting an unknown
// id is a silent no-op; the bool reports whether anything was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false
	}
	s.txs = append(s.txs[:i], s.txs[i+1:]...)
	return true
}

func (s *Store) Get(id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return core.Transaction{}, core.ErrNotFound
	}
	return s.txs[i], nil
}

// List returns a copy of the set, newest first (CreatedAt descending,
// ties broken by ID so the order is stable).
func (s *Store) List() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]core.Transaction(nil), s.txs...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Filtered applies the filter to the newest-first listing.
func (s *Store) Filtered(f core.Filter) []core.Transaction {
	return f.Apply(s.List())
}

func (s *Store) Stats() core.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.CalculateStats(s.txs, s.funds)
}

func (s *Store) AvailableFunds() core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.funds
}

// SetAvailableFunds replaces the administered float. Negative values
// are rejected; the admin-secret gate lives in the service layer.
func (s *Store) SetAvailableFunds(m core.Money) error {
	if m.Cents < 0 {
		return core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funds = m
	return nil
}

// Snapshot copies the current state for persistence or sync.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Transactions:   append([]core.Transaction(nil), s.txs...),
		AvailableFunds: s.funds,
	}
}

// Restore replaces the state wholesale, used at startup.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append([]core.Transaction(nil), snap.Transactions...)
	s.funds = snap.AvailableFunds
}

func (s *Store) index(id string) int {
	for i := range s.txs {
		if s.txs[i].ID == id {
			return i
		}
	}
	return -1
}
