package ledger

import (
	"pettycash/internal/core"
)

// DefaultAvailableFunds seeds the administered float on first run.
var DefaultAvailableFunds = core.Money{Cents: 500000}

// SeedSample fills an empty store with the demo records shown on first
// launch. Existing state is never overwritten.
func (s *Store) SeedSample() {
	s.mu.Lock()
	if len(s.txs) > 0 {
		s.mu.Unlock()
		return
	}
	s.funds = DefaultAvailableFunds
	s.mu.Unlock()

	samples := []core.Transaction{
		{
			BorrowDate:  core.NewDate(2025, 7, 10),
			Amount:      core.Money{Cents: 15000},
			Borrower:    "John Smith",
			Contact:     "john@example.com",
			Description: "Office supplies purchase",
		},
		{
			BorrowDate:     core.NewDate(2025, 7, 9),
			Amount:         core.Money{Cents: 7500},
			ReturnedAmount: core.Money{Cents: 7500},
			Borrower:       "Sarah Johnson",
			Contact:        "+1234567890",
			Description:    "Client lunch meeting",
			ReturnDate:     core.NewDate(2025, 7, 11),
			ReturnNotes:    "Returned with receipt",
		},
		{
			BorrowDate:  core.NewDate(2025, 7, 8),
			Amount:      core.Money{Cents: 20000},
			Borrower:    "Mike Wilson",
			Contact:     "mike@example.com",
			Description: "Travel expenses",
		},
	}
	for _, tx := range samples {
		// Validation cannot fail on the fixed sample data.
		_, _ = s.Add(tx)
	}
}
