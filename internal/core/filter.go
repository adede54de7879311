package core

import "strings"

const (
	FilterAll      StatusFilter = "all"
	FilterBorrowed StatusFilter = "borrowed"
	FilterReturned StatusFilter = "returned"
)

type (
	StatusFilter string

	// Filter selects transactions by status, borrow-date window and
	// borrower substring. Zero-valued criteria place no constraint.
	Filter struct {
		Status   StatusFilter
		From     Date
		To       Date
		Borrower string
	}
)

// ParseStatusFilter maps a request value onto a StatusFilter. Anything
// unrecognized (including empty) means no status constraint.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterBorrowed:
		return FilterBorrowed
	case FilterReturned:
		return FilterReturned
	default:
		return FilterAll
	}
}

// Matches reports whether the transaction satisfies every set criterion.
func (f Filter) Matches(t Transaction) bool {
	if f.Status != "" && f.Status != FilterAll && Status(f.Status) != t.Status() {
		return false
	}
	if !f.From.IsZero() && t.BorrowDate.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && t.BorrowDate.After(f.To.Time) {
		return false
	}
	if f.Borrower != "" && !strings.Contains(strings.ToLower(t.Borrower), strings.ToLower(f.Borrower)) {
		return false
	}
	return true
}

// Apply returns the matching subset in input order. Callers re-sort for
// display.
func (f Filter) Apply(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
