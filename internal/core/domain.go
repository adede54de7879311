package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"
)

type (
	// Status is derived from the amounts, never stored independently.
	Status string

	// Date is a calendar date. The time-of-day part is always midnight UTC.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single cash advance and its cumulative repayment.
	Transaction struct {
		ID             string
		BorrowDate     Date
		Amount         Money
		ReturnedAmount Money
		Borrower       string
		Contact        string
		Description    string
		ReturnDate     Date // zero until the first repayment
		ReturnNotes    string
		Attachment     string // base64 data URI, optional
		CreatedAt      time.Time
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrMissingBorrower   = errors.New("borrower is required")
	ErrMissingBorrowDate = errors.New("borrow date is required")
	ErrMissingReturnDate = errors.New("return date is required")
	ErrNegativeReturn    = errors.New("returned amount cannot be negative")
	ErrReturnOverAmount  = errors.New("returned amount cannot exceed borrow amount")
	ErrNotFound          = errors.New("transaction not found")
)

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// IsEmpty reports whether the date is unset.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Status derives the lifecycle state: returned once the cumulative
// repayment covers the borrowed amount.
func (t Transaction) Status() Status {
	if t.ReturnedAmount.Cents >= t.Amount.Cents {
		return StatusReturned
	}
	return StatusBorrowed
}

// Outstanding is the unreturned remainder. Negative when overpaid.
func (t Transaction) Outstanding() Money {
	return Money{Cents: t.Amount.Cents - t.ReturnedAmount.Cents}
}

// Validate enforces the add/edit rules. The return operation is exempt
// from the upper bound on ReturnedAmount; see the store's Return method.
func (t Transaction) Validate() error {
	if t.BorrowDate.IsZero() {
		return ErrMissingBorrowDate
	}
	if strings.TrimSpace(t.Borrower) == "" {
		return ErrMissingBorrower
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.ReturnedAmount.Cents < 0 {
		return ErrNegativeReturn
	}
	if t.ReturnedAmount.Cents > t.Amount.Cents {
		return ErrReturnOverAmount
	}
	return nil
}
