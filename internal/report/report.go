// Package report turns a transaction set into period-scoped aggregate
// reports: a printable HTML document and a flat CSV export.
package report

import (
	"errors"
	"strings"
	"time"

	"pettycash/internal/core"
)

const (
	PeriodToday   Period = "today"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
	PeriodCustom  Period = "custom"
)

var ErrInvalidPeriod = errors.New("invalid report period")

type (
	Period string

	// Range is an inclusive [Start, End] instant window.
	Range struct {
		Start time.Time
		End   time.Time
	}

	// Stats are the aggregates over the transactions inside the range.
	Stats struct {
		TotalTransactions int
		TotalBorrowed     core.Money
		TotalReturned     core.Money
		PendingReturns    core.Money
		BorrowedCount     int
		ReturnedCount     int
	}

	Report struct {
		Type         string
		Period       Period
		Range        Range
		GeneratedAt  time.Time
		Stats        Stats
		Transactions []core.Transaction
	}
)

// ParsePeriod validates a period tag.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear, PeriodCustom:
		return p, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// ResolveRange computes the inclusive window for a period tag. Calendar
// math uses the Y/M/D of now in UTC, matching the date-only midnight
// instants of borrow dates. Custom ranges take from/to verbatim as
// midnight instants with no extra padding; since borrow dates are
// midnight instants too, the To day is still included. Unknown tags fall
// back to all-time [epoch, now].
func ResolveRange(p Period, now time.Time, from, to core.Date, weekStart time.Weekday) Range {
	year, month, day := now.UTC().Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	endOf := func(t time.Time) time.Time {
		return t.Add(24*time.Hour - time.Second) // 23:59:59
	}

	switch p {
	case PeriodToday:
		return Range{Start: today, End: endOf(today)}
	case PeriodWeek:
		back := (int(now.UTC().Weekday()) - int(weekStart) + 7) % 7
		start := today.AddDate(0, 0, -back)
		return Range{Start: start, End: endOf(start.AddDate(0, 0, 6))}
	case PeriodMonth:
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		return Range{Start: start, End: endOf(start.AddDate(0, 1, -1))}
	case PeriodQuarter:
		qm := time.Month((int(month)-1)/3*3 + 1)
		start := time.Date(year, qm, 1, 0, 0, 0, 0, time.UTC)
		return Range{Start: start, End: endOf(start.AddDate(0, 3, -1))}
	case PeriodYear:
		start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		return Range{Start: start, End: endOf(time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC))}
	case PeriodCustom:
		return Range{Start: from.Time, End: to.Time}
	default:
		return Range{Start: time.Unix(0, 0).UTC(), End: now}
	}
}

// Contains reports whether the instant falls inside the window.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Build filters the set to transactions whose borrow date falls within
// the range and aggregates over that subset. Input order is preserved.
func Build(reportType string, p Period, rng Range, txs []core.Transaction, generatedAt time.Time) Report {
	rep := Report{
		Type:        reportType,
		Period:      p,
		Range:       rng,
		GeneratedAt: generatedAt,
	}
	for _, t := range txs {
		if !rng.Contains(t.BorrowDate.Time) {
			continue
		}
		rep.Transactions = append(rep.Transactions, t)
		rep.Stats.TotalTransactions++
		rep.Stats.TotalBorrowed.Cents += t.Amount.Cents
		rep.Stats.TotalReturned.Cents += t.ReturnedAmount.Cents
		switch t.Status() {
		case core.StatusBorrowed:
			rep.Stats.BorrowedCount++
			rep.Stats.PendingReturns.Cents += t.Outstanding().Cents
		case core.StatusReturned:
			rep.Stats.ReturnedCount++
		}
	}
	return rep
}
