package core

// Stats are the four ledger aggregates shown on the dashboard.
type Stats struct {
	TotalBorrowed  Money
	TotalReturned  Money
	PendingReturns Money
	CurrentBalance Money
}

// CalculateStats computes the aggregates over the full transaction set.
// CurrentBalance is the administered float minus everything still out.
// An empty set yields zeros with CurrentBalance = availableFunds.
func CalculateStats(txs []Transaction, availableFunds Money) Stats {
	var s Stats
	for _, t := range txs {
		s.TotalBorrowed.Cents += t.Amount.Cents
		s.TotalReturned.Cents += t.ReturnedAmount.Cents
		if t.Status() == StatusBorrowed {
			s.PendingReturns.Cents += t.Outstanding().Cents
		}
	}
	s.CurrentBalance.Cents = availableFunds.Cents - s.PendingReturns.Cents
	return s
}
