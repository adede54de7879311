package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"pettycash/internal/core"
	"pettycash/internal/log"
	"pettycash/internal/report"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// The store is in memory; once the process is up it can serve.
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ready",
		"transactions": len(s.svc.ListTransactions(core.Filter{})),
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	txs := s.svc.ListTransactions(f)
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	candidate, err := req.toTransaction()
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.svc.AddTransaction(r.Context(), candidate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Transaction added",
		log.FieldTransaction, t.ID,
		log.FieldBorrower, t.Borrower,
		log.FieldAmountCents, t.Amount.Cents)

	writeJSON(w, http.StatusCreated, toJSON(t))
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	candidate, err := req.toTransaction()
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.svc.EditTransaction(r.Context(), id, candidate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toJSON(t))
}

type returnRequest struct {
	Amount     string `json:"amount"`
	ReturnDate string `json:"returnDate"`
	Notes      string `json:"notes"`
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req returnRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cents, err := core.ParseSignedDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, r, errBadRequest("invalid amount", err))
		return
	}

	var date core.Date
	if req.ReturnDate != "" {
		if date, err = core.ParseDate(req.ReturnDate); err != nil {
			writeError(w, r, errBadRequest("invalid returnDate", err))
			return
		}
	}

	t, err := s.svc.RecordReturn(r.Context(), id, core.Money{Cents: cents}, date, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Return recorded",
		log.FieldTransaction, t.ID,
		log.FieldAmountCents, cents)

	writeJSON(w, http.StatusOK, toJSON(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	// Deleting an unknown ID is a no-op, so delete always succeeds.
	s.svc.DeleteTransaction(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.svc.Stats()
	funds := s.svc.AvailableFunds()

	writeJSON(w, http.StatusOK, map[string]any{
		"totalBorrowed":       stats.TotalBorrowed.Format(),
		"totalBorrowedCents":  stats.TotalBorrowed.Cents,
		"totalReturned":       stats.TotalReturned.Format(),
		"totalReturnedCents":  stats.TotalReturned.Cents,
		"pendingReturns":      stats.PendingReturns.Format(),
		"pendingReturnsCents": stats.PendingReturns.Cents,
		"currentBalance":      stats.CurrentBalance.Format(),
		"currentBalanceCents": stats.CurrentBalance.Cents,
		"availableFunds":      funds.Format(),
		"availableFundsCents": funds.Cents,
	})
}

type fundsRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleSetFunds(w http.ResponseWriter, r *http.Request) {
	var req fundsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cents, err := core.ParseSignedDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, r, errBadRequest("invalid amount", err))
		return
	}

	secret := r.Header.Get("X-Admin-Secret")
	if err := s.svc.SetAvailableFunds(r.Context(), secret, core.Money{Cents: cents}); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"availableFunds":      s.svc.AvailableFunds().Format(),
		"availableFundsCents": s.svc.AvailableFunds().Cents,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	reportType := q.Get("type")
	if reportType == "" {
		reportType = "summary"
	}

	// An unknown or missing period falls back to the all-time window.
	period, _ := report.ParsePeriod(q.Get("period"))

	var from, to core.Date
	var err error
	if period == report.PeriodCustom {
		if from, err = core.ParseDate(q.Get("from")); err != nil {
			writeError(w, r, errBadRequest("invalid from date", err))
			return
		}
		if to, err = core.ParseDate(q.Get("to")); err != nil {
			writeError(w, r, errBadRequest("invalid to date", err))
			return
		}
	}

	now := time.Now()
	rng := report.ResolveRange(period, now, from, to, s.weekStart)
	rep := report.Build(reportType, period, rng, s.svc.ListTransactions(core.Filter{}), now)

	html, err := rep.HTML()
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Report generated",
		log.FieldPeriod, string(period),
		"transactions", rep.Stats.TotalTransactions)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	// The snapshot keeps insertion order, which is what the legacy
	// export emitted; the API listing is newest first instead.
	data := report.CSV(s.svc.Snapshot().Transactions)

	filename := fmt.Sprintf("petty-cash-export-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

func filterFromQuery(r *http.Request) (core.Filter, error) {
	q := r.URL.Query()

	f := core.Filter{
		Status:   core.ParseStatusFilter(q.Get("status")),
		Borrower: q.Get("borrower"),
	}

	var err error
	if v := q.Get("from"); v != "" {
		if f.From, err = core.ParseDate(v); err != nil {
			return core.Filter{}, errBadRequest("invalid from date", err)
		}
	}
	if v := q.Get("to"); v != "" {
		if f.To, err = core.ParseDate(v); err != nil {
			return core.Filter{}, errBadRequest("invalid to date", err)
		}
	}
	return f, nil
}
