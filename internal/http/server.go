// Package http exposes the ledger over HTTP: a JSON API for the
// transaction lifecycle, a printable HTML report and a CSV export.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"pettycash/internal/middleware/trace"
	"pettycash/internal/service"
)

type Server struct {
	http.Server
	svc       *service.LedgerService
	weekStart time.Weekday
	startedAt time.Time
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc *service.LedgerService, weekStart time.Weekday) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:       svc,
		weekStart: weekStart,
		startedAt: time.Now(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleAddTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleEditTransaction)
	mux.HandleFunc("POST /api/transactions/{id}/return", s.handleReturn)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("PUT /api/funds", s.handleSetFunds)

	mux.HandleFunc("GET /report", s.handleReport)
	mux.HandleFunc("GET /export", s.handleExport)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           trace.Middleware(withSecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.InfoContext(ctx, "Shutting down HTTP server")
	return s.Server.Shutdown(ctx)
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
