package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pettycash/internal/core"
	"pettycash/internal/log"
	"pettycash/internal/middleware/trace"
	"pettycash/internal/service"
)

// transactionJSON is the wire shape of a transaction. Amounts travel
// both as decimal strings for display and as cents for arithmetic.
type transactionJSON struct {
	ID             string    `json:"id"`
	BorrowDate     string    `json:"borrowDate"`
	Amount         string    `json:"amount"`
	AmountCents    int64     `json:"amountCents"`
	ReturnedAmount string    `json:"returnedAmount"`
	ReturnedCents  int64     `json:"returnedCents"`
	Borrower       string    `json:"borrower"`
	Contact        string    `json:"contact,omitempty"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	ReturnDate     string    `json:"returnDate,omitempty"`
	ReturnNotes    string    `json:"returnNotes,omitempty"`
	Attachment     string    `json:"attachment,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:             t.ID,
		BorrowDate:     t.BorrowDate.String(),
		Amount:         t.Amount.Format(),
		AmountCents:    t.Amount.Cents,
		ReturnedAmount: t.ReturnedAmount.Format(),
		ReturnedCents:  t.ReturnedAmount.Cents,
		Borrower:       t.Borrower,
		Contact:        t.Contact,
		Description:    t.Description,
		Status:         string(t.Status()),
		ReturnDate:     t.ReturnDate.String(),
		ReturnNotes:    t.ReturnNotes,
		Attachment:     t.Attachment,
		CreatedAt:      t.CreatedAt,
	}
}

// transactionRequest is the add/edit payload. Amounts are decimal
// strings like the form fields they came from.
type transactionRequest struct {
	BorrowDate     string `json:"borrowDate"`
	Amount         string `json:"amount"`
	ReturnedAmount string `json:"returnedAmount"`
	Borrower       string `json:"borrower"`
	Contact        string `json:"contact"`
	Description    string `json:"description"`
	ReturnDate     string `json:"returnDate"`
	ReturnNotes    string `json:"returnNotes"`
	Attachment     string `json:"attachment"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	var t core.Transaction

	if req.BorrowDate != "" {
		d, err := core.ParseDate(req.BorrowDate)
		if err != nil {
			return core.Transaction{}, errBadRequest("invalid borrowDate", err)
		}
		t.BorrowDate = d
	}
	if req.ReturnDate != "" {
		d, err := core.ParseDate(req.ReturnDate)
		if err != nil {
			return core.Transaction{}, errBadRequest("invalid returnDate", err)
		}
		t.ReturnDate = d
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, errBadRequest("invalid amount", err)
	}
	t.Amount = core.Money{Cents: cents}

	if req.ReturnedAmount != "" {
		returned, err := core.ParseDecimalToCents(req.ReturnedAmount)
		if err != nil {
			return core.Transaction{}, errBadRequest("invalid returnedAmount", err)
		}
		t.ReturnedAmount = core.Money{Cents: returned}
	}

	t.Borrower = req.Borrower
	t.Contact = req.Contact
	t.Description = req.Description
	t.ReturnNotes = req.ReturnNotes
	t.Attachment = req.Attachment
	return t, nil
}

// badRequestError marks malformed input, as opposed to input that
// parsed but violates a domain rule.
type badRequestError struct {
	msg string
	err error
}

func (e *badRequestError) Error() string { return e.msg + ": " + e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

func errBadRequest(msg string, err error) error {
	return &badRequestError{msg: msg, err: err}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var badReq *badRequestError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &badReq):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrMissingBorrower),
		errors.Is(err, core.ErrMissingBorrowDate),
		errors.Is(err, core.ErrMissingReturnDate),
		errors.Is(err, core.ErrNegativeReturn),
		errors.Is(err, core.ErrReturnOverAmount):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			log.FieldRequestID, trace.GetRequestID(r.Context()),
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errBadRequest("invalid request body", err)
	}
	return nil
}
