package service

import (
	"context"
	"errors"
	"testing"

	"pettycash/internal/core"
	"pettycash/internal/ledger"
)

type fakeSaver struct {
	saves   int
	lastLen int
	fail    bool
}

func (f *fakeSaver) SaveSnapshot(_ context.Context, snap ledger.Snapshot) error {
	if f.fail {
		return errors.New("disk full")
	}
	f.saves++
	f.lastLen = len(snap.Transactions)
	return nil
}

func (f *fakeSaver) Close() error { return nil }

type published struct {
	id string
	op string
}

type fakePublisher struct {
	events []published
}

func (f *fakePublisher) PublishSync(_ context.Context, id, op string) error {
	f.events = append(f.events, published{id: id, op: op})
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func newService() (*LedgerService, *fakeSaver, *fakePublisher) {
	saver := &fakeSaver{}
	pub := &fakePublisher{}
	return NewLedgerService(ledger.New(), saver, pub, "admin123"), saver, pub
}

func candidate() core.Transaction {
	return core.Transaction{
		BorrowDate: core.NewDate(2025, 7, 10),
		Amount:     core.Money{Cents: 15000},
		Borrower:   "John Smith",
	}
}

func TestAddPersistsAndPublishes(t *testing.T) {
	svc, saver, pub := newService()
	ctx := context.Background()

	got, err := svc.AddTransaction(ctx, candidate())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected assigned ID")
	}
	if saver.saves != 1 || saver.lastLen != 1 {
		t.Fatalf("saves=%d lastLen=%d", saver.saves, saver.lastLen)
	}
	if len(pub.events) != 1 || pub.events[0].id != got.ID || pub.events[0].op != "upsert" {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
}

func TestAddInvalidDoesNotPersist(t *testing.T) {
	svc, saver, pub := newService()

	bad := candidate()
	bad.Borrower = ""
	if _, err := svc.AddTransaction(context.Background(), bad); !errors.Is(err, core.ErrMissingBorrower) {
		t.Fatalf("err = %v, want ErrMissingBorrower", err)
	}
	if saver.saves != 0 || len(pub.events) != 0 {
		t.Fatalf("side effects on failed add: saves=%d events=%v", saver.saves, pub.events)
	}
}

func TestSaveFailureDoesNotFailRequest(t *testing.T) {
	svc, saver, _ := newService()
	saver.fail = true

	if _, err := svc.AddTransaction(context.Background(), candidate()); err != nil {
		t.Fatalf("add should survive save failure, got %v", err)
	}
}

func TestDeletePublishesOnlyWhenPresent(t *testing.T) {
	svc, saver, pub := newService()
	ctx := context.Background()

	got, err := svc.AddTransaction(ctx, candidate())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	pub.events = nil
	saver.saves = 0

	svc.DeleteTransaction(ctx, "missing")
	if saver.saves != 0 || len(pub.events) != 0 {
		t.Fatalf("missing delete had side effects")
	}

	svc.DeleteTransaction(ctx, got.ID)
	if saver.saves != 1 {
		t.Fatalf("saves = %d", saver.saves)
	}
	if len(pub.events) != 1 || pub.events[0].op != "delete" {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
}

func TestReturnPublishesUpsert(t *testing.T) {
	svc, _, pub := newService()
	ctx := context.Background()

	got, err := svc.AddTransaction(ctx, candidate())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	pub.events = nil

	updated, err := svc.RecordReturn(ctx, got.ID, core.Money{Cents: 15000}, core.NewDate(2025, 7, 12), "")
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if updated.Status() != core.StatusReturned {
		t.Fatalf("status = %s", updated.Status())
	}
	if len(pub.events) != 1 || pub.events[0].op != "upsert" {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
}

func TestSetAvailableFundsRequiresSecret(t *testing.T) {
	svc, saver, _ := newService()
	ctx := context.Background()

	err := svc.SetAvailableFunds(ctx, "wrong", core.Money{Cents: 100000})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if saver.saves != 0 {
		t.Fatalf("unauthorized update persisted")
	}

	if err := svc.SetAvailableFunds(ctx, "admin123", core.Money{Cents: 100000}); err != nil {
		t.Fatalf("authorized update: %v", err)
	}
	if svc.AvailableFunds().Cents != 100000 {
		t.Fatalf("funds = %d", svc.AvailableFunds().Cents)
	}
	if saver.saves != 1 {
		t.Fatalf("saves = %d", saver.saves)
	}
}
