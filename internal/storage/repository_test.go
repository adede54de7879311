package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pettycash/internal/core"
	"pettycash/internal/ledger"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "pettycash.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testSnapshot() ledger.Snapshot {
	return ledger.Snapshot{
		Transactions: []core.Transaction{
			{
				ID:          "01K3ZV2B9A0000000000000001",
				BorrowDate:  core.NewDate(2025, 7, 10),
				Amount:      core.Money{Cents: 15000},
				Borrower:    "John Smith",
				Contact:     "john@example.com",
				Description: "Office supplies purchase",
				CreatedAt:   time.Date(2025, 7, 10, 10, 0, 0, 0, time.UTC),
			},
			{
				ID:             "01K3ZV2B9A0000000000000002",
				BorrowDate:     core.NewDate(2025, 7, 9),
				Amount:         core.Money{Cents: 7500},
				ReturnedAmount: core.Money{Cents: 7500},
				Borrower:       "Sarah Johnson",
				ReturnDate:     core.NewDate(2025, 7, 11),
				ReturnNotes:    "Returned with receipt",
				Attachment:     "data:image/png;base64,iVBORw0KGgo=",
				CreatedAt:      time.Date(2025, 7, 9, 14, 30, 0, 0, time.UTC),
			},
		},
		AvailableFunds: core.Money{Cents: 500000},
	}
}

func TestLoadSnapshotAbsentOnFirstRun(t *testing.T) {
	repo := testRepo(t)
	_, ok, err := repo.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected absent snapshot on fresh database")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	want := testSnapshot()

	if err := repo.SaveSnapshot(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := repo.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected snapshot present")
	}
	if got.AvailableFunds != want.AvailableFunds {
		t.Fatalf("funds = %d, want %d", got.AvailableFunds.Cents, want.AvailableFunds.Cents)
	}
	if len(got.Transactions) != 2 {
		t.Fatalf("got %d transactions", len(got.Transactions))
	}

	// Listing is newest first; the snapshot above is already in that order.
	for i, w := range want.Transactions {
		g := got.Transactions[i]
		if g.ID != w.ID || g.Borrower != w.Borrower || g.Amount != w.Amount ||
			g.ReturnedAmount != w.ReturnedAmount || g.Contact != w.Contact ||
			g.Description != w.Description || g.ReturnNotes != w.ReturnNotes ||
			g.Attachment != w.Attachment {
			t.Fatalf("transaction %d mismatch:\n got %+v\nwant %+v", i, g, w)
		}
		if g.BorrowDate.String() != w.BorrowDate.String() || g.ReturnDate.String() != w.ReturnDate.String() {
			t.Fatalf("transaction %d dates mismatch", i)
		}
		if !g.CreatedAt.Equal(w.CreatedAt) {
			t.Fatalf("transaction %d createdAt %v != %v", i, g.CreatedAt, w.CreatedAt)
		}
	}
}

func TestSaveSnapshotReplacesState(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if err := repo.SaveSnapshot(ctx, testSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	smaller := ledger.Snapshot{
		Transactions:   testSnapshot().Transactions[:1],
		AvailableFunds: core.Money{Cents: 123400},
	}
	if err := repo.SaveSnapshot(ctx, smaller); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, ok, err := repo.LoadSnapshot(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if len(got.Transactions) != 1 {
		t.Fatalf("stale rows survived replace: %d", len(got.Transactions))
	}
	if got.AvailableFunds.Cents != 123400 {
		t.Fatalf("funds = %d", got.AvailableFunds.Cents)
	}
}

func TestGetTransaction(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	snap := testSnapshot()
	if err := repo.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetTransaction(ctx, snap.Transactions[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Borrower != "John Smith" {
		t.Fatalf("wrong transaction: %+v", got)
	}

	if _, err := repo.GetTransaction(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
