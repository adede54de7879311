package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pettycash/internal/amqp"
	"pettycash/internal/core"
	"pettycash/internal/remote/memory"
)

type fakeSource struct {
	txs map[string]core.Transaction
}

func (f *fakeSource) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	t, ok := f.txs[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return t, nil
}

func (f *fakeSource) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(f.txs))
	for _, t := range f.txs {
		out = append(out, t)
	}
	return out, nil
}

func sourceWith(ids ...string) *fakeSource {
	src := &fakeSource{txs: make(map[string]core.Transaction)}
	for _, id := range ids {
		src.txs[id] = core.Transaction{
			ID:         id,
			BorrowDate: core.NewDate(2025, 7, 10),
			Amount:     core.Money{Cents: 15000},
			Borrower:   "John Smith",
		}
	}
	return src
}

func TestHandleSyncMessageUpsert(t *testing.T) {
	store := memory.New()
	w := NewSyncWorker(sourceWith("a"), store, 50)

	msg := &amqp.SyncMessage{ID: "a", Op: amqp.OpUpsert, Timestamp: time.Now()}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, ok := store.Get("a"); !ok {
		t.Fatalf("transaction not upserted remotely")
	}
}

func TestHandleSyncMessageUpsertAfterLocalDelete(t *testing.T) {
	store := memory.New()
	store.Upsert(context.Background(), core.Transaction{ID: "gone"})
	w := NewSyncWorker(sourceWith(), store, 50)

	msg := &amqp.SyncMessage{ID: "gone", Op: amqp.OpUpsert}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, ok := store.Get("gone"); ok {
		t.Fatalf("stale row survived")
	}
}

func TestHandleSyncMessageDelete(t *testing.T) {
	store := memory.New()
	store.Upsert(context.Background(), core.Transaction{ID: "a"})
	w := NewSyncWorker(sourceWith("a"), store, 50)

	msg := &amqp.SyncMessage{ID: "a", Op: amqp.OpDelete}
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, ok := store.Get("a"); ok {
		t.Fatalf("remote row not deleted")
	}
}

func TestHandleSyncMessageUnknownOp(t *testing.T) {
	w := NewSyncWorker(sourceWith(), memory.New(), 50)
	if err := w.HandleSyncMessage(context.Background(), &amqp.SyncMessage{ID: "a", Op: "rename"}); err == nil {
		t.Fatalf("expected error for unknown op")
	}
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	store.Upsert(ctx, core.Transaction{ID: "stale"})

	w := NewSyncWorker(sourceWith("a", "b"), store, 1)
	if err := w.Reconcile(ctx); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	ids, _ := store.ListIDs(ctx)
	if len(ids) != 2 {
		t.Fatalf("remote ids = %v", ids)
	}
	if _, ok := store.Get("stale"); ok {
		t.Fatalf("stale row survived reconcile")
	}
	if _, ok := store.Get("a"); !ok {
		t.Fatalf("local row a not synced")
	}
	if _, ok := store.Get("b"); !ok {
		t.Fatalf("local row b not synced")
	}
}
