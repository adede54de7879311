// Package worker runs the background loops: pushing ledger changes to
// the remote store and autosaving snapshots.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pettycash/internal/amqp"
	"pettycash/internal/core"
	"pettycash/internal/remote"
)

// TransactionSource reads transactions from the persisted snapshot.
// Satisfied by storage.SQLiteRepository.
type TransactionSource interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}

// SyncWorker pushes transaction changes from the snapshot database to
// the remote document store.
type SyncWorker struct {
	source    TransactionSource
	remote    remote.Store
	batchSize int
}

func NewSyncWorker(source TransactionSource, remoteStore remote.Store, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &SyncWorker{
		source:    source,
		remote:    remoteStore,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one queue message. Upserts resolve the
// current row from the snapshot database; a row deleted locally before
// its upsert message arrives is treated as a delete.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "transaction_id", msg.ID, "op", msg.Op)

	switch msg.Op {
	case amqp.OpDelete:
		if err := w.remote.Delete(ctx, msg.ID); err != nil {
			return fmt.Errorf("delete transaction remotely: %w", err)
		}
		return nil

	case amqp.OpUpsert:
		t, err := w.source.GetTransaction(ctx, msg.ID)
		if errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Transaction gone before sync, deleting remotely",
				"transaction_id", msg.ID)
			return w.remote.Delete(ctx, msg.ID)
		}
		if err != nil {
			return fmt.Errorf("get transaction from storage: %w", err)
		}

		ref, err := w.remote.Upsert(ctx, t)
		if err != nil {
			return fmt.Errorf("upsert transaction remotely: %w", err)
		}
		slog.InfoContext(ctx, "Transaction synced", "transaction_id", msg.ID, "remote_ref", ref)
		return nil

	default:
		return fmt.Errorf("unknown sync op %q", msg.Op)
	}
}

// Reconcile makes the remote store match the snapshot database: every
// local transaction is upserted and remote rows with no local
// counterpart are removed. A backup for lost queue messages.
func (w *SyncWorker) Reconcile(ctx context.Context) error {
	local, err := w.source.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list local transactions: %w", err)
	}

	localIDs := make(map[string]struct{}, len(local))
	synced := 0
	for i, t := range local {
		localIDs[t.ID] = struct{}{}
		if _, err := w.remote.Upsert(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to reconcile transaction",
				"transaction_id", t.ID, "error", err)
			continue
		}
		synced++

		// Yield between batches so a big ledger cannot starve shutdown.
		if (i+1)%w.batchSize == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}

	remoteIDs, err := w.remote.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list remote transactions: %w", err)
	}

	removed := 0
	for _, id := range remoteIDs {
		if _, ok := localIDs[id]; ok {
			continue
		}
		if err := w.remote.Delete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to remove stale remote row",
				"transaction_id", id, "error", err)
			continue
		}
		removed++
	}

	slog.InfoContext(ctx, "Reconcile pass finished",
		"local", len(local), "synced", synced, "removed", removed)
	return nil
}
