package remote

import (
	"context"

	"pettycash/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionUpserter writes the current state of a transaction to
	// the remote document store, inserting or replacing by local ID.
	TransactionUpserter interface {
		Upsert(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// TransactionDeleter removes a transaction from the remote store.
	// Deleting an ID that is not present is not an error.
	TransactionDeleter interface {
		Delete(ctx context.Context, id string) error
	}

	// TransactionLister returns the IDs currently present remotely,
	// used by the reconcile pass to find rows to add or drop.
	TransactionLister interface {
		ListIDs(ctx context.Context) ([]string, error)
	}
)

// Store is the full remote surface the sync worker needs.
type Store interface {
	TransactionUpserter
	TransactionDeleter
	TransactionLister
}
