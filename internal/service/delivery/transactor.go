package delivery

import (
	"context"
	"database/sql"

	"github.com/wordflow/wordflow-api/internal/store"
)

// Transactor runs one delivery mutation atomically, handing the function
// item and delivery stores bound to the same transaction.
type Transactor interface {
	InTransaction(
		ctx context.Context,
		fn func(ctx context.Context, items store.LearningItemStore, deliveries store.DeliveryStore) error,
	) error
}

// storeTransactor implements Transactor over a *sql.DB.
type storeTransactor struct {
	db         *sql.DB
	items      store.LearningItemStore
	deliveries store.DeliveryStore
}

var _ Transactor = (*storeTransactor)(nil)

// NewStoreTransactor creates a Transactor that rebinds the given stores to
// a fresh database transaction per call.
func NewStoreTransactor(
	db *sql.DB,
	items store.LearningItemStore,
	deliveries store.DeliveryStore,
) Transactor {
	if db == nil {
		panic("db cannot be nil")
	}
	if items == nil {
		panic("learning item store cannot be nil")
	}
	if deliveries == nil {
		panic("delivery store cannot be nil")
	}
	return &storeTransactor{db: db, items: items, deliveries: deliveries}
}

func (t *storeTransactor) InTransaction(
	ctx context.Context,
	fn func(ctx context.Context, items store.LearningItemStore, deliveries store.DeliveryStore) error,
) error {
	return store.RunInTransaction(ctx, t.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, t.items.WithTx(tx), t.deliveries.WithTx(tx))
	})
}
