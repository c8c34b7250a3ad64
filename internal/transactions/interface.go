package transactions

import "context"

// Repository describes storage operations for pending transactions.
// Implementations are backed by a local SQLite database.
type Repository interface {
	// Save durably persists a transaction. The write must survive a
	// process restart before Save returns nil.
	Save(ctx context.Context, tx *Transaction) error

	// Fetch returns all transactions matching the predicate in
	// insertion order.
	Fetch(ctx context.Context, p Predicate) ([]Transaction, error)

	// Delete removes all transactions matching the predicate. Deleting
	// zero rows is not an error.
	Delete(ctx context.Context, p Predicate) error

	// Count reports how many transactions match the predicate.
	Count(ctx context.Context, p Predicate) (int64, error)
}
