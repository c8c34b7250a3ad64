package transactions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dbakhtin/socialsync/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, tx *Transaction) error {
	query := `INSERT INTO transactions (id, direction, type_id, handle, related_handle, payload, created_at)
			values (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		tx.ID, string(tx.Direction), tx.TypeID, tx.Handle, tx.RelatedHandle, tx.Payload, tx.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Fetch(ctx context.Context, p Predicate) ([]Transaction, error) {
	where, args := buildWhere(p)
	query := `select id, direction, type_id, handle, related_handle, payload, created_at
			from transactions ` + where + ` order by id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	var result []Transaction
	for rows.Next() {
		var item Transaction
		var direction string
		var createdAt int64
		if err := rows.Scan(&item.ID, &direction, &item.TypeID, &item.Handle,
			&item.RelatedHandle, &item.Payload, &createdAt); err != nil {
			return nil, err
		}
		item.Direction = Direction(direction)
		item.CreatedAt = time.Unix(0, createdAt)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, p Predicate) error {
	where, args := buildWhere(p)
	query := `delete from transactions ` + where

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context, p Predicate) (int64, error) {
	where, args := buildWhere(p)
	query := `select count(*) from transactions ` + where

	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

// buildWhere turns a predicate into a WHERE clause. Only non-empty fields
// constrain the match.
func buildWhere(p Predicate) (string, []any) {
	clauses := []string{"direction = ?"}
	args := []any{string(p.Direction)}

	if p.TypeID != "" {
		clauses = append(clauses, "type_id = ?")
		args = append(args, p.TypeID)
	}
	if p.Handle != "" {
		clauses = append(clauses, "handle = ?")
		args = append(args, p.Handle)
	}
	if p.RelatedHandle != "" {
		clauses = append(clauses, "related_handle = ?")
		args = append(args, p.RelatedHandle)
	}
	return "where " + strings.Join(clauses, " and "), args
}
