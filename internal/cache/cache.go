// Package cache is the facade over the transaction store. It is the only
// component that reads or writes persisted transactions; everything else
// (services, the uploader, response processors) goes through it.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dbakhtin/socialsync/internal/command"
	"github.com/dbakhtin/socialsync/internal/idgen"
	"github.com/dbakhtin/socialsync/internal/logging"
	"github.com/dbakhtin/socialsync/internal/transactions"
)

// Cache records pending commands durably and hands them back as decoded
// commands. Failures from CacheOutgoing and CacheIncoming must reach the
// caller: those are the only calls where losing the write means losing
// the user's action.
type Cache interface {
	CacheOutgoing(ctx context.Context, cmd command.Command) (*transactions.Transaction, error)
	CacheIncoming(ctx context.Context, typeID, relatedHandle string, payload []byte) (*transactions.Transaction, error)
	FetchOutgoing(ctx context.Context, p transactions.Predicate) ([]command.Command, error)
	DeleteOutgoing(ctx context.Context, p transactions.Predicate) error
	FetchIncoming(ctx context.Context, typeID, relatedHandle string) (*transactions.Transaction, error)
	CountOutgoing(ctx context.Context, p transactions.Predicate) (int64, error)
}

// TransactionCache implements Cache on a transactions.Repository.
type TransactionCache struct {
	repo transactions.Repository
	log  logging.Logger

	// Serializes fetch and delete against the same storage so a delete
	// cannot race a fetch that already read the row.
	mu sync.Mutex
}

func New(repo transactions.Repository, log logging.Logger) *TransactionCache {
	return &TransactionCache{repo: repo, log: log}
}

// CacheOutgoing serializes cmd into an outgoing transaction and persists
// it. The returned record carries the assigned id and creation time.
func (c *TransactionCache) CacheOutgoing(ctx context.Context, cmd command.Command) (*transactions.Transaction, error) {
	payload, err := cmd.EncodeJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode command %s: %w", cmd.TypeID(), err)
	}

	tx := &transactions.Transaction{
		ID:            idgen.NewID(),
		Direction:     transactions.DirectionOutgoing,
		TypeID:        cmd.TypeID(),
		Handle:        cmd.Handle(),
		RelatedHandle: cmd.RelatedHandle(),
		Payload:       payload,
		CreatedAt:     time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.repo.Save(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to cache outgoing command %s: %w", cmd.TypeID(), err)
	}
	return tx, nil
}

// CacheIncoming snapshots server data so list screens have something to
// show while offline. The previous snapshot for the same type id and
// related handle is replaced.
func (c *TransactionCache) CacheIncoming(ctx context.Context, typeID, relatedHandle string, payload []byte) (*transactions.Transaction, error) {
	tx := &transactions.Transaction{
		ID:            idgen.NewID(),
		Direction:     transactions.DirectionIncoming,
		TypeID:        typeID,
		RelatedHandle: relatedHandle,
		Payload:       payload,
		CreatedAt:     time.Now(),
	}

	p := transactions.Predicate{
		Direction:     transactions.DirectionIncoming,
		TypeID:        typeID,
		RelatedHandle: relatedHandle,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.repo.Delete(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to replace incoming snapshot %s: %w", typeID, err)
	}
	if err := c.repo.Save(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to cache incoming snapshot %s: %w", typeID, err)
	}
	return tx, nil
}

// FetchOutgoing decodes all matching rows into commands in insertion
// order. Rows that fail to decode are logged and dropped, never raised:
// one unreadable record must not block the rest of the queue.
func (c *TransactionCache) FetchOutgoing(ctx context.Context, p transactions.Predicate) ([]command.Command, error) {
	p.Direction = transactions.DirectionOutgoing

	c.mu.Lock()
	rows, err := c.repo.Fetch(ctx, p)
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outgoing transactions: %w", err)
	}

	cmds := make([]command.Command, 0, len(rows))
	for _, row := range rows {
		cmd, err := command.Decode(row.TypeID, row.Payload)
		if err != nil {
			c.log.Warn(ctx, "skipping undecodable transaction",
				"id", row.ID, "type", row.TypeID, "error", err)
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// DeleteOutgoing removes the transactions matching p. Predicates are
// built from a command's type id and handles, so deletion is scoped to
// exactly the commands that were executed. Deleting nothing is fine.
func (c *TransactionCache) DeleteOutgoing(ctx context.Context, p transactions.Predicate) error {
	p.Direction = transactions.DirectionOutgoing

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.repo.Delete(ctx, p); err != nil {
		return fmt.Errorf("failed to delete outgoing transactions: %w", err)
	}
	return nil
}

// FetchIncoming returns the latest snapshot for the given type id and
// related handle, or nil when none is cached.
func (c *TransactionCache) FetchIncoming(ctx context.Context, typeID, relatedHandle string) (*transactions.Transaction, error) {
	p := transactions.Predicate{
		Direction:     transactions.DirectionIncoming,
		TypeID:        typeID,
		RelatedHandle: relatedHandle,
	}

	c.mu.Lock()
	rows, err := c.repo.Fetch(ctx, p)
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incoming snapshot: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	latest := rows[len(rows)-1]
	return &latest, nil
}

// CountOutgoing reports how many outgoing transactions match p.
func (c *TransactionCache) CountOutgoing(ctx context.Context, p transactions.Predicate) (int64, error) {
	p.Direction = transactions.DirectionOutgoing

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.repo.Count(ctx, p)
}

// PredicateFor builds the delete predicate scoped to exactly cmd: same
// type id, same own handle, same related handle.
func PredicateFor(cmd command.Command) transactions.Predicate {
	return transactions.Predicate{
		Direction:     transactions.DirectionOutgoing,
		TypeID:        cmd.TypeID(),
		Handle:        cmd.Handle(),
		RelatedHandle: cmd.RelatedHandle(),
	}
}
