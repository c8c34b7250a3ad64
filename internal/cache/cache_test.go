package cache

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/dbakhtin/socialsync/internal/command"
	"github.com/dbakhtin/socialsync/internal/logging"
	"github.com/dbakhtin/socialsync/internal/models"
	"github.com/dbakhtin/socialsync/internal/transactions"
)

func setupCache(t *testing.T) *TransactionCache {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE transactions (
  id TEXT PRIMARY KEY,
  direction TEXT NOT NULL,
  type_id TEXT NOT NULL,
  handle TEXT NOT NULL DEFAULT '',
  related_handle TEXT NOT NULL DEFAULT '',
  payload BLOB NOT NULL,
  created_at INTEGER NOT NULL
);
`)
	require.NoError(t, err)

	return New(transactions.NewSQLiteRepository(db), logging.NewNop())
}

func TestCacheOutgoing_PersistsAndReturnsRecord(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	cmd := command.NewPostComment("t1", "u1", "offline comment")
	tx, err := c.CacheOutgoing(ctx, cmd)
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, transactions.DirectionOutgoing, tx.Direction)
	assert.Equal(t, command.TypePostComment, tx.TypeID)
	assert.Equal(t, cmd.Handle(), tx.Handle)
	assert.Equal(t, "t1", tx.RelatedHandle)
	assert.False(t, tx.CreatedAt.IsZero())

	// Fetch by comment type returns exactly that one decoded command
	// with matching payload fields.
	got, err := c.FetchOutgoing(ctx, transactions.Predicate{TypeID: command.TypePostComment})
	require.NoError(t, err)
	require.Len(t, got, 1)

	decoded, ok := got[0].(*command.PostComment)
	require.True(t, ok)
	assert.Equal(t, cmd.Handle(), decoded.Handle())
	assert.Equal(t, "offline comment", decoded.Comment.Text)
	assert.Equal(t, "t1", decoded.Comment.TopicHandle)
}

func TestFetchOutgoing_SkipsUndecodableRows(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, err := c.CacheOutgoing(ctx, command.NewLikeTopic(models.Topic{Handle: "t1"}))
	require.NoError(t, err)

	// A row with an unknown type id must be dropped, not raised.
	require.NoError(t, c.repo.Save(ctx, &transactions.Transaction{
		ID:        "zzz-bad",
		Direction: transactions.DirectionOutgoing,
		TypeID:    "topic.sparkle",
		Payload:   []byte(`{}`),
	}))
	// As must a malformed payload for a known type.
	require.NoError(t, c.repo.Save(ctx, &transactions.Transaction{
		ID:        "zzz-bad2",
		Direction: transactions.DirectionOutgoing,
		TypeID:    command.TypeLikeTopic,
		Payload:   []byte(`{"topic":{}}`),
	}))

	got, err := c.FetchOutgoing(ctx, transactions.Predicate{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, command.TypeLikeTopic, got[0].TypeID())
}

func TestDeleteOutgoing_ScopedByPredicate(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	like1 := command.NewLikeTopic(models.Topic{Handle: "t1"})
	like2 := command.NewLikeTopic(models.Topic{Handle: "t2"})
	comment := command.NewPostComment("t1", "u1", "hi")

	for _, cmd := range []command.Command{like1, like2, comment} {
		_, err := c.CacheOutgoing(ctx, cmd)
		require.NoError(t, err)
	}

	require.NoError(t, c.DeleteOutgoing(ctx, PredicateFor(like1)))

	n, err := c.CountOutgoing(ctx, transactions.Predicate{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Idempotent: the rows are already gone.
	require.NoError(t, c.DeleteOutgoing(ctx, PredicateFor(like1)))
	n, err = c.CountOutgoing(ctx, transactions.Predicate{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCacheIncoming_ReplacesPreviousSnapshot(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, err := c.CacheIncoming(ctx, "feed.snapshot", "home", []byte(`{"v":1}`))
	require.NoError(t, err)
	_, err = c.CacheIncoming(ctx, "feed.snapshot", "home", []byte(`{"v":2}`))
	require.NoError(t, err)

	got, err := c.FetchIncoming(ctx, "feed.snapshot", "home")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"v":2}`, string(got.Payload))

	missing, err := c.FetchIncoming(ctx, "feed.snapshot", "other")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCacheOutgoing_SurfacesStoreFailure(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// No schema: every write fails, and the caller must see it.
	c := New(transactions.NewSQLiteRepository(db), logging.NewNop())

	_, err = c.CacheOutgoing(context.Background(), command.NewLikeTopic(models.Topic{Handle: "t1"}))
	require.Error(t, err)
	_ = db.Close()
}
