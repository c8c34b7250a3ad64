package processors

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/dbakhtin/socialsync/internal/cache"
	"github.com/dbakhtin/socialsync/internal/command"
	"github.com/dbakhtin/socialsync/internal/logging"
	"github.com/dbakhtin/socialsync/internal/models"
	"github.com/dbakhtin/socialsync/internal/transactions"
)

func setupCache(t *testing.T) cache.Cache {
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
	return cache.New(transactions.NewSQLiteRepository(db), logging.NewNop())
}

func user(handle string) models.User {
	return models.User{Handle: handle, Username: handle}
}

func handles(items []models.User) []string {
	out := make([]string, len(items))
	for i, u := range items {
		out[i] = u.Handle
	}
	return out
}

func TestFollowers_InjectsAcceptedPendingRequests(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, err := c.CacheOutgoing(ctx, command.NewAcceptPending(user("C")))
	require.NoError(t, err)

	resp := &models.UsersListResponse{Items: []models.User{user("A"), user("B")}, Cursor: "next"}
	p := NewFollowers(c, logging.NewNop())

	require.NoError(t, p.Apply(ctx, resp))

	assert.Equal(t, []string{"A", "B", "C"}, handles(resp.Items))
	assert.Equal(t, models.FollowStatusAccepted, resp.Items[2].FollowerStatus)
	assert.Equal(t, "next", resp.Cursor, "cursor stays untouched")
}

func TestFollowers_DoesNotDuplicateExistingUsers(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, err := c.CacheOutgoing(ctx, command.NewAcceptPending(user("C")))
	require.NoError(t, err)

	resp := &models.UsersListResponse{Items: []models.User{user("A"), user("B"), user("C")}}
	p := NewFollowers(c, logging.NewNop())

	require.NoError(t, p.Apply(ctx, resp))

	// The server already reflects C: the command contributes nothing and
	// the existing item wins.
	assert.Equal(t, []string{"A", "B", "C"}, handles(resp.Items))
	assert.Equal(t, models.FollowStatus(""), resp.Items[2].FollowerStatus)
}

func TestFollowers_ApplyIsIdempotent(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	for _, h := range []string{"C", "D"} {
		_, err := c.CacheOutgoing(ctx, command.NewAcceptPending(user(h)))
		require.NoError(t, err)
	}

	resp := &models.UsersListResponse{Items: []models.User{user("A")}}
	p := NewFollowers(c, logging.NewNop())

	require.NoError(t, p.Apply(ctx, resp))
	once := append([]models.User(nil), resp.Items...)

	require.NoError(t, p.Apply(ctx, resp))
	assert.Equal(t, once, resp.Items)
}

func TestFollowing_InjectsAndHides(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	_, err := c.CacheOutgoing(ctx, command.NewFollow(user("X")))
	require.NoError(t, err)
	_, err = c.CacheOutgoing(ctx, command.NewUnfollow(user("B")))
	require.NoError(t, err)

	resp := &models.UsersListResponse{Items: []models.User{user("A"), user("B")}}
	p := NewFollowing(c, logging.NewNop())

	require.NoError(t, p.Apply(ctx, resp))

	assert.Equal(t, []string{"A", "X"}, handles(resp.Items))
	assert.Equal(t, models.FollowStatusPending, resp.Items[1].FollowerStatus)
}
