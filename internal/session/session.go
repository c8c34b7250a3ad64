// Package session persists the signed-in user's session in the local
// database, next to the transaction cache, so the client can resume
// without a fresh sign-in.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dbakhtin/socialsync/internal/dbx"
)

// ErrNoSession is returned by Load when no session has been stored.
var ErrNoSession = errors.New("no stored session")

// Session is the persisted sign-in state.
type Session struct {
	Token      string
	UserHandle string
	Username   string
}

// Expired reports whether the session token's exp claim has passed.
// The client never verifies signatures (that is the server's job); it
// only reads the expiry to decide whether a sign-in is needed. Tokens
// that cannot be parsed count as expired.
func (s *Session) Expired(now time.Time) bool {
	if s.Token == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// Store reads and writes the session table.
type Store struct {
	db dbx.DBTX
}

func NewStore(db dbx.DBTX) *Store {
	return &Store{db: db}
}

const (
	keyToken      = "token"
	keyUserHandle = "user_handle"
	keyUsername   = "username"
)

func (s *Store) Save(ctx context.Context, sess *Session) error {
	pairs := map[string]string{
		keyToken:      sess.Token,
		keyUserHandle: sess.UserHandle,
		keyUsername:   sess.Username,
	}
	query := `INSERT INTO session (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	for k, v := range pairs {
		if _, err := s.db.ExecContext(ctx, query, k, v); err != nil {
			return fmt.Errorf("failed to save session %s: %w", k, err)
		}
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (*Session, error) {
	sess := &Session{}
	fields := map[string]*string{
		keyToken:      &sess.Token,
		keyUserHandle: &sess.UserHandle,
		keyUsername:   &sess.Username,
	}
	for k, dst := range fields {
		row := s.db.QueryRowContext(ctx, `select value from session where key = ?`, k)
		if err := row.Scan(dst); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, fmt.Errorf("failed to load session %s: %w", k, err)
		}
	}
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	return sess, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `delete from session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
