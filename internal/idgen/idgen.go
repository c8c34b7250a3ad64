// Package idgen produces sortable identifiers for persisted transactions.
// ULIDs keep lexicographic order aligned with creation time, so the store
// can replay commands in insertion order without a separate sequence.
package idgen

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a new ULID string. IDs generated within the same
// millisecond remain strictly increasing.
func NewID() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
