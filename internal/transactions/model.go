// Package transactions persists pending commands as durable rows in a
// local SQLite database. Rows survive process restarts; replay order is
// insertion order (ids are ULIDs, so lexicographic id order is creation
// order).
package transactions

import "time"

// Direction separates records of local actions awaiting upload from
// snapshots of server data cached for offline display.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// Transaction is one persisted pending record. Payload is opaque to the
// store; TypeID names the decoder that understands it.
type Transaction struct {
	ID            string
	Direction     Direction
	TypeID        string
	Handle        string
	RelatedHandle string
	Payload       []byte
	CreatedAt     time.Time
}

// Predicate selects transactions by exact match on its non-empty fields.
// Direction is always required; the rest are optional narrowing.
type Predicate struct {
	Direction     Direction
	TypeID        string
	Handle        string
	RelatedHandle string
}
