// Package command defines the pending user actions the offline cache can
// record and replay: one type per action, a stable type id per type, and a
// decode registry so stored payloads can be turned back into commands.
package command

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned when a payload carries a type id no
	// decoder is registered for.
	ErrUnknownType = errors.New("unknown command type")

	// ErrMalformedPayload is returned when a payload cannot be decoded
	// into a complete command. Commands are never partially constructed.
	ErrMalformedPayload = errors.New("malformed command payload")
)

// Command is one pending user action not yet confirmed by the server.
//
// Handle is the handle of the entity the command itself represents (a
// posted comment's own handle); RelatedHandle is the parent entity the
// command targets (that comment's topic). RelatedHandle is settable after
// construction because some commands, such as accepting a pending follow
// request, learn their target late.
type Command interface {
	TypeID() string
	Handle() string
	RelatedHandle() string
	SetRelatedHandle(handle string)
	EncodeJSON() ([]byte, error)
}

// Decode dispatches on typeID and decodes payload into a command.
// Unknown type ids and malformed payloads fail only the record at hand;
// callers are expected to skip it and carry on with the batch.
func Decode(typeID string, payload []byte) (Command, error) {
	fn, ok := decoders[typeID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeID)
	}
	return fn(payload)
}

// RegisteredTypes lists every type id Decode understands.
func RegisteredTypes() []string {
	types := make([]string, 0, len(decoders))
	for t := range decoders {
		types = append(types, t)
	}
	return types
}
