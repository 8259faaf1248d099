package session

import (
	"context"
	"errors"
)

// ErrNotFound signals an unknown session id.
var ErrNotFound = errors.New("session: not found")

// Store is the addressable key→aggregate repository the engine mutates
// through full read-modify-write cycles. Implementations must treat Put as a
// whole-aggregate overwrite.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, session *Session) error
	Remove(ctx context.Context, id string) error
}
