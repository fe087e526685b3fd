// Package store defines the device-local key-value storage port.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key is absent. Absence is a normal
// state (no session, empty ledger), not an I/O failure.
var ErrNotFound = errors.New("key not found")

// IOError wraps a backend failure for a specific key and operation.
type IOError struct {
	Op  string
	Key string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// KV is durable string-keyed blob storage. Values are opaque serialized
// payloads; callers own the encoding.
type KV interface {
	// Get returns the stored value, or ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value atomically.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string) error
}

// Keys builds the namespaced keys used by the app.
type Keys struct {
	Namespace string
}

// Session is the fixed key holding the persisted identity.
func (k Keys) Session() string {
	return k.Namespace + ":user"
}

// Transactions is the per-user ledger key.
func (k Keys) Transactions(userID string) string {
	return fmt.Sprintf("%s:transactions_user:%s", k.Namespace, userID)
}
