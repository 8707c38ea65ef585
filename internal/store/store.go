// Package store provides the per-device key-value persistence used in
// place of browser local storage.
package store

import "context"

// Keys stored under each device namespace.
const (
	KeyComments = "comments"
	KeyRole     = "role"
)

// Store is a namespaced key-value store. Each namespace belongs to one
// device and behaves like that device's local storage.
type Store interface {
	// Get returns the value stored under key. found is false if the key is absent.
	Get(ctx context.Context, namespace, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, namespace, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, namespace, key string) error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases the backing storage.
	Close() error
}
