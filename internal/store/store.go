package store

import "context"

// PlayerNameKey is the only key the game persists.
const PlayerNameKey = "playerName"

// Store is a small string key-value store, the terminal stand-in for browser
// local storage.
type Store interface {
	// Get returns the value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
