package core

import (
	"context"
)

// Cache stores JSON-serializable values with a TTL fixed at construction.
// A get past the entry's TTL behaves as a miss and evicts the entry.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// SessionStore keeps the bounded conversation window per session id.
// Windows are created on first reference and live for the process lifetime.
// Concurrent turns for the same session id are not a supported scenario.
type SessionStore interface {
	History(sessionID string) []Turn
	Append(sessionID string, turn Turn)
}

// Searcher is the general web search resolver. Implementations return the
// uniform empty shape on upstream failure, never an error for it.
type Searcher interface {
	Search(ctx context.Context, query string, numResults int, force bool) SearchResults
}

// Generator is the opaque text-completion call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
