package store

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_session_store.go -package=mocks github.com/PepeePB/proyecto-asee/internal/access/store SessionStore

// Category namespaces the short-lived facts kept in the store so unrelated
// concerns never collide on a key. The prefixes are part of the stored key.
type Category string

const (
	ValidToken     Category = "VT#"
	Blacklist      Category = "BL#"
	ConfirmAccount Category = "CF#"
	ResetPassword  Category = "RP#"
)

func (c Category) Key(key string) string {
	return string(c) + key
}

// SessionStore is a TTL-keyed map holding the session subsystem's state:
// valid-session pairs, revocation records and one-time verification codes.
// Entries expire autonomously; callers never need a cleanup job for
// correctness. Implementations must offer atomic single-key operations and
// honor context deadlines on every call.
type SessionStore interface {
	// Put writes key under the category with the given TTL, overwriting
	// any existing entry.
	Put(ctx context.Context, cat Category, key, value string, ttl time.Duration) error

	// Get returns the value for key, reporting absence without error.
	Get(ctx context.Context, cat Category, key string) (string, bool, error)

	// Exists reports whether key is present under the category.
	Exists(ctx context.Context, cat Category, key string) (bool, error)

	// Delete removes the given keys under the category. Missing keys are
	// not an error.
	Delete(ctx context.Context, cat Category, keys ...string) error

	// ScanPrefix returns every key matching pattern (e.g. "VT#*"). The
	// result is a finite snapshot used for maintenance sweeps only.
	ScanPrefix(ctx context.Context, pattern string) ([]string, error)
}
