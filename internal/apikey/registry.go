// Package apikey resolves opaque API keys to user identities.
// The key set is fixed at process start; there is no rotation and no
// persistence, so lookups are pure reads and safe under any concurrency.
package apikey

import "errors"

// ErrUnknownKey is returned when a key does not resolve to any identity.
var ErrUnknownKey = errors.New("unknown API key")

// Registry is an immutable API key -> username mapping.
type Registry struct {
	keys map[string]string
}

// NewRegistry copies the given mapping into a Registry. The copy makes the
// registry independent of later mutation of the source map.
func NewRegistry(keys map[string]string) *Registry {
	m := make(map[string]string, len(keys))
	for k, v := range keys {
		m[k] = v
	}
	return &Registry{keys: m}
}

// Resolve returns the username for an API key, or ErrUnknownKey.
func (r *Registry) Resolve(key string) (string, error) {
	username, ok := r.keys[key]
	if !ok {
		return "", ErrUnknownKey
	}
	return username, nil
}

// Len reports the number of registered keys.
func (r *Registry) Len() int {
	return len(r.keys)
}
