// Package sessions keeps discovery flows and chat sessions in memory for as long as
// clients keep touching them, and issues the bearer tokens that scope access to each one.
package sessions

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

var ErrNotFound = errors.New("session not found")

type Kind string

const (
	KindDiscovery Kind = "discovery"
	KindChat      Kind = "chat"
)

// Closer is implemented by everything stored in the registry. Close is called once the
// entry expires or is deleted.
type Closer interface {
	Close()
}

// Registry is a TTL store. Every successful Get pushes the expiry forward.
type Registry struct {
	cache  *cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewRegistry(ttl, cleanupInterval time.Duration, logger *slog.Logger) *Registry {
	r := &Registry{
		cache:  cache.New(ttl, cleanupInterval),
		ttl:    ttl,
		logger: logger.With(slog.String("component", "sessions")),
	}
	r.cache.OnEvicted(func(key string, value interface{}) {
		if c, ok := value.(Closer); ok {
			c.Close()
		}
		r.logger.Debug("Session evicted", slog.String("key", key))
	})
	return r
}

func key(kind Kind, id string) string {
	return string(kind) + ":" + id
}

func (r *Registry) Put(kind Kind, id string, value Closer) {
	r.cache.Set(key(kind, id), value, r.ttl)
}

func (r *Registry) Get(kind Kind, id string) (Closer, error) {
	k := key(kind, id)
	v, ok := r.cache.Get(k)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	// Set does not trigger OnEvicted, so this only extends the lifetime.
	r.cache.Set(k, v, r.ttl)
	return v.(Closer), nil
}

// Delete removes and closes the entry.
func (r *Registry) Delete(kind Kind, id string) error {
	k := key(kind, id)
	if _, ok := r.cache.Get(k); !ok {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	r.cache.Delete(k)
	return nil
}

// Counts reports live entries per kind.
func (r *Registry) Counts() map[string]int64 {
	counts := map[string]int64{
		string(KindDiscovery): 0,
		string(KindChat):      0,
	}
	for k := range r.cache.Items() {
		if kind, _, ok := strings.Cut(k, ":"); ok {
			counts[kind]++
		}
	}
	return counts
}

// Flush closes every entry.
func (r *Registry) Flush() {
	for k := range r.cache.Items() {
		r.cache.Delete(k)
	}
}

// Lookup fetches an entry and asserts its concrete type.
func Lookup[T Closer](r *Registry, kind Kind, id string) (T, error) {
	var zero T
	v, err := r.Get(kind, id)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s %s has type %T", ErrNotFound, kind, id, v)
	}
	return t, nil
}
