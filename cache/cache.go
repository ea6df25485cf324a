// Package cache keeps rendered dashboard views between requests. Keys
// carry the dataset version, so entries of a replaced dataset simply stop
// being asked for and age out with their TTL.
package cache

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL applies when a store is created without one.
const DefaultTTL = 10 * time.Minute

// ErrMiss is returned by Get when the key holds nothing.
var ErrMiss = errors.New("cache: miss")

// Cache stores rendered view payloads by key.
type Cache interface {
	// Get returns the payload stored under key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores payload for ttl. A zero ttl uses the store's default.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options configures the redis store.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	// Prefix namespaces the keys so several dashboards can share a server.
	Prefix string
}

// Nop stores nothing.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Nop) Delete(context.Context, string) error { return nil }

func (Nop) Close() error { return nil }
