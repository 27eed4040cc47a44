// Package ident supplies process-unique identity tokens for record instances.
// Tokens are intra-process identity handles, never the record's business id,
// and are never persisted.
package ident

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator produces identity tokens that are collision-free within one
// process lifetime.
type Generator interface {
	Next(prefix string) string
}

// Sequential returns a generator that yields prefix plus a monotonically
// increasing counter ("c1", "c2", ...). This is the default shape for client
// ids; it is the cheapest generator and trivially collision-free.
func Sequential() Generator {
	return &sequential{}
}

type sequential struct {
	counter uint64
}

func (g *sequential) Next(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, atomic.AddUint64(&g.counter, 1))
}

// UUID returns a generator backed by random version 4 UUIDs.
func UUID() Generator {
	return uuidGenerator{}
}

type uuidGenerator struct{}

func (uuidGenerator) Next(prefix string) string {
	return prefix + uuid.NewString()
}

// ULID returns a generator producing lexicographically sortable tokens from a
// single monotonic entropy source.
func ULID() Generator {
	return &ulidGenerator{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

type ulidGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *ulidGenerator) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return prefix + ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}
