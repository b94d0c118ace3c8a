package conditional

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces unique identifiers for registered items.
// Implemented by UUIDv7Generator (production) and SequentialGenerator
// (tests, traces, replay).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 item ids.
//
// UUIDv7 embeds a timestamp in the most significant bits, making ids sortable
// by registration time, which keeps traces readable.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequentialGenerator returns "item-1", "item-2", ... for deterministic test
// execution and golden trace comparison.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialGenerator creates a generator with the given id prefix.
// An empty prefix defaults to "item".
func NewSequentialGenerator(prefix string) *SequentialGenerator {
	if prefix == "" {
		prefix = "item"
	}
	return &SequentialGenerator{prefix: prefix}
}

// Generate returns the next sequential id.
func (g *SequentialGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
