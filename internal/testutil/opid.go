package testutil

import (
	"fmt"
	"sync"
)

// SequentialOpIDs generates "<prefix>-0001", "<prefix>-0002", ... so logs and
// journals carry stable operation ids in golden output.
//
// Implements board.OpIDGenerator.
//
// Thread-safety: safe for concurrent use.
type SequentialOpIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialOpIDs creates a generator. An empty prefix becomes "op".
func NewSequentialOpIDs(prefix string) *SequentialOpIDs {
	if prefix == "" {
		prefix = "op"
	}
	return &SequentialOpIDs{prefix: prefix}
}

// Generate returns the next id in sequence.
func (g *SequentialOpIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
