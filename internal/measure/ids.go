package measure

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out stable entity identifiers.
type IDGenerator interface {
	NextID(kind string) string
}

// UUIDGenerator produces random identifiers such as "seg_3f1c...".
type UUIDGenerator struct{}

// NextID implements IDGenerator.
func (UUIDGenerator) NextID(kind string) string {
	return fmt.Sprintf("%s_%s", kind, uuid.NewString())
}

// SequenceGenerator produces "seg-1", "ang-2", ... in creation order.
// The counter is shared across kinds.
type SequenceGenerator struct {
	mu   sync.Mutex
	next int
}

// NewSequenceGenerator returns a generator whose first ID ends in 1.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{next: 1}
}

// NextID implements IDGenerator.
func (g *SequenceGenerator) NextID(kind string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s-%d", kind, g.next)
	g.next++
	return id
}
