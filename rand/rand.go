package rand

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/seehuhn/mt19937"
)

// A Generator is a seeded Mersenne Twister PRNG that is safe for
// concurrent use. It backs the default seed drawn for runs that do not
// specify one.
type Generator struct {
	mu sync.Mutex
	mt *mt19937.MT19937
}

// NewGenerator returns a Generator seeded from a single integer.
func NewGenerator(seed int64) *Generator {
	mt := mt19937.New()
	mt.Seed(seed)
	return &Generator{mt: mt}
}

// NewGeneratorSlice returns a Generator seeded from a key array using the
// canonical mt19937 init-by-array scheme.
func NewGeneratorSlice(key []uint64) (*Generator, error) {
	if len(key) < 1 {
		return nil, errors.Errorf("Can not seed a generator with an empty key")
	}
	mt := mt19937.New()
	mt.SeedFromSlice(key)
	return &Generator{mt: mt}, nil
}

// NewTimeSeeded returns a Generator seeded from the current time.
func NewTimeSeeded() *Generator {
	return NewGenerator(time.Now().UnixNano())
}

// Int63 provides the same interface as Go's math/rand.
func (g *Generator) Int63() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mt.Int63()
}

// Int63n is a copy of the current Go code
func (g *Generator) Int63n(n int64) int64 {
	if n <= 0 {
		panic("invalid argument to Int63n")
	}

	if n&(n-1) == 0 { // n is power of two, can mask
		return g.Int63() & (n - 1)
	}

	max := int64((1 << 63) - 1 - (1<<63)%uint64(n))
	v := g.Int63()
	for v > max {
		v = g.Int63()
	}

	return v % n
}
