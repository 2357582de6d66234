package evaluator

import (
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/cel-go/cel"
)

const defaultCacheSize = 256

// programCache is a bounded cache of compiled programs keyed by the
// expression text and the set of declared column names. When the cache
// reaches capacity the whole map is replaced; tracking per-entry ages is not
// worth the bookkeeping for the expected workload of a small number of
// distinct expressions evaluated many times.
//
// All methods are safe for concurrent use.
type programCache struct {
	mu    sync.RWMutex
	items map[uint64]cel.Program
	max   int
}

func newProgramCache(max int) *programCache {
	if max <= 0 {
		max = defaultCacheSize
	}
	return &programCache{
		items: make(map[uint64]cel.Program, max),
		max:   max,
	}
}

func (c *programCache) get(key uint64) (cel.Program, bool) {
	c.mu.RLock()
	prg, ok := c.items[key]
	c.mu.RUnlock()
	return prg, ok
}

func (c *programCache) put(key uint64, prg cel.Program) {
	c.mu.Lock()
	if len(c.items) >= c.max {
		c.items = make(map[uint64]cel.Program, c.max)
	}
	c.items[key] = prg
	c.mu.Unlock()
}

// cacheKey hashes the expression together with the sorted column names.
// The names participate because the same expression compiles differently
// under different variable declarations.
func cacheKey(expr string, sortedNames []string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(expr)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(strings.Join(sortedNames, "\x00"))
	return d.Sum64()
}
