package cache

import (
	"sync"

	"RevBoardSaas/internal/store"
)

// TableCache is a read-through cache over row sets keyed by table name.
// Invalidation is synchronous; repopulation happens lazily on the next Get.
type TableCache struct {
	mu     sync.Mutex
	tables map[string][]store.Row
}

func New() *TableCache {
	return &TableCache{tables: map[string][]store.Row{}}
}

// Get returns the cached rows for a table, loading them on a miss.
func (c *TableCache) Get(table string, load func() ([]store.Row, error)) ([]store.Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rows, ok := c.tables[table]; ok {
		return rows, nil
	}
	rows, err := load()
	if err != nil {
		return nil, err
	}
	c.tables[table] = rows
	return rows, nil
}

// Invalidate drops the named tables, or everything when called with no
// arguments. Callers invalidate before any write-triggered re-read.
func (c *TableCache) Invalidate(tables ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(tables) == 0 {
		c.tables = map[string][]store.Row{}
		return
	}
	for _, t := range tables {
		delete(c.tables, t)
	}
}
