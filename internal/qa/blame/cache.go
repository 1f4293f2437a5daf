package blame

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/pyxis-oop/qablame/pkg/api"
)

// Cache memoizes successful resolutions of another Resolver. It is safe for
// concurrent use.
type Cache struct {
	next Resolver

	mu      sync.Mutex
	entries map[string][]string
	hits    int
}

func NewCache(next Resolver) *Cache {
	return &Cache{next: next, entries: make(map[string][]string)}
}

func (c *Cache) Authors(ctx context.Context, file string, lines api.LineRange) ([]string, error) {
	key := fmt.Sprintf("%s@%s", file, lines)

	c.mu.Lock()
	if authors, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return append([]string(nil), authors...), nil
	}
	c.mu.Unlock()

	authors, err := c.next.Authors(ctx, file, lines)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = append([]string(nil), authors...)
	c.mu.Unlock()
	return authors, nil
}

// Stats returns the number of cached entries and cache hits.
func (c *Cache) Stats() (entries, hits int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries), c.hits
}

// Static resolves authors from a fixed map keyed by file. Ranges are ignored
// unless an entry for "file@start..end" exists.
type Static map[string][]string

func (s Static) Authors(_ context.Context, file string, lines api.LineRange) ([]string, error) {
	if authors, ok := s[fmt.Sprintf("%s@%s", file, lines)]; ok && len(authors) > 0 {
		return authors, nil
	}
	if authors, ok := s[file]; ok && len(authors) > 0 {
		return authors, nil
	}
	return nil, errors.Wrapf(api.ErrNoAuthors, "%s@[%s]", file, lines)
}
