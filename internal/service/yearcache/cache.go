// Package yearcache keeps the school-year list of one session so that every
// screen's filter dropdown shares a single fetch.
package yearcache

import (
	"SchoolDesk/entity"
	"SchoolDesk/internal/lib/sl"
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

type Loader interface {
	AllSchoolYears(ctx context.Context) ([]entity.SchoolYear, error)
}

type Cache struct {
	loader  Loader
	group   singleflight.Group
	mu      sync.RWMutex
	years   []entity.SchoolYear
	loaded  bool
	version uint64
	log     *slog.Logger
}

func New(loader Loader, logger *slog.Logger) *Cache {
	return &Cache{
		loader: loader,
		log:    logger.With(sl.Module("yearcache")),
	}
}

// Years returns the cached list, loading it on first use. Concurrent callers
// share one request. Errors are not cached.
func (c *Cache) Years(ctx context.Context) ([]entity.SchoolYear, error) {
	c.mu.RLock()
	if c.loaded {
		years := clone(c.years)
		c.mu.RUnlock()
		return years, nil
	}
	version := c.version
	c.mu.RUnlock()

	v, err, _ := c.group.Do("years", func() (interface{}, error) {
		years, err := c.loader.AllSchoolYears(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		// an invalidation during the fetch wins over the stale answer
		if c.version == version {
			c.years = clone(years)
			c.loaded = true
		}
		c.mu.Unlock()
		c.log.Debug("school years loaded", slog.Int("count", len(years)))
		return years, nil
	})
	if err != nil {
		c.log.Warn("load school years", sl.Err(err))
		return nil, err
	}
	return clone(v.([]entity.SchoolYear)), nil
}

// Invalidate forgets the list; the next Years call fetches again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.years = nil
	c.loaded = false
	c.version++
	c.mu.Unlock()
	c.group.Forget("years")
}

// Active returns the first year flagged active in the cached list.
func (c *Cache) Active(ctx context.Context) (*entity.SchoolYear, error) {
	years, err := c.Years(ctx)
	if err != nil {
		return nil, err
	}
	for i := range years {
		if years[i].IsActive {
			y := years[i]
			return &y, nil
		}
	}
	return nil, nil
}

func clone(years []entity.SchoolYear) []entity.SchoolYear {
	if years == nil {
		return []entity.SchoolYear{}
	}
	out := make([]entity.SchoolYear, len(years))
	copy(out, years)
	return out
}
