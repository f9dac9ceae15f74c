package storage

import (
	"path/filepath"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/teranos/coredata/errors"
	"github.com/teranos/coredata/logger"
)

const (
	DefaultCacheTTL        = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// Pool keeps opened adapters per absolute path so that a warm adapter's
// in-memory copy is reused across loads. Entries expire after the TTL unless
// they are used again.
type Pool struct {
	registry *Registry
	ttl      time.Duration
	cache    *gocache.Cache
	logger   *zap.SugaredLogger

	// serializes get-or-open so two loads of one path share an adapter
	mu sync.Mutex
}

// NewPool creates a pool resolving adapters through registry. A nil registry
// uses the default registry; non-positive durations use the defaults.
func NewPool(registry *Registry, ttl, cleanupInterval time.Duration) *Pool {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &Pool{
		registry: registry,
		ttl:      ttl,
		cache:    gocache.New(ttl, cleanupInterval),
		logger:   logger.ComponentLogger("storage.pool"),
	}
}

// Registry returns the registry the pool opens adapters with.
func (p *Pool) Registry() *Registry {
	return p.registry
}

// Get returns the pooled adapter for path, opening it on a miss. A hit
// extends the entry's TTL.
func (p *Pool) Get(path string) (Adapter, error) {
	key, err := poolKey(path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// A warm adapter must not outlive its file
	if _, err := ValidatePath(key); err != nil {
		if value, found := p.cache.Get(key); found {
			if adapter, ok := value.(Adapter); ok {
				adapter.Invalidate()
			}
			p.cache.Delete(key)
			p.logger.Debugw("Adapter pool evicted missing file", logger.FieldPath, key)
		}
		return nil, err
	}

	if value, found := p.cache.Get(key); found {
		if adapter, ok := value.(Adapter); ok {
			p.cache.Set(key, adapter, p.ttl)
			p.logger.Debugw("Adapter pool hit", logger.FieldPath, key)
			return adapter, nil
		}
		p.logger.Errorw("Adapter pool entry has wrong type", logger.FieldPath, key)
		p.cache.Delete(key)
	}

	adapter, err := p.registry.Open(key)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, adapter, p.ttl)
	p.logger.Debugw("Adapter pool miss", logger.FieldPath, key)
	return adapter, nil
}

// Invalidate drops the pooled adapter for path and clears its memory copy.
// Reports whether an entry was pooled.
func (p *Pool) Invalidate(path string) bool {
	key, err := poolKey(path)
	if err != nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	value, found := p.cache.Get(key)
	if !found {
		return false
	}
	if adapter, ok := value.(Adapter); ok {
		adapter.Invalidate()
	}
	p.cache.Delete(key)
	p.logger.Debugw("Adapter pool invalidated", logger.FieldPath, key)
	return true
}

// Flush drops every pooled adapter.
func (p *Pool) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.cache.Items() {
		if adapter, ok := item.Object.(Adapter); ok {
			adapter.Invalidate()
		}
	}
	p.cache.Flush()
}

// Len returns the number of pooled adapters, including expired entries not
// yet cleaned up.
func (p *Pool) Len() int {
	return p.cache.ItemCount()
}

func poolKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidPath, "failed to resolve %s: %v", path, err)
	}
	return abs, nil
}
