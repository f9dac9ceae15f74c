package datacore

import (
	"github.com/teranos/coredata/am"
	"github.com/teranos/coredata/storage"
)

// OptionsFromConfig turns configuration into core options: the default
// group and an adapter pool sized by the storage settings.
func OptionsFromConfig(cfg *am.Config) []Option {
	pool := storage.NewPool(storage.DefaultRegistry(), cfg.CacheTTL(), cfg.CleanupInterval())
	return []Option{
		WithDefaultGroup(cfg.GroupName()),
		WithPool(pool),
	}
}

// InitFromConfig makes a core named by the configuration the process-wide
// default.
func InitFromConfig(cfg *am.Config, opts ...Option) *DataCore {
	return Init(cfg.CoreName(), append(OptionsFromConfig(cfg), opts...)...)
}
