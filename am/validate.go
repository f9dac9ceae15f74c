package am

import (
	"strings"

	"github.com/teranos/coredata/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Empty names fall back to defaults, so only whitespace-padded names are wrong
	if c.Core.DefaultName != strings.TrimSpace(c.Core.DefaultName) {
		return errors.Newf("core.default_name must not have surrounding whitespace, got %q", c.Core.DefaultName)
	}
	if c.Core.DefaultGroup != strings.TrimSpace(c.Core.DefaultGroup) {
		return errors.Newf("core.default_group must not have surrounding whitespace, got %q", c.Core.DefaultGroup)
	}

	// Pool durations: 0 = use default, negative = invalid
	if c.Storage.CacheTTLSeconds < 0 {
		return errors.Newf("storage.cache_ttl_seconds must be >= 0, got %d", c.Storage.CacheTTLSeconds)
	}
	if c.Storage.CleanupIntervalSeconds < 0 {
		return errors.Newf("storage.cleanup_interval_seconds must be >= 0, got %d", c.Storage.CleanupIntervalSeconds)
	}

	// Extensions are matched without the leading dot
	for _, ext := range c.Storage.ExcludedExtensions {
		if ext == "" {
			return errors.New("storage.excluded_extensions must not contain empty entries")
		}
		if strings.HasPrefix(ext, ".") {
			return errors.WithHintf(
				errors.Newf("storage.excluded_extensions entry %q has a leading dot", ext),
				"use %q", strings.TrimPrefix(ext, "."),
			)
		}
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	return nil
}
