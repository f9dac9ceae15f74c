package am

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Default values
const (
	DefaultCoreName               = "default"
	DefaultGroupName              = "default"
	DefaultCacheTTLSeconds        = 300
	DefaultCleanupIntervalSeconds = 600
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Core defaults
	v.SetDefault("core.default_name", DefaultCoreName)
	v.SetDefault("core.default_group", DefaultGroupName)

	// Storage defaults
	v.SetDefault("storage.cache_ttl_seconds", DefaultCacheTTLSeconds)
	v.SetDefault("storage.cleanup_interval_seconds", DefaultCleanupIntervalSeconds)
	v.SetDefault("storage.excluded_extensions", []string{})
	v.SetDefault("storage.watch", false)

	// Log defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// BindEnvVars binds settings that are commonly overridden per process
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("core.default_name", "PCD_CORE_DEFAULT_NAME")
	v.BindEnv("log.json", "PCD_LOG_JSON")
	v.BindEnv("log.verbosity", "PCD_LOG_VERBOSITY")
}

// Default returns the configuration with only defaults applied
func Default() *Config {
	return &Config{
		Core: CoreConfig{
			DefaultName:  DefaultCoreName,
			DefaultGroup: DefaultGroupName,
		},
		Storage: StorageConfig{
			CacheTTLSeconds:        DefaultCacheTTLSeconds,
			CleanupIntervalSeconds: DefaultCleanupIntervalSeconds,
			ExcludedExtensions:     []string{},
		},
	}
}

// CacheTTL returns the adapter pool TTL (default: 5m)
func (c *Config) CacheTTL() time.Duration {
	if c.Storage.CacheTTLSeconds <= 0 {
		return DefaultCacheTTLSeconds * time.Second
	}
	return time.Duration(c.Storage.CacheTTLSeconds) * time.Second
}

// CleanupInterval returns the adapter pool sweep interval (default: 10m)
func (c *Config) CleanupInterval() time.Duration {
	if c.Storage.CleanupIntervalSeconds <= 0 {
		return DefaultCleanupIntervalSeconds * time.Second
	}
	return time.Duration(c.Storage.CleanupIntervalSeconds) * time.Second
}

// CoreName returns the default core name (default: "default")
func (c *Config) CoreName() string {
	if c.Core.DefaultName == "" {
		return DefaultCoreName
	}
	return c.Core.DefaultName
}

// GroupName returns the default group name (default: "default")
func (c *Config) GroupName() string {
	if c.Core.DefaultGroup == "" {
		return DefaultGroupName
	}
	return c.Core.DefaultGroup
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Core: %s/%s, Storage: {TTL: %ds, Excluded: %v, Watch: %t}, Log: {JSON: %t, Verbosity: %d}}",
		c.Core.DefaultName, c.Core.DefaultGroup,
		c.Storage.CacheTTLSeconds, c.Storage.ExcludedExtensions, c.Storage.Watch,
		c.Log.JSON, c.Log.Verbosity)
}
