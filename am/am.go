// Package am loads coredata configuration ("am" as in "I am configured
// like this") from defaults, TOML files and PCD_* environment variables.
package am

// Config represents the coredata configuration
type Config struct {
	Core    CoreConfig    `mapstructure:"core" toml:"core"`
	Storage StorageConfig `mapstructure:"storage" toml:"storage"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
}

// CoreConfig configures the process-wide data core
type CoreConfig struct {
	DefaultName  string `mapstructure:"default_name" toml:"default_name"`   // Name of the default core (default: "default")
	DefaultGroup string `mapstructure:"default_group" toml:"default_group"` // Group for declarations without one (default: "default")
}

// StorageConfig configures raw file storage
type StorageConfig struct {
	CacheTTLSeconds        int      `mapstructure:"cache_ttl_seconds" toml:"cache_ttl_seconds"`               // Adapter pool TTL (default: 300)
	CleanupIntervalSeconds int      `mapstructure:"cleanup_interval_seconds" toml:"cleanup_interval_seconds"` // Adapter pool sweep interval (default: 600)
	ExcludedExtensions     []string `mapstructure:"excluded_extensions" toml:"excluded_extensions"`           // Skipped when loading folders
	Watch                  bool     `mapstructure:"watch" toml:"watch"`                                       // Evict pooled adapters when raws change
}

// LogConfig configures logging
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json"`           // zap production JSON instead of console output
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity"` // 0 warnings, 1 info, 2+ debug
}

// Config file names
const (
	ProjectConfigName = "pcd.toml"
	UserConfigDir     = ".pcd"
	SystemConfigPath  = "/etc/pcd/pcd.toml"
	EnvPrefix         = "PCD"
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
