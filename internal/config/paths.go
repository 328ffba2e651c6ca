package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "KANBAN_CONFIG"
	// EnvDatabasePath overrides database.path
	EnvDatabasePath = "KANBAN_DB"
	// EnvServerAddr overrides server.addr
	EnvServerAddr = "KANBAN_ADDR"
	// EnvLogLevel overrides log.level
	EnvLogLevel = "KANBAN_LOG_LEVEL"

	// ConfigFileName is looked up in the working directory
	ConfigFileName = "kanban.yaml"

	configDirName  = "kanban"
	configBaseName = "config.yaml"
)

// searchPaths lists candidate config files, highest priority first.
// Unset variables contribute no entry.
func searchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		paths = append(paths, abs)
	} else {
		paths = append(paths, ConfigFileName)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, configDirName, configBaseName))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", configDirName, configBaseName))
	}
	return append(paths, filepath.Join("/etc", configDirName, configBaseName))
}

// FindConfigPath returns the first existing file from the search order
// documented on the package, or "" when there is none.
func FindConfigPath() string {
	for _, p := range searchPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// envOverrides pairs each KANBAN_* variable with the field it replaces
func (c *Config) envOverrides() []struct {
	key   string
	field *string
} {
	return []struct {
		key   string
		field *string
	}{
		{EnvDatabasePath, &c.Database.Path},
		{EnvServerAddr, &c.Server.Addr},
		{EnvLogLevel, &c.Log.Level},
	}
}

// ApplyEnv overrides file values with any non-empty KANBAN_* variables
func (c *Config) ApplyEnv() {
	for _, o := range c.envOverrides() {
		if v := os.Getenv(o.key); v != "" {
			*o.field = v
		}
	}
}
