/*
Package config manages the TOML config for wordrank.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Index   IndexConfig   `toml:"index"`
	Dict    DictConfig    `toml:"dict"`
	Cache   CacheConfig   `toml:"cache"`
	CLI     CliConfig     `toml:"cli"`
	Metrics MetricsConfig `toml:"metrics"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	MaxLimit     int  `toml:"max_limit"`
	MinPrefix    int  `toml:"min_prefix"`
	MaxPrefix    int  `toml:"max_prefix"`
	EnableFilter bool `toml:"enable_filter"`
}

// IndexConfig selects the index implementation.
type IndexConfig struct {
	Kind      string `toml:"kind"`
	TrieOrder string `toml:"trie_order"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Path      string `toml:"path"`
	MaxWords  int    `toml:"max_words"`
	ChunkSize int    `toml:"chunk_size"`
}

// CacheConfig sizes the result cache. Size 0 disables it.
type CacheConfig struct {
	Size int `toml:"size"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `toml:"addr"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/wordrank
// 2. ~/Library/Application Support/wordrank (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", utils.AppName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", utils.AppName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordrank/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			DefaultLimit: 10,
			MaxLimit:     64,
			MinPrefix:    0,
			MaxPrefix:    60,
			EnableFilter: false,
		},
		Index: IndexConfig{
			Kind:      "trie",
			TrieOrder: "weight",
		},
		Dict: DictConfig{
			Path:      "data",
			MaxWords:  0,
			ChunkSize: 10000,
		},
		Cache: CacheConfig{
			Size: 1024,
		},
		CLI: CliConfig{
			DefaultLimit: 10,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// defaults; a file that fails to decode is salvaged value by value.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.DecodeTOMLFile(configPath, config); err != nil {
		log.Warnf("Config error: %v. Attempting partial recovery...", err)
		return tryPartialParse(configPath)
	}
	config.normalize()
	return config, nil
}

// tryPartialParse reads every value that has the right type and keeps the
// defaults for the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tables, err := utils.ReadTOMLTables(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration: %v. Using all defaults.", err)
		return config, nil
	}

	server := tables.Table("server")
	server.Int("default_limit", &config.Server.DefaultLimit)
	server.Int("max_limit", &config.Server.MaxLimit)
	server.Int("min_prefix", &config.Server.MinPrefix)
	server.Int("max_prefix", &config.Server.MaxPrefix)
	server.Bool("enable_filter", &config.Server.EnableFilter)

	index := tables.Table("index")
	index.String("kind", &config.Index.Kind)
	index.String("trie_order", &config.Index.TrieOrder)

	dict := tables.Table("dict")
	dict.String("path", &config.Dict.Path)
	dict.Int("max_words", &config.Dict.MaxWords)
	dict.Int("chunk_size", &config.Dict.ChunkSize)

	tables.Table("cache").Int("size", &config.Cache.Size)
	tables.Table("cli").Int("default_limit", &config.CLI.DefaultLimit)
	tables.Table("metrics").String("addr", &config.Metrics.Addr)

	config.normalize()
	return config, nil
}

// normalize replaces out-of-range values with their defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Server.MaxLimit <= 0 {
		log.Warnf("server.max_limit %d must be positive, using %d", c.Server.MaxLimit, def.Server.MaxLimit)
		c.Server.MaxLimit = def.Server.MaxLimit
	}
	if c.Server.DefaultLimit <= 0 || c.Server.DefaultLimit > c.Server.MaxLimit {
		c.Server.DefaultLimit = min(def.Server.DefaultLimit, c.Server.MaxLimit)
	}
	if c.Server.MinPrefix < 0 {
		c.Server.MinPrefix = 0
	}
	if c.Server.MaxPrefix <= 0 || c.Server.MaxPrefix < c.Server.MinPrefix {
		log.Warnf("server.max_prefix %d is out of range, using %d", c.Server.MaxPrefix, def.Server.MaxPrefix)
		c.Server.MaxPrefix = max(def.Server.MaxPrefix, c.Server.MinPrefix)
	}
	if c.Index.Kind == "" {
		c.Index.Kind = def.Index.Kind
	}
	if c.Dict.MaxWords < 0 {
		c.Dict.MaxWords = 0
	}
	if c.Dict.ChunkSize <= 0 {
		c.Dict.ChunkSize = def.Dict.ChunkSize
	}
	if c.Cache.Size < 0 {
		c.Cache.Size = 0
	}
	if c.CLI.DefaultLimit <= 0 {
		c.CLI.DefaultLimit = def.CLI.DefaultLimit
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "built-in defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
