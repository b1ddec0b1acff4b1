// Package config loads the player's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/bluewaves/internal/lastfm"
	"github.com/llehouerou/bluewaves/internal/logger"
	"github.com/llehouerou/bluewaves/internal/playlist"
)

const (
	appName    = "bluewaves"
	dbFileName = "bluewaves.db"

	defaultCacheTTLDays = 7
)

type Config struct {
	MusicFolder string `koanf:"music_folder"` // scanned by the scan command
	DataDir     string `koanf:"data_dir"`     // empty means $XDG_DATA_HOME/bluewaves

	Notifications bool `koanf:"notifications"` // desktop notification on track change

	Playlist PlaylistConfig `koanf:"playlist"`

	// Last.fm similar artists (enables the similar shuffle mode when configured)
	Lastfm LastfmConfig `koanf:"lastfm"`

	Log LogConfig `koanf:"log"`
}

// PlaylistConfig holds the startup sequencing switches.
type PlaylistConfig struct {
	Repeat      *bool  `koanf:"repeat"`       // default: true
	Shuffle     *bool  `koanf:"shuffle"`      // default: true
	ShuffleMode string `koanf:"shuffle_mode"` // "random" or "similar" (default: "random")
}

// LastfmConfig holds Last.fm API configuration.
type LastfmConfig struct {
	APIKey       string `koanf:"api_key"`
	APISecret    string `koanf:"api_secret"`
	SimilarLimit int    `koanf:"similar_limit"`  // artists per lookup (default: 50)
	CacheTTLDays int    `koanf:"cache_ttl_days"` // default: 7
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error (default: info)
	Format string `koanf:"format"` // text or json (default: text)
}

// Load reads the default config files. Missing files are skipped.
func Load() (*Config, error) {
	return load(getConfigPaths(), false)
}

// LoadFile reads a single config file, which must exist.
func LoadFile(path string) (*Config, error) {
	return load([]string{expandPath(path)}, true)
}

func load(paths []string, required bool) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if required {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.MusicFolder = expandPath(cfg.MusicFolder)
	cfg.DataDir = expandPath(cfg.DataDir)

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/bluewaves/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// PlaylistSettings returns the sequencing switches with defaults applied.
func (c *Config) PlaylistSettings() playlist.Settings {
	s := playlist.DefaultSettings()
	if c.Playlist.Repeat != nil {
		s.Repeat = *c.Playlist.Repeat
	}
	if c.Playlist.Shuffle != nil {
		s.Shuffle = *c.Playlist.Shuffle
	}
	s.ShuffleMode = playlist.ParseShuffleMode(c.Playlist.ShuffleMode)
	return s
}

// HasLastfmConfig returns true if similar-artist lookups can run.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != ""
}

// LastfmSettings returns the Last.fm configuration with defaults applied.
func (c *Config) LastfmSettings() LastfmConfig {
	cfg := c.Lastfm
	if cfg.SimilarLimit <= 0 {
		cfg.SimilarLimit = lastfm.DefaultSimilarLimit
	}
	if cfg.CacheTTLDays <= 0 {
		cfg.CacheTTLDays = defaultCacheTTLDays
	}
	return cfg
}

// LoggerConfig maps the [log] table to logger settings.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// DataPath returns the directory holding the database and playlists.
func (c *Config) DataPath() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(xdg.DataHome, appName)
}

// DBPath returns the sqlite database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataPath(), dbFileName)
}

// PlaylistsDir returns the directory of saved m3u8 playlists.
func (c *Config) PlaylistsDir() string {
	return filepath.Join(c.DataPath(), "playlists")
}

// CoversDir returns the directory of cached album covers.
func (c *Config) CoversDir() string {
	return filepath.Join(c.DataPath(), "covers")
}
