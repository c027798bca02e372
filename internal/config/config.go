package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"sss-go/internal/dedupe"
	"sss-go/internal/organize"
)

// Config represents the main configuration for sss.
type Config struct {
	BaseDir  string         `toml:"base_dir"`
	LogDir   string         `toml:"log_dir"`
	LogLevel string         `toml:"log_level"` // "debug", "info", "warn" or "error"
	Scan     ScanConfig     `toml:"scan"`
	Organize OrganizeConfig `toml:"organize"`
	Dedupe   DedupeConfig   `toml:"dedupe"`
	Database DatabaseConfig `toml:"database"`
}

// ScanConfig controls which files are considered at all.
type ScanConfig struct {
	Extensions []string `toml:"extensions"` // empty means every file
	Recursive  bool     `toml:"recursive"`
	Ignore     []string `toml:"ignore"`
}

// OrganizeConfig controls the date-based relocation flow.
type OrganizeConfig struct {
	OutDirName string `toml:"out_dir_name"` // created inside the scanned directory
	DateSource string `toml:"date_source"`  // "mtime" or "exif"
}

// DedupeConfig controls duplicate detection and relocation.
type DedupeConfig struct {
	TargetDirName string `toml:"target_dir_name"` // created inside the scanned directory
	KeeperPolicy  string `toml:"keeper_policy"`   // "newest", "oldest" or "shortest_path"
	HashAlgorithm string `toml:"hash_algorithm"`  // "sha256" or "blake3"
	ChunkSize     int    `toml:"chunk_size"`
	Workers       int    `toml:"workers"`     // 0 means one per CPU
	OnConflict    string `toml:"on_conflict"` // "rename", "overwrite" or "fail"
}

// DatabaseConfig represents configuration for the run journal.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a Config with every default filled in below baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		Scan: ScanConfig{
			Extensions: []string{".png", ".jpg", ".jpeg"},
		},
		Organize: OrganizeConfig{
			OutDirName: "_by_date",
			DateSource: "mtime",
		},
		Dedupe: DedupeConfig{
			TargetDirName: "_duplicates",
			KeeperPolicy:  string(dedupe.DefaultPolicy),
			HashAlgorithm: string(dedupe.SHA256),
			ChunkSize:     dedupe.DefaultChunkSize,
			Workers:       runtime.NumCPU(),
			OnConflict:    string(dedupe.CollisionRename),
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
	}
}

// Validate checks every enumerated setting and numeric bound.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	for _, name := range []struct{ key, value string }{
		{"organize.out_dir_name", c.Organize.OutDirName},
		{"dedupe.target_dir_name", c.Dedupe.TargetDirName},
	} {
		if name.value == "" || strings.ContainsAny(name.value, `/\`) || name.value == "." || name.value == ".." {
			return fmt.Errorf("invalid %s %q: must be a plain directory name", name.key, name.value)
		}
	}
	if _, err := organize.NewDateSource(c.Organize.DateSource); err != nil {
		return fmt.Errorf("invalid organize.date_source: %w", err)
	}
	if _, err := dedupe.ParsePolicy(c.Dedupe.KeeperPolicy); err != nil {
		return fmt.Errorf("invalid dedupe.keeper_policy: %w", err)
	}
	if _, err := dedupe.ParseAlgorithm(c.Dedupe.HashAlgorithm); err != nil {
		return fmt.Errorf("invalid dedupe.hash_algorithm: %w", err)
	}
	if _, err := dedupe.ParseCollisionPolicy(c.Dedupe.OnConflict); err != nil {
		return fmt.Errorf("invalid dedupe.on_conflict: %w", err)
	}
	if c.Dedupe.ChunkSize <= 0 {
		return fmt.Errorf("invalid dedupe.chunk_size %d: must be positive", c.Dedupe.ChunkSize)
	}
	if c.Dedupe.Workers < 0 {
		return fmt.Errorf("invalid dedupe.workers %d: must not be negative", c.Dedupe.Workers)
	}
	switch c.Database.Type {
	case "sqlite":
		if c.Database.DataDir == "" {
			return fmt.Errorf("database.data_dir required for sqlite database")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database type: %s", c.Database.Type)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if err := m.ReadInto(r, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReadInto decodes onto cfg, keeping any field the input does not set.
func (m *Manager) ReadInto(r io.Reader, cfg *Config) error {
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Load reads the config at path on top of NewConfig(baseDir) and validates
// the result. A missing file yields the defaults.
func Load(path, baseDir string) (*Config, error) {
	cfg := NewConfig(baseDir)

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.ReadInto(f, cfg); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to a new config file at path. An existing file is left alone.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
