// Package config loads and saves the TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"

	"ivly-cli/internal/fsutil"
	"ivly-cli/internal/session"
)

const (
	EnvDir    = "IVLY_DIR"
	EnvConfig = "IVLY_CONFIG"

	defaultDirName = ".ivly"
	fileName       = "config.toml"
)

type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

type Config struct {
	Store   StoreConfig         `toml:"store"`
	Logging LoggingConfig       `toml:"logging"`
	Keys    map[string][]string `toml:"keys,omitempty"`
	Tags    map[string]TagStyle `toml:"tags,omitempty"`
}

type StoreConfig struct {
	Backend Backend `toml:"backend"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	// File, when set, receives logfmt output in addition to stderr.
	File string `toml:"file,omitempty"`
}

// TagStyle colors a tag in printed output. Empty means the terminal default.
type TagStyle struct {
	Fg string `toml:"fg,omitempty"`
	Bg string `toml:"bg,omitempty"`
}

// Colors are the color names accepted in tag styles.
var Colors = []string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"bright black", "bright red", "bright green", "bright yellow",
	"bright blue", "bright magenta", "bright cyan", "bright white",
}

// DefaultTagFg is the foreground given to a new tag style without one.
const DefaultTagFg = "green"

func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend: BackendFile,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir resolves the data directory: flag, then $IVLY_DIR, then ~/.ivly.
func Dir(flag string) (string, error) {
	if v := strings.TrimSpace(flag); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv(EnvDir)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, defaultDirName), nil
}

// Path resolves the config file: flag, then $IVLY_CONFIG, then dir/config.toml.
func Path(dir, flag string) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(EnvConfig)); v != "" {
		return v
	}
	return filepath.Join(dir, fileName)
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("invalid store.backend: %q", c.Store.Backend)
	}

	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if _, err := c.Keymap(); err != nil {
		return err
	}

	for name, st := range c.Tags {
		if strings.TrimSpace(name) == "" {
			return errors.New("tags: empty tag name")
		}
		if err := validateColor(st.Fg); err != nil {
			return fmt.Errorf("tags.%s.fg: %w", name, err)
		}
		if err := validateColor(st.Bg); err != nil {
			return fmt.Errorf("tags.%s.bg: %w", name, err)
		}
	}
	return nil
}

func validateColor(name string) error {
	if name == "" || slices.Contains(Colors, strings.ToLower(name)) {
		return nil
	}
	return fmt.Errorf("unknown color %q (expected one of %s)", name, strings.Join(Colors, ", "))
}

// Keymap returns the session key bindings with [keys] overrides applied.
func (c Config) Keymap() (session.Keymap, error) {
	km := session.DefaultKeymap()
	if err := km.Override(c.Keys); err != nil {
		return session.Keymap{}, fmt.Errorf("keys: %w", err)
	}
	return km, nil
}

// TagStyle returns the style for tag, if any.
func (c Config) TagStyle(tag string) (TagStyle, bool) {
	st, ok := c.Tags[tag]
	return st, ok
}

// TagNames returns the configured tag names sorted.
func (c Config) TagNames() []string {
	names := make([]string, 0, len(c.Tags))
	for name := range c.Tags {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Save validates cfg and writes it to path atomically.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	b, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := fsutil.AtomicWriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// UpsertTagStyle loads path, merges st into the style for tag and saves.
// Empty fields in st keep the stored value; a new tag starts out green.
func UpsertTagStyle(path string, defaults Config, tag string, st TagStyle) (Config, error) {
	cfg, err := Load(path, defaults)
	if err != nil {
		return Config{}, err
	}
	cur, ok := cfg.Tags[tag]
	if !ok {
		cur.Fg = DefaultTagFg
	}
	if st.Fg != "" {
		cur.Fg = strings.ToLower(st.Fg)
	}
	if st.Bg != "" {
		cur.Bg = strings.ToLower(st.Bg)
	}
	tags := make(map[string]TagStyle, len(cfg.Tags)+1)
	for k, v := range cfg.Tags {
		tags[k] = v
	}
	tags[tag] = cur
	cfg.Tags = tags
	if err := Save(path, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
