package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/tallysync/tallysync/internal/utils"
)

var (
	home, _            = os.UserHomeDir()
	DefaultConfigDir   = filepath.Join(home, ".tallysync")
	DefaultConfigPath  = filepath.Join(DefaultConfigDir, "config.json")
	XDGConfigPath      = filepath.Join(home, ".config", "tallysync", "config.json")
	DefaultLogFilePath = filepath.Join(DefaultConfigDir, "logs", "tallysync.log")
	DefaultLockPath    = filepath.Join(DefaultConfigDir, "sync.lock")
	DefaultHTTPAddr    = "localhost:7940"
)

type Config struct {
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Exclude     []string `json:"exclude,omitempty"`
	LogFile     string   `json:"log_file,omitempty"`
	HTTPAddr    string   `json:"http_addr,omitempty"`
	HTTPToken   string   `json:"http_token,omitempty"`
	Path        string   `json:"-"`
}

// AppRoot is the directory the running binary lives in. It falls back to the
// working directory when the executable cannot be located.
func AppRoot() string {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// DefaultDestination is <root>/src/tally_data.
func DefaultDestination(root string) string {
	return filepath.Join(root, "src", "tally_data")
}

// Default returns a config pointing at the application root.
func Default() *Config {
	root := AppRoot()
	return &Config{
		Source:      root,
		Destination: DefaultDestination(root),
		LogFile:     DefaultLogFilePath,
		HTTPAddr:    DefaultHTTPAddr,
		Path:        DefaultConfigPath,
	}
}

// Validate resolves every path to an absolute one and checks the HTTP address.
// It does not touch the filesystem beyond that; readability of source and
// destination is checked by the session when paths are adopted.
func (c *Config) Validate() error {
	var err error

	if c.Source, err = utils.ResolvePath(c.Source); err != nil {
		return fmt.Errorf("invalid source: %w", err)
	}
	if c.Destination, err = utils.ResolvePath(c.Destination); err != nil {
		return fmt.Errorf("invalid destination: %w", err)
	}
	if c.LogFile != "" {
		if c.LogFile, err = utils.ResolvePath(c.LogFile); err != nil {
			return fmt.Errorf("invalid log file: %w", err)
		}
	}
	if c.Path != "" {
		if c.Path, err = utils.ResolvePath(c.Path); err != nil {
			return fmt.Errorf("invalid config path: %w", err)
		}
	}
	if c.HTTPAddr != "" {
		if _, _, err := net.SplitHostPort(c.HTTPAddr); err != nil {
			return fmt.Errorf("invalid http addr %q: %w", c.HTTPAddr, err)
		}
	}
	return nil
}

func (c *Config) Save(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if err := utils.EnsureParent(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// may hold the http token
	return os.WriteFile(path, data, 0o600)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}
