package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed sample_config.toml
var sampleConfig string

// Bucket is a named, pre-configured unit of work the timer can be switched to.
type Bucket struct {
	Project     string   `toml:"project" yaml:"project" json:"project"`
	Task        string   `toml:"task" yaml:"task" json:"task"`
	Tags        []string `toml:"tags" yaml:"tags" json:"tags"`
	Description string   `toml:"description" yaml:"description" json:"description"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" yaml:"format"`
	Level  string `toml:"level" yaml:"level"`
	File   string `toml:"file" yaml:"file"`
}

// Config encapsulates all configuration values for dcl.
//
// Configuration sections:
//   - BaseURL, APIKey, RequestTimeout: Clockify API access
//   - CachePath: location of the SQLite entity cache
//   - Logging: log format, level and optional log file
//   - Buckets: named work buckets keyed by the name passed on the command line
type Config struct {
	BaseURL        string            `toml:"base_url" yaml:"base_url"`
	APIKey         string            `toml:"api_key" yaml:"api_key"`
	RequestTimeout int               `toml:"request_timeout" yaml:"request_timeout"`
	CachePath      string            `toml:"cache_path" yaml:"cache_path"`
	Logging        Logging           `toml:"logging" yaml:"logging"`
	Buckets        map[string]Bucket `toml:"buckets" yaml:"buckets"`

	// Dir is the configuration directory the file was resolved against.
	Dir string `toml:"-" yaml:"-"`
}

// Dir returns the configuration directory. DCL_CONFIG_DIR overrides the
// default of ~/.config/dimagi-clockify-cli.
func Dir() (string, error) {
	if value, ok := os.LookupEnv(configDirEnv); ok && strings.TrimSpace(value) != "" {
		return expandPath(strings.TrimSpace(value))
	}
	return expandPath(defaultConfigDir)
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileNames[0]), nil
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	cfg.Dir = filepath.Dir(resolvedPath)

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := decode(file, resolvedPath, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decode(r io.Reader, path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err := yaml.NewDecoder(r).Decode(cfg)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	default:
		return toml.NewDecoder(r).Decode(cfg)
	}
}

// ResolvePath returns the config file Load would read for path and whether
// it exists. An empty path searches the config directory.
func ResolvePath(path string) (string, bool, error) {
	return resolveConfigPath(path)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	dir, err := Dir()
	if err != nil {
		return "", false, err
	}
	for _, name := range configFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return filepath.Join(dir, configFileNames[0]), false, nil
}

// EnsureDirectories creates the directories holding the cache database and log file.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.CachePath)}
	if c.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.File))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Bucket returns the named bucket.
func (c *Config) Bucket(name string) (Bucket, bool) {
	bucket, ok := c.Buckets[strings.TrimSpace(name)]
	return bucket, ok
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
