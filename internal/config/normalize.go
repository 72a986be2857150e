package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAPI()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeBuckets()
	return nil
}

func (c *Config) normalizeAPI() {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.APIKey == "" {
		if value, ok := os.LookupEnv(apiKeyEnv); ok {
			c.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Dir) == "" {
		if c.Dir, err = Dir(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.CachePath) == "" {
		c.CachePath = filepath.Join(c.Dir, defaultCacheFile)
	}
	if c.CachePath, err = expandPath(strings.TrimSpace(c.CachePath)); err != nil {
		return fmt.Errorf("cache_path: %w", err)
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeBuckets() {
	if c.Buckets == nil {
		c.Buckets = map[string]Bucket{}
		return
	}
	normalized := make(map[string]Bucket, len(c.Buckets))
	for name, bucket := range c.Buckets {
		bucket.Project = strings.TrimSpace(bucket.Project)
		bucket.Task = strings.TrimSpace(bucket.Task)
		bucket.Description = strings.TrimSpace(bucket.Description)
		if len(bucket.Tags) > 0 {
			tags := make([]string, len(bucket.Tags))
			for i, tag := range bucket.Tags {
				tags[i] = strings.TrimSpace(tag)
			}
			bucket.Tags = tags
		}
		normalized[strings.TrimSpace(name)] = bucket
	}
	c.Buckets = normalized
}
