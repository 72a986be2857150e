package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateBuckets(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigDir + "/config.toml"
		}
		return fmt.Errorf("api_key is required. Set %s env var or edit %s (create with 'dcl config init')", apiKeyEnv, defaultPath)
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", c.BaseURL)
	}
	if c.RequestTimeout < 0 {
		return errors.New("request_timeout must be >= 0 (seconds, 0 uses the transport default)")
	}
	return nil
}

func (c *Config) validateBuckets() error {
	names := make([]string, 0, len(c.Buckets))
	for name := range c.Buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		bucket := c.Buckets[name]
		if name == "" {
			return errors.New("buckets: bucket name must not be empty")
		}
		if _, reserved := reservedBucketNames[strings.ToLower(name)]; reserved {
			return fmt.Errorf("buckets.%s: %q is a reserved command name", name, name)
		}
		if bucket.Project == "" {
			return fmt.Errorf("buckets.%s.project must be set", name)
		}
		if bucket.Task == "" {
			return fmt.Errorf("buckets.%s.task must be set", name)
		}
		for i, tag := range bucket.Tags {
			if tag == "" {
				return fmt.Errorf("buckets.%s.tags[%d] must not be empty", name, i)
			}
		}
	}
	return nil
}
