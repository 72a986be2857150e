package config

import (
	"fmt"

	"github.com/gobwas/glob"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// BucketNames returns the configured bucket names in collation order. A
// non-empty pattern filters names using shell-style glob syntax.
func (c *Config) BucketNames(pattern string) ([]string, error) {
	var matcher glob.Glob
	if pattern != "" {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid bucket pattern %q: %w", pattern, err)
		}
		matcher = compiled
	}

	names := make([]string, 0, len(c.Buckets))
	for name := range c.Buckets {
		if matcher != nil && !matcher.Match(name) {
			continue
		}
		names = append(names, name)
	}
	collate.New(language.English, collate.IgnoreCase).SortStrings(names)
	return names, nil
}
