// Package config loads, normalizes, and validates dcl configuration data.
//
// It supplies repository defaults, resolves the configuration directory
// (DCL_CONFIG_DIR or ~/.config/dimagi-clockify-cli), reads TOML or YAML files,
// and honours the CLOCKIFY_API_KEY environment fallback. Buckets are the named
// units of work the CLI switches the Clockify timer to.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
