package config

const (
	configDirEnv          = "DCL_CONFIG_DIR"
	apiKeyEnv             = "CLOCKIFY_API_KEY"
	defaultConfigDir      = "~/.config/dimagi-clockify-cli"
	defaultCacheFile      = "cache.db"
	defaultBaseURL        = "https://api.clockify.me/api/v1"
	defaultRequestTimeout = 0
	defaultLogFormat      = "console"
	defaultLogLevel       = "warn"
)

// configFileNames lists the file names searched in the config directory, in order.
var configFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// reservedBucketNames collide with subcommands and cannot be used as buckets.
var reservedBucketNames = map[string]struct{}{
	"stop":       {},
	"list":       {},
	"cache":      {},
	"config":     {},
	"check":      {},
	"help":       {},
	"completion": {},
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		RequestTimeout: defaultRequestTimeout,
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Buckets: map[string]Bucket{},
	}
}
