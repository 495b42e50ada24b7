package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STOREDIAG_STORE_BACKEND.
const EnvPrefix = "STOREDIAG"

// Settings are the runtime knobs of the storediag process.
type Settings struct {
	DataDir     string            `mapstructure:"data_dir"`
	ConfigDir   string            `mapstructure:"config_dir"`
	Concurrency int               `mapstructure:"concurrency"`
	RateLimit   float64           `mapstructure:"rate_limit"`
	RunTimeout  time.Duration     `mapstructure:"run_timeout"`
	Store       StoreSettings     `mapstructure:"store"`
	Lock        LockSettings      `mapstructure:"lock"`
	Log         LogSettings       `mapstructure:"log"`
	Telemetry   TelemetrySettings `mapstructure:"telemetry"`
	Discord     DiscordSettings   `mapstructure:"discord"`
}

// StoreSettings select and address the result store.
type StoreSettings struct {
	Backend  string `mapstructure:"backend"`
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

// LockSettings select the per-store lock.
type LockSettings struct {
	Backend       string        `mapstructure:"backend"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// LogSettings configure slog.
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetrySettings configure OTLP export. An empty endpoint disables export.
type TelemetrySettings struct {
	Endpoint    string `mapstructure:"endpoint"`
	Insecure    bool   `mapstructure:"insecure"`
	ServiceName string `mapstructure:"service_name"`
}

// DiscordSettings configure critical-result notifications. An empty token disables them.
type DiscordSettings struct {
	Token     string `mapstructure:"token"`
	ChannelID string `mapstructure:"channel_id"`
}

// LoadOptions point Load at optional files.
type LoadOptions struct {
	ConfigFile string // settings file; missing is fine unless explicitly named
	EnvFile    string // dotenv file; missing is fine
}

var (
	validStoreBackends = []string{"file", "sqlite", "postgres", "mysql", "s3", "gcs"}
	validLockBackends  = []string{"memory", "redis"}
	validLogFormats    = []string{"text", "json"}
	validLogLevels     = []string{"debug", "info", "warn", "error"}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("config_dir", ".")
	v.SetDefault("concurrency", 4)
	v.SetDefault("rate_limit", 0.0)
	v.SetDefault("run_timeout", "0s")
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.table", "diagnostic_results")
	v.SetDefault("store.bucket", "")
	v.SetDefault("store.prefix", "results/")
	v.SetDefault("store.region", "")
	v.SetDefault("store.endpoint", "")
	v.SetDefault("lock.backend", "memory")
	v.SetDefault("lock.redis_addr", "localhost:6379")
	v.SetDefault("lock.redis_password", "")
	v.SetDefault("lock.redis_db", 0)
	v.SetDefault("lock.ttl", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.insecure", false)
	v.SetDefault("telemetry.service_name", "storediag")
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.channel_id", "")
}

// Load reads settings from defaults, the optional settings file, the optional
// dotenv file and STOREDIAG_* environment variables, later sources winning.
func Load(opts LoadOptions) (*Settings, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading settings file: %w", err)
		}
	} else {
		v.SetConfigName("storediag")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading settings file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

// Validate checks enumerations and bounds.
func (s *Settings) Validate() error {
	if !oneOf(s.Store.Backend, validStoreBackends) {
		return fmt.Errorf("unknown store.backend %q (valid: %s)", s.Store.Backend, strings.Join(validStoreBackends, ", "))
	}
	switch s.Store.Backend {
	case "postgres", "mysql":
		if s.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the %s backend", s.Store.Backend)
		}
	case "s3", "gcs":
		if s.Store.Bucket == "" {
			return fmt.Errorf("store.bucket is required for the %s backend", s.Store.Backend)
		}
	}
	if !oneOf(s.Lock.Backend, validLockBackends) {
		return fmt.Errorf("unknown lock.backend %q (valid: %s)", s.Lock.Backend, strings.Join(validLockBackends, ", "))
	}
	if s.Lock.Backend == "redis" && s.Lock.TTL <= 0 {
		return fmt.Errorf("lock.ttl must be > 0 for the redis lock")
	}
	if !oneOf(strings.ToLower(s.Log.Level), validLogLevels) {
		return fmt.Errorf("unknown log.level %q", s.Log.Level)
	}
	if !oneOf(s.Log.Format, validLogFormats) {
		return fmt.Errorf("unknown log.format %q (valid: text, json)", s.Log.Format)
	}
	if s.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if s.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}
	if s.RunTimeout < 0 {
		return fmt.Errorf("run_timeout must not be negative")
	}
	if s.Discord.Token != "" && s.Discord.ChannelID == "" {
		return fmt.Errorf("discord.channel_id is required when discord.token is set")
	}
	return nil
}

func oneOf(v string, valid []string) bool {
	for _, x := range valid {
		if v == x {
			return true
		}
	}
	return false
}
