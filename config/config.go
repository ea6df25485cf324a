package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"vehicles-dashboard/apperrors"
	"vehicles-dashboard/dashboard"
	"vehicles-dashboard/storage"
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "DASHBOARD_"

// SourceCSV reads the listings from DataPath.
const SourceCSV = "csv"

// Config holds all application configuration.
type Config struct {
	DataPath   string `koanf:"data_path"`
	Source     string `koanf:"source"`
	ConnString string `koanf:"dsn"`
	Table      string `koanf:"table"`

	PostgresHost     string `koanf:"postgres_host"`
	PostgresPort     string `koanf:"postgres_port"`
	PostgresUser     string `koanf:"postgres_user"`
	PostgresPassword string `koanf:"postgres_password"`
	PostgresDB       string `koanf:"postgres_db"`
	PostgresSSLMode  string `koanf:"postgres_sslmode"`

	Profile string `koanf:"profile"`
	Port    int    `koanf:"port"`
	Watch   bool   `koanf:"watch"`

	BannerPath   string `koanf:"banner_path"`
	BannerWidth  int    `koanf:"banner_width"`
	BannerHeight int    `koanf:"banner_height"`

	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`

	OTLPEndpoint string `koanf:"otlp_endpoint"`
	ChromeBin    string `koanf:"chrome_bin"`

	MaxConcurrency int    `koanf:"max_concurrency"`
	MaxRetries     int    `koanf:"max_retries"`
	LogLevel       string `koanf:"log_level"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// Defaults returns the built-in settings. The postgres_* keys also honour
// the plain POSTGRES_* variables so existing .env files keep working.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"data_path": "vehicles_clean.csv",
		"source":    SourceCSV,
		"dsn":       "",
		"table":     "vehicles",

		"postgres_host":     getEnv("POSTGRES_HOST", "localhost"),
		"postgres_port":     getEnv("POSTGRES_PORT", "5432"),
		"postgres_user":     getEnv("POSTGRES_USER", "dashboard"),
		"postgres_password": getEnv("POSTGRES_PASSWORD", ""),
		"postgres_db":       getEnv("POSTGRES_DB", "vehicles"),
		"postgres_sslmode":  getEnv("POSTGRES_SSLMODE", "disable"),

		"profile": dashboard.Classic.Name,
		"port":    8501,
		"watch":   false,

		"banner_path":   "Images/banner-car.jpg",
		"banner_width":  1200,
		"banner_height": 150,

		"redis_addr":     "",
		"redis_password": "",
		"redis_db":       0,
		"cache_ttl":      "10m",

		"otlp_endpoint": "",
		"chrome_bin":    getEnv("CHROME_BIN", ""),

		"max_concurrency": getEnvInt("MAX_CONCURRENCY", 3),
		"max_retries":     getEnvInt("MAX_RETRIES", 3),
		"log_level":       "info",
	}
}

// Load reads the .env file, then layers defaults, the config file,
// DASHBOARD_* environment variables and explicitly set flags, each
// overriding the previous one.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// a missing .env is normal
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", used, err)
		}
	}

	// DASHBOARD_REDIS_ADDR -> redis_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns the explicit path, else dashboard.yaml or
// dashboard.yml in the working directory, else "".
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"dashboard.yaml", "dashboard.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	if c.Source != SourceCSV && !contains(storage.Drivers, c.Source) {
		return apperrors.InvalidInput(fmt.Sprintf("config: unknown source %q (want csv or one of %s)",
			c.Source, strings.Join(storage.Drivers, ", ")), nil)
	}
	if c.Source == SourceCSV && c.DataPath == "" {
		return apperrors.InvalidInput("config: data_path is required for the csv source", nil)
	}
	if c.Source != SourceCSV && c.Source != storage.DriverPostgres && c.ConnString == "" {
		return apperrors.InvalidInput(fmt.Sprintf("config: dsn is required for the %s source", c.Source), nil)
	}
	if _, err := dashboard.ProfileByName(c.Profile); err != nil {
		return err
	}
	if c.Port < 1 || c.Port > 65535 {
		return apperrors.InvalidInput(fmt.Sprintf("config: port %d out of range", c.Port), nil)
	}
	if c.MaxConcurrency < 1 {
		c.MaxConcurrency = 1
	}
	return nil
}

// DSN returns the connection string of the SQL source. For postgres
// without an explicit dsn it is built from the postgres_* settings.
func (c *Config) DSN() string {
	if c.ConnString != "" || c.Source != storage.DriverPostgres {
		return c.ConnString
	}
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Addr is the listen address of the web server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
