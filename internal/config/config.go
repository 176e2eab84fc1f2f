// Package config loads paperlib settings from a YAML file, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PAPERLIB_LIBRARY_PATH.
const EnvPrefix = "PAPERLIB"

// Repository backends for the library snapshot.
const (
	StoreFile = "file"
	StoreBolt = "bolt"
)

type Config struct {
	Library    LibraryConfig    `mapstructure:"library"`
	Arxiv      ArxivConfig      `mapstructure:"arxiv"`
	PDF        PDFConfig        `mapstructure:"pdf"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Log        LogConfig        `mapstructure:"log"`
	Server     ServerConfig     `mapstructure:"server"`
	Backup     BackupConfig     `mapstructure:"backup"`
}

type LibraryConfig struct {
	Path  string `mapstructure:"path"`
	Store string `mapstructure:"store"`
}

type ArxivConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	MaxResults int    `mapstructure:"max_results"`
	UserAgent  string `mapstructure:"user_agent"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type PDFConfig struct {
	URLTemplate string `mapstructure:"url_template"`
	CacheDir    string `mapstructure:"cache_dir"`
	MaxPages    int    `mapstructure:"max_pages"`
}

type SummarizerConfig struct {
	Backend   string `mapstructure:"backend"`
	Endpoint  string `mapstructure:"endpoint"`
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	MaxLength int    `mapstructure:"max_length"`
	MinLength int    `mapstructure:"min_length"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File receives the log while the TUI owns the terminal.
	File string `mapstructure:"file"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// APIKey, when set, must be sent as X-API-KEY on every request.
	APIKey string `mapstructure:"api_key"`
}

// BackupConfig locates the S3 bucket. Credentials come from the environment,
// see the backup package.
type BackupConfig struct {
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	Keep     int    `mapstructure:"keep"`
	Schedule string `mapstructure:"schedule"`
}

// DataDir is where the library lives unless library.path says otherwise.
func DataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "paperlib")
}

// SetDefaults registers every key so environment overrides reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("library.path", filepath.Join(DataDir(), "library.json"))
	v.SetDefault("library.store", StoreFile)

	v.SetDefault("arxiv.base_url", "https://export.arxiv.org/api/query")
	v.SetDefault("arxiv.max_results", 10)
	v.SetDefault("arxiv.user_agent", "")
	v.SetDefault("arxiv.max_retries", 4)

	v.SetDefault("pdf.url_template", "http://localhost:8001/api/pdf/%s.pdf")
	v.SetDefault("pdf.cache_dir", "")
	v.SetDefault("pdf.max_pages", 20)

	v.SetDefault("summarizer.backend", "service")
	v.SetDefault("summarizer.endpoint", "")
	v.SetDefault("summarizer.model", "")
	v.SetDefault("summarizer.api_key", "")
	v.SetDefault("summarizer.max_length", 350)
	v.SetDefault("summarizer.min_length", 64)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "paperlib.log")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.api_key", "")

	v.SetDefault("backup.bucket", "")
	v.SetDefault("backup.prefix", "paperlib/")
	v.SetDefault("backup.region", "us-east-1")
	v.SetDefault("backup.endpoint", "")
	v.SetDefault("backup.keep", 4)
	v.SetDefault("backup.schedule", "")
}

// Prepare points v at the config file and environment. An empty file searches
// ./paperlib.yaml and ~/.config/paperlib/config.yaml. Dotenv files are loaded
// first without overriding variables that are already set; missing ones are
// ignored.
func Prepare(v *viper.Viper, file string, envFiles ...string) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("paperlib")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "paperlib"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration into a Config. A missing config file is fine
// unless file was given explicitly.
func Load(v *viper.Viper, file string, envFiles ...string) (Config, error) {
	Prepare(v, file, envFiles...)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return Decode(v)
}

// Decode unmarshals and validates the current state of v.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	switch c.Library.Store {
	case StoreFile, StoreBolt:
	default:
		errs = append(errs, fmt.Errorf("library.store must be %q or %q, got %q", StoreFile, StoreBolt, c.Library.Store))
	}
	if strings.TrimSpace(c.Library.Path) == "" {
		errs = append(errs, errors.New("library.path is empty"))
	}
	if c.Arxiv.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("arxiv.max_results must be positive, got %d", c.Arxiv.MaxResults))
	}
	if c.Summarizer.MinLength > c.Summarizer.MaxLength {
		errs = append(errs, fmt.Errorf("summarizer.min_length %d exceeds max_length %d", c.Summarizer.MinLength, c.Summarizer.MaxLength))
	}
	if c.Backup.Keep < 1 {
		errs = append(errs, fmt.Errorf("backup.keep must be at least 1, got %d", c.Backup.Keep))
	}
	return errors.Join(errs...)
}
