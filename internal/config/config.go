package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"docsync/internal/domain"
	"docsync/internal/transform"
)

// Config holds all toolkit configuration.
type Config struct {
	CacheDir     string            `mapstructure:"cache_dir"`     // Sync output root, relative to the project root
	FallbackFile string            `mapstructure:"fallback_file"` // Document substituted when a source fails
	ContentDir   string            `mapstructure:"content_dir"`   // Root walked by the check/migrate commands
	Token        string            `mapstructure:"token"`         // API token for private sources (usually from env)
	Sources      []SourceConfig    `mapstructure:"sources"`
	Frontmatter  FrontmatterConfig `mapstructure:"frontmatter"`
	Shortcodes   []ShortcodeRule   `mapstructure:"shortcodes"`
	Logging      LoggingConfig     `mapstructure:"logging"`
}

// SourceConfig is one remote document to synchronize.
type SourceConfig struct {
	URL     string `mapstructure:"url"`
	Output  string `mapstructure:"output"`
	Private bool   `mapstructure:"private"`
}

// FrontmatterConfig drives the check-frontmatter command.
type FrontmatterConfig struct {
	Required []string `mapstructure:"required"` // Fields every content file must carry
	Optional []string `mapstructure:"optional"` // Fields that are allowed but not required
}

// ShortcodeRule is one migrate-shortcodes replacement.
type ShortcodeRule struct {
	Pattern string `mapstructure:"pattern"`
	Replace string `mapstructure:"replace"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CacheDir:   filepath.Join("docs", ".cache"),
		ContentDir: "docs",
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// Load reads configuration from the given file (or ./docsync.yaml when path
// is empty) and the environment. A local .env file is honored so the token
// can live outside the settings file.
func Load(path string) (*Config, error) {
	// Best effort: a missing .env is the normal case.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("docsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("DOCSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file found; defaults plus environment still apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Token == "" {
		cfg.Token = firstEnv("DOCSYNC_GITHUB_TOKEN", "GITHUB_TOKEN")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the sync pipeline cannot run against.
// These are the only errors that abort a run before any source is attempted.
func (c *Config) Validate() error {
	if c.CacheDir == "" {
		return fmt.Errorf("invalid configuration: cache_dir must be set")
	}
	if len(c.Sources) > 0 && c.FallbackFile == "" {
		return fmt.Errorf("invalid configuration: fallback_file must be set when sources are configured")
	}

	seen := make(map[string]int, len(c.Sources))
	for i, src := range c.Sources {
		if src.URL == "" {
			return fmt.Errorf("invalid configuration: source %d has no url", i)
		}
		if src.Output == "" {
			return fmt.Errorf("invalid configuration: source %q has no output path", src.URL)
		}
		if filepath.IsAbs(src.Output) {
			return fmt.Errorf("invalid configuration: output %q must be relative to cache_dir", src.Output)
		}
		clean := filepath.Clean(src.Output)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return fmt.Errorf("invalid configuration: output %q escapes cache_dir", src.Output)
		}
		if prior, dup := seen[clean]; dup {
			return fmt.Errorf("invalid configuration: sources %d and %d share output path %q", prior, i, src.Output)
		}
		seen[clean] = i
	}
	return nil
}

// SourceList converts the configured sources into domain descriptors.
func (c *Config) SourceList() []domain.Source {
	sources := make([]domain.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		sources = append(sources, domain.Source{
			URL:     s.URL,
			Output:  s.Output,
			Private: s.Private,
		})
	}
	return sources
}

// MigrationRules converts the configured shortcode rules for the transformer.
func (c *Config) MigrationRules() []transform.Rule {
	rules := make([]transform.Rule, 0, len(c.Shortcodes))
	for _, r := range c.Shortcodes {
		rules = append(rules, transform.Rule{Pattern: r.Pattern, Replace: r.Replace})
	}
	return rules
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
