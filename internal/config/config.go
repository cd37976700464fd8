// Package config loads aigov settings. AIGOV_* environment variables
// override aigov.yaml, which overrides the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Inventory InventoryConfig `mapstructure:"inventory"`
	Output    OutputConfig    `mapstructure:"output"`
	Evidence  EvidenceConfig  `mapstructure:"evidence"`
	Report    ReportConfig    `mapstructure:"report"`
	Log       LogConfig       `mapstructure:"log"`
}

type InventoryConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type OutputConfig struct {
	BaseDir     string        `mapstructure:"base_dir" validate:"required"`
	ArchiveName string        `mapstructure:"archive_name" validate:"required,excludesall=/\\"`
	Retention   time.Duration `mapstructure:"retention" validate:"min=0"`
}

type EvidenceConfig struct {
	Submitter  string `mapstructure:"submitter" validate:"required"`
	AppVersion string `mapstructure:"app_version" validate:"required"`
}

type ReportConfig struct {
	Organization string `mapstructure:"organization" validate:"required"`
	PreparedBy   string `mapstructure:"prepared_by" validate:"required"`
}

// LogConfig selects the log level and an optional rotated log file.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

const envPrefix = "AIGOV"

// MinRetention is the smallest non-zero retention. Run directories are
// stamped to the second.
const MinRetention = time.Second

func setDefaults(v *viper.Viper) {
	v.SetDefault("inventory.path", "aigov_inventory.yaml")
	v.SetDefault("output.base_dir", "output_artifacts")
	v.SetDefault("output.archive_name", "audit_package_ai_governance")
	v.SetDefault("output.retention", "720h")
	v.SetDefault("evidence.submitter", "AI Program Lead")
	v.SetDefault("evidence.app_version", "1.0.0")
	v.SetDefault("report.organization", "Sentinel Financial")
	v.SetDefault("report.prepared_by", "AI Program Lead")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Load reads configuration. When file is empty, aigov.yaml is searched for in
// the working directory and $HOME/.aigov; a missing file is not an error.
// When file is set it must exist.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("aigov")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.aigov")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects empty required settings, a negative or sub-second
// retention and an archive name containing a path separator.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid config: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	if r := c.Output.Retention; r > 0 && r < MinRetention {
		return fmt.Errorf("invalid config: output.retention %s is below %s", r, MinRetention)
	}
	return nil
}
