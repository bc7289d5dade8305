// Package config loads runtime configuration from flags, environment and an
// optional YAML file, and installs the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"photo-backup/internal/backup"
)

// Config holds the full application configuration.
type Config struct {
	Backup BackupConfig `yaml:"backup" mapstructure:"backup"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// BackupConfig configures a backup run. Source and Dest normally come from
// positional arguments rather than the file.
type BackupConfig struct {
	Source     string   `yaml:"source" mapstructure:"source"`
	Dest       string   `yaml:"dest" mapstructure:"dest"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`
	Workers    int      `yaml:"workers" mapstructure:"workers"`
	DryRun     bool     `yaml:"dry_run" mapstructure:"dry_run"`
	Report     string   `yaml:"report" mapstructure:"report"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"ext":        "backup.extensions",
	"workers":    "backup.workers",
	"dry-run":    "backup.dry_run",
	"report":     "backup.report",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// Load reads configuration from file, environment and flags.
// configFile may be empty, in which case photo-backup.yaml is looked up in
// the working directory and is optional. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("photo-backup")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("PHOTOBACKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("backup.source", "")
	v.SetDefault("backup.dest", "")
	v.SetDefault("backup.extensions", backup.DefaultExtensions)
	v.SetDefault("backup.workers", 1)
	v.SetDefault("backup.dry_run", false)
	v.SetDefault("backup.report", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Flags (only those actually set override the layers above)
	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, eris.Wrapf(err, "config: bind flag %s", name)
			}
		}
	}

	// Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the backup settings that do not depend on the
// filesystem. Root directories are checked by the backup package itself.
func (c *Config) Validate() error {
	var exts []string
	for _, e := range c.Backup.Extensions {
		// Values from env or file may arrive as one comma-separated string.
		for _, part := range strings.Split(e, ",") {
			if part = strings.TrimSpace(part); part != "" {
				exts = append(exts, part)
			}
		}
	}
	if len(exts) == 0 {
		return eris.New("config: extension allow-list is empty")
	}
	c.Backup.Extensions = exts

	if c.Backup.Workers < 1 {
		return eris.Errorf("config: workers must be at least 1 (got %d)", c.Backup.Workers)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
