// Package config loads centroidwatch settings from flags, environment and
// an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CENTROIDWATCH_WATCH_DIR.
const EnvPrefix = "CENTROIDWATCH"

// Keys.
const (
	KeyWatchDir          = "watch_dir"
	KeyOutputDir         = "output_dir"
	KeyBackupDir         = "backup_dir"
	KeyInteractive       = "interactive"
	KeyScanExisting      = "scan_existing"
	KeyReadinessInterval = "readiness.interval"
	KeyReadinessAttempts = "readiness.attempts"
	KeyLogLevel          = "log.level"
	KeyLogFormat         = "log.format"
)

// Readiness controls how long a new file is polled before it is read.
type Readiness struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	Attempts int           `mapstructure:"attempts" yaml:"attempts"`
}

// Log selects the logger output.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Config is the resolved configuration.
type Config struct {
	WatchDir  string `mapstructure:"watch_dir" yaml:"watch_dir"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir,omitempty"`
	BackupDir string `mapstructure:"backup_dir" yaml:"backup_dir,omitempty"`
	// Interactive enables operator selection when no target matches.
	Interactive bool `mapstructure:"interactive" yaml:"interactive,omitempty"`
	// InteractiveSet is true when Interactive came from a flag, the
	// environment or the config file rather than the zero value.
	InteractiveSet bool      `mapstructure:"-" yaml:"-"`
	ScanExisting   bool      `mapstructure:"scan_existing" yaml:"scan_existing"`
	Readiness      Readiness `mapstructure:"readiness" yaml:"readiness"`
	Log            Log       `mapstructure:"log" yaml:"log"`
}

// DefaultWatchDir is the folder monitored when none is configured.
func DefaultWatchDir() string {
	if runtime.GOOS == "windows" {
		return `C:\kim`
	}
	return "/var/kim"
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		WatchDir: DefaultWatchDir(),
		Readiness: Readiness{
			Interval: 500 * time.Millisecond,
			Attempts: 10,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// New returns a viper instance with defaults and environment overrides.
// interactive deliberately has no default so IsSet tells whether the
// operator chose.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyWatchDir, d.WatchDir)
	v.SetDefault(KeyOutputDir, "")
	v.SetDefault(KeyBackupDir, "")
	v.SetDefault(KeyScanExisting, d.ScanExisting)
	v.SetDefault(KeyReadinessInterval, d.Readiness.Interval)
	v.SetDefault(KeyReadinessAttempts, d.Readiness.Attempts)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only answers for keys viper already knows about.
	_ = v.BindEnv(KeyInteractive)
	return v
}

// ReadFile loads path into v. With an empty path it looks for
// ./centroidwatch.yaml, then ~/.config/centroidwatch/config.yaml; finding
// neither is not an error. It returns the file used, if any.
func ReadFile(v *viper.Viper, path string) (string, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("read config %s: %w", path, err)
		}
		return v.ConfigFileUsed(), nil
	}

	candidates := []string{"centroidwatch.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "centroidwatch", "config.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err != nil {
			continue
		}
		v.SetConfigFile(c)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("read config %s: %w", c, err)
		}
		return v.ConfigFileUsed(), nil
	}
	return "", nil
}

// Load resolves v into a Config and fills derived directories.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.InteractiveSet = v.IsSet(KeyInteractive)
	if c.OutputDir == "" {
		c.OutputDir = c.WatchDir
	}
	if c.BackupDir == "" {
		c.BackupDir = filepath.Join(c.WatchDir, "backup")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings the monitor cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.WatchDir) == "" {
		errs = append(errs, errors.New("watch_dir is required"))
	}
	if c.Readiness.Interval <= 0 {
		errs = append(errs, fmt.Errorf("readiness.interval must be positive, got %s", c.Readiness.Interval))
	}
	if c.Readiness.Attempts <= 0 {
		errs = append(errs, fmt.Errorf("readiness.attempts must be positive, got %d", c.Readiness.Attempts))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text, json or logfmt, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// WriteDefault writes the default configuration as YAML to path. An
// existing file is only replaced when overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
