package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. UBERFILE_LOG_LEVEL
const EnvPrefix = "UBERFILE"

// Loader merges defaults, the config file, environment and bound flags
type Loader struct {
	path  string
	dir   string
	viper *viper.Viper
}

// NewLoader creates a loader. An empty path means ~/.config/uberfile/config.yaml.
func NewLoader(path string) (*Loader, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	}

	l := &Loader{
		path:  path,
		dir:   dir,
		viper: viper.New(),
	}
	l.viper.SetConfigFile(path)
	l.viper.SetConfigType("yaml")
	l.viper.SetEnvPrefix(EnvPrefix)
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.viper.AutomaticEnv()
	l.setDefaults()
	return l, nil
}

// Path returns the configuration file location
func (l *Loader) Path() string {
	return l.path
}

// BindFlag lets a command line flag override key
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind for %s", key)
	}
	return l.viper.BindPFlag(key, flag)
}

// Load reads the configuration. A missing file is not an error.
func (l *Loader) Load() (*Config, error) {
	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) && !stderrors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.path, err)
		}
	}

	var cfg Config
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// WriteDefault writes the built-in configuration to the loader's path.
// An existing file is left alone unless force is set.
func (l *Loader) WriteDefault(force bool) error {
	if _, err := os.Stat(l.path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s", l.path)
	}
	if err := EnsureDir(l.path); err != nil {
		return err
	}

	data, err := yaml.Marshal(Default(l.dir))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (l *Loader) setDefaults() {
	def := Default(l.dir)

	l.viper.SetDefault("log.level", def.Log.Level)
	l.viper.SetDefault("log.file", def.Log.File)
	l.viper.SetDefault("log.max_size", def.Log.MaxSize)
	l.viper.SetDefault("log.max_backups", def.Log.MaxBackups)
	l.viper.SetDefault("log.max_age", def.Log.MaxAge)
	l.viper.SetDefault("log.compress", def.Log.Compress)

	l.viper.SetDefault("tls.cert_file", def.TLS.CertFile)
	l.viper.SetDefault("tls.key_file", def.TLS.KeyFile)
	l.viper.SetDefault("tls.common_name", def.TLS.CommonName)
	l.viper.SetDefault("tls.days", def.TLS.Days)
	l.viper.SetDefault("tls.bits", def.TLS.Bits)

	l.viper.SetDefault("smb.server_paths", def.SMB.ServerPaths)
	l.viper.SetDefault("smb.install_command", def.SMB.InstallCommand)

	l.viper.SetDefault("resource_dirs", def.ResourceDirs)
}

func validate(cfg *Config) error {
	if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
		return fmt.Errorf("tls.cert_file and tls.key_file are required")
	}
	if cfg.TLS.Days <= 0 {
		return fmt.Errorf("tls.days must be positive, got %d", cfg.TLS.Days)
	}
	if cfg.TLS.Bits < 2048 {
		return fmt.Errorf("tls.bits must be at least 2048, got %d", cfg.TLS.Bits)
	}
	return nil
}
