package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the operator configuration of uberfile
type Config struct {
	Log          LogConfig `mapstructure:"log" yaml:"log"`
	TLS          TLSConfig `mapstructure:"tls" yaml:"tls"`
	SMB          SMBConfig `mapstructure:"smb" yaml:"smb"`
	ResourceDirs []string  `mapstructure:"resource_dirs" yaml:"resource_dirs"`
}

// LogConfig controls the console logger and the optional rotating log file
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// TLSConfig locates the cached certificate pair and how to create it
type TLSConfig struct {
	CertFile   string `mapstructure:"cert_file" yaml:"cert_file"`
	KeyFile    string `mapstructure:"key_file" yaml:"key_file"`
	CommonName string `mapstructure:"common_name" yaml:"common_name"`
	Days       int    `mapstructure:"days" yaml:"days"`
	Bits       int    `mapstructure:"bits" yaml:"bits"`
}

// SMBConfig locates impacket's smbserver and how to install it
type SMBConfig struct {
	ServerPaths    []string `mapstructure:"server_paths" yaml:"server_paths"`
	InstallCommand []string `mapstructure:"install_command" yaml:"install_command"`
}

// Dir returns the per-user configuration directory, ~/.config/uberfile
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "uberfile"), nil
}

// Default returns the built-in configuration rooted at dir
func Default(dir string) *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
		TLS: TLSConfig{
			CertFile:   filepath.Join(dir, "cert.pem"),
			KeyFile:    filepath.Join(dir, "key.pem"),
			CommonName: "uberfile",
			Days:       365,
			Bits:       4096,
		},
		SMB: SMBConfig{
			ServerPaths: []string{
				"/root/.local/bin/smbserver.py",
				"smbserver.py",
				"impacket-smbserver",
			},
			InstallCommand: []string{"pip", "install", "impacket"},
		},
		ResourceDirs: []string{"/opt/resources", "/opt/my-resources"},
	}
}

// EnsureDir creates the directory holding path
func EnsureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}
