package config

import (
	"os"
	"path/filepath"
)

// Environment overrides for the data locations.
const (
	EnvRPKGSHome = "RPKGS_HOME"
	EnvRPKGSDB   = "RPKGS_DB"
)

// DataDir returns the directory used to store rpkgs data.
func DataDir() (string, error) {
	if d := os.Getenv(EnvRPKGSHome); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	// Use a dot-directory in the user's home on all platforms
	return filepath.Join(home, ".rpkgs"), nil
}

// EnsureDataDir returns DataDir after creating it.
func EnsureDataDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", err
	}
	return d, nil
}

// DBPath returns the full path to the SQLite history database.
func DBPath() (string, error) {
	if p := os.Getenv(EnvRPKGSDB); p != "" {
		return p, nil
	}
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "rpkgs.db"), nil
}

// ConfigPath returns the default location of the YAML config file.
func ConfigPath() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}
