package main

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

const (
	defaultConfigFileName = ".htlcctl.toml"
	defaultServerURL      = "http://localhost:8080"
)

// Config holds the defaults a command falls back to when a flag is unset.
type Config struct {
	Server  string `toml:"server"`
	Account string `toml:"account"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultConfigFileName
	}
	return filepath.Join(home, defaultConfigFileName)
}

// ReadConfig loads path. A missing file yields the defaults.
func ReadConfig(path string) (*Config, error) {
	cfg := &Config{Server: defaultServerURL}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	var fileConf Config
	if err := toml.Unmarshal(data, &fileConf); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	if fileConf.Server != "" {
		cfg.Server = fileConf.Server
	}
	cfg.Account = fileConf.Account
	return cfg, nil
}
