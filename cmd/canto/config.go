package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

type Config struct {
	Gateway  string `koanf:"gateway"`
	Username string `koanf:"username"`
	Token    string `koanf:"token"`
	Bitrate  int    `koanf:"bitrate"`
	Country  string `koanf:"country"`
	LogLevel string `koanf:"log_level"`

	CredentialsPath string `koanf:"credentials_path"`
}

// loadConfig layers defaults, the yaml config file and command line flags,
// in that order.
func loadConfig(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"gateway":          "gateway.canto.dev",
		"bitrate":          160,
		"log_level":        "info",
		"credentials_path": "credentials.json",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed loading default configuration: %w", err)
	}

	configPath, _ := flags.GetString("config")
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed loading configuration file: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed loading command line flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed unmarshalling configuration: %w", err)
	}

	return &cfg, nil
}
