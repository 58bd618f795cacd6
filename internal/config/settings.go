package config

import (
	"errors"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultServerURL = "https://app.tryhelix.ai"

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	URL      string `toml:"url"`
	Token    string `toml:"token"`
	LoginURL string `toml:"login_url"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			URL: defaultServerURL,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the TOML config at path over the defaults. A missing file
// is not an error. PARLEY_SERVER_URL and PARLEY_TOKEN override the file.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if url := strings.TrimSpace(os.Getenv("PARLEY_SERVER_URL")); url != "" {
		cfg.Server.URL = url
	}
	if token := strings.TrimSpace(os.Getenv("PARLEY_TOKEN")); token != "" {
		cfg.Server.Token = token
	}
	if cfg.Server.URL == "" {
		cfg.Server.URL = defaultServerURL
	}
	if cfg.Server.LoginURL == "" {
		cfg.Server.LoginURL = strings.TrimRight(cfg.Server.URL, "/") + "/login"
	}
	return cfg, nil
}
