// Package config loads settings from ~/.listily/config.yaml and LISTILY_*
// environment variables, env winning over file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"listily/internal/store"
)

// Config is everything the app reads at startup. Zero values mean "local
// only, no AI, default web binding".
type Config struct {
	DataDir string `mapstructure:"data_dir"`

	// Backend selects where snapshots live: "local" or "remote".
	Backend string `mapstructure:"backend"`

	Remote struct {
		Endpoint  string `mapstructure:"endpoint"`
		Namespace string `mapstructure:"namespace"`
		Database  string `mapstructure:"database"`
		Username  string `mapstructure:"username"`
		Password  string `mapstructure:"password"`
	} `mapstructure:"remote"`

	AI struct {
		APIKey  string `mapstructure:"api_key"`
		BaseURL string `mapstructure:"base_url"`
		Model   string `mapstructure:"model"`
	} `mapstructure:"ai"`

	Web struct {
		Addr   string `mapstructure:"addr"`
		Secret string `mapstructure:"secret"`
	} `mapstructure:"web"`
}

func Load() (Config, error) {
	v := viper.New()

	configDir, err := store.ConfigDir()
	if err != nil {
		return Config{}, err
	}
	v.AddConfigPath(configDir)
	v.SetConfigType("yaml")
	v.SetConfigName("config")

	v.SetEnvPrefix("LISTILY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so environment-only values survive Unmarshal.
	v.SetDefault("data_dir", configDir)
	v.SetDefault("backend", "local")
	v.SetDefault("remote.endpoint", "")
	v.SetDefault("remote.namespace", "listily")
	v.SetDefault("remote.database", "listily")
	v.SetDefault("remote.username", "")
	v.SetDefault("remote.password", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("web.addr", "127.0.0.1:8484")
	v.SetDefault("web.secret", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Backend != "local" && cfg.Backend != "remote" {
		return Config{}, fmt.Errorf("invalid backend %q (expected local or remote)", cfg.Backend)
	}
	if cfg.Backend == "remote" && cfg.Remote.Endpoint == "" {
		return Config{}, fmt.Errorf("backend is remote but remote.endpoint is unset")
	}
	return cfg, nil
}
