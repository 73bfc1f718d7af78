package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the resolved settings for one run.
type Config struct {
	OutDir   string
	Verify   bool
	Manifest bool
	LogLevel slog.Level
	Redis    RedisSettings
}

// RedisSettings selects the Redis sink when Addr is set.
type RedisSettings struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

func defaultConfig() Config {
	return Config{
		OutDir:   "fixtures",
		Manifest: true,
		LogLevel: slog.LevelInfo,
	}
}

type fileConfig struct {
	Out      string `toml:"out"`
	Verify   bool   `toml:"verify"`
	Manifest bool   `toml:"manifest"`
	LogLevel string `toml:"log_level"`
	Redis    struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
		Prefix   string `toml:"prefix"`
		TTL      string `toml:"ttl"`
	} `toml:"redis"`
}

// loadConfig overlays the keys present in the TOML file at path onto cfg.
func loadConfig(path string, cfg Config) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("out") {
		cfg.OutDir = strings.TrimSpace(raw.Out)
	}
	if meta.IsDefined("verify") {
		cfg.Verify = raw.Verify
	}
	if meta.IsDefined("manifest") {
		cfg.Manifest = raw.Manifest
	}
	if meta.IsDefined("log_level") {
		level, err := parseLevel(raw.LogLevel)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}

	if meta.IsDefined("redis", "addr") {
		cfg.Redis.Addr = strings.TrimSpace(raw.Redis.Addr)
	}
	if meta.IsDefined("redis", "password") {
		cfg.Redis.Password = raw.Redis.Password
	}
	if meta.IsDefined("redis", "db") {
		cfg.Redis.DB = raw.Redis.DB
	}
	if meta.IsDefined("redis", "prefix") {
		cfg.Redis.Prefix = raw.Redis.Prefix
	}
	if meta.IsDefined("redis", "ttl") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Redis.TTL))
		if err != nil {
			return Config{}, fmt.Errorf("parse redis.ttl: %w", err)
		}
		cfg.Redis.TTL = d
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("parse log_level: %w", err)
	}
	return level, nil
}
