// Command mqttfixtures writes the MQTT 3.1.1 packet fixture catalog to a
// directory or Redis, or verifies a previously written set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bromq-dev/mqttcodec/pkg/fixture"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("mqttfixtures failed", "error", err)
		os.Exit(1)
	}
}

// parseFlags resolves the configuration: defaults, then the optional TOML
// file, then any flag given explicitly on the command line. A single
// positional argument names the output directory.
func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()

	var (
		configPath = fs.String("config", "", "TOML config file (optional)")
		out        = fs.String("out", cfg.OutDir, "directory to write fixtures to")
		verify     = fs.Bool("verify", false, "verify stored fixtures instead of writing them")
		manifest   = fs.Bool("manifest", cfg.Manifest, "write "+fixture.ManifestName+" next to the fixtures")
		logLevel   = fs.String("log-level", cfg.LogLevel.String(), "log level (debug, info, warn, error)")
		redisAddr  = fs.String("redis-addr", "", "store fixtures in Redis at this address instead of a directory")
		redisPass  = fs.String("redis-password", "", "Redis password")
		redisDB    = fs.Int("redis-db", 0, "Redis database number")
		redisPref  = fs.String("redis-prefix", "", "Redis key prefix (default \"mqtt:fixture:\")")
		redisTTL   = fs.Duration("redis-ttl", 0, "expiry of stored Redis keys, 0 keeps them")
	)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath, cfg); err != nil {
			return Config{}, err
		}
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.OutDir = *out
		case "verify":
			cfg.Verify = *verify
		case "manifest":
			cfg.Manifest = *manifest
		case "log-level":
			level, err := parseLevel(*logLevel)
			if err != nil {
				flagErr = err
				return
			}
			cfg.LogLevel = level
		case "redis-addr":
			cfg.Redis.Addr = *redisAddr
		case "redis-password":
			cfg.Redis.Password = *redisPass
		case "redis-db":
			cfg.Redis.DB = *redisDB
		case "redis-prefix":
			cfg.Redis.Prefix = *redisPref
		case "redis-ttl":
			cfg.Redis.TTL = *redisTTL
		}
	})
	if flagErr != nil {
		return Config{}, flagErr
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.OutDir = fs.Arg(0)
	default:
		return Config{}, fmt.Errorf("expected at most one output path, got %d", fs.NArg())
	}

	if cfg.Verify && !cfg.Manifest {
		return Config{}, errors.New("verify needs the manifest; drop -manifest=false")
	}
	return cfg, nil
}

// openSink returns the Redis sink when an address is configured and the
// directory sink otherwise.
func openSink(cfg Config, logger *slog.Logger) (fixture.Sink, func() error, error) {
	if cfg.Redis.Addr != "" {
		sink := fixture.NewRedisSink(&fixture.RedisConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			KeyPrefix:  cfg.Redis.Prefix,
			Expiration: cfg.Redis.TTL,
			Logger:     logger,
		})
		return sink, sink.Close, nil
	}

	if cfg.OutDir == "" {
		return nil, nil, errors.New("no output directory or Redis address configured")
	}
	sink, err := fixture.NewDirSink(cfg.OutDir)
	if err != nil {
		return nil, nil, err
	}
	return sink, func() error { return nil }, nil
}

func run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	sink, closeSink, err := openSink(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	if rs, ok := sink.(*fixture.RedisSink); ok {
		if err := rs.Ping(ctx); err != nil {
			return err
		}
		logger.Info("using redis sink", "addr", cfg.Redis.Addr, "prefix", rs.Key(""))
	} else {
		logger.Info("using directory sink", "dir", cfg.OutDir)
	}

	if cfg.Verify {
		report, err := fixture.Verify(ctx, sink, logger)
		if err != nil {
			return err
		}
		return report.Err()
	}

	variations, err := fixture.Catalog()
	if err != nil {
		return err
	}
	gen := fixture.NewGenerator(sink, &fixture.GeneratorConfig{
		SkipManifest: !cfg.Manifest,
		Logger:       logger,
	})
	_, err = gen.Generate(ctx, variations)
	return err
}
