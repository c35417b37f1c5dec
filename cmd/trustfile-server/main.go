// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/trustfile/lib/clock"
	"github.com/bureau-foundation/trustfile/lib/config"
	"github.com/bureau-foundation/trustfile/lib/process"
	"github.com/bureau-foundation/trustfile/lib/service"
	"github.com/bureau-foundation/trustfile/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath  string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to config file (default: $"+config.EnvVar+")")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		version.Print("trustfile-server")
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := service.NewLogger(level)
	logger.Info("starting trustfile-server",
		"version", version.Info(),
		"environment", cfg.Environment,
		"storage", cfg.Storage.Backend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger, clock.Real(), nil)
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
