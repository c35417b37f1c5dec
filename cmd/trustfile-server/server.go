// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/bureau-foundation/trustfile/lib/clock"
	"github.com/bureau-foundation/trustfile/lib/config"
	"github.com/bureau-foundation/trustfile/lib/fileserver"
	"github.com/bureau-foundation/trustfile/lib/ingest"
	"github.com/bureau-foundation/trustfile/lib/piecestore"
	"github.com/bureau-foundation/trustfile/lib/service"
)

// serve opens storage, ingests the configured files and serves HTTP
// until ctx is cancelled. onReady, when non-nil, receives the bound
// address once the listener is up.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, c clock.Clock, onReady func(net.Addr)) error {
	storage, closeStorage, err := openStorage(cfg, logger, c)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logger.Error("closing storage", "error", err)
		}
	}()

	files := fileserver.New(storage, logger)
	if err := ingestFiles(ctx, files, cfg.Ingest, logger); err != nil {
		return err
	}

	server := service.NewHTTPServer(service.HTTPServerConfig{
		Address:         cfg.Server.Address,
		Handler:         service.WithRequestLogging(fileserver.NewHandler(files, logger), logger, c),
		ShutdownTimeout: cfg.ShutdownTimeout(),
		Logger:          logger,
	})
	if onReady != nil {
		go func() {
			select {
			case <-server.Ready():
				onReady(server.Addr())
			case <-ctx.Done():
			}
		}()
	}
	return server.Serve(ctx)
}

// openStorage builds the configured storage backend. The returned
// function releases it.
func openStorage(cfg *config.Config, logger *slog.Logger, c clock.Clock) (fileserver.Storage, func() error, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return piecestore.NewMemory(), func() error { return nil }, nil
	case config.BackendSQLite:
		if err := cfg.EnsurePaths(); err != nil {
			return nil, nil, err
		}
		store, err := piecestore.OpenSQLite(piecestore.SQLiteConfig{
			Path:     cfg.Storage.SQLitePath,
			PoolSize: cfg.Storage.PoolSize,
			Clock:    c,
			Logger:   logger,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("opened piece store", "path", cfg.Storage.SQLitePath)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// ingestFiles loads every configured file. The loader logs each root
// hash.
func ingestFiles(ctx context.Context, files *fileserver.Service, settings config.IngestConfig, logger *slog.Logger) error {
	loader := &ingest.Loader{
		Service:       files,
		PieceSize:     settings.PieceSize,
		HashAlgorithm: settings.HashAlgorithm,
		Encoding:      settings.Encoding,
		Logger:        logger,
	}
	for _, path := range settings.Files {
		if _, err := loader.LoadFile(ctx, path); err != nil {
			return err
		}
	}
	return nil
}
