// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the scaffolding shared by trustfile's
// server binary: an HTTP server with graceful shutdown, request
// logging with request IDs, and the standard JSON logger.
//
// The server binary composes these in its own main() rather than
// handing control to a framework:
//
//	logger := service.NewLogger(slog.LevelInfo)
//	server := service.NewHTTPServer(service.HTTPServerConfig{
//	    Address: cfg.Server.Address,
//	    Handler: service.WithRequestLogging(mux, logger, clock.Real()),
//	    Logger:  logger,
//	})
//	err := server.Serve(ctx)
package service
