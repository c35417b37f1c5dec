// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/trustfile/lib/clock"
	"github.com/bureau-foundation/trustfile/lib/config"
	"github.com/bureau-foundation/trustfile/lib/fileclient"
	"github.com/bureau-foundation/trustfile/lib/fileserver"
	"github.com/bureau-foundation/trustfile/lib/merkle"
	"github.com/bureau-foundation/trustfile/lib/piecestore"
	"github.com/bureau-foundation/trustfile/lib/testutil"
)

const fixtureRoot = "5df5a63d861485d6c4c804a509712e769d88d4c2c8a948e65b83213786c09755"

func testConfig(t *testing.T, files ...string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Address = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = "2s"
	cfg.Ingest.PieceSize = 8
	cfg.Ingest.Files = files
	return cfg
}

// startServer runs serve in the background and returns a client for
// it. The server is stopped, and its exit checked, at test cleanup.
func startServer(t *testing.T, cfg *config.Config) *fileclient.Client {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	logger := slog.New(slog.DiscardHandler)

	addresses := make(chan net.Addr, 1)
	serveErrors := make(chan error, 1)
	go func() {
		serveErrors <- serve(ctx, cfg, logger, clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)), func(addr net.Addr) {
			addresses <- addr
		})
	}()

	select {
	case addr := <-addresses:
		t.Cleanup(func() {
			cancel()
			if err := testutil.RequireReceive(t, serveErrors, 5*time.Second, "server exit"); err != nil {
				t.Errorf("serve: %v", err)
			}
		})
		return &fileclient.Client{BaseURL: "http://" + addr.String()}
	case err := <-serveErrors:
		cancel()
		t.Fatalf("serve exited before ready: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("timed out waiting for server")
	}
	return nil
}

func fixtureHash(t *testing.T) merkle.Hash {
	t.Helper()
	root, err := merkle.ParseHash(merkle.AlgorithmSHA256, fixtureRoot)
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestServeIngestsAndServes(t *testing.T) {
	path := testutil.WriteFile(t, "numbers.txt", bytes.Join(testutil.Pieces(5), nil))
	client := startServer(t, testConfig(t, path))
	ctx := context.Background()

	summaries, err := client.Hashes(ctx)
	if err != nil {
		t.Fatalf("Hashes: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Hash != fixtureRoot || summaries[0].Pieces != 5 {
		t.Fatalf("summaries = %+v", summaries)
	}

	piece, err := client.Piece(ctx, fixtureHash(t), 4)
	if err != nil {
		t.Fatalf("Piece: %v", err)
	}
	if string(piece.Content) != "Number 5" {
		t.Errorf("content = %q", piece.Content)
	}
}

func TestServeSQLiteKeepsTreesAcrossRuns(t *testing.T) {
	path := testutil.WriteFile(t, "numbers.txt", bytes.Join(testutil.Pieces(5), nil))
	databasePath := filepath.Join(t.TempDir(), "data", "pieces.db")

	first := testConfig(t, path)
	first.Storage.Backend = config.BackendSQLite
	first.Storage.SQLitePath = databasePath
	t.Run("first run ingests", func(t *testing.T) {
		client := startServer(t, first)
		if _, err := client.Piece(context.Background(), fixtureHash(t), 0); err != nil {
			t.Fatalf("Piece: %v", err)
		}
	})

	second := testConfig(t)
	second.Storage.Backend = config.BackendSQLite
	second.Storage.SQLitePath = databasePath
	t.Run("second run serves stored tree", func(t *testing.T) {
		client := startServer(t, second)
		summaries, err := client.Hashes(context.Background())
		if err != nil {
			t.Fatalf("Hashes: %v", err)
		}
		if len(summaries) != 1 || summaries[0].SealedAt != "2026-03-01T12:00:00Z" {
			t.Errorf("summaries = %+v, want the first run's seal time", summaries)
		}
		var out bytes.Buffer
		if _, err := client.Download(context.Background(), fixtureHash(t), &out); err != nil {
			t.Fatalf("Download: %v", err)
		}
		if out.String() != "Number 1Number 2Number 3Number 4Number 5" {
			t.Errorf("downloaded %q", out.String())
		}
	})
}

func TestServeMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.bin")
	err := serve(context.Background(), testConfig(t, missing), slog.New(slog.DiscardHandler), clock.Real(), nil)
	if err == nil || !strings.Contains(err.Error(), missing) {
		t.Fatalf("error = %v, want one naming %s", err, missing)
	}
}

func TestServeEmptyFile(t *testing.T) {
	empty := testutil.WriteFile(t, "empty.bin", nil)
	err := serve(context.Background(), testConfig(t, empty), slog.New(slog.DiscardHandler), clock.Real(), nil)
	if err == nil {
		t.Fatal("serving an empty file succeeded")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := testutil.WriteFile(t, "trustfile.yaml", []byte(`
environment: development
server:
  address: "127.0.0.1:9000"
ingest:
  piece_size: 4096
  hash_algorithm: BLAKE3
`))
		cfg, err := loadConfig(path)
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if cfg.Server.Address != "127.0.0.1:9000" || cfg.Ingest.PieceSize != 4096 || cfg.Ingest.HashAlgorithm != "BLAKE3" {
			t.Errorf("config = %+v", cfg)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		path := testutil.WriteFile(t, "trustfile.yaml", []byte("ingest:\n  encoding: HEX\n"))
		if _, err := loadConfig(path); err == nil || !strings.Contains(err.Error(), "ingest.encoding") {
			t.Fatalf("error = %v, want ingest.encoding complaint", err)
		}
	})

	t.Run("environment variable", func(t *testing.T) {
		path := testutil.WriteFile(t, "trustfile.yaml", []byte("log:\n  level: debug\n"))
		t.Setenv(config.EnvVar, path)
		cfg, err := loadConfig("")
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("log level = %q", cfg.Log.Level)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		t.Setenv(config.EnvVar, "")
		if _, err := loadConfig(""); err == nil {
			t.Fatal("loadConfig without a path succeeded")
		}
	})
}

func TestOpenStorageCreatesDirectory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "nested", "dir", "pieces.db")

	storage, closeStorage, err := openStorage(cfg, slog.New(slog.DiscardHandler), clock.Real())
	if err != nil {
		t.Fatalf("openStorage: %v", err)
	}
	defer closeStorage()
	if storage == nil {
		t.Fatal("nil storage")
	}
	if _, err := os.Stat(filepath.Dir(cfg.Storage.SQLitePath)); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestIngestFilesLogsEachFileOnce(t *testing.T) {
	first := testutil.WriteFile(t, "numbers.txt", bytes.Join(testutil.Pieces(5), nil))
	second := testutil.WriteFile(t, "letters.txt", []byte("abcdefghijklmnop"))

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	files := fileserver.New(piecestore.NewMemory(), nil)
	settings := testConfig(t, first, second).Ingest
	if err := ingestFiles(context.Background(), files, settings, logger); err != nil {
		t.Fatalf("ingestFiles: %v", err)
	}

	var ingested []map[string]any
	decoder := json.NewDecoder(&logs)
	for decoder.More() {
		var record map[string]any
		if err := decoder.Decode(&record); err != nil {
			t.Fatalf("decoding log record: %v", err)
		}
		if record["msg"] == "file ingested" {
			ingested = append(ingested, record)
		}
	}
	if len(ingested) != 2 {
		t.Fatalf("got %d \"file ingested\" records, want one per file: %v", len(ingested), ingested)
	}
	if ingested[0]["path"] != first || ingested[0]["root"] != fixtureRoot || ingested[0]["algorithm"] != merkle.AlgorithmSHA256 {
		t.Errorf("first record = %v", ingested[0])
	}
	if ingested[1]["path"] != second {
		t.Errorf("second record = %v", ingested[1])
	}
}
