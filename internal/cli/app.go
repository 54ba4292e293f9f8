// Package cli implements the credstore demo command-line tool. It is
// illustrative glue around the credential service, not a stable interface.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/credstore/internal/config"
	"github.com/dmitrijs2005/credstore/internal/credential"
	"github.com/dmitrijs2005/credstore/internal/kdfx"
	"github.com/dmitrijs2005/credstore/internal/logging"
	"github.com/dmitrijs2005/credstore/internal/secretstore"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	service *credential.Service
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp wires a demo app from config: a secret store backend, the system
// entropy source, and the credential service. Construction performs no
// enrollment and writes no secret material.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	logger := logging.NewSlogLogger(slogger)

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	policy := credential.Policy{
		Digest:            kdfx.Digest(cfg.Digest),
		Iterations:        cfg.Iterations,
		SaltLength:        cfg.SaltLength,
		VerifierLength:    cfg.VerifierLength,
		MaxPasswordLength: cfg.MaxPasswordLength,
	}

	service, err := credential.NewService(policy, secretstore.NewSystemEntropy(), store)
	if err != nil {
		return nil, fmt.Errorf("service init error: %w", err)
	}

	return &App{
		config:  cfg,
		logger:  logger,
		service: service,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (secretstore.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return secretstore.NewMemoryStore(), nil
	case config.StoreFile:
		return secretstore.NewFileStore(cfg.FileStoreDir)
	case config.StorePostgres:
		return secretstore.OpenPostgresStore(ctx, cfg.DatabaseDSN)
	case config.StoreS3:
		return secretstore.NewS3Store(ctx, secretstore.S3Config{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
