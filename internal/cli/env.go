// Package cli implements the stampctl operator commands.
package cli

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"farmstay-go/internal/database"
	"farmstay-go/internal/region"
	"farmstay-go/internal/stamp"
	"farmstay-go/pkg/config"
	"farmstay-go/pkg/logger"
)

// env is what every command works against
type env struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *sqlx.DB
	catalog *region.Catalog
	store   *stamp.Store
	syncer  *stamp.Synchronizer
}

func openEnv() (*env, error) {
	cfg := config.LoadConfig()

	log, err := logger.New(cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	catalog := region.NewCatalog(db)
	store := stamp.NewStore(db)
	return &env{
		cfg:     cfg,
		log:     log,
		db:      db,
		catalog: catalog,
		store:   store,
		// the CLI runs out of process, so the API's ranking cache expires on its own TTL
		syncer: stamp.NewSynchronizer(store, catalog, nil, log.With("service", "Synchronizer")),
	}, nil
}

func (e *env) Close() {
	e.log.Sync()
	e.db.Close()
}
