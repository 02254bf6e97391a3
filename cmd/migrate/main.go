package main

import (
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/tubachi/tokenledger/internal/config"
	"github.com/tubachi/tokenledger/internal/logger"
	"github.com/tubachi/tokenledger/internal/postgres"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	db, err := sql.Open("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	log.Info("migrations applied")
}
