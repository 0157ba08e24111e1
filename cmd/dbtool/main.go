package main

import (
	"context"
	"database/sql"
	"trip-wizard-service/internal/adapters/cache"
	"trip-wizard-service/internal/adapters/repositories"
	"trip-wizard-service/internal/config"
	"trip-wizard-service/internal/platform/db"

	"github.com/sirupsen/logrus"
)

// dbtool prepares a SQL backend: it creates the schema and pre-warms the
// place cache from the seed file.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	var conn *sql.DB
	switch cfg.Store.Backend {
	case "postgres":
		conn, err = db.Open(cfg.Store.DatabaseURL)
	case "sqlite":
		conn, err = db.OpenSQLite(cfg.Store.SqlitePath)
	default:
		logrus.WithField("backend", cfg.Store.Backend).Fatal("dbtool needs the sqlite or postgres backend")
	}
	if err != nil {
		logrus.WithError(err).Fatal("open database")
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", cfg.Geocode.SeedPath)
	if err := initAndSeed(context.Background(), conn, seedPath); err != nil {
		logrus.WithError(err).Fatal("init and seed")
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	logrus.Info("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}
	logrus.Info("Schema ready.")

	logrus.WithField("path", seedPath).Info("Seeding place cache...")
	if err := repositories.SeedFromJSON(ctx, cache.NewSQLPlaceCache(conn), seedPath); err != nil {
		return err
	}
	logrus.Info("Seeding complete.")

	return nil
}
