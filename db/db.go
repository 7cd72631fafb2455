package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

const (
	maxOpenConns = 50
	maxIdleConns = 10
	connMaxLife  = time.Minute * 15

	databaseName = "battleship"
)

func MustMigrate(db *sql.DB, migrationDir string, logger zerolog.Logger) {
	driver, err := postgres.WithInstance(db, &postgres.Config{
		DatabaseName: databaseName,
	})
	if err != nil {
		panic(err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationDir, databaseName, driver)
	if err != nil {
		panic(err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		panic(err)
	}
	if dirty {
		panic("database is dirty")
	}
	logger.Info().Uint("version", version).Msg("migration version")

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return
		}
		panic(err)
	}
	logger.Info().Msg("migration successful")
}

// Opens the pool, pings it and brings the schema up to date.
// migrationDir is a golang-migrate source URL, e.g. file://db/migration
func MustConnectToDb(psqlUrl, migrationDir string, logger zerolog.Logger) *sql.DB {
	db, err := sql.Open("postgres", psqlUrl)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLife)

	MustMigrate(db, migrationDir, logger)
	return db
}
