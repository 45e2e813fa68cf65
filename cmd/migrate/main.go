package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"bookmeta/internal/app"
	"bookmeta/internal/config"
	"bookmeta/internal/platform/logging"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logging configuration")
	}

	dir := migrationsDir()
	if *command == "create" {
		if err := migrate(nil, dir, *command, *name); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
		log.WithField("name", *name).Info("migration created")
		return
	}

	pool, err := app.OpenDB(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("cannot open database")
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := migrate(db, dir, *command, *name); err != nil {
		log.WithError(err).WithField("command", *command).Fatal("migration failed")
	}
	log.WithFields(logrus.Fields{"command": *command, "dir": dir}).Info("migrations done")
}

func migrate(db *sql.DB, dir, command, name string) error {
	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "status":
		return goose.Status(db, dir)
	case "create":
		if name == "" {
			return errors.New("name is required for 'create' command")
		}
		return goose.Create(nil, dir, name, "sql")
	default:
		return fmt.Errorf("unknown command %q: use up, down, status, create", command)
	}
}
