package main

import (
	"context"
	"flag"
	"math/rand/v2"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"bookmeta/internal/app"
	"bookmeta/internal/book"
	"bookmeta/internal/config"
	"bookmeta/internal/platform/logging"
)

func main() {
	synthetic := flag.Int("synthetic", 0, "Number of made-up books to bulk insert after the samples")
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

	ctx := context.Background()
	pool, err := app.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("cannot open database")
	}
	defer pool.Close()

	repo := book.NewPostgresRepo(pool, cfg.DBTimeout)
	samples := sampleBooks()
	for _, b := range samples {
		if err := repo.Insert(ctx, &b); err != nil {
			log.WithError(err).WithField("title", b.Title).Fatal("failed to insert book")
		}
		log.WithFields(logrus.Fields{"id": b.ID, "title": b.Title}).Debug("inserted book")
	}
	log.WithField("count", len(samples)).Info("inserted sample books")

	if *synthetic > 0 {
		rows := syntheticRows(*synthetic, rand.New(rand.NewPCG(1, 2)))
		n, err := pool.CopyFrom(ctx, pgx.Identifier{"books"}, copyColumns, pgx.CopyFromRows(rows))
		if err != nil {
			log.WithError(err).Fatal("failed to copy synthetic books")
		}
		log.WithField("count", n).Info("inserted synthetic books")
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM books").Scan(&total); err != nil {
		log.WithError(err).Warn("failed to count books")
		return
	}
	log.WithField("total", total).Info("seed complete")
}
