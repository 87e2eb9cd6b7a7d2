package main

import (
	"database/sql"
	"errors"
	"time"

	"fodinha-server/internal/config"
	"fodinha-server/pkg/db"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	dbh := waitForDB()
	defer dbh.Close()

	if err := db.Migrate(dbh); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}

	logrus.Info("migrations complete")
}

func waitForDB() *sql.DB {
	dsn := config.Instance().PGDSN
	timeout := time.NewTimer(time.Second * 10)
	for {
		select {
		case <-timeout.C:
			logrus.Fatal("could not connect to database")
		default:
			dbh, err := db.Open(dsn)
			if err == nil {
				return dbh
			}

			if errors.Is(err, db.ErrNotConfigured) {
				logrus.Fatal("FODINHA_PG_DSN is not set")
			}

			time.Sleep(time.Millisecond * 500)
		}
	}
}
