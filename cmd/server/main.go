package main

import (
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"fodinha-server/internal/config"
	"fodinha-server/internal/jwt"
	"fodinha-server/internal/mux"
	"fodinha-server/pkg/db"
	"fodinha-server/pkg/profile"
	"fodinha-server/pkg/room"
	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address, overrides the configured address")

func main() {
	flag.Parse()

	// a missing .env file is fine
	_ = godotenv.Load()

	if err := config.Load(); err != nil {
		logrus.WithError(err).Fatal("could not load configuration")
	}

	setupLogger()

	// fail fast
	jwt.LoadKeys()

	recorder, profiles := setupProfiles()

	cfg := config.Instance()
	pitBoss := room.NewPitBoss(logrus.StandardLogger(), recorder, cfg.Session.IdleTTL)
	pitBoss.StartShift(cfg.Session.ReapInterval)
	defer pitBoss.EndShift()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		ExposedHeaders: []string{"Fodinha-PlayerID"},
	})

	listenAddr := cfg.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      loggingHandler(recoveryHandler(c.Handler(mux.NewMux(Version, pitBoss, profiles)))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

// setupProfiles connects to the database when one is configured
// Without one, finished games are not recorded and profile lookups return 404
func setupProfiles() (room.Recorder, mux.ProfileGetter) {
	dbh, err := db.Open(config.Instance().PGDSN)
	if errors.Is(err, db.ErrNotConfigured) {
		logrus.Warn("no database configured, profiles are disabled")
		return nil, nil
	} else if err != nil {
		logrus.WithError(err).Fatal("could not open database")
	}

	migrateOrDie(dbh)

	store := profile.NewStore(dbh)
	return store, store
}

func migrateOrDie(dbh *sql.DB) {
	if err := db.Migrate(dbh); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func recoveryHandler(next http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(logrus.StandardLogger()),
		handlers.PrintRecoveryStack(true),
	)(next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(config.Instance().Log.Format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
