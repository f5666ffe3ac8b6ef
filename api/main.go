package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-planner/data/repository"
	"event-planner/planner"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type application struct {
	Config  Config
	Log     *logrus.Logger
	Repo    repository.DBRepo
	Planner *planner.Service
}

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	if err := run(log); err != nil {
		log.WithError(err).Fatal("event planner stopped")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		return err
	}
	if err := configureLogger(log, cfg); err != nil {
		return err
	}

	app := &application{Config: cfg, Log: log}

	switch cfg.Store {
	case "memory":
		log.Warn("Using the in-memory store; data is lost on exit")
		app.Repo = repository.NewMemRepo()
	default:
		db, err := app.ConnectToDB()
		if err != nil {
			return err
		}
		defer db.Close()

		sr := &repository.SqlRepo{DB: db}
		if cfg.Migrate {
			if err := sr.RunMigrations("postgres", log); err != nil {
				return err
			}
		}
		app.Repo = sr
	}
	app.Planner = planner.NewService(app.Repo, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func configureLogger(log *logrus.Logger, cfg Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
