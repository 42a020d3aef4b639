package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/fieldops/inspectforms/app"
	"github.com/fieldops/inspectforms/config"
	"github.com/fieldops/inspectforms/database"
	"github.com/fieldops/inspectforms/httpx"
	"github.com/fieldops/inspectforms/log"
	"github.com/fieldops/inspectforms/prefs"
	"github.com/fieldops/inspectforms/routes"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	app := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Prefs:        prefs.NewSQLite(db),
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on http://" + cfg.Addr)
	return srv.ListenAndServe()
}
