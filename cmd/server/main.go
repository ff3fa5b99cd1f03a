package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/luda9/cinevault-backend/config"
	"github.com/luda9/cinevault-backend/handlers"
	"github.com/luda9/cinevault-backend/internal/database"
	comparisonsvc "github.com/luda9/cinevault-backend/services/comparison"
	"github.com/luda9/cinevault-backend/services/omdb"
	watchlistsvc "github.com/luda9/cinevault-backend/services/watchlist"
	"github.com/luda9/cinevault-backend/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	settings, err := config.Load()
	if err != nil {
		slog.Error("server.config_error", "error", err)
		os.Exit(1)
	}

	setupLogging(settings.Log)

	db, err := database.New(database.Config{DatabasePath: settings.DatabasePath})
	if err != nil {
		slog.Error("server.database_error", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	omdbClient := omdb.NewClient(settings.OMDb.APIKey, settings.OMDb.BaseURL)
	watchlist := watchlistsvc.NewService(omdbClient, db.Watchlist)
	comparisons := comparisonsvc.NewService(omdbClient, db.Comparisons)

	searchHandler := handlers.NewSearchHandler(omdbClient, watchlist)
	watchlistHandler := handlers.NewWatchlistHandler(watchlist)
	compareHandler := handlers.NewCompareHandler(comparisons)

	r := utils.NewRouter()
	r.HandleFunc("/search", searchHandler.Search).Methods(http.MethodGet)
	r.HandleFunc("/movie/{id}", searchHandler.GetMovie).Methods(http.MethodGet)
	r.HandleFunc("/watchlist", watchlistHandler.Add).Methods(http.MethodPost)
	r.HandleFunc("/watchlist", watchlistHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/watchlist/{id}", watchlistHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/watchlist/{id}", watchlistHandler.Update).Methods(http.MethodPatch)
	r.HandleFunc("/watchlist/{id}", watchlistHandler.Remove).Methods(http.MethodDelete)
	r.HandleFunc("/compare", compareHandler.Compare).Methods(http.MethodPost)
	r.HandleFunc("/comparisons/recent", compareHandler.Recent).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         settings.ListenAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server.listening", "addr", settings.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server.listen_error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("server.shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server.shutdown_error", "error", err)
	}
}

func setupLogging(cfg config.LogSettings) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	if cfg.Path != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})))
}
