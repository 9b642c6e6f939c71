package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cinezuva/cinezuva/internal/auth"
	"github.com/cinezuva/cinezuva/internal/catalog"
	"github.com/cinezuva/cinezuva/internal/config"
	"github.com/cinezuva/cinezuva/internal/handlers"
	"github.com/cinezuva/cinezuva/internal/logger"
	"github.com/cinezuva/cinezuva/internal/metadata"
	"github.com/cinezuva/cinezuva/internal/store"
	"github.com/cinezuva/cinezuva/internal/tmdb"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if listenAddr != "" {
			cfg.Server.Listen = listenAddr
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "address to listen on, overrides Server.Listen")
	rootCmd.AddCommand(serveCmd)
}

// newGenerator builds the metadata generator with TMDB artwork when TMDB
// credentials are configured.
func newGenerator(cfg *config.Config) *metadata.Generator {
	posters := tmdb.New(cfg.TMDB.Key, cfg.TMDB.ReadToken, cfg.TMDB.ImageBase)
	return metadata.New(metadata.Config{
		APIKey:  cfg.Metadata.APIKey,
		BaseURL: cfg.Metadata.BaseURL,
		Model:   cfg.Metadata.Model,
		Timeout: cfg.Metadata.Timeout,
		Site:    cfg.Site.Name,
	}, posters, slog.Default())
}

func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DB.Driver, cfg.DB.Source, cfg.DB.Migrate)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("Failed to close DB", logger.Error(err))
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	log := slog.Default()
	gate, err := auth.NewGate(st, auth.Options{
		Secret: cfg.Session.Secret,
		MaxAge: int(cfg.Session.MaxAge.Seconds()),
	}, log)
	if err != nil {
		return fmt.Errorf("failed to init auth: %w", err)
	}

	gen := newGenerator(cfg)
	if !gen.Available() {
		log.Warn("metadata generation disabled, Metadata.APIKey is not set")
	}

	app, err := handlers.New(&handlers.Config{
		Repo:      catalog.NewRepository(st, log),
		Gate:      gate,
		Generator: gen,
		DB:        st,
		SiteName:  cfg.Site.Name,
		BaseURL:   cfg.Server.URL,
	})
	if err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	server := &http.Server{
		Addr: cfg.Server.Listen,
		Handler: handlers.NewRouter(app, handlers.RouterOptions{
			Logger:      log,
			CORSOrigins: cfg.Server.CORSOrigins,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Magic Fill waits on the model.
		WriteTimeout: cfg.Metadata.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", cfg.Server.Listen), slog.String("db", cfg.DB.Driver))
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return server.Shutdown(shutdownCtx)
}
