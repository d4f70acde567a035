package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mingsmenu/config"
	"mingsmenu/controllers"
	"mingsmenu/database"
	"mingsmenu/logger"
	"mingsmenu/models"
	"mingsmenu/routes"
	"mingsmenu/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print the menu categories in display order",
	Run: func(cmd *cobra.Command, args []string) {
		for _, c := range models.Categories() {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
	},
}

var ensureCollectionsCmd = &cobra.Command{
	Use:   "ensure-collections",
	Short: "Create any missing category, cart and user collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger.Configure(config.IsProduction())
		if cfg.MongoURI == "" {
			return database.ErrMissingURI
		}
		rid, err := primitive.ObjectIDFromHex(cfg.RestaurantID)
		if err != nil {
			return fmt.Errorf("RESTAURANT_ID: %w", err)
		}

		ctx := cmd.Context()
		conn := database.NewConnector(cfg.MongoURI, cfg.DBName, cfg.RequestTimeout)
		defer conn.Disconnect(context.Background())

		db, err := conn.Database(ctx)
		if err != nil {
			return err
		}
		return storage.NewRepository(db, rid).EnsureCollections(ctx)
	},
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()
	logger.Configure(config.IsProduction())
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rid, err := primitive.ObjectIDFromHex(cfg.RestaurantID)
	if err != nil {
		return fmt.Errorf("RESTAURANT_ID: %w", err)
	}
	if cfg.MongoURI == "" {
		logger.Warn("MONGODB_URI is not set; data routes will fail until it is provided")
	}

	conn := database.NewConnector(cfg.MongoURI, cfg.DBName, cfg.RequestTimeout)
	ctl := controllers.New(storage.Provider(conn, rid), controllers.Options{
		JWTSecret:      []byte(cfg.JWTSecret),
		AdminUsernames: cfg.AdminUsernames,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(ctl, []byte(cfg.JWTSecret)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return conn.Disconnect(shutdownCtx)
}
