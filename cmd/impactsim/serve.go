package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"impactsim/internal/api"
	"impactsim/internal/logging"
	"impactsim/internal/repository"
)

var (
	serveAddr     string
	serveDBPath   string
	serveRPS      int
	serveLogLevel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the impact simulation HTTP API",
	Long:  "serve starts an HTTP server exposing simulation, run history, and GeoJSON endpoints backed by a SQLite store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(serveLogLevel)

		dbPath := serveDBPath
		if env := os.Getenv("IMPACTSIM_DB"); env != "" {
			dbPath = env
		}
		db, err := repository.NewSQLiteDB(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		gin.SetMode(gin.ReleaseMode)
		router := gin.New()
		router.Use(gin.Recovery())
		router.Use(cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
		}))
		if serveRPS > 0 {
			router.Use(api.RateLimitMiddleware(serveRPS))
		}

		api.NewHandler(db).RegisterRoutes(router)

		srv := &http.Server{
			Addr:    serveAddr,
			Handler: router,
		}

		go func() {
			logger.Info("http server listening", "addr", serveAddr, "db", dbPath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server failed", "error", err)
				os.Exit(1)
			}
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("http server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "impactsim.db", "Path to the SQLite database file")
	serveCmd.Flags().IntVar(&serveRPS, "rps", 10, "Global rate limit in requests per second (0 disables)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
