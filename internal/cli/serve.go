package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openomi/pof-auditor/internal/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the audit HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		handler := router.NewRouter(svc, cfg.MaxFileSize, logger)

		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: handler,
			// Reads carry multi-file uploads; writes wait on the reasoning
			// agent, so both are sized to the reasoning timeout.
			ReadTimeout:  2 * time.Minute,
			WriteTimeout: cfg.ReasoningTimeout + time.Minute,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			logger.Info("Starting server", "port", cfg.Port)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("Server failed to start", "error", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Fatal("Server forced to shutdown", "error", err)
		}

		logger.Info("Server exited")
		return nil
	},
}
