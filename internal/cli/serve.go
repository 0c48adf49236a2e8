package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ppiankov/nesshub/internal/api"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the report upload service",
	Long: `Serve starts the HTTP service: an upload form at /, report generation
at /generate, cached PDF downloads at /reports/{id}.pdf, plus /healthz
and Prometheus metrics at /metrics.

Generated reports are kept in a bounded in-memory cache; the oldest
report is dropped when the cache is full.

Example:
  nesshub serve
  nesshub serve --addr :9090
  NESSHUB_MAX_UPLOAD_MB=100 nesshub serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.ServerAddr = serveAddr
	}

	srv := api.NewServer(cfg, func(format string, args ...interface{}) {
		logVerbose(format, args...)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Nesshub %s listening on %s\n", buildVersion, cfg.ServerAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
