package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gaurav-prasanna/actapipe/core"
	"github.com/gaurav-prasanna/actapipe/core/fetch"
	"github.com/gaurav-prasanna/actapipe/core/pipeline"
	"github.com/gaurav-prasanna/actapipe/core/source"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	Long: `Serve accepts one transcript per request and answers with its session record.

  POST /v1/sessions?name=1234   body: PDF, HTML or runs JSON, by Content-Type
  GET  /healthz`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Serve.Addr = flagAddr
	}

	pipe := pipeline.New(pipelineConfig(cfg, logger))
	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           newRouter(pipe, cfg.DocumentTimeout, logger),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.DocumentTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Serve.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newRouter(pipe *pipeline.Pipeline, timeout time.Duration, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/sessions", func(w http.ResponseWriter, r *http.Request) {
		src, err := source.ForContentType(r.Header.Get("Content-Type"))
		if err != nil {
			writeError(w, http.StatusUnsupportedMediaType, err)
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, fetch.MaxBytes))
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = middleware.GetReqID(r.Context())
		}

		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		doc, err := src.Runs(ctx, name, body)
		if err != nil {
			writeError(w, statusFor(err, http.StatusBadRequest), err)
			return
		}
		rec, err := pipe.Process(ctx, doc)
		if err != nil {
			logger.Warn("document failed", "doc", name, "err", err)
			writeError(w, statusFor(err, http.StatusInternalServerError), err)
			return
		}
		rec.ID = 1
		writeJSON(w, http.StatusOK, rec)
	})

	return r
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, core.ErrNoText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return fallback
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
