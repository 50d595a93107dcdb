package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/sashagielis/MDGE/pkg/cache"
	"github.com/sashagielis/MDGE/pkg/instance"
	"github.com/sashagielis/MDGE/pkg/pipeline"
)

const maxInstanceBytes = 1 << 20

// newServeCmd creates the serve command, exposing the routing pipeline over
// HTTP. Clients POST an instance file and receive the rendered result.
func newServeCmd() *cobra.Command {
	var (
		addr     string
		cacheDir string
		cacheTTL time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the routing pipeline over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			runner := pipeline.NewRunner(logger)

			var artifacts cache.Cache = cache.NewNullCache()
			if cacheDir != "" {
				fc, err := cache.NewFileCache(cacheDir)
				if err != nil {
					return fmt.Errorf("opening artifact cache: %w", err)
				}
				artifacts = fc
				logger.Info("artifact cache enabled", "dir", cacheDir, "ttl", cacheTTL)
			}
			defer artifacts.Close()

			r := chi.NewRouter()
			r.Use(middleware.RequestID)
			r.Use(middleware.RealIP)
			r.Use(middleware.Recoverer)
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/healthz", handleHealth)
			r.Post("/route", handleRoute(runner, artifacts, cacheTTL))

			srv := &http.Server{
				Addr:              addr,
				Handler:           r,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			logger.Info("listening", "addr", addr)

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
				logger.Info("shutting down")
				return srv.Close()
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "directory for the rendered artifact cache (empty disables caching)")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 24*time.Hour, "lifetime of cached artifacts")

	return cmd
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

// handleRoute runs the pipeline on a TOML instance in the request body.
// Query parameters:
//   - format: svg (default), png, or pdf
//   - t:      simulation time to render at, in [0,1]
//   - dt:     sampling step for event detection
//
// Identical requests are served from the artifact cache when one is
// configured.
func handleRoute(runner *pipeline.Runner, artifacts cache.Cache, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxInstanceBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		format := r.URL.Query().Get("format")
		if format == "" {
			format = pipeline.FormatSVG
		}

		opts := pipeline.Options{
			Formats: []string{format},
		}
		if v := r.URL.Query().Get("t"); v != "" {
			if _, err := fmt.Sscanf(v, "%g", &opts.Time); err != nil {
				writeError(w, http.StatusBadRequest, errors.New("invalid t parameter"))
				return
			}
		}
		if v := r.URL.Query().Get("dt"); v != "" {
			if _, err := fmt.Sscanf(v, "%g", &opts.DT); err != nil {
				writeError(w, http.StatusBadRequest, errors.New("invalid dt parameter"))
				return
			}
		}

		key := cache.ArtifactKey(body, format, opts.Time, opts.DT)
		if data, ok, err := artifacts.Get(r.Context(), key); err == nil && ok {
			w.Header().Set("X-Cache", "hit")
			writeArtifact(w, format, data)
			return
		}

		in, err := instance.Decode(bytes.NewReader(body))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		opts.Instance = in

		result, err := runner.Execute(r.Context(), opts)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}

		data := result.Artifacts[format]
		_ = artifacts.Set(r.Context(), key, data, ttl)

		w.Header().Set("X-Run-Id", result.RunID)
		writeArtifact(w, format, data)
	}
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	switch format {
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	case pipeline.FormatPNG:
		w.Header().Set("Content-Type", "image/png")
	case pipeline.FormatPDF:
		w.Header().Set("Content-Type", "application/pdf")
	}
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
