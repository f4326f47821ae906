package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbanmetrics/housing-atlas/internal/dashboard"
	"github.com/urbanmetrics/housing-atlas/internal/export"
	"github.com/urbanmetrics/housing-atlas/internal/metrics"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := initService(ctx)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(svc, cfg.Server.AllowedOrigins),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(svc *dashboard.Service, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/metros", func(w http.ResponseWriter, req *http.Request) {
			year, metric, ok := queryParams(w, req, svc)
			if !ok {
				return
			}
			view, err := svc.MetroView(req.Context(), year, metric)
			respond(w, view, err)
		})

		r.Get("/compare", func(w http.ResponseWriter, req *http.Request) {
			from, err := strconv.Atoi(req.URL.Query().Get("from"))
			if err != nil {
				writeError(w, http.StatusBadRequest, eris.New("from year is required"))
				return
			}
			to, err := strconv.Atoi(req.URL.Query().Get("to"))
			if err != nil {
				writeError(w, http.StatusBadRequest, eris.New("to year is required"))
				return
			}
			metric, err := metrics.ParseMetric(req.URL.Query().Get("metric"))
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			writeJSON(w, http.StatusOK, svc.CompareYears(from, to, metric))
		})

		r.Get("/summary", func(w http.ResponseWriter, req *http.Request) {
			year, metric, ok := queryParams(w, req, svc)
			if !ok {
				return
			}
			summary, err := svc.Summary(req.Context(), year, metric)
			respond(w, summary, err)
		})

		r.Get("/metros/{city}/zips", func(w http.ResponseWriter, req *http.Request) {
			year, metric, ok := queryParams(w, req, svc)
			if !ok {
				return
			}
			view, err := svc.ZIPView(req.Context(), cityParam(req), year, metric)
			respond(w, view, err)
		})

		r.Get("/metros/{city}/trend", func(w http.ResponseWriter, req *http.Request) {
			metric, err := metrics.ParseMetric(req.URL.Query().Get("metric"))
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			series, err := svc.Trend(req.Context(), cityParam(req), req.URL.Query().Get("zip"), metric)
			respond(w, series, err)
		})

		r.Get("/metros/{city}/zips/export", func(w http.ResponseWriter, req *http.Request) {
			year, metric, ok := queryParams(w, req, svc)
			if !ok {
				return
			}
			format, err := export.ParseFormat(req.URL.Query().Get("format"))
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}

			view, err := svc.ZIPView(req.Context(), cityParam(req), year, metric)
			if err != nil {
				respond(w, nil, err)
				return
			}

			w.Header().Set("Content-Type", format.ContentType())
			w.Header().Set("Content-Disposition",
				fmt.Sprintf("attachment; filename=%q", export.Filename(view, format)))
			if err := export.Write(w, format, view); err != nil {
				zap.L().Error("export write failed", zap.Error(err))
			}
		})

		r.Get("/metros/{city}/zips/{zip}", func(w http.ResponseWriter, req *http.Request) {
			year, metric, ok := queryParams(w, req, svc)
			if !ok {
				return
			}
			detail, err := svc.ZIPDetail(req.Context(), cityParam(req), chi.URLParam(req, "zip"), year, metric)
			respond(w, detail, err)
		})
	})

	return r
}

// cityParam returns the decoded city key path segment.
func cityParam(req *http.Request) string {
	raw := chi.URLParam(req, "city")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// queryParams parses the shared year and metric query parameters. A zero
// or absent year means the dataset's latest year.
func queryParams(w http.ResponseWriter, req *http.Request, svc *dashboard.Service) (int, metrics.Metric, bool) {
	year := 0
	if raw := req.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, eris.Errorf("invalid year %q", raw))
			return 0, "", false
		}
		year = parsed
	}
	metric, err := metrics.ParseMetric(req.URL.Query().Get("metric"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return 0, "", false
	}
	return defaultYear(svc, year), metric, true
}

// respond maps lookup failures to 404 and everything else to 500.
func respond(w http.ResponseWriter, payload any, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, payload)
	case errors.Is(err, dashboard.ErrUnknownCity), errors.Is(err, dashboard.ErrUnknownZIP):
		writeError(w, http.StatusNotFound, err)
	default:
		zap.L().Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, eris.New("internal error"))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
