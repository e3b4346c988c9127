// cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/mux"

	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/monitoring"
	"github.com/reviewlens/reviewlens/internal/scraper"
	"github.com/reviewlens/reviewlens/internal/service"
	"github.com/reviewlens/reviewlens/internal/utils"
)

var version = "dev"

func main() {
	settings := config.Default()
	if len(os.Args) > 1 {
		loaded, err := config.LoadFromFile(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		settings = loaded
	}

	logger := utils.NewLoggerWithLevel(utils.ParseLevel(settings.LogLevel))
	metrics := monitoring.NewMetrics()

	svc, cleanup, err := service.Build(settings, metrics, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if settings.Poller.Enabled {
		poller := service.NewPoller(svc, settings.Poller.URLs, settings.Poller.Interval, logger)
		poller.Start(ctx)
		defer poller.Stop()
		logger.Infof("poller running every %s over %d URLs", settings.Poller.Interval, len(settings.Poller.URLs))
	}

	api := &apiServer{service: svc, logger: logger}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/scrape/url", api.handleScrapeURL).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/scrape/product", api.handleScrapeProduct).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/platforms", api.handlePlatforms).Methods(http.MethodGet)
	router.HandleFunc("/health", api.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         settings.Server.Address,
		Handler:      router,
		ReadTimeout:  settings.Server.ReadTimeout,
		WriteTimeout: settings.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.Server.ShutdownTimeout)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Infof("listening on %s", settings.Server.Address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("server failed: %v", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

type apiServer struct {
	service *service.Service
	logger  utils.Logger
}

func (s *apiServer) handleScrapeURL(w http.ResponseWriter, r *http.Request) {
	var req service.URLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	result, err := s.service.ScrapeURL(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleScrapeProduct(w http.ResponseWriter, r *http.Request) {
	var req service.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	result, err := s.service.ScrapeProduct(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name            string `json:"name"`
		Domain          string `json:"domain"`
		RequiresBrowser bool   `json:"requires_browser"`
		Searchable      bool   `json:"searchable"`
	}

	var platforms []entry
	for _, p := range s.service.Platforms() {
		platforms = append(platforms, entry{
			Name:            p.Name,
			Domain:          p.Domain,
			RequiresBrowser: p.RequiresBrowser,
			Searchable:      p.SearchURL != "",
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"platforms": platforms})
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
}

// statusFor maps pipeline failures to HTTP statuses: caller mistakes are
// 400s, upstream fetch trouble is 502.
func statusFor(err error) int {
	if scraper.KindOf(err) == scraper.KindInvalidInput {
		return http.StatusBadRequest
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "is required"),
		strings.Contains(msg, "invalid filter"),
		strings.Contains(msg, "invalid URL"),
		strings.Contains(msg, "unknown platform"),
		strings.Contains(msg, "no product search"):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
