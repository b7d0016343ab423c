package application

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/chat-bubbles/internal/api"
	"github.com/eugenenazirov/chat-bubbles/internal/chat"
	"github.com/eugenenazirov/chat-bubbles/internal/config"
	"github.com/eugenenazirov/chat-bubbles/internal/metrics"
	"github.com/eugenenazirov/chat-bubbles/internal/packer"
	"github.com/eugenenazirov/chat-bubbles/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage    storage.Storage
	packer     packer.Packer
	aggregator *chat.Aggregator
	metrics    *metrics.Recorder
	handler    *api.Handler
	router     http.Handler
	logger     *zap.Logger
	server     *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	locale, err := chat.ParseLocale(cfg.Stats.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to apply stats locale: %w", err)
	}
	agg, err := chat.NewAggregator(
		chat.WithTopWords(cfg.Stats.TopWords),
		chat.WithMinWordLength(cfg.Stats.MinWordLength),
		chat.WithLocale(locale),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure aggregator: %w", err)
	}

	layout := cfg.Layout.PackerConfig()
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("failed to apply layout configuration: %w", err)
	}

	store := storage.NewMemoryStorage()
	p := packer.New(packer.WithConfig(layout))
	rec := metrics.New()

	handler := api.NewHandler(p, store, agg,
		api.WithMetrics(rec),
		api.WithMaxUploadBytes(cfg.Render.MaxUploadBytes),
		api.WithRenderSize(cfg.Render.Width, cfg.Render.Height),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithMetricsHandler(rec.Handler()),
	)

	rootHandler, err := BuildRootHandler(apiRouter)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	return &App{
		storage:    store,
		packer:     p,
		aggregator: agg,
		metrics:    rec,
		handler:    handler,
		router:     apiRouter,
		logger:     logger,
		server:     NewServer(cfg, rootHandler),
	}, nil
}

// BuildRootHandler constructs the root HTTP handler that serves the web page, static files,
// the API and the metrics endpoint.
func BuildRootHandler(apiHandler http.Handler) (http.Handler, error) {
	mux := http.NewServeMux()

	staticPath, err := resolveProjectPath(filepath.Join("web", "static"))
	if err != nil {
		return nil, err
	}
	staticDir := http.Dir(staticPath)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(staticDir)))
	mux.Handle("/api/", apiHandler)
	mux.Handle("/metrics", apiHandler)

	indexPath, err := resolveProjectPath(filepath.Join("web", "templates", "index.html"))
	if err != nil {
		return nil, err
	}
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, indexPath)
	}))

	return mux, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// resolveProjectPath locates a file or directory relative to the project root by walking up the directory tree.
func resolveProjectPath(relative string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
