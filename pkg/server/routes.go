package server

import (
	"fmt"
	"net/http"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riandyrn/otelchi"

	"github.com/openmhealth/shimmock/internal"
	"github.com/openmhealth/shimmock/pkg/auth"
	"github.com/openmhealth/shimmock/pkg/mock"
	"github.com/openmhealth/shimmock/pkg/models"
	"github.com/openmhealth/shimmock/pkg/passthrough"
)

var log = internal.GetLogger()

const (
	ReadHeaderTimeout = 5 * time.Second
	MaxRequestSize    = 5 << 20 // 5MB
	RouterName        = "shimmock"
)

// Create creates a new HTTP server serving the shim API mocks with the given app state.
// The registry is returned so callers can inspect its journal.
func Create(appState *models.AppState) (*http.Server, *mock.Registry, error) {
	var (
		metrics      *mock.Metrics
		promRegistry *prometheus.Registry
	)
	if appState.Config.Metrics.Enabled {
		promRegistry = prometheus.NewRegistry()
		promRegistry.MustRegister(collectors.NewGoCollector())
		m, err := mock.NewMetrics(promRegistry)
		if err != nil {
			return nil, nil, err
		}
		metrics = m
	}

	registry, err := NewRegistry(appState, metrics)
	if err != nil {
		return nil, nil, err
	}

	router, err := setupRouter(appState, registry, promRegistry)
	if err != nil {
		return nil, nil, err
	}

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", appState.Config.Server.Host, appState.Config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}, registry, nil
}

// NewRegistry builds the shim registry from the app state. Pass-through requests go to
// the configured upstream; with no upstream they are answered with 502.
func NewRegistry(appState *models.AppState, metrics *mock.Metrics) (*mock.Registry, error) {
	opts := []mock.Option{}

	cfg := appState.Config.PassThrough
	if cfg.Upstream != "" {
		transport := passthrough.NewTransportFromConfig(cfg)
		proxy, err := passthrough.NewProxy(cfg.Upstream, transport)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mock.WithTransport(transport), mock.WithPassThroughHandler(proxy))
	} else {
		log.Warn("passthrough.upstream is not set, pass-through requests will fail")
		opts = append(opts, mock.WithTransport(nil))
	}

	if metrics != nil {
		opts = append(opts, mock.WithMetrics(metrics))
	}

	return mock.NewShimRegistry(appState.ConfigurationStore, appState.SchemaStore, opts...), nil
}

// setupRouter mounts the registry behind the usual middleware. promRegistry is nil when
// metrics are disabled.
func setupRouter(
	appState *models.AppState,
	registry *mock.Registry,
	promRegistry *prometheus.Registry,
) (*chi.Mux, error) {
	cfg := appState.Config

	var tokenGate func(http.Handler) http.Handler
	if cfg.Auth.Required {
		verifier, err := auth.JWTVerifier(cfg)
		if err != nil {
			return nil, err
		}
		log.Info("JWT authentication required")
		tokenGate = RequireTokenForMocks(registry, verifier)
	}

	router := chi.NewRouter()
	router.Use(httpLogger.Logger("router", log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.RequestSize(MaxRequestSize))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	router.Use(SendVersion)
	router.Use(ApplyCustomHeaders(cfg.CustomHeaders))
	router.Use(middleware.Heartbeat("/healthz"))
	router.Use(otelchi.Middleware(RouterName, otelchi.WithChiRoutes(router)))

	if promRegistry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	router.Route(AdminPrefix, func(r chi.Router) {
		r.Get("/health", GetHealthHandler())
		r.Group(func(r chi.Router) {
			if tokenGate != nil {
				r.Use(tokenGate)
			}
			r.Get("/calls", GetCallsHandler(registry))
			r.Get("/calls/{callID}", GetCallHandler(registry))
			r.Post("/reset", ResetHandler(appState, registry))
		})
	})

	router.Group(func(r chi.Router) {
		if tokenGate != nil {
			r.Use(tokenGate)
		}
		r.Handle("/*", registry)
	})

	return router, nil
}
