package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/openmhealth/shimmock/config"
	"github.com/openmhealth/shimmock/pkg/auth"
	"github.com/openmhealth/shimmock/pkg/fixtures"
	"github.com/openmhealth/shimmock/pkg/models"
	"github.com/openmhealth/shimmock/pkg/server"
	"github.com/openmhealth/shimmock/pkg/store"
	"github.com/openmhealth/shimmock/pkg/telemetry"
)

const ShutdownTimeout = 10 * time.Second

// run is the entrypoint for the shimmock dev server
func run() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring shimmock: %s", err)
	}

	handleCLIOptions(cfg)

	log.Infof("Starting shimmock version %s", config.VersionString)

	config.SetLogLevel(cfg)

	appState, err := NewAppState(cfg)
	if err != nil {
		log.Fatal(err)
	}

	shutdownTracing, err := telemetry.SetupTracing(context.Background(), cfg.Tracing)
	if err != nil {
		log.Fatal(err)
	}

	srv, _, err := server.Create(appState)
	if err != nil {
		log.Fatal(err)
	}

	setupSignalHandler(srv, shutdownTracing)

	log.Infof("Listening on: %s", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// NewAppState loads the fixtures named in the config, or the built-in ones, and creates
// the stores serving them.
func NewAppState(cfg *config.Config) (*models.AppState, error) {
	set, err := loadFixtures(cfg)
	if err != nil {
		return nil, err
	}

	configurations, err := store.NewMemoryConfigurationStore(set.Configuration)
	if err != nil {
		return nil, err
	}

	return &models.AppState{
		Config:             cfg,
		ConfigurationStore: configurations,
		SchemaStore:        store.NewMemorySchemaStore(set.SchemaList),
	}, nil
}

func loadFixtures(cfg *config.Config) (*fixtures.Set, error) {
	if cfg.Fixtures.Path == "" {
		log.Info("Using built-in Withings fixtures")
		return fixtures.Default(), nil
	}

	set, err := fixtures.Load(cfg.Fixtures.Path)
	if err != nil {
		return nil, err
	}
	log.Infof(
		"Loaded fixtures for %s (%d schemas) from %s",
		set.Configuration.ShimName, len(set.SchemaList.Schemas), cfg.Fixtures.Path,
	)
	return set, nil
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			log.Fatalf("Error dumping config: %s", err)
		}
		fmt.Print(string(out))
		os.Exit(0)
	}
	if generateToken {
		ttl, err := time.ParseDuration(tokenTTL)
		if err != nil {
			log.Fatalf("Invalid --token-ttl: %s", err)
		}
		token, err := auth.GenerateToken(cfg, ttl)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(token)
		os.Exit(0)
	}
}

// setupSignalHandler shuts the server down and flushes traces on termination
func setupSignalHandler(srv *http.Server, shutdownTracing telemetry.ShutdownFunc) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("Error shutting down server: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Errorf("Error flushing traces: %v", err)
		}
	}()
}
