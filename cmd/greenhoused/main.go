// Greenhouse Core - Smart Greenhouse Catalog Registry
//
// This is the main entry point for the greenhouse catalog service. The
// catalog is the single source of truth for the deployment: which users,
// greenhouses, zones, devices and services exist, how they relate, and
// which of them are still alive.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/verdantech/greenhouse-core/migrations"

	"github.com/verdantech/greenhouse-core/internal/api"
	"github.com/verdantech/greenhouse-core/internal/audit"
	"github.com/verdantech/greenhouse-core/internal/catalog"
	"github.com/verdantech/greenhouse-core/internal/events"
	"github.com/verdantech/greenhouse-core/internal/infrastructure/config"
	"github.com/verdantech/greenhouse-core/internal/infrastructure/database"
	"github.com/verdantech/greenhouse-core/internal/infrastructure/influxdb"
	"github.com/verdantech/greenhouse-core/internal/infrastructure/logging"
	"github.com/verdantech/greenhouse-core/internal/infrastructure/mqtt"
	"github.com/verdantech/greenhouse-core/internal/sweeper"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting greenhouse catalog",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the catalog document
	store, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	log.Info("catalog loaded", "path", cfg.Catalog.Path)

	// Event sinks are assembled before the registry so every mutation is
	// observed from the first request onward.
	var sinks catalog.MultiSink

	// Audit trail (optional)
	var db *database.DB
	var auditRepo audit.Repository
	if cfg.Audit.Enabled {
		db, err = database.Open(database.Config{
			Path:        cfg.Audit.Path,
			WALMode:     cfg.Audit.WALMode,
			BusyTimeout: cfg.Audit.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("opening audit database: %w", err)
		}
		defer func() {
			log.Info("closing audit database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing audit database", "error", closeErr)
			}
		}()

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running audit migrations: %w", migrateErr)
		}
		log.Info("audit database ready", "path", cfg.Audit.Path)

		auditRepo = audit.NewSQLiteRepository(db.DB)
		recorder := audit.NewRecorder(auditRepo, log)
		// Registered after the database close above so it runs first:
		// in-flight inserts drain before the database goes away.
		defer recorder.Close() //nolint:errcheck // Close never fails
		sinks = append(sinks, recorder)
	} else {
		log.Info("audit trail disabled")
	}

	// MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		sinks = append(sinks, events.NewPublisher(mqttClient, log))
	} else {
		log.Info("MQTT disabled")
	}

	// InfluxDB metrics (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		// The sink only snapshots the catalog, so the store serves as the
		// viewer; the registry does not exist yet at this point.
		sinks = append(sinks, events.NewMetricsSink(store, influxClient))
	} else {
		log.Info("InfluxDB disabled")
	}

	var sink catalog.EventSink
	if len(sinks) > 0 {
		sink = sinks
	}
	registry := catalog.NewRegistry(store, log, sink)

	// Device heartbeats over MQTT: constrained sensors refresh their
	// registration by publishing instead of issuing HTTP PUTs.
	if mqttClient != nil {
		if hbErr := events.ListenHeartbeats(mqttClient, registry, log); hbErr != nil {
			return fmt.Errorf("subscribing to heartbeats: %w", hbErr)
		}
		log.Info("listening for device heartbeats")
	}

	// HTTP API
	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log,
		Registry: registry,
		Audit:    auditRepo,
		MQTT:     mqttClient,
		Database: databaseChecker(db),
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Liveness sweeper
	if cfg.Sweeper.Enabled {
		sw := sweeper.New(registry, cfg.GetSweepInterval(), cfg.GetInactiveThreshold(), log, sweepMetrics(influxClient))
		sw.Start(ctx)
		defer func() {
			log.Info("stopping sweeper")
			if closeErr := sw.Close(); closeErr != nil {
				log.Error("error closing sweeper", "error", closeErr)
			}
		}()
		log.Info("sweeper started",
			"interval", cfg.GetSweepInterval(),
			"inactive_threshold", cfg.GetInactiveThreshold(),
		)
	} else {
		log.Info("sweeper disabled")
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order: sweeper, API server,
	// InfluxDB, MQTT, audit database.

	log.Info("greenhouse catalog stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GREENHOUSE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GREENHOUSE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// databaseChecker converts a possibly-nil *database.DB into the API's health
// checker dependency without producing a non-nil interface holding nil.
func databaseChecker(db *database.DB) api.HealthChecker {
	if db == nil {
		return nil
	}
	return db
}

// sweepMetrics converts a possibly-nil InfluxDB client into the sweeper's
// metrics dependency, same trick as databaseChecker.
func sweepMetrics(c *influxdb.Client) sweeper.Metrics {
	if c == nil {
		return nil
	}
	return c
}

// healthCheck verifies every enabled infrastructure connection is healthy.
// Disabled components are skipped.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}
