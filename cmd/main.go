package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ipwatch/internal/adapters/api"
	"ipwatch/internal/adapters/api/middleware"
	"ipwatch/internal/adapters/db/memory"
	pgrepo "ipwatch/internal/adapters/db/postgres"
	"ipwatch/internal/adapters/sink"
	appmonitor "ipwatch/internal/application/monitor"
	"ipwatch/internal/config"
	domaininventory "ipwatch/internal/domain/inventory"
	domainmetrics "ipwatch/internal/domain/metrics"
	"ipwatch/migrations"
)

//	@title			IPWatch API
//	@version		1.0
//	@description	Network address utilization monitoring API

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token.

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg := config.LoadConfig()

	if cfg.Monitor.NetworkID == "" {
		log.Fatal().Msg("NETWORK_ID is required")
	}

	log.Info().
		Str("http_port", cfg.HTTPPort).
		Str("network_id", cfg.Monitor.NetworkID).
		Dur("interval", cfg.Monitor.Interval).
		Bool("run_once", cfg.Monitor.RunOnce).
		Bool("db_enabled", cfg.Database.Enabled).
		Msg("Starting IPWatch")

	// Initialize the inventory provider (Postgres or in-memory demo)
	var provider domaininventory.Provider
	var locker appmonitor.Locker

	if cfg.Database.Enabled {
		log.Info().Str("dsn", cfg.Database.DSN).Msg("Initializing Postgres inventory")
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres")
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("ping postgres")
		}
		if err := pgrepo.RunMigrations(ctx, db, migrations.Files); err != nil {
			log.Fatal().Err(err).Msg("run migrations")
		}
		provider = pgrepo.NewInventoryRepository(db)

		pool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("init pgx pool")
		}
		locker = pgrepo.NewLockManager(pool)
	} else {
		log.Warn().Msg("DB disabled - using in-memory demo inventory")
		provider = seedDemoInventory(context.Background(), cfg)
	}

	// Initialize the metrics sink
	var metricsSink domainmetrics.Sink
	if cfg.Metrics.Endpoint != "" {
		log.Info().Str("endpoint", cfg.Metrics.Endpoint).Msg("Publishing metrics over HTTP")
		metricsSink = sink.NewHTTPSink(cfg.Metrics.Endpoint, cfg.Metrics.Timeout)
	} else {
		log.Warn().Msg("METRICS_ENDPOINT not set - metrics go to the log sink")
		metricsSink = sink.NewLogSink()
	}

	// Initialize collector, store and API
	collector := appmonitor.NewService(provider, metricsSink, cfg.Metrics.Namespace, cfg.Monitor.QueryTimeout, cfg.Metrics.Timeout)
	store := appmonitor.NewSnapshotStore()
	handler := api.NewHandler(collector, store)

	runner := appmonitor.NewRunner(collector, store, cfg.Monitor.NetworkID, cfg.Monitor.Interval, locker, handler.WSManager().Broadcast)

	// One-shot mode: a single pass under an external scheduler, then exit.
	if cfg.Monitor.RunOnce {
		if err := runner.RunOnce(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("collection pass failed")
		}
		return
	}

	runner.Start(context.Background())

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	if !cfg.Auth.Enabled {
		log.Warn().Msg("Authentication disabled - API is open")
	}
	authMiddleware := middleware.AuthMiddleware(&cfg.Auth)
	handler.RegisterRoutes(r, authMiddleware)

	log.Info().Msgf("Starting IPWatch server on port %s", cfg.HTTPPort)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

// seedDemoInventory builds the in-memory inventory from the demo config:
// one network, its subnets, and interfaces spread round-robin across them.
func seedDemoInventory(ctx context.Context, cfg *config.Config) *memory.InventoryRepository {
	repo := memory.NewInventoryRepository(ctx)

	networkID := cfg.Monitor.NetworkID
	if err := repo.CreateNetwork(ctx, networkID, "demo", cfg.Demo.CIDR); err != nil {
		log.Fatal().Err(err).Msg("seed demo network")
	}

	subnetIDs := make([]string, 0, len(cfg.Demo.Subnets))
	for i, cidr := range cfg.Demo.Subnets {
		rec, err := repo.AddSubnet(ctx, networkID, fmt.Sprintf("demo-%d", i), cidr)
		if err != nil {
			log.Fatal().Err(err).Str("cidr", cidr).Msg("seed demo subnet")
		}
		subnetIDs = append(subnetIDs, rec.ID)
	}

	for i := 0; i < cfg.Demo.Interfaces && len(subnetIDs) > 0; i++ {
		if _, err := repo.AttachInterface(ctx, networkID, subnetIDs[i%len(subnetIDs)]); err != nil {
			log.Fatal().Err(err).Msg("seed demo interface")
		}
	}

	return repo
}
