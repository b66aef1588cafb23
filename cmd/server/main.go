package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smartpark-alliance/smartpark/internal/api"
	"smartpark-alliance/smartpark/internal/db"
	"smartpark-alliance/smartpark/internal/jobs"
	"smartpark-alliance/smartpark/internal/logging"
	"smartpark-alliance/smartpark/internal/metrics"
	"smartpark-alliance/smartpark/internal/routes"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	if err := logging.Init(appEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("SmartPark starting up",
		"environment", appEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	orm, err := db.InitORM()
	if err != nil {
		logging.Error("Failed to connect to database", "error", err.Error())
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(orm); err != nil {
		logging.Error("Failed to migrate schema", "error", err.Error())
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	logging.Info("Database connected and migrated", "driver", os.Getenv("DB_DRIVER"))

	// sqlx handle for the hand-written dashboard queries, Postgres only
	if os.Getenv("DB_DRIVER") != "sqlite" {
		if err := db.InitPostgres(); err != nil {
			logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
			log.Fatalf("Failed to connect to Postgres (sqlx): %v", err)
		}
		logging.Info("Connected to Postgres (sqlx)")
	}

	metricsReg := metrics.NewRegistry()

	deps, err := api.InitDependencies(orm, db.SQL, metricsReg)
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}

	jobs.InitializeJobs(context.Background(), deps.Services.Archive)

	upSince := time.Now()
	router := routes.RegisterRoutes(orm, deps, metricsReg, upSince)

	// Metrics endpoint lives outside the Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logging.Info("Server starting",
		"port", port,
		"environment", appEnv,
	)

	log.Fatal(http.ListenAndServe(":"+port, mux))
}
