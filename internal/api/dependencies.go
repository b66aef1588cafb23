package api

import (
	"os"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"smartpark-alliance/smartpark/internal/common"
	"smartpark-alliance/smartpark/internal/db/repositories"
	"smartpark-alliance/smartpark/internal/logging"
	"smartpark-alliance/smartpark/internal/metrics"
	"smartpark-alliance/smartpark/internal/services"
)

type Repositories struct {
	Flights   *repositories.FlightRepository
	Stands    *repositories.StandRepository
	Aircraft  *repositories.AircraftRepository
	Incidents *repositories.IncidentRepository
	History   *repositories.HistoryRepository
}

type Services struct {
	Cache      common.CacheInterface
	Allocation *services.AllocationService
	Flights    *services.FlightService
	Incidents  *services.IncidentService
	StandState *services.StandStatusService
	Archive    *services.ArchiveService
	Dashboard  *services.DashboardService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
}

// InitDependencies wires repositories and services. sql may be nil when
// running on sqlite.
func InitDependencies(orm *gorm.DB, sql *sqlx.DB, reg *metrics.Registry) (*Dependencies, error) {
	repos := &Repositories{
		Flights:   repositories.NewFlightRepository(orm),
		Stands:    repositories.NewStandRepository(orm),
		Aircraft:  repositories.NewAircraftRepository(orm),
		Incidents: repositories.NewIncidentRepository(orm),
		History:   repositories.NewHistoryRepository(orm),
	}

	var cacheSvc common.CacheInterface
	if os.Getenv("REDIS_HOST") != "" {
		redisCache, err := common.NewRedisCacheService()
		if err != nil {
			logging.Warn("Redis unavailable, falling back to in-memory cache", "error", err.Error())
			cacheSvc = common.NewCacheService(60, 600)
		} else {
			cacheSvc = redisCache
		}
	} else {
		cacheSvc = common.NewCacheService(60, 600)
	}

	allocation := services.NewAllocationService(repos.Flights, repos.Stands, repos.Incidents, reg)

	svcs := &Services{
		Cache:      cacheSvc,
		Allocation: allocation,
		Flights:    services.NewFlightService(repos.Flights, repos.Aircraft),
		Incidents:  services.NewIncidentService(repos.Incidents, repos.Stands, allocation),
		StandState: services.NewStandStatusService(repos.Flights, repos.Incidents),
		Archive:    services.NewArchiveService(repos.Flights, repos.History, reg),
		Dashboard:  services.NewDashboardService(orm, sql, cacheSvc),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
	}, nil
}
