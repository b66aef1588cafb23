package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"smartpark-alliance/smartpark/internal/common"
	"smartpark-alliance/smartpark/internal/constants"
	"smartpark-alliance/smartpark/internal/models/dtos"
	models "smartpark-alliance/smartpark/internal/models/gorm"
)

const dashboardCacheTTL = 15 * time.Second

// DashboardService aggregates the counts shown on the operations dashboard.
// The individual counts are independent queries, so they fan out in an
// errgroup; the assembled snapshot is cached for a short TTL since the
// dashboard is polled far more often than the numbers move.
type DashboardService struct {
	db    *gorm.DB
	sql   *sqlx.DB // nil in sqlite/standalone mode
	cache common.CacheInterface
}

// NewDashboardService creates a new dashboard service. sql may be nil; the
// distinct-join counts then fall back to GORM.
func NewDashboardService(db *gorm.DB, sql *sqlx.DB, cache common.CacheInterface) *DashboardService {
	return &DashboardService{db: db, sql: sql, cache: cache}
}

// Snapshot returns the current dashboard statistics
func (s *DashboardService) Snapshot(ctx context.Context) (*dtos.DashboardStats, error) {
	key := string(constants.CachePrefixDashboard) + "stats"

	val, err := s.cache.GetOrSet(key, dashboardCacheTTL, func() (any, error) {
		return s.collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	stats, ok := val.(*dtos.DashboardStats)
	if !ok {
		// Cache backends that round-trip through JSON (Redis) lose the
		// concrete type; recompute rather than guess.
		return s.collect(ctx)
	}
	return stats, nil
}

// Invalidate drops the cached snapshot, called after allocation mutations
func (s *DashboardService) Invalidate() {
	s.cache.Delete(string(constants.CachePrefixDashboard) + "stats")
}

func (s *DashboardService) collect(ctx context.Context) (*dtos.DashboardStats, error) {
	now := time.Now()
	stats := &dtos.DashboardStats{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.count(gctx, &stats.Stands.Total, s.db.Model(&models.Stand{}))
	})
	g.Go(func() (err error) {
		stats.Stands.Blocked, err = s.distinctCount(gctx, constants.CountStandsBlocked, s.blockedStandsGorm)
		return err
	})
	g.Go(func() (err error) {
		stats.Stands.Occupied, err = s.distinctCount(gctx, constants.CountStandsOccupied, s.occupiedStandsGorm)
		return err
	})
	g.Go(func() error {
		return s.count(gctx, &stats.Flights.Pending,
			s.db.Model(&models.Flight{}).Where("status = ?", constants.FlightPending))
	})
	g.Go(func() error {
		return s.count(gctx, &stats.Flights.Allocated,
			s.db.Model(&models.Flight{}).Where("status = ?", constants.FlightAllocated))
	})
	g.Go(func() error {
		return s.count(gctx, &stats.Flights.AllocatedFuture,
			s.db.Model(&models.Flight{}).
				Where("status = ?", constants.FlightAllocated).
				Where("occupation_start > ?", now))
	})
	g.Go(func() error {
		return s.count(gctx, &stats.Flights.InProgress,
			s.db.Model(&models.Flight{}).
				Where("status = ?", constants.FlightAllocated).
				Where("occupation_start <= ? AND occupation_end > ?", now, now))
	})
	g.Go(func() error {
		return s.count(gctx, &stats.ActiveIncidents,
			s.db.Model(&models.Incident{}).Where("status IN ?", constants.ActiveIncidentStatuses))
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard snapshot: %w", err)
	}

	stats.Stands.Available = stats.Stands.Total - stats.Stands.Blocked - stats.Stands.Occupied
	if stats.Stands.Available < 0 {
		stats.Stands.Available = 0
	}

	return stats, nil
}

func (s *DashboardService) count(ctx context.Context, dst *int64, q *gorm.DB) error {
	return q.WithContext(ctx).Count(dst).Error
}

// distinctCount prefers the hand-written SQL on Postgres and falls back to
// the GORM equivalent otherwise
func (s *DashboardService) distinctCount(ctx context.Context, query string, fallback func(context.Context) (int64, error)) (int64, error) {
	if s.sql == nil {
		return fallback(ctx)
	}
	var n int64
	if err := s.sql.GetContext(ctx, &n, query); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *DashboardService) blockedStandsGorm(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Stand{}).
		Where("id IN (?)", s.db.Model(&models.Incident{}).
			Select("stand_id").
			Where("status IN ?", constants.ActiveIncidentStatuses)).
		Count(&n).Error
	return n, err
}

func (s *DashboardService) occupiedStandsGorm(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Stand{}).
		Where("id IN (?)", s.db.Model(&models.Flight{}).
			Select("stand_id").
			Where("status = ?", constants.FlightAllocated)).
		Count(&n).Error
	return n, err
}
