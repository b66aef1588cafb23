package repositories

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"smartpark-alliance/smartpark/internal/constants"
	models "smartpark-alliance/smartpark/internal/models/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Each new :memory: connection is a separate empty database, so
	// concurrent queries must share the single migrated connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Aircraft{},
		&models.Stand{},
		&models.Flight{},
		&models.Incident{},
		&models.AllocationHistory{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func seedStand(t *testing.T, db *gorm.DB, name string) *models.Stand {
	stand := &models.Stand{
		OperationalName:    name,
		Length:             10,
		Width:              10,
		DistanceToTerminal: 100,
		Availability:       true,
	}
	if err := db.Create(stand).Error; err != nil {
		t.Fatalf("Failed to create stand: %v", err)
	}
	return stand
}

func seedAllocated(t *testing.T, db *gorm.DB, number string, stand *models.Stand, start, end time.Time) *models.Flight {
	flight := &models.Flight{
		ArrivalNumber:   number,
		OccupationStart: &start,
		OccupationEnd:   &end,
		Status:          string(constants.FlightAllocated),
		StandID:         &stand.ID,
	}
	if err := db.Create(flight).Error; err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}
	return flight
}

func at(t *testing.T, value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("Bad timestamp %s: %v", value, err)
	}
	return ts
}

func TestHasConflict_HalfOpenIntervals(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlightRepository(db)
	ctx := context.Background()

	stand := seedStand(t, db, "S1")
	seedAllocated(t, db, "AF160", stand,
		at(t, "2026-08-29T10:00:00Z"), at(t, "2026-08-29T11:00:00Z"))

	cases := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"identical interval", "2026-08-29T10:00:00Z", "2026-08-29T11:00:00Z", true},
		{"contained", "2026-08-29T10:15:00Z", "2026-08-29T10:45:00Z", true},
		{"overlaps start", "2026-08-29T09:30:00Z", "2026-08-29T10:30:00Z", true},
		{"overlaps end", "2026-08-29T10:30:00Z", "2026-08-29T11:30:00Z", true},
		{"touches start boundary", "2026-08-29T09:00:00Z", "2026-08-29T10:00:00Z", false},
		{"touches end boundary", "2026-08-29T11:00:00Z", "2026-08-29T12:00:00Z", false},
		{"disjoint before", "2026-08-29T07:00:00Z", "2026-08-29T08:00:00Z", false},
		{"disjoint after", "2026-08-29T13:00:00Z", "2026-08-29T14:00:00Z", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.HasConflict(ctx, stand.ID, at(t, tc.start), at(t, tc.end))
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected conflict=%v, got %v", tc.want, got)
			}
		})
	}
}

func TestHasConflict_IgnoresOtherStandsAndNonAllocated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlightRepository(db)
	ctx := context.Background()

	stand := seedStand(t, db, "S1")
	other := seedStand(t, db, "S2")

	seedAllocated(t, db, "AF161", other,
		at(t, "2026-08-29T10:00:00Z"), at(t, "2026-08-29T11:00:00Z"))

	start := at(t, "2026-08-29T10:00:00Z")
	end := at(t, "2026-08-29T11:00:00Z")
	completed := &models.Flight{
		ArrivalNumber:   "AF162",
		OccupationStart: &start,
		OccupationEnd:   &end,
		Status:          string(constants.FlightCompleted),
	}
	if err := db.Create(completed).Error; err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}

	got, err := repo.HasConflict(ctx, stand.ID, start, end)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got {
		t.Error("Other stands and completed flights must not count as conflicts")
	}
}

func TestCommitAllocation_OnlyCommitsPendingFlights(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlightRepository(db)
	ctx := context.Background()

	stand := seedStand(t, db, "S1")
	start := at(t, "2026-08-29T10:00:00Z")
	end := at(t, "2026-08-29T11:00:00Z")
	flight := &models.Flight{
		ArrivalNumber:   "AF163",
		OccupationStart: &start,
		OccupationEnd:   &end,
		Status:          string(constants.FlightPending),
	}
	if err := db.Create(flight).Error; err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}

	if err := repo.CommitAllocation(ctx, flight.ID, stand.ID); err != nil {
		t.Fatalf("First commit must succeed: %v", err)
	}

	// The flight is no longer pending, so a second commit is a guard
	// violation, not a silent overwrite.
	if err := repo.CommitAllocation(ctx, flight.ID, stand.ID); err == nil {
		t.Error("Second commit on a non-pending flight must fail")
	}

	var updated models.Flight
	db.Where("id = ?", flight.ID).First(&updated)
	if updated.Status != string(constants.FlightAllocated) {
		t.Errorf("Expected ALLOCATED, got %s", updated.Status)
	}
	if updated.StandID == nil || *updated.StandID != stand.ID {
		t.Error("Stand reference must be written with the status")
	}
}

func TestPendingFlights_OrderedByOccupationStart(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlightRepository(db)

	later := at(t, "2026-08-29T12:00:00Z")
	laterEnd := at(t, "2026-08-29T13:00:00Z")
	earlier := at(t, "2026-08-29T08:00:00Z")
	earlierEnd := at(t, "2026-08-29T09:00:00Z")

	second := &models.Flight{ArrivalNumber: "AF164", OccupationStart: &later, OccupationEnd: &laterEnd, Status: string(constants.FlightPending)}
	first := &models.Flight{ArrivalNumber: "AF165", OccupationStart: &earlier, OccupationEnd: &earlierEnd, Status: string(constants.FlightPending)}
	if err := db.Create(second).Error; err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}

	flights, err := repo.PendingFlights(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(flights) != 2 {
		t.Fatalf("Expected 2 flights, got %d", len(flights))
	}
	if flights[0].ArrivalNumber != "AF165" {
		t.Errorf("Expected earliest start first, got %s", flights[0].ArrivalNumber)
	}
}

func TestFutureAllocatedOnStand_ScopesByTimeAndStand(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlightRepository(db)

	stand := seedStand(t, db, "S1")
	other := seedStand(t, db, "S2")
	now := at(t, "2026-08-29T12:00:00Z")

	// Started before now: in progress, out of scope
	seedAllocated(t, db, "AF166", stand, at(t, "2026-08-29T11:00:00Z"), at(t, "2026-08-29T13:00:00Z"))
	// Starts after now on the target stand: in scope
	seedAllocated(t, db, "AF167", stand, at(t, "2026-08-29T14:00:00Z"), at(t, "2026-08-29T15:00:00Z"))
	// Future but on another stand: out of scope
	seedAllocated(t, db, "AF168", other, at(t, "2026-08-29T14:00:00Z"), at(t, "2026-08-29T15:00:00Z"))

	flights, err := repo.FutureAllocatedOnStand(context.Background(), stand.ID, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(flights) != 1 || flights[0].ArrivalNumber != "AF167" {
		t.Errorf("Expected only AF167, got %d flights", len(flights))
	}
}
