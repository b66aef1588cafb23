package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"smartpark-alliance/smartpark/internal/constants"
	"smartpark-alliance/smartpark/internal/db/repositories"
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

func newEngine(db *gorm.DB) *AllocationService {
	return NewAllocationService(
		repositories.NewFlightRepository(db),
		repositories.NewStandRepository(db),
		repositories.NewIncidentRepository(db),
		nil,
	)
}

func createAircraft(t *testing.T, db *gorm.DB, reg string, length, width float64) *models.Aircraft {
	ac := &models.Aircraft{Registration: reg, Length: length, Width: width, TypeCode: "B738"}
	if err := db.Create(ac).Error; err != nil {
		t.Fatalf("Failed to create aircraft: %v", err)
	}
	return ac
}

func createStand(t *testing.T, db *gorm.DB, name string, length, width float64, distance int) *models.Stand {
	stand := &models.Stand{
		OperationalName:    name,
		Length:             length,
		Width:              width,
		DistanceToTerminal: distance,
		Availability:       true,
	}
	if err := db.Create(stand).Error; err != nil {
		t.Fatalf("Failed to create stand: %v", err)
	}
	return stand
}

func createPendingFlight(t *testing.T, db *gorm.DB, number string, ac *models.Aircraft, start, end *time.Time) *models.Flight {
	flight := &models.Flight{
		ArrivalNumber:   number,
		OccupationStart: start,
		OccupationEnd:   end,
		Origin:          "CDG",
		Destination:     "LHR",
		Status:          string(constants.FlightPending),
	}
	if ac != nil {
		flight.AircraftID = &ac.ID
	}
	if err := db.Create(flight).Error; err != nil {
		t.Fatalf("Failed to create flight: %v", err)
	}
	return flight
}

func createAllocatedFlight(t *testing.T, db *gorm.DB, number string, ac *models.Aircraft, stand *models.Stand, start, end time.Time) *models.Flight {
	flight := &models.Flight{
		ArrivalNumber:   number,
		OccupationStart: &start,
		OccupationEnd:   &end,
		Origin:          "CDG",
		Destination:     "LHR",
		Status:          string(constants.FlightAllocated),
		StandID:         &stand.ID,
	}
	if ac != nil {
		flight.AircraftID = &ac.ID
	}
	if err := db.Create(flight).Error; err != nil {
		t.Fatalf("Failed to create allocated flight: %v", err)
	}
	return flight
}

func reloadFlight(t *testing.T, db *gorm.DB, id string) *models.Flight {
	var flight models.Flight
	if err := db.Preload("Stand").Where("id = ?", id).First(&flight).Error; err != nil {
		t.Fatalf("Failed to reload flight: %v", err)
	}
	return &flight
}

func hoursFromNow(h int) *time.Time {
	ts := time.Now().Add(time.Duration(h) * time.Hour).Truncate(time.Second)
	return &ts
}

func TestRunBatch_EmptyInput(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	allocated, unallocated, err := engine.RunBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if allocated != 0 || unallocated != 0 {
		t.Errorf("Expected (0,0), got (%d,%d)", allocated, unallocated)
	}
}

func TestRunBatch_ExactMatchBeatsEarlierLarger(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	// B is closer to the terminal and scanned first, but A fits exactly
	standB := createStand(t, db, "B", 12, 12, 100)
	standA := createStand(t, db, "A", 10, 10, 500)
	_ = standB

	ac := createAircraft(t, db, "F-GKXA", 10, 10)
	flight := createPendingFlight(t, db, "AF100", ac, hoursFromNow(1), hoursFromNow(3))

	allocated, unallocated, err := engine.RunBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if allocated != 1 || unallocated != 0 {
		t.Fatalf("Expected (1,0), got (%d,%d)", allocated, unallocated)
	}

	updated := reloadFlight(t, db, flight.ID)
	if updated.StandID == nil || *updated.StandID != standA.ID {
		t.Errorf("Expected exact-fit stand A, got %v", updated.Stand)
	}
}

func TestRunBatch_SmallestCompatibleWins(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	// C (area 64) is scanned first; D (area 63) is smaller despite being
	// farther from the terminal. Neither is an exact fit.
	createStand(t, db, "C", 8, 8, 100)
	standD := createStand(t, db, "D", 7, 9, 400)

	ac := createAircraft(t, db, "F-GKXB", 5, 5)
	flight := createPendingFlight(t, db, "AF101", ac, hoursFromNow(1), hoursFromNow(3))

	allocated, _, err := engine.RunBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if allocated != 1 {
		t.Fatalf("Expected 1 allocation, got %d", allocated)
	}

	updated := reloadFlight(t, db, flight.ID)
	if updated.StandID == nil || *updated.StandID != standD.ID {
		t.Errorf("Expected smallest-area stand D, got stand %v", updated.StandID)
	}
}

func TestRunBatch_SkipsIncompatibleStands(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	createStand(t, db, "S1", 8, 8, 100)

	ac := createAircraft(t, db, "F-GKXC", 10, 10)
	flight := createPendingFlight(t, db, "AF102", ac, hoursFromNow(1), hoursFromNow(3))

	allocated, unallocated, err := engine.RunBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if allocated != 0 || unallocated != 1 {
		t.Errorf("Expected (0,1), got (%d,%d)", allocated, unallocated)
	}

	updated := reloadFlight(t, db, flight.ID)
	if updated.Status != string(constants.FlightPending) || updated.StandID != nil {
		t.Errorf("Flight must stay pending with no stand, got %s", updated.Status)
	}
}

func TestRunBatch_BoundaryTouchingIntervalsDoNotConflict(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	stand := createStand(t, db, "S1", 10, 10, 100)
	ac := createAircraft(t, db, "F-GKXD", 10, 10)

	// Existing occupation [T+1h, T+2h); new flight wants [T+2h, T+3h)
	createAllocatedFlight(t, db, "AF200", ac, stand, *hoursFromNow(1), *hoursFromNow(2))
	flight := createPendingFlight(t, db, "AF201", ac, hoursFromNow(2), hoursFromNow(3))

	allocated, _, err := engine.RunBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if allocated != 1 {
		t.Fatalf("Touching intervals must not conflict, got %d allocations", allocated)
	}

	updated := reloadFlight(t, db, flight.ID)
	if updated.StandID == nil || *updated.StandID != stand.ID {
		t.Errorf("Expected same stand for back-to-back occupation")
	}
}

func TestRunBatch_OverlappingIntervalConflicts(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	stand := createStand(t, db, "S1", 10, 10, 100)
	ac := createAircraft(t, db, "F-GKXE", 10, 10)

	createAllocatedFlight(t, db, "AF300", ac, stand, *hoursFromNow(1), *hoursFromNow(3))
	createPendingFlight(t, db, "AF301", ac, hoursFromNow(2), hoursFromNow(4))

	allocated, unallocated, err := engine.RunBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if allocated != 0 || unallocated != 1 {
		t.Errorf("Overlap must block the stand, got (%d,%d)", allocated, unallocated)
	}
}

func TestRunBatch_NoDoubleBookingWithinOneBatch(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	// One stand, two pending flights with overlapping intervals: the
	// earlier one must win, the later one must see the fresh commit.
	stand := createStand(t, db, "S1", 10, 10, 100)
	ac := createAircraft(t, db, "F-GKXF", 10, 10)

	first := createPendingFlight(t, db, "AF400", ac, hoursFromNow(1), hoursFromNow(4))
	second := createPendingFlight(t, db, "AF401", ac, hoursFromNow(2), hoursFromNow(5))

	allocated, unallocated, err := engine.RunBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if allocated != 1 || unallocated != 1 {
		t.Fatalf("Expected (1,1), got (%d,%d)", allocated, unallocated)
	}

	updatedFirst := reloadFlight(t, db, first.ID)
	updatedSecond := reloadFlight(t, db, second.ID)

	if updatedFirst.StandID == nil || *updatedFirst.StandID != stand.ID {
		t.Errorf("Earliest flight must get the stand")
	}
	if updatedSecond.StandID != nil {
		t.Errorf("Second flight must not share the stand")
	}
}

func TestRunBatch_IncompleteFlightsNeverMatch(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	createStand(t, db, "S1", 20, 20, 100)
	ac := createAircraft(t, db, "F-GKXG", 10, 10)

	noAircraft := createPendingFlight(t, db, "AF500", nil, hoursFromNow(1), hoursFromNow(2))
	noSchedule := createPendingFlight(t, db, "AF501", ac, nil, nil)
	noEnd := createPendingFlight(t, db, "AF502", ac, hoursFromNow(1), nil)

	allocated, unallocated, err := engine.RunBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if allocated != 0 || unallocated != 3 {
		t.Errorf("Expected (0,3), got (%d,%d)", allocated, unallocated)
	}

	for _, f := range []*models.Flight{noAircraft, noSchedule, noEnd} {
		updated := reloadFlight(t, db, f.ID)
		if updated.StandID != nil {
			t.Errorf("Flight %s must never be assigned a stand", updated.ArrivalNumber)
		}
	}
}

func TestRunBatch_BlockedStandsNeverEligible(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	maintenance := createStand(t, db, "M1", 10, 10, 50)
	maintenance.Availability = false
	if err := db.Save(maintenance).Error; err != nil {
		t.Fatalf("Failed to flag stand: %v", err)
	}

	incidented := createStand(t, db, "I1", 10, 10, 60)
	incident := &models.Incident{
		StandID:      incidented.ID,
		TypeIncident: "Fuel spill",
		Status:       string(constants.IncidentOpen),
	}
	if err := db.Create(incident).Error; err != nil {
		t.Fatalf("Failed to create incident: %v", err)
	}

	ac := createAircraft(t, db, "F-GKXH", 10, 10)
	flight := createPendingFlight(t, db, "AF600", ac, hoursFromNow(1), hoursFromNow(2))

	allocated, unallocated, err := engine.RunBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if allocated != 0 || unallocated != 1 {
		t.Errorf("Blocked stands must not receive flights, got (%d,%d)", allocated, unallocated)
	}

	updated := reloadFlight(t, db, flight.ID)
	if updated.StandID != nil {
		t.Errorf("Flight must stay unassigned")
	}
}

func TestRunBatch_SubsetRestriction(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	createStand(t, db, "S1", 10, 10, 100)
	createStand(t, db, "S2", 10, 10, 200)
	ac := createAircraft(t, db, "F-GKXI", 10, 10)

	inScope := createPendingFlight(t, db, "AF700", ac, hoursFromNow(1), hoursFromNow(2))
	outOfScope := createPendingFlight(t, db, "AF701", ac, hoursFromNow(3), hoursFromNow(4))

	allocated, _, err := engine.RunBatch(context.Background(), []string{inScope.ID})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if allocated != 1 {
		t.Fatalf("Expected 1 allocation, got %d", allocated)
	}

	updated := reloadFlight(t, db, outOfScope.ID)
	if updated.Status != string(constants.FlightPending) {
		t.Errorf("Out-of-scope flight must stay pending")
	}
}

func TestRunBatch_CompatibilityInvariantHolds(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	createStand(t, db, "S1", 9, 9, 100)
	createStand(t, db, "S2", 12, 11, 200)
	createStand(t, db, "S3", 30, 30, 300)

	acSmall := createAircraft(t, db, "F-AAAA", 8, 8)
	acBig := createAircraft(t, db, "F-BBBB", 25, 20)

	createPendingFlight(t, db, "AF800", acSmall, hoursFromNow(1), hoursFromNow(2))
	createPendingFlight(t, db, "AF801", acBig, hoursFromNow(1), hoursFromNow(2))

	if _, _, err := engine.RunBatch(context.Background(), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var allocatedFlights []models.Flight
	if err := db.Preload("Aircraft").Preload("Stand").
		Where("status = ?", constants.FlightAllocated).
		Find(&allocatedFlights).Error; err != nil {
		t.Fatalf("Failed to query flights: %v", err)
	}

	for _, f := range allocatedFlights {
		if f.Aircraft.Length > f.Stand.Length || f.Aircraft.Width > f.Stand.Width {
			t.Errorf("Flight %s allocated to undersized stand %s", f.ArrivalNumber, f.Stand.OperationalName)
		}
	}
}

func TestReallocateFlight_RejectsPendingFlight(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	ac := createAircraft(t, db, "F-GKXJ", 10, 10)
	flight := createPendingFlight(t, db, "AF900", ac, hoursFromNow(1), hoursFromNow(2))

	ok, message, err := engine.ReallocateFlight(context.Background(), flight.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ok {
		t.Error("Expected rejection for a pending flight")
	}
	if message == "" {
		t.Error("Expected an explanatory message")
	}

	updated := reloadFlight(t, db, flight.ID)
	if updated.Status != string(constants.FlightPending) || updated.StandID != nil {
		t.Errorf("A rejected reallocation must not mutate the flight")
	}
}

func TestReallocateFlight_RejectsUnknownFlight(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	ok, message, err := engine.ReallocateFlight(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ok {
		t.Error("Expected rejection for an unknown flight")
	}
	if message != constants.MsgFlightNotFound {
		t.Errorf("Expected not-found message, got %q", message)
	}
}

func TestReallocateFlight_RejectsWhenStandHasNoIncident(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	stand := createStand(t, db, "S1", 10, 10, 100)
	ac := createAircraft(t, db, "F-GKXK", 10, 10)
	flight := createAllocatedFlight(t, db, "AF901", ac, stand, *hoursFromNow(1), *hoursFromNow(2))

	ok, _, err := engine.ReallocateFlight(context.Background(), flight.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ok {
		t.Error("Expected rejection when the stand has no active incident")
	}

	updated := reloadFlight(t, db, flight.ID)
	if updated.Status != string(constants.FlightAllocated) || updated.StandID == nil {
		t.Errorf("A rejected reallocation must not mutate the flight")
	}
}

func TestReallocateFlight_MovesFlightOffIncidentedStand(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	oldStand := createStand(t, db, "OLD", 10, 10, 100)
	newStand := createStand(t, db, "NEW", 10, 10, 200)
	ac := createAircraft(t, db, "F-GKXL", 10, 10)
	flight := createAllocatedFlight(t, db, "AF902", ac, oldStand, *hoursFromNow(1), *hoursFromNow(2))

	incident := &models.Incident{
		StandID:      oldStand.ID,
		TypeIncident: "Power failure",
		Status:       string(constants.IncidentOpen),
	}
	if err := db.Create(incident).Error; err != nil {
		t.Fatalf("Failed to create incident: %v", err)
	}

	ok, message, err := engine.ReallocateFlight(context.Background(), flight.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !ok {
		t.Fatalf("Expected successful reallocation, got: %s", message)
	}

	updated := reloadFlight(t, db, flight.ID)
	if updated.StandID == nil || *updated.StandID != newStand.ID {
		t.Errorf("Expected flight moved to the healthy stand")
	}
}

func TestReallocateFlight_NoAlternativeLeavesFlightPending(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	// The only stand is the incidented one, so no alternative exists
	stand := createStand(t, db, "S1", 10, 10, 100)
	ac := createAircraft(t, db, "F-GKXM", 10, 10)
	flight := createAllocatedFlight(t, db, "AF903", ac, stand, *hoursFromNow(1), *hoursFromNow(2))

	incident := &models.Incident{
		StandID:      stand.ID,
		TypeIncident: "Pavement damage",
		Status:       string(constants.IncidentInProgress),
	}
	if err := db.Create(incident).Error; err != nil {
		t.Fatalf("Failed to create incident: %v", err)
	}

	ok, message, err := engine.ReallocateFlight(context.Background(), flight.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ok {
		t.Error("Expected failure when no alternative stand exists")
	}
	if message == "" {
		t.Error("Expected an explanatory message")
	}

	updated := reloadFlight(t, db, flight.ID)
	if updated.Status != string(constants.FlightPending) || updated.StandID != nil {
		t.Errorf("Flight must be back in the pending queue, got %s", updated.Status)
	}
}

func TestCascadeRelease_OnlyTouchesFutureFlightsOnThatStand(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	blocked := createStand(t, db, "BLK", 10, 10, 100)
	other := createStand(t, db, "OTH", 10, 10, 200)
	ac := createAircraft(t, db, "F-GKXN", 10, 10)

	// In progress on the blocked stand: must not be disturbed
	inProgress := createAllocatedFlight(t, db, "AF950", ac, blocked, *hoursFromNow(-1), *hoursFromNow(1))
	// Future on the blocked stand: must be released
	future := createAllocatedFlight(t, db, "AF951", ac, blocked, *hoursFromNow(2), *hoursFromNow(4))
	// Future on another stand: must not be disturbed
	elsewhere := createAllocatedFlight(t, db, "AF952", ac, other, *hoursFromNow(2), *hoursFromNow(4))

	// The blocked stand carries an incident, so re-allocation cannot put
	// the released flight back on it.
	incident := &models.Incident{
		StandID:      blocked.ID,
		TypeIncident: "Jet bridge failure",
		Status:       string(constants.IncidentOpen),
	}
	if err := db.Create(incident).Error; err != nil {
		t.Fatalf("Failed to create incident: %v", err)
	}

	released, err := engine.CascadeRelease(context.Background(), blocked.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if released != 1 {
		t.Fatalf("Expected 1 released flight, got %d", released)
	}

	updatedInProgress := reloadFlight(t, db, inProgress.ID)
	if updatedInProgress.Status != string(constants.FlightAllocated) || *updatedInProgress.StandID != blocked.ID {
		t.Errorf("In-progress flight must not be disturbed")
	}

	updatedElsewhere := reloadFlight(t, db, elsewhere.ID)
	if updatedElsewhere.Status != string(constants.FlightAllocated) || *updatedElsewhere.StandID != other.ID {
		t.Errorf("Flights on other stands must not be disturbed")
	}

	updatedFuture := reloadFlight(t, db, future.ID)
	if updatedFuture.StandID != nil && *updatedFuture.StandID == blocked.ID {
		t.Errorf("Released flight must not stay on the blocked stand")
	}
}

func TestCascadeRelease_ReallocatesReleasedFlights(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	blocked := createStand(t, db, "BLK", 10, 10, 100)
	spare := createStand(t, db, "SPR", 10, 10, 200)
	ac := createAircraft(t, db, "F-GKXO", 10, 10)

	future := createAllocatedFlight(t, db, "AF960", ac, blocked, *hoursFromNow(2), *hoursFromNow(4))

	incident := &models.Incident{
		StandID:      blocked.ID,
		TypeIncident: "Lighting fault",
		Status:       string(constants.IncidentOpen),
	}
	if err := db.Create(incident).Error; err != nil {
		t.Fatalf("Failed to create incident: %v", err)
	}

	released, err := engine.CascadeRelease(context.Background(), blocked.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if released != 1 {
		t.Fatalf("Expected 1 released flight, got %d", released)
	}

	updated := reloadFlight(t, db, future.ID)
	if updated.Status != string(constants.FlightAllocated) {
		t.Fatalf("Expected flight re-allocated, got %s", updated.Status)
	}
	if updated.StandID == nil || *updated.StandID != spare.ID {
		t.Errorf("Expected flight moved to the spare stand")
	}
}

func TestCascadeRelease_NoFutureFlightsIsANoOp(t *testing.T) {
	db := setupTestDB(t)
	engine := newEngine(db)

	stand := createStand(t, db, "S1", 10, 10, 100)

	released, err := engine.CascadeRelease(context.Background(), stand.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if released != 0 {
		t.Errorf("Expected 0 released flights, got %d", released)
	}
}
