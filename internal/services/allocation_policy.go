package services

import (
	models "smartpark-alliance/smartpark/internal/models/gorm"
)

// conflictFn reports whether a stand carries an allocation overlapping the
// interval under consideration. The engine binds it to the flight repository
// so every call sees allocations committed earlier in the same batch.
type conflictFn func(standID string) (bool, error)

// selectStand picks the best stand for an aircraft out of an ordered
// candidate list. Candidates must be pre-sorted by distance to terminal
// ascending; the scan order doubles as the tie-break.
//
// A stand whose footprint equals the aircraft footprint wins outright and
// short-circuits the scan: an exact fit never wastes an oversized stand on a
// small aircraft. Among non-exact fits the smallest footprint area wins so
// large stands stay free for large aircraft; on equal areas the first stand
// seen (the closest one) is kept.
//
// Returns nil when no candidate is compatible and conflict-free. That is a
// normal outcome, not an error.
func selectStand(aircraft *models.Aircraft, candidates []models.Stand, conflicts conflictFn) (*models.Stand, error) {
	var smallest *models.Stand

	for i := range candidates {
		stand := &candidates[i]

		if !stand.Fits(aircraft) {
			continue
		}

		conflict, err := conflicts(stand.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			continue
		}

		if stand.ExactFit(aircraft) {
			return stand, nil
		}

		if smallest == nil || stand.Area() < smallest.Area() {
			smallest = stand
		}
	}

	return smallest, nil
}
