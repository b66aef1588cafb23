package constants

// Hand-written aggregate queries for the dashboard, run through sqlx when a
// Postgres connection is configured
const (
	CountStandsBlocked = `
	SELECT COUNT(DISTINCT s.id) FROM stands s
	JOIN incidents i ON i.stand_id = s.id
	WHERE i.status IN ('OPEN', 'IN_PROGRESS')
	`

	CountStandsOccupied = `
	SELECT COUNT(DISTINCT s.id) FROM stands s
	JOIN flights f ON f.stand_id = s.id
	WHERE f.status = 'ALLOCATED'
	`
)
