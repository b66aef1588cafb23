package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// Stand represents a physical parking position for an aircraft.
//
// The operational state of a stand (free / occupied / out of service) is
// never stored here: it is derived on demand from the availability flag,
// active incidents and allocated flights. See services.StandStatusService.
type Stand struct {
	ID                 string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	OperationalName    string    `gorm:"column:operational_name;type:varchar(10);not null;uniqueIndex" json:"operational_name"`
	Length             float64   `gorm:"column:length;type:numeric(5,2);not null" json:"length"`
	Width              float64   `gorm:"column:width;type:numeric(5,2);not null" json:"width"`
	DistanceToTerminal int       `gorm:"column:distance_to_terminal;not null" json:"distance_to_terminal"`
	Availability       bool      `gorm:"column:availability;default:true" json:"availability"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Stand) TableName() string {
	return "stands"
}

// BeforeCreate assigns a UUID so the same models work on sqlite and postgres
func (s *Stand) BeforeCreate(tx *gormlib.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Area returns the stand footprint surface, the ranking key among
// non-exact compatible stands
func (s *Stand) Area() float64 {
	return s.Length * s.Width
}

// Fits reports whether an aircraft footprint fits on this stand
func (s *Stand) Fits(ac *Aircraft) bool {
	return ac.Length <= s.Length && ac.Width <= s.Width
}

// ExactFit reports whether the stand footprint equals the aircraft footprint
func (s *Stand) ExactFit(ac *Aircraft) bool {
	return s.Length == ac.Length && s.Width == ac.Width
}
