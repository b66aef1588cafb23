package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// Flight represents a turnaround: an arrival, an occupation interval on a
// stand and an optional departure.
//
// StandID is set if and only if Status is ALLOCATED; both fields are always
// written together in one update (see repositories.FlightRepository).
type Flight struct {
	ID              string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	ArrivalNumber   string     `gorm:"column:arrival_number;type:varchar(10);not null;uniqueIndex" json:"arrival_number"`
	DepartureNumber string     `gorm:"column:departure_number;type:varchar(10)" json:"departure_number,omitempty"`
	OccupationStart *time.Time `gorm:"column:occupation_start" json:"occupation_start,omitempty"`
	OccupationEnd   *time.Time `gorm:"column:occupation_end" json:"occupation_end,omitempty"`
	Origin          string     `gorm:"column:origin;type:varchar(100)" json:"origin"`
	Destination     string     `gorm:"column:destination;type:varchar(100)" json:"destination"`
	Status          string     `gorm:"column:status;type:varchar(10);not null;default:PENDING;index" json:"status"`
	AircraftID      *string    `gorm:"column:aircraft_id;type:uuid" json:"aircraft_id,omitempty"`
	StandID         *string    `gorm:"column:stand_id;type:uuid;index" json:"stand_id,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Aircraft *Aircraft `gorm:"foreignKey:AircraftID" json:"aircraft,omitempty"`
	Stand    *Stand    `gorm:"foreignKey:StandID" json:"stand,omitempty"`
}

// TableName specifies the table name for GORM
func (Flight) TableName() string {
	return "flights"
}

// BeforeCreate assigns a UUID so the same models work on sqlite and postgres
func (f *Flight) BeforeCreate(tx *gormlib.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// HasSchedule reports whether both occupation endpoints are set.
// Flights without a full interval are skipped by the allocation engine.
func (f *Flight) HasSchedule() bool {
	return f.OccupationStart != nil && f.OccupationEnd != nil
}
