package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// AllocationHistory is a denormalized snapshot of a completed flight's
// allocation, written by the archival sweep. The allocation engine never
// reads these rows back.
type AllocationHistory struct {
	ID                   string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	ArrivalNumber        string     `gorm:"column:arrival_number;type:varchar(10);not null" json:"arrival_number"`
	DepartureNumber      string     `gorm:"column:departure_number;type:varchar(10)" json:"departure_number,omitempty"`
	OccupationStart      *time.Time `gorm:"column:occupation_start" json:"occupation_start,omitempty"`
	OccupationEnd        *time.Time `gorm:"column:occupation_end" json:"occupation_end,omitempty"`
	Origin               string     `gorm:"column:origin;type:varchar(100)" json:"origin"`
	Destination          string     `gorm:"column:destination;type:varchar(100)" json:"destination"`
	StandName            string     `gorm:"column:stand_name;type:varchar(10)" json:"stand_name"`
	AircraftRegistration string     `gorm:"column:aircraft_registration;type:varchar(10)" json:"aircraft_registration"`
	AircraftType         string     `gorm:"column:aircraft_type;type:varchar(4)" json:"aircraft_type"`
	AircraftDescription  string     `gorm:"column:aircraft_description;type:varchar(255)" json:"aircraft_description"`
	ArchivedAt           time.Time  `gorm:"column:archived_at;autoCreateTime" json:"archived_at"`
}

// TableName specifies the table name for GORM
func (AllocationHistory) TableName() string {
	return "allocation_history"
}

// BeforeCreate assigns a UUID so the same models work on sqlite and postgres
func (h *AllocationHistory) BeforeCreate(tx *gormlib.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
