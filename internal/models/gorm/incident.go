package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// Incident is reported against exactly one stand. A stand is blocked for
// allocation as long as it carries at least one incident that is not RESOLVED.
type Incident struct {
	ID           string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	StandID      string     `gorm:"column:stand_id;type:uuid;not null;index" json:"stand_id"`
	TypeIncident string     `gorm:"column:type_incident;type:varchar(50);not null" json:"type_incident"`
	Description  string     `gorm:"column:description;type:text" json:"description"`
	DeclaredAt   time.Time  `gorm:"column:declared_at;autoCreateTime" json:"declared_at"`
	ResolvedAt   *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	Status       string     `gorm:"column:status;type:varchar(12);not null;default:OPEN;index" json:"status"`

	Stand *Stand `gorm:"foreignKey:StandID" json:"stand,omitempty"`
}

// TableName specifies the table name for GORM
func (Incident) TableName() string {
	return "incidents"
}

// BeforeCreate assigns a UUID so the same models work on sqlite and postgres
func (i *Incident) BeforeCreate(tx *gormlib.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
