package gorm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// Aircraft represents a physical aircraft referenced by one or more flights
type Aircraft struct {
	ID           string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Registration string    `gorm:"column:registration;type:varchar(10);not null;uniqueIndex" json:"registration"`
	Length       float64   `gorm:"column:length;type:numeric(5,2);not null" json:"length"`
	Width        float64   `gorm:"column:width;type:numeric(5,2);not null" json:"width"`
	TypeCode     string    `gorm:"column:type_code;type:varchar(4);not null" json:"type_code"`
	Description  string    `gorm:"column:description;type:varchar(255)" json:"description"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Aircraft) TableName() string {
	return "aircraft"
}

// BeforeCreate assigns a UUID so the same models work on sqlite and postgres
func (a *Aircraft) BeforeCreate(tx *gormlib.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *Aircraft) String() string {
	return fmt.Sprintf("%s (%s)", a.Registration, a.TypeCode)
}
