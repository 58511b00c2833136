package db

import (
	"time"

	"gorm.io/datatypes"
)

type PresetEvent struct {
	ID        uint           `gorm:"primaryKey"`
	PresetID  string         `gorm:"size:36;index;not null"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
