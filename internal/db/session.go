package db

import "time"

type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	BoardID   string    `gorm:"size:64"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
