package db

import "time"

type Preset struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Name       string    `gorm:"size:80;not null"`
	CreatedAt  time.Time `gorm:"not null;index"`
	Characters []SavedCharacter
}

type SavedCharacter struct {
	ID       string `gorm:"primaryKey;size:36"`
	PresetID string `gorm:"size:36;index;not null"`
	Position int    `gorm:"not null;default:0"`
	Name     string `gorm:"size:64;not null"`
	ImageURL string `gorm:"size:1024;not null"`
}
