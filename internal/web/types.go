package web

import "time"

type PresetItem struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type HomeData struct {
	ResumeBoardID string
	Presets       []PresetItem
}
