package presets

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCreatePreset   = errors.New("failed to create preset")
	ErrSaveCharacters = errors.New("failed to save characters")
	ErrPresetNotFound = errors.New("preset not found")
	ErrPresetName     = errors.New("preset name is required")
	ErrNothingToSave  = errors.New("board has no characters to save")
)

type Preset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type SavedCharacter struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

type CharacterRow struct {
	Name     string
	ImageURL string
}

// Gateway is the remote store boards are saved to and loaded from.
type Gateway interface {
	// ListPresets returns presets newest first.
	ListPresets(ctx context.Context) ([]Preset, error)
	FetchPresetCharacters(ctx context.Context, presetID string) ([]SavedCharacter, error)
	CreatePreset(ctx context.Context, name string) (Preset, error)
	UploadImage(ctx context.Context, key, contentType string, data []byte) (string, error)
	RemoveImage(ctx context.Context, key string) error
	// SaveCharacters inserts every row in one batch, keeping order.
	SaveCharacters(ctx context.Context, presetID string, rows []CharacterRow) error
}

// Transactor is implemented by gateways that can write a preset and its
// characters as one unit. CommitPreset creates the preset under id and
// inserts rows in a single transaction; nothing is kept when it fails.
// Errors wrap ErrCreatePreset or ErrSaveCharacters.
type Transactor interface {
	CommitPreset(ctx context.Context, id, name string, rows []CharacterRow) (Preset, error)
}
