package presets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"guess-who/internal/db"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImageUploader stores portrait bytes and returns a public URL.
type ImageUploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, key string) error
}

// DBGateway keeps presets in the relational store and images in the blob
// store.
type DBGateway struct {
	db     *gorm.DB
	images ImageUploader
}

func NewDBGateway(conn *gorm.DB, images ImageUploader) *DBGateway {
	return &DBGateway{db: conn, images: images}
}

func (g *DBGateway) ListPresets(ctx context.Context) ([]Preset, error) {
	if g.db == nil {
		return nil, errors.New("database not configured")
	}
	var records []db.Preset
	if err := g.db.WithContext(ctx).Order("created_at desc").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]Preset, 0, len(records))
	for _, record := range records {
		list = append(list, Preset{ID: record.ID, Name: record.Name, CreatedAt: record.CreatedAt})
	}
	return list, nil
}

func (g *DBGateway) FetchPresetCharacters(ctx context.Context, presetID string) ([]SavedCharacter, error) {
	if g.db == nil {
		return nil, errors.New("database not configured")
	}
	conn := g.db.WithContext(ctx)
	var preset db.Preset
	if err := conn.Where("id = ?", presetID).First(&preset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresetNotFound
		}
		return nil, err
	}
	var records []db.SavedCharacter
	if err := conn.Where("preset_id = ?", presetID).Order("position asc").Find(&records).Error; err != nil {
		return nil, err
	}
	characters := make([]SavedCharacter, 0, len(records))
	for _, record := range records {
		characters = append(characters, SavedCharacter{ID: record.ID, Name: record.Name, ImageURL: record.ImageURL})
	}
	return characters, nil
}

func (g *DBGateway) CreatePreset(ctx context.Context, name string) (Preset, error) {
	if g.db == nil {
		return Preset{}, errors.New("database not configured")
	}
	return createPreset(g.db.WithContext(ctx), uuid.NewString(), name)
}

func (g *DBGateway) UploadImage(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if g.images == nil {
		return "", errors.New("image storage not configured")
	}
	return g.images.Upload(ctx, key, contentType, data)
}

func (g *DBGateway) RemoveImage(ctx context.Context, key string) error {
	if g.images == nil {
		return nil
	}
	return g.images.Remove(ctx, key)
}

func (g *DBGateway) SaveCharacters(ctx context.Context, presetID string, rows []CharacterRow) error {
	if g.db == nil {
		return errors.New("database not configured")
	}
	return saveCharacters(g.db.WithContext(ctx), presetID, rows)
}

// CommitPreset writes the preset row and its characters in one transaction.
func (g *DBGateway) CommitPreset(ctx context.Context, id, name string, rows []CharacterRow) (Preset, error) {
	if g.db == nil {
		return Preset{}, fmt.Errorf("%w: database not configured", ErrCreatePreset)
	}
	var preset Preset
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := createPreset(tx, id, name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCreatePreset, err)
		}
		if err := saveCharacters(tx, id, rows); err != nil {
			return fmt.Errorf("%w: %w", ErrSaveCharacters, err)
		}
		preset = created
		return nil
	})
	if err != nil {
		return Preset{}, err
	}
	return preset, nil
}

func createPreset(conn *gorm.DB, id, name string) (Preset, error) {
	record := db.Preset{ID: id, Name: name}
	if err := conn.Create(&record).Error; err != nil {
		return Preset{}, err
	}
	if err := recordEvent(conn, record.ID, "preset_created", map[string]any{"name": name}); err != nil {
		return Preset{}, err
	}
	return Preset{ID: record.ID, Name: record.Name, CreatedAt: record.CreatedAt}, nil
}

func saveCharacters(conn *gorm.DB, presetID string, rows []CharacterRow) error {
	if len(rows) == 0 {
		return nil
	}
	records := make([]db.SavedCharacter, 0, len(rows))
	for i, row := range rows {
		records = append(records, db.SavedCharacter{
			ID:       uuid.NewString(),
			PresetID: presetID,
			Position: i,
			Name:     row.Name,
			ImageURL: row.ImageURL,
		})
	}
	if err := conn.Create(&records).Error; err != nil {
		return err
	}
	return recordEvent(conn, presetID, "characters_saved", map[string]any{"count": len(records)})
}

func recordEvent(conn *gorm.DB, presetID, eventType string, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.Create(&db.PresetEvent{
		PresetID: presetID,
		Type:     eventType,
		Payload:  datatypes.JSON(data),
	}).Error
}
