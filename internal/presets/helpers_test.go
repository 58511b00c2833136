package presets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

type fakeBlob struct {
	data        []byte
	contentType string
}

type mapBlobs map[string]fakeBlob

func (m mapBlobs) Blob(handle string) ([]byte, string, bool) {
	blob, ok := m[handle]
	return blob.data, blob.contentType, ok
}

type saveCall struct {
	presetID string
	rows     []CharacterRow
}

type fakeGateway struct {
	mu         sync.Mutex
	presets    []Preset
	saved      map[string][]SavedCharacter
	uploads    []string
	removed    []string
	saveCalls  []saveCall
	listCalls  int
	createErr  error
	saveErr    error
	listErr    error
	fetchErr   error
	failUpload func(key string) bool
	hangUpload bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{saved: make(map[string][]SavedCharacter)}
}

func (f *fakeGateway) ListPresets(ctx context.Context) ([]Preset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Preset, len(f.presets))
	for i := range f.presets {
		out[len(f.presets)-1-i] = f.presets[i]
	}
	return out, nil
}

func (f *fakeGateway) FetchPresetCharacters(ctx context.Context, presetID string) ([]SavedCharacter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	rows, ok := f.saved[presetID]
	if !ok {
		return nil, ErrPresetNotFound
	}
	return rows, nil
}

func (f *fakeGateway) CreatePreset(ctx context.Context, name string) (Preset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return Preset{}, f.createErr
	}
	preset := Preset{
		ID:        fmt.Sprintf("preset-%d", len(f.presets)+1),
		Name:      name,
		CreatedAt: time.Date(2026, 1, 1, 0, len(f.presets), 0, 0, time.UTC),
	}
	f.presets = append(f.presets, preset)
	return preset, nil
}

func (f *fakeGateway) UploadImage(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if f.hangUpload {
		<-ctx.Done()
		return "", ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, key)
	if f.failUpload != nil && f.failUpload(key) {
		return "", errors.New("upload refused")
	}
	return "https://cdn.example/board-images/" + key, nil
}

func (f *fakeGateway) RemoveImage(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeGateway) SaveCharacters(ctx context.Context, presetID string, rows []CharacterRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls = append(f.saveCalls, saveCall{presetID: presetID, rows: rows})
	if f.saveErr != nil {
		return f.saveErr
	}
	for i, row := range rows {
		f.saved[presetID] = append(f.saved[presetID], SavedCharacter{
			ID:       fmt.Sprintf("%s-row-%d", presetID, i),
			Name:     row.Name,
			ImageURL: row.ImageURL,
		})
	}
	return nil
}

func localURL(handle string) string {
	return "/api/boards/b1/images/" + handle
}

func hasSuffix(key, suffix string) bool {
	return strings.HasSuffix(key, suffix)
}
