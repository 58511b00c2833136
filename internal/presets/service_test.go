package presets

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"guess-who/internal/board"
)

func TestSaveBoardUploadsOnlyLocalImages(t *testing.T) {
	gw := newFakeGateway()
	svc := NewService(gw, Options{})
	characters := []board.Character{
		{ID: "c1", Name: "Ada", Image: board.LocalImage("h1")},
		{ID: "c2", Name: "Grace", Image: board.RemoteImage("https://cdn.example/grace.png")},
	}
	result, err := svc.SaveBoard(context.Background(), SaveRequest{
		Name:       "Friends",
		Characters: characters,
		Blobs:      mapBlobs{"h1": {data: []byte("png"), contentType: "image/png"}},
		LocalURL:   localURL,
	})
	if err != nil {
		t.Fatalf("save board: %v", err)
	}
	if len(gw.uploads) != 1 {
		t.Fatalf("expected exactly 1 upload, got %d", len(gw.uploads))
	}
	if gw.uploads[0] != result.Preset.ID+"/c1.png" {
		t.Fatalf("unexpected upload key %q", gw.uploads[0])
	}
	if len(gw.saveCalls) != 1 {
		t.Fatalf("expected 1 batch insert, got %d", len(gw.saveCalls))
	}
	call := gw.saveCalls[0]
	if call.presetID != result.Preset.ID {
		t.Fatalf("expected rows bound to %s, got %s", result.Preset.ID, call.presetID)
	}
	if len(call.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(call.rows))
	}
	if call.rows[0].Name != "Ada" || call.rows[0].ImageURL != "https://cdn.example/board-images/"+result.Preset.ID+"/c1.png" {
		t.Fatalf("unexpected first row %#v", call.rows[0])
	}
	if call.rows[1].ImageURL != "https://cdn.example/grace.png" {
		t.Fatalf("expected remote url reused, got %q", call.rows[1].ImageURL)
	}
	if result.Uploaded != 1 || result.Degraded != 0 || result.Saved != 2 {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestSaveBoardDegradesFailedUpload(t *testing.T) {
	gw := newFakeGateway()
	gw.failUpload = func(key string) bool { return hasSuffix(key, "/bad.png") }
	svc := NewService(gw, Options{UploadConcurrency: 2})
	characters := []board.Character{
		{ID: "good", Name: "Good", Image: board.LocalImage("h-good")},
		{ID: "bad", Name: "Bad", Image: board.LocalImage("h-bad")},
		{ID: "lost", Name: "Lost", Image: board.LocalImage("h-lost")},
	}
	blobs := mapBlobs{
		"h-good": {data: []byte("1"), contentType: "image/png"},
		"h-bad":  {data: []byte("2"), contentType: "image/png"},
	}
	result, err := svc.SaveBoard(context.Background(), SaveRequest{
		Name: "Mixed", Characters: characters, Blobs: blobs, LocalURL: localURL,
	})
	if err != nil {
		t.Fatalf("expected partial upload failure to keep saving, got %v", err)
	}
	rows := gw.saveCalls[0].rows
	if rows[1].ImageURL != localURL("h-bad") {
		t.Fatalf("expected failed upload to keep local reference, got %q", rows[1].ImageURL)
	}
	if rows[2].ImageURL != localURL("h-lost") {
		t.Fatalf("expected missing bytes to keep local reference, got %q", rows[2].ImageURL)
	}
	if result.Uploaded != 1 || result.Degraded != 2 {
		t.Fatalf("unexpected counts %#v", result)
	}
}

func TestSaveBoardCreateFailureAborts(t *testing.T) {
	gw := newFakeGateway()
	gw.createErr = errors.New("permission denied")
	svc := NewService(gw, Options{})
	_, err := svc.SaveBoard(context.Background(), SaveRequest{
		Name:       "Nope",
		Characters: []board.Character{{ID: "c1", Name: "Ada", Image: board.LocalImage("h1")}},
		Blobs:      mapBlobs{"h1": {data: []byte("1"), contentType: "image/png"}},
	})
	if !errors.Is(err, ErrCreatePreset) {
		t.Fatalf("expected ErrCreatePreset, got %v", err)
	}
	if len(gw.uploads) != 0 || len(gw.saveCalls) != 0 {
		t.Fatalf("expected nothing attempted after create failure")
	}
}

func TestSaveBoardInsertFailureLeavesPresetWithoutTransactions(t *testing.T) {
	gw := newFakeGateway()
	gw.saveErr = errors.New("insert failed")
	svc := NewService(gw, Options{})
	_, err := svc.SaveBoard(context.Background(), SaveRequest{
		Name:       "Orphan",
		Characters: []board.Character{{ID: "c1", Name: "Ada", Image: board.RemoteImage("https://x/1.png")}},
	})
	if !errors.Is(err, ErrSaveCharacters) {
		t.Fatalf("expected ErrSaveCharacters, got %v", err)
	}
	if len(gw.presets) != 1 {
		t.Fatalf("expected preset row to remain, got %d", len(gw.presets))
	}
}

func TestSaveBoardInsertFailureRemovesUploads(t *testing.T) {
	gw := newFakeGateway()
	gw.saveErr = errors.New("insert failed")
	svc := NewService(gw, Options{})
	_, err := svc.SaveBoard(context.Background(), SaveRequest{
		Name: "Orphan",
		Characters: []board.Character{
			{ID: "c1", Name: "Ada", Image: board.LocalImage("h1")},
			{ID: "c2", Name: "Bad", Image: board.LocalImage("h2")},
		},
		Blobs: mapBlobs{
			"h1": {data: []byte("1"), contentType: "image/png"},
			"h2": {data: []byte("2"), contentType: "image/png"},
		},
	})
	if !errors.Is(err, ErrSaveCharacters) {
		t.Fatalf("expected ErrSaveCharacters, got %v", err)
	}
	if len(gw.uploads) != 2 || len(gw.removed) != 2 {
		t.Fatalf("expected both uploads removed, uploads %v removed %v", gw.uploads, gw.removed)
	}
}

func TestSaveBoardValidatesRequest(t *testing.T) {
	svc := NewService(newFakeGateway(), Options{})
	one := []board.Character{{ID: "c1", Name: "Ada", Image: board.RemoteImage("https://x/1.png")}}
	if _, err := svc.SaveBoard(context.Background(), SaveRequest{Name: "  ", Characters: one}); !errors.Is(err, ErrPresetName) {
		t.Fatalf("expected ErrPresetName, got %v", err)
	}
	if _, err := svc.SaveBoard(context.Background(), SaveRequest{Name: "Empty"}); !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("expected ErrNothingToSave, got %v", err)
	}
}

func TestSaveBoardUploadTimeoutDegrades(t *testing.T) {
	gw := newFakeGateway()
	gw.hangUpload = true
	svc := NewService(gw, Options{Timeout: 20 * time.Millisecond})
	start := time.Now()
	result, err := svc.SaveBoard(context.Background(), SaveRequest{
		Name:       "Slow",
		Characters: []board.Character{{ID: "c1", Name: "Ada", Image: board.LocalImage("h1")}},
		Blobs:      mapBlobs{"h1": {data: []byte("1"), contentType: "image/png"}},
		LocalURL:   localURL,
	})
	if err != nil {
		t.Fatalf("save board: %v", err)
	}
	if result.Degraded != 1 {
		t.Fatalf("expected hung upload to degrade, got %#v", result)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("expected timeout to bound the upload")
	}
}

func TestListPresetsFailureIsEmpty(t *testing.T) {
	gw := newFakeGateway()
	gw.listErr = errors.New("network down")
	list := NewService(gw, Options{}).ListPresets(context.Background())
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
}

func TestListPresetsNewestFirst(t *testing.T) {
	gw := newFakeGateway()
	for i := 0; i < 3; i++ {
		_, _ = gw.CreatePreset(context.Background(), fmt.Sprintf("p%d", i))
	}
	list := NewService(gw, Options{}).ListPresets(context.Background())
	if len(list) != 3 || list[0].Name != "p2" || list[2].Name != "p0" {
		t.Fatalf("unexpected order %#v", list)
	}
}

func TestFetchBoardReturnsFreshCharacters(t *testing.T) {
	gw := newFakeGateway()
	gw.saved["p1"] = []SavedCharacter{
		{ID: "s1", Name: "Ada", ImageURL: "https://x/1.png"},
		{ID: "s2", Name: "Grace", ImageURL: "https://x/2.png"},
	}
	characters, err := NewService(gw, Options{}).FetchBoard(context.Background(), "p1")
	if err != nil {
		t.Fatalf("fetch board: %v", err)
	}
	if len(characters) != 2 {
		t.Fatalf("expected 2 characters, got %d", len(characters))
	}
	for _, c := range characters {
		if c.Eliminated || !c.Image.IsRemote() {
			t.Fatalf("unexpected character %#v", c)
		}
	}
	if characters[0].ID != "s1" {
		t.Fatalf("expected saved ids kept, got %s", characters[0].ID)
	}
}

func TestFetchBoardFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.fetchErr = errors.New("timeout")
	if _, err := NewService(gw, Options{}).FetchBoard(context.Background(), "p1"); err == nil {
		t.Fatalf("expected fetch failure to be returned")
	}
}
