package presets

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"guess-who/internal/board"
	"guess-who/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultConcurrency = 4
)

// BlobSource hands out the bytes behind local image handles.
type BlobSource interface {
	Blob(handle string) (data []byte, contentType string, ok bool)
}

type Options struct {
	Timeout           time.Duration
	UploadConcurrency int
}

type Service struct {
	gw          Gateway
	timeout     time.Duration
	concurrency int
}

func NewService(gw Gateway, opts Options) *Service {
	svc := &Service{
		gw:          gw,
		timeout:     opts.Timeout,
		concurrency: opts.UploadConcurrency,
	}
	if svc.timeout <= 0 {
		svc.timeout = defaultTimeout
	}
	if svc.concurrency <= 0 {
		svc.concurrency = defaultConcurrency
	}
	return svc
}

func (s *Service) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// ListPresets never fails; read errors are logged and reported as no presets.
func (s *Service) ListPresets(ctx context.Context) []Preset {
	ctx, cancel := s.call(ctx)
	defer cancel()
	list, err := s.gw.ListPresets(ctx)
	if err != nil {
		zap.L().Warn("list presets failed", zap.Error(err))
		return []Preset{}
	}
	if list == nil {
		return []Preset{}
	}
	return list
}

// FetchBoard loads the characters of a preset as fresh, non-eliminated cards.
func (s *Service) FetchBoard(ctx context.Context, presetID string) ([]board.Character, error) {
	ctx, cancel := s.call(ctx)
	defer cancel()
	rows, err := s.gw.FetchPresetCharacters(ctx, presetID)
	if err != nil {
		zap.L().Warn("load preset failed", zap.String("preset_id", presetID), zap.Error(err))
		return nil, err
	}
	characters := make([]board.Character, 0, len(rows))
	for _, row := range rows {
		characters = append(characters, board.Character{
			ID:    row.ID,
			Name:  row.Name,
			Image: board.RemoteImage(row.ImageURL),
		})
	}
	return characters, nil
}

type SaveRequest struct {
	Name       string
	Characters []board.Character
	Blobs      BlobSource
	// LocalURL renders the reference kept for a local image whose upload
	// failed.
	LocalURL func(handle string) string
}

type SaveResult struct {
	Preset   Preset `json:"preset"`
	Saved    int    `json:"saved"`
	Uploaded int    `json:"uploaded"`
	Degraded int    `json:"degraded"`
}

// SaveBoard creates a preset, resolves every image to a durable URL where
// possible and inserts the character rows as one batch. With a Transactor
// the images are uploaded under a minted preset id first and the preset is
// committed together with its rows afterwards.
func (s *Service) SaveBoard(ctx context.Context, req SaveRequest) (SaveResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return SaveResult{}, ErrPresetName
	}
	if len(req.Characters) == 0 {
		return SaveResult{}, ErrNothingToSave
	}
	req.Name = name

	var result SaveResult
	var err error
	if tx, ok := s.gw.(Transactor); ok {
		result, err = s.commit(ctx, tx, req)
	} else {
		result, err = s.save(ctx, req)
	}
	if err != nil {
		zap.L().Warn("save board failed", zap.String("preset", name), zap.Error(err))
		return SaveResult{}, err
	}
	zap.L().Info("board saved",
		zap.String("preset_id", result.Preset.ID),
		zap.Int("characters", result.Saved),
		zap.Int("uploaded", result.Uploaded),
		zap.Int("degraded", result.Degraded),
	)
	return result, nil
}

func (s *Service) save(ctx context.Context, req SaveRequest) (SaveResult, error) {
	createCtx, cancel := s.call(ctx)
	preset, err := s.gw.CreatePreset(createCtx, req.Name)
	cancel()
	if err != nil {
		return SaveResult{}, fmt.Errorf("%w: %w", ErrCreatePreset, err)
	}

	images := s.resolveImages(ctx, preset.ID, req)
	saveCtx, cancel := s.call(ctx)
	err = s.gw.SaveCharacters(saveCtx, preset.ID, images.rows)
	cancel()
	if err != nil {
		s.removeImages(ctx, images.keys)
		return SaveResult{}, fmt.Errorf("%w: %w", ErrSaveCharacters, err)
	}
	return images.result(preset), nil
}

func (s *Service) commit(ctx context.Context, tx Transactor, req SaveRequest) (SaveResult, error) {
	presetID := uuid.NewString()
	images := s.resolveImages(ctx, presetID, req)

	commitCtx, cancel := s.call(ctx)
	preset, err := tx.CommitPreset(commitCtx, presetID, req.Name, images.rows)
	cancel()
	if err != nil {
		s.removeImages(ctx, images.keys)
		return SaveResult{}, err
	}
	return images.result(preset), nil
}

type resolvedImages struct {
	rows     []CharacterRow
	keys     []string
	uploaded int
	degraded int
}

func (r resolvedImages) result(preset Preset) SaveResult {
	return SaveResult{
		Preset:   preset,
		Saved:    len(r.rows),
		Uploaded: r.uploaded,
		Degraded: r.degraded,
	}
}

// resolveImages runs the bounded upload fan-out. Each worker writes only its
// own slot.
func (s *Service) resolveImages(ctx context.Context, presetID string, req SaveRequest) resolvedImages {
	rows := make([]CharacterRow, len(req.Characters))
	keys := make([]string, len(req.Characters))
	var uploaded, degraded atomic.Int32
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, c := range req.Characters {
		g.Go(func() error {
			url, key, outcome := s.resolveImage(ctx, presetID, c, req)
			switch outcome {
			case imageUploaded:
				uploaded.Add(1)
				keys[i] = key
			case imageDegraded:
				degraded.Add(1)
			}
			rows[i] = CharacterRow{Name: c.Name, ImageURL: url}
			return nil
		})
	}
	_ = g.Wait()

	out := resolvedImages{rows: rows, uploaded: int(uploaded.Load()), degraded: int(degraded.Load())}
	for _, key := range keys {
		if key != "" {
			out.keys = append(out.keys, key)
		}
	}
	return out
}

// removeImages deletes objects uploaded for a save that did not commit.
func (s *Service) removeImages(ctx context.Context, keys []string) {
	for _, key := range keys {
		removeCtx, cancel := s.call(context.WithoutCancel(ctx))
		err := s.gw.RemoveImage(removeCtx, key)
		cancel()
		if err != nil {
			zap.L().Warn("remove orphaned image failed", zap.String("key", key), zap.Error(err))
		}
	}
}

type imageOutcome int

const (
	imageReused imageOutcome = iota
	imageUploaded
	imageDegraded
)

func (s *Service) resolveImage(ctx context.Context, presetID string, c board.Character, req SaveRequest) (url, key string, outcome imageOutcome) {
	if c.Image.IsRemote() {
		return c.Image.URL(), "", imageReused
	}
	handle := c.Image.Handle()
	fallback := handle
	if req.LocalURL != nil {
		fallback = req.LocalURL(handle)
	}
	if req.Blobs == nil {
		return fallback, "", imageDegraded
	}
	data, contentType, ok := req.Blobs.Blob(handle)
	if !ok {
		zap.L().Warn("image bytes missing for character", zap.String("character", c.Name))
		return fallback, "", imageDegraded
	}
	key = storage.ObjectKey(presetID, c.ID, contentType)
	uploadCtx, cancel := s.call(ctx)
	defer cancel()
	url, err := s.gw.UploadImage(uploadCtx, key, contentType, data)
	if err != nil {
		zap.L().Warn("upload image failed", zap.String("character", c.Name), zap.Error(err))
		return fallback, "", imageDegraded
	}
	return url, key, imageUploaded
}
