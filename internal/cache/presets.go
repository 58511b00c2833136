package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"guess-who/internal/presets"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	presetListKey     = "guess-who:presets:list"
	defaultPresetTTL  = 30 * time.Second
	presetCallTimeout = 300 * time.Millisecond
)

// PresetList keeps the newest-first preset list in Redis.
type PresetList struct {
	client *redis.Client
	ttl    time.Duration
	key    string
}

func NewPresetList(client *redis.Client, ttl time.Duration) *PresetList {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultPresetTTL
	}
	return &PresetList{client: client, ttl: ttl, key: presetListKey}
}

func (p *PresetList) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= presetCallTimeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, presetCallTimeout)
}

func (p *PresetList) Get(ctx context.Context) ([]presets.Preset, bool) {
	if p == nil || p.client == nil {
		return nil, false
	}
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	data, err := p.client.Get(ctx, p.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("read preset cache failed", zap.Error(err))
		}
		return nil, false
	}
	var list []presets.Preset
	if err := json.Unmarshal(data, &list); err != nil {
		zap.L().Warn("decode preset cache failed", zap.Error(err))
		return nil, false
	}
	return list, true
}

func (p *PresetList) Store(ctx context.Context, list []presets.Preset) {
	if p == nil || p.client == nil {
		return
	}
	payload, err := json.Marshal(list)
	if err != nil {
		zap.L().Warn("encode preset cache failed", zap.Error(err))
		return
	}
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	if err := p.client.Set(ctx, p.key, payload, p.ttl).Err(); err != nil {
		zap.L().Warn("store preset cache failed", zap.Error(err))
	}
}

func (p *PresetList) Invalidate(ctx context.Context) {
	if p == nil || p.client == nil {
		return
	}
	ctx, cancel := p.callContext(ctx)
	defer cancel()

	if err := p.client.Del(ctx, p.key).Err(); err != nil {
		zap.L().Warn("invalidate preset cache failed", zap.Error(err))
	}
}
