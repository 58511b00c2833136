package presets

import "context"

// ListCache remembers the newest-first preset list.
type ListCache interface {
	Get(ctx context.Context) ([]Preset, bool)
	Store(ctx context.Context, list []Preset)
	Invalidate(ctx context.Context)
}

// CachedGateway serves ListPresets from a cache and drops the cached list
// whenever presets are written.
type CachedGateway struct {
	Gateway
	cache ListCache
}

// NewCachedGateway keeps the Transactor of gw when it has one.
func NewCachedGateway(gw Gateway, cache ListCache) Gateway {
	if cache == nil {
		return gw
	}
	cached := &CachedGateway{Gateway: gw, cache: cache}
	if tx, ok := gw.(Transactor); ok {
		return &cachedTxGateway{CachedGateway: cached, tx: tx}
	}
	return cached
}

func (c *CachedGateway) ListPresets(ctx context.Context) ([]Preset, error) {
	if list, ok := c.cache.Get(ctx); ok {
		return list, nil
	}
	list, err := c.Gateway.ListPresets(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Store(ctx, list)
	return list, nil
}

func (c *CachedGateway) CreatePreset(ctx context.Context, name string) (Preset, error) {
	preset, err := c.Gateway.CreatePreset(ctx, name)
	if err == nil {
		c.cache.Invalidate(ctx)
	}
	return preset, err
}

func (c *CachedGateway) SaveCharacters(ctx context.Context, presetID string, rows []CharacterRow) error {
	err := c.Gateway.SaveCharacters(ctx, presetID, rows)
	if err == nil {
		c.cache.Invalidate(ctx)
	}
	return err
}

type cachedTxGateway struct {
	*CachedGateway
	tx Transactor
}

func (c *cachedTxGateway) CommitPreset(ctx context.Context, id, name string, rows []CharacterRow) (Preset, error) {
	preset, err := c.tx.CommitPreset(ctx, id, name, rows)
	if err == nil {
		c.cache.Invalidate(ctx)
	}
	return preset, err
}
