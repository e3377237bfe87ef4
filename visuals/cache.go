package visuals

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ModelKey selects a model. Snacks have one model per snack type; Snack is
// ignored for every other kind.
type ModelKey struct {
	Kind  AssetKind
	Snack netconfig.SnackType
}

// KeyOf returns the model key of a visual built from kind with p.
func KeyOf(kind AssetKind, p Params) ModelKey {
	if kind != AssetSnack {
		return ModelKey{Kind: kind}
	}
	return ModelKey{Kind: kind, Snack: p.Snack}
}

func (k ModelKey) String() string {
	if k.Kind == AssetSnack {
		return k.Kind.String() + "/" + strings.ToLower(k.Snack.String())
	}
	return k.Kind.String()
}

// Model is a loaded asset. Visuals are instances of a shared Model.
type Model struct {
	Key         ModelKey
	Source      string
	Data        []byte
	Placeholder bool
}

// ModelLoader loads the model for a key.
type ModelLoader interface {
	LoadModel(ctx context.Context, key ModelKey) (*Model, error)
}

// ModelCache loads each model once. The first Get for a key populates the
// cache; concurrent first Gets for the same key share one load. A failed load
// caches a placeholder model so the key is not retried for the rest of the
// process, unless the failure came from a cancelled context.
type ModelCache struct {
	loader ModelLoader
	group  singleflight.Group
	log    logrus.FieldLogger
	loads  atomic.Int64

	mu     sync.RWMutex
	models map[ModelKey]*Model
}

func NewModelCache(loader ModelLoader, log logrus.FieldLogger) *ModelCache {
	return &ModelCache{
		loader: loader,
		log:    log.WithField("component", "models"),
		models: make(map[ModelKey]*Model),
	}
}

// Get returns the model for key, loading it on first access.
func (c *ModelCache) Get(ctx context.Context, key ModelKey) *Model {
	c.mu.RLock()
	m, ok := c.models[key]
	c.mu.RUnlock()
	if ok {
		return m
	}

	v, _, _ := c.group.Do(key.String(), func() (any, error) {
		c.mu.RLock()
		m, ok := c.models[key]
		c.mu.RUnlock()
		if ok {
			return m, nil
		}

		c.loads.Add(1)
		m, err := c.loader.LoadModel(ctx, key)
		if err != nil {
			m = &Model{Key: key, Placeholder: true}
			if ctx.Err() != nil {
				c.log.WithError(err).WithField("model", key.String()).Debug("[models] load cancelled")
				return m, nil
			}
			c.log.WithError(err).WithField("model", key.String()).Warn("[models] load failed, using placeholder")
		}

		c.mu.Lock()
		c.models[key] = m
		c.mu.Unlock()
		return m, nil
	})
	return v.(*Model)
}

// Loads returns how many loader calls the cache has made.
func (c *ModelCache) Loads() int64 {
	return c.loads.Load()
}

// Preload populates the cache for keys.
func (c *ModelCache) Preload(ctx context.Context, keys ...ModelKey) {
	for _, k := range keys {
		c.Get(ctx, k)
	}
}

// FileLoader reads models from files under Root.
type FileLoader struct {
	Root  string
	Paths map[ModelKey]string
}

// DefaultModelPaths are the model files shipped with the client. Empty
// squares have no snack model.
var DefaultModelPaths = map[ModelKey]string{
	{Kind: AssetSnack, Snack: netconfig.SnackCherry}:     "models/cherry.glb",
	{Kind: AssetSnack, Snack: netconfig.SnackStrawberry}: "models/strawberry.glb",
	{Kind: AssetSnack, Snack: netconfig.SnackOrange}:     "models/orange.glb",
	{Kind: AssetSnack, Snack: netconfig.SnackApple}:      "models/apple.glb",
	{Kind: AssetSnack, Snack: netconfig.SnackEgg}:        "models/yoshiegg.glb",
	{Kind: AssetChicken}:                                 "models/chicken.glb",
	{Kind: AssetScriptGhost}:                             "models/ghost.glb",
	{Kind: AssetPlayer}:                                  "models/player.glb",
	{Kind: AssetWall}:                                    "models/wall.glb",
	{Kind: AssetFloor}:                                   "models/floor.glb",
}

// Keys returns the keys with a model path, in a stable order.
func (l FileLoader) Keys() []ModelKey {
	keys := make([]ModelKey, 0, len(l.Paths))
	for k := range l.Paths {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b ModelKey) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.Snack, b.Snack))
	})
	return keys
}

func (l FileLoader) LoadModel(ctx context.Context, key ModelKey) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, ok := l.Paths[key]
	if !ok {
		return nil, fmt.Errorf("no model path for %s", key)
	}
	path := filepath.Join(l.Root, rel)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Model{Key: key, Source: path, Data: data}, nil
}
