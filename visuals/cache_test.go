package visuals

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/automoto/snackman-client/shared/netconfig"
)

type slowLoader struct {
	calls atomic.Int32
	delay time.Duration
	fail  bool
}

func (l *slowLoader) LoadModel(ctx context.Context, key ModelKey) (*Model, error) {
	l.calls.Add(1)
	select {
	case <-time.After(l.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if l.fail {
		return nil, errors.New("missing file")
	}
	return &Model{Key: key, Source: key.String()}, nil
}

var (
	cherryKey = ModelKey{Kind: AssetSnack, Snack: netconfig.SnackCherry}
	appleKey  = ModelKey{Kind: AssetSnack, Snack: netconfig.SnackApple}
)

func TestModelCacheCoalescesConcurrentLoads(t *testing.T) {
	loader := &slowLoader{delay: 50 * time.Millisecond}
	cache := NewModelCache(loader, quietLogger())

	var wg sync.WaitGroup
	results := make([]*Model, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Get(context.Background(), cherryKey)
		}(i)
	}
	wg.Wait()

	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
	for i, m := range results {
		if m != results[0] {
			t.Fatalf("result %d is a different model", i)
		}
	}

	cache.Get(context.Background(), ModelKey{Kind: AssetChicken})
	if got := cache.Loads(); got != 2 {
		t.Fatalf("Loads = %d, want 2", got)
	}
}

func TestModelCacheFallsBackToPlaceholder(t *testing.T) {
	loader := &slowLoader{fail: true}
	cache := NewModelCache(loader, quietLogger())

	m := cache.Get(context.Background(), cherryKey)
	if !m.Placeholder {
		t.Fatal("expected placeholder model")
	}
	cache.Get(context.Background(), cherryKey)
	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("failed kind was retried: %d calls", got)
	}
}

func TestFileLoader(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "models"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "models", "cherry.glb"), []byte("glb"), 0o644); err != nil {
		t.Fatal(err)
	}
	loader := FileLoader{Root: root, Paths: DefaultModelPaths}

	m, err := loader.LoadModel(context.Background(), cherryKey)
	if err != nil || string(m.Data) != "glb" || m.Key != cherryKey {
		t.Fatalf("LoadModel = %v, %v", m, err)
	}
	if _, err := loader.LoadModel(context.Background(), ModelKey{Kind: AssetChicken}); err == nil {
		t.Fatal("expected error for missing chicken model")
	}
	if _, err := loader.LoadModel(context.Background(), ModelKey{Kind: AssetSnack, Snack: netconfig.SnackEmpty}); err == nil {
		t.Fatal("empty snack has a model path")
	}
}

func TestHeadlessSceneUsesCache(t *testing.T) {
	loader := &slowLoader{}
	scene := NewHeadlessScene(context.Background(), NewModelCache(loader, quietLogger()))
	for i := 0; i < 3; i++ {
		if _, err := scene.CreateVisual(AssetSnack, [3]float64{}, Params{Snack: netconfig.SnackCherry}); err != nil {
			t.Fatal(err)
		}
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("loader calls = %d, want 1", loader.calls.Load())
	}
	if scene.Objects()[2].Model == nil {
		t.Fatal("visual has no model")
	}
}

func TestSnackTypesLoadSeparateModels(t *testing.T) {
	loader := &slowLoader{}
	cache := NewModelCache(loader, quietLogger())
	scene := NewHeadlessScene(context.Background(), cache)

	for _, snack := range []netconfig.SnackType{netconfig.SnackCherry, netconfig.SnackApple, netconfig.SnackCherry} {
		if _, err := scene.CreateVisual(AssetSnack, [3]float64{}, Params{Snack: snack}); err != nil {
			t.Fatal(err)
		}
	}
	objs := scene.Objects()
	cherry, apple := objs[0].Model, objs[1].Model
	if cherry == apple {
		t.Fatal("cherry and apple share a model")
	}
	if cherry.Key != cherryKey || apple.Key != appleKey {
		t.Errorf("keys = %v, %v", cherry.Key, apple.Key)
	}
	if objs[2].Model != cherry {
		t.Error("second cherry got a different model")
	}
	if got := loader.calls.Load(); got != 2 {
		t.Fatalf("loader calls = %d, want one per snack type", got)
	}
}

func TestKeyOfIgnoresSnackForOtherKinds(t *testing.T) {
	if got := KeyOf(AssetChicken, Params{Snack: netconfig.SnackApple}); got != (ModelKey{Kind: AssetChicken}) {
		t.Fatalf("KeyOf = %v", got)
	}
	if got := KeyOf(AssetSnack, Params{Snack: netconfig.SnackApple}); got != appleKey {
		t.Fatalf("KeyOf = %v", got)
	}
	if appleKey.String() != "snack/apple" {
		t.Errorf("String = %q", appleKey.String())
	}
}

func TestModelCacheDoesNotKeepCancelledLoad(t *testing.T) {
	loader := &slowLoader{delay: time.Second}
	cache := NewModelCache(loader, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if m := cache.Get(ctx, cherryKey); !m.Placeholder {
		t.Fatal("cancelled load returned a real model")
	}

	loader.delay = 0
	m := cache.Get(context.Background(), cherryKey)
	if m.Placeholder {
		t.Fatal("placeholder from the cancelled load was cached")
	}
	if got := loader.calls.Load(); got != 2 {
		t.Fatalf("loader calls = %d, want 2", got)
	}
}

func TestFileLoaderKeys(t *testing.T) {
	keys := FileLoader{Paths: DefaultModelPaths}.Keys()
	if len(keys) != len(DefaultModelPaths) {
		t.Fatalf("keys = %d", len(keys))
	}
	if keys[0] != cherryKey {
		t.Errorf("first key = %v, want cherry", keys[0])
	}
}
