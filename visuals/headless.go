package visuals

import (
	"context"
	"fmt"
	"sort"

	"github.com/automoto/snackman-client/shared/gamemath"
	"github.com/go-gl/mathgl/mgl64"
)

// SceneObject is one visual in a HeadlessScene.
type SceneObject struct {
	Handle    Handle
	Kind      AssetKind
	Model     *Model
	Transform gamemath.Transform
	Scale     mgl64.Vec3
	Snack     string
}

// HeadlessScene is an in-memory Renderer. It builds visuals from the model
// cache but draws nothing.
type HeadlessScene struct {
	ctx     context.Context
	cache   *ModelCache
	next    Handle
	objects map[Handle]*SceneObject
}

func NewHeadlessScene(ctx context.Context, cache *ModelCache) *HeadlessScene {
	return &HeadlessScene{
		ctx:     ctx,
		cache:   cache,
		objects: make(map[Handle]*SceneObject),
	}
}

func (s *HeadlessScene) CreateVisual(kind AssetKind, pos mgl64.Vec3, p Params) (Handle, error) {
	if err := s.ctx.Err(); err != nil {
		return NoHandle, err
	}
	var model *Model
	if s.cache != nil {
		model = s.cache.Get(s.ctx, KeyOf(kind, p))
	}
	scale := p.Scale
	if scale == (mgl64.Vec3{}) {
		scale = mgl64.Vec3{1, 1, 1}
	}
	rot := p.Rotation
	if rot == (mgl64.Quat{}) {
		rot = mgl64.QuatIdent()
	}

	s.next++
	obj := &SceneObject{
		Handle:    s.next,
		Kind:      kind,
		Model:     model,
		Transform: gamemath.Transform{Position: pos, Rotation: rot},
		Scale:     scale,
	}
	if kind == AssetSnack {
		obj.Snack = p.Snack.String()
	}
	s.objects[obj.Handle] = obj
	return obj.Handle, nil
}

func (s *HeadlessScene) RemoveVisual(h Handle) error {
	if _, ok := s.objects[h]; !ok {
		return fmt.Errorf("remove %d: %w", h, ErrUnknownHandle)
	}
	delete(s.objects, h)
	return nil
}

func (s *HeadlessScene) RescaleVisual(h Handle, scale mgl64.Vec3) error {
	obj, ok := s.objects[h]
	if !ok {
		return fmt.Errorf("rescale %d: %w", h, ErrUnknownHandle)
	}
	obj.Scale = scale
	return nil
}

func (s *HeadlessScene) WorldTransform(h Handle) (gamemath.Transform, bool) {
	obj, ok := s.objects[h]
	if !ok {
		return gamemath.Transform{}, false
	}
	return obj.Transform, true
}

// Place moves a visual. The session uses it to push smoothed character
// positions into the scene.
func (s *HeadlessScene) Place(h Handle, t gamemath.Transform) bool {
	obj, ok := s.objects[h]
	if !ok {
		return false
	}
	obj.Transform = t
	return true
}

// Objects returns a copy of the live objects ordered by handle.
func (s *HeadlessScene) Objects() []SceneObject {
	out := make([]SceneObject, 0, len(s.objects))
	for _, obj := range s.objects {
		out = append(out, *obj)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

func (s *HeadlessScene) Len() int {
	return len(s.objects)
}
