package visuals

import (
	"fmt"

	"github.com/automoto/snackman-client/shared/gamemath"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

// Registry maps owners to renderer handles in both directions. Each owner has
// at most one live handle. Not safe for concurrent use; the session loop is
// its only writer.
type Registry struct {
	renderer Renderer
	byOwner  map[Owner]Handle
	byHandle map[Handle]Owner
	log      logrus.FieldLogger
}

func NewRegistry(r Renderer, log logrus.FieldLogger) *Registry {
	return &Registry{
		renderer: r,
		byOwner:  make(map[Owner]Handle),
		byHandle: make(map[Handle]Owner),
		log:      log.WithField("component", "visuals"),
	}
}

// Create asks the renderer for a new visual and records it against owner.
// A visual the owner already had is removed first.
func (r *Registry) Create(owner Owner, kind AssetKind, pos mgl64.Vec3, p Params) (Handle, error) {
	if old, ok := r.byOwner[owner]; ok {
		r.log.WithField("owner", owner).Warn("[visuals] create: owner already has a visual, replacing")
		r.release(owner, old)
	}
	h, err := r.renderer.CreateVisual(kind, pos, p)
	if err != nil {
		return NoHandle, fmt.Errorf("create %s visual for %s: %w", kind, owner, err)
	}
	r.byOwner[owner] = h
	r.byHandle[h] = owner
	return h, nil
}

// Remove removes the owner's visual. It reports false when the owner had none.
func (r *Registry) Remove(owner Owner) bool {
	h, ok := r.byOwner[owner]
	if !ok {
		return false
	}
	r.release(owner, h)
	return true
}

// RemoveHandle removes a visual by handle. It reports false for handles the
// registry does not know.
func (r *Registry) RemoveHandle(h Handle) bool {
	owner, ok := r.byHandle[h]
	if !ok {
		return false
	}
	r.release(owner, h)
	return true
}

func (r *Registry) release(owner Owner, h Handle) {
	delete(r.byOwner, owner)
	delete(r.byHandle, h)
	if err := r.renderer.RemoveVisual(h); err != nil {
		r.log.WithError(err).WithField("owner", owner).Warn("[visuals] remove failed")
	}
}

// Rescale sets the scale of the owner's visual.
func (r *Registry) Rescale(owner Owner, scale mgl64.Vec3) error {
	h, ok := r.byOwner[owner]
	if !ok {
		return fmt.Errorf("rescale %s: %w", owner, ErrUnknownHandle)
	}
	return r.renderer.RescaleVisual(h, scale)
}

func (r *Registry) Handle(owner Owner) (Handle, bool) {
	h, ok := r.byOwner[owner]
	return h, ok
}

func (r *Registry) Owner(h Handle) (Owner, bool) {
	o, ok := r.byHandle[h]
	return o, ok
}

// Transform returns the renderer's world transform of the owner's visual.
func (r *Registry) Transform(owner Owner) (gamemath.Transform, bool) {
	h, ok := r.byOwner[owner]
	if !ok {
		return gamemath.Transform{}, false
	}
	return r.renderer.WorldTransform(h)
}

// Place moves the owner's visual when the renderer supports it.
func (r *Registry) Place(owner Owner, t gamemath.Transform) bool {
	placer, ok := r.renderer.(Placer)
	if !ok {
		return false
	}
	h, ok := r.byOwner[owner]
	if !ok {
		return false
	}
	return placer.Place(h, t)
}

// RemoveAll removes every registered visual and returns how many there were.
func (r *Registry) RemoveAll() int {
	n := len(r.byOwner)
	for owner, h := range r.byOwner {
		r.release(owner, h)
	}
	return n
}

func (r *Registry) Len() int {
	return len(r.byOwner)
}
