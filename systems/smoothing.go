package systems

import (
	"github.com/automoto/snackman-client/catalogue"
	"github.com/automoto/snackman-client/components"
	cfg "github.com/automoto/snackman-client/config"
	"github.com/automoto/snackman-client/shared/gamemath"
	"github.com/automoto/snackman-client/visuals"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
)

// Smoother moves render transforms toward their network targets once per
// tick. It writes only Render, Initialized, the tween state and the local
// player's jump flags.
type Smoother struct {
	cfg cfg.SmoothingConfig
	reg *visuals.Registry
}

func NewSmoother(c cfg.SmoothingConfig, reg *visuals.Registry) *Smoother {
	return &Smoother{cfg: c, reg: reg}
}

// Update advances smoothing by one tick of dt seconds.
func (s *Smoother) Update(cat *catalogue.Catalogue, dt float64) {
	if entry, ok := cat.LocalPlayer(); ok {
		s.smoothPlayer(entry)
		lp := components.LocalPlayer.Get(entry)
		if components.Motion.Get(entry).Render.Position.Y() <= s.cfg.GroundThreshold {
			lp.Jumping = false
			lp.DoubleJumping = false
		}
	}

	components.RemotePlayer.Each(cat.World, s.smoothPlayer)

	components.Character.Each(cat.World, func(entry *donburi.Entry) {
		s.moveMob(entry, dt)
		s.reg.Place(visuals.CharacterOf(components.Character.Get(entry).ID), components.Motion.Get(entry).Render)
	})
	components.ScriptGhost.Each(cat.World, func(entry *donburi.Entry) {
		s.moveMob(entry, dt)
		s.reg.Place(visuals.ScriptGhostOf(components.ScriptGhost.Get(entry).ID), components.Motion.Get(entry).Render)
	})
}

// smoothPlayer applies exponential smoothing to position and snaps rotation.
// The first tick after the first target snaps so a player does not glide in
// from the origin.
func (s *Smoother) smoothPlayer(entry *donburi.Entry) {
	m := components.Motion.Get(entry)
	if !m.HasTarget {
		return
	}
	if !m.Initialized {
		m.Render = m.Target
		m.Initialized = true
		return
	}
	m.Render.Position = gamemath.SmoothToward(m.Render.Position, m.Target.Position, s.cfg.Alpha)
	m.Render.Rotation = m.Target.Rotation
}

func (s *Smoother) moveMob(entry *donburi.Entry, dt float64) {
	m := components.Motion.Get(entry)
	if !m.HasTarget {
		return
	}
	m.Render.Rotation = m.Target.Rotation

	if s.cfg.CharacterMotion != cfg.MotionTween || !m.Initialized || !entry.HasComponent(components.Tween) {
		m.Render.Position = m.Target.Position
		m.Initialized = true
		return
	}

	tw := components.Tween.Get(entry)
	if !tw.Goal.ApproxEqual(m.Target.Position) {
		from, to := m.Render.Position, m.Target.Position
		d := float32(s.cfg.TweenDuration)
		tw.X = gween.New(float32(from.X()), float32(to.X()), d, ease.OutQuad)
		tw.Z = gween.New(float32(from.Z()), float32(to.Z()), d, ease.OutQuad)
		tw.Goal = to
		tw.Active = true
	}
	if !tw.Active {
		m.Render.Position = m.Target.Position
		return
	}

	x, doneX := tw.X.Update(float32(dt))
	z, doneZ := tw.Z.Update(float32(dt))
	if doneX && doneZ {
		tw.Active = false
		m.Render.Position = tw.Goal
		return
	}
	m.Render.Position = mgl64.Vec3{float64(x), tw.Goal.Y(), float64(z)}
}
