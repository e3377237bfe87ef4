package systems

import (
	"github.com/automoto/snackman-client/catalogue"
	"github.com/automoto/snackman-client/components"
	cfg "github.com/automoto/snackman-client/config"
	"github.com/automoto/snackman-client/shared/gamemath"
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/automoto/snackman-client/shared/protocol"
	"github.com/automoto/snackman-client/visuals"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

func (r *Reconciler) applyCharacterChanged(ev protocol.RoamingCharacterChanged) {
	entry, ok := r.cat.Character(ev.ID)
	if !ok {
		r.log.WithField("character", ev.ID).Warn("[reconcile] update for unknown character")
		return
	}
	ch := components.Character.Get(entry)

	switch {
	case !ev.SizeClassKnown:
		r.log.WithField("character", ev.ID).Warn("[reconcile] unknown thickness, keeping size")
	case ev.SizeClass != ch.SizeClass:
		if err := r.reg.Rescale(visuals.CharacterOf(ev.ID), gamemath.SizeClassScale(ev.SizeClass)); err != nil {
			r.log.WithError(err).WithField("character", ev.ID).Warn("[reconcile] rescale failed")
		}
		ch.SizeClass = ev.SizeClass
	}

	ch.Facing = r.facing(ch.Facing, ev.FacingKnown, ev.Facing, ev.FacingCode, logrus.Fields{"character": ev.ID})
	ch.GridX = ev.GridX
	ch.GridZ = ev.GridZ
	ch.Alarmed = ev.Alarmed
	if ev.Alarmed {
		r.cues.Push(cfg.CueChickenScared)
	}

	r.setMobTarget(entry, ch.GridX, ch.GridZ, ch.Facing)
	catalogue.Notify(r.cat.World, catalogue.Change{Kind: catalogue.ChangeCharacter, ID: ev.ID})
}

func (r *Reconciler) applyScriptGhostChanged(ev protocol.ScriptGhostChanged) {
	entry, ok := r.cat.ScriptGhost(ev.ID)
	if !ok {
		r.log.WithField("ghost", ev.ID).Warn("[reconcile] update for unknown script ghost")
		return
	}
	g := components.ScriptGhost.Get(entry)
	g.Facing = r.facing(g.Facing, ev.FacingKnown, ev.Facing, ev.FacingCode, logrus.Fields{"ghost": ev.ID})
	g.GridX = ev.GridX
	g.GridZ = ev.GridZ

	r.setMobTarget(entry, g.GridX, g.GridZ, g.Facing)
	catalogue.Notify(r.cat.World, catalogue.Change{Kind: catalogue.ChangeScriptGhost, ID: ev.ID})
}

// facing returns the new facing, or prior when the code was not recognized.
func (r *Reconciler) facing(prior netconfig.Direction, known bool, next netconfig.Direction, code string, fields logrus.Fields) netconfig.Direction {
	if known {
		return next
	}
	r.log.WithFields(fields).WithField("code", code).Warn("[reconcile] unknown facing, keeping prior")
	return prior
}

// setMobTarget converts grid units to world units at the render boundary.
func (r *Reconciler) setMobTarget(entry *donburi.Entry, gridX, gridZ float64, facing netconfig.Direction) {
	motion := components.Motion.Get(entry)
	motion.Target = gamemath.Transform{
		Position: gamemath.GridToWorld(gridX, gridZ, r.cat.CellSize),
		Rotation: gamemath.FacingRotation(facing),
	}
	motion.HasTarget = true
}
