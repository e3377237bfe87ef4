package systems

import (
	"github.com/automoto/snackman-client/catalogue"
	"github.com/automoto/snackman-client/components"
	cfg "github.com/automoto/snackman-client/config"
	"github.com/automoto/snackman-client/shared/gamemath"
	"github.com/automoto/snackman-client/shared/protocol"
	"github.com/go-gl/mathgl/mgl64"
)

func (r *Reconciler) applyPlayerMoved(ev protocol.PlayerMoved) {
	if ev.PlayerID != "" && ev.PlayerID == r.cat.LocalPlayerID() {
		r.applyLocalMoved(ev)
		return
	}

	entry, ok := r.cat.RemotePlayer(ev.PlayerID)
	if !ok {
		r.log.WithField("player", ev.PlayerID).Warn("[reconcile] move for unknown player")
		return
	}
	motion := components.Motion.Get(entry)
	motion.Target = gamemath.Transform{
		Position: ev.Position.Sub(mgl64.Vec3{0, r.cfg.RemoteHeightOffset, 0}),
		Rotation: ev.Rotation,
	}
	motion.HasTarget = true
	catalogue.Notify(r.cat.World, catalogue.Change{Kind: catalogue.ChangeRemotePlayer, PlayerID: ev.PlayerID})
}

func (r *Reconciler) applyLocalMoved(ev protocol.PlayerMoved) {
	entry, ok := r.cat.LocalPlayer()
	if !ok {
		// Updates can arrive before the local record exists during bootstrap.
		r.log.WithField("player", ev.PlayerID).Debug("[reconcile] local player not ready, dropping move")
		return
	}

	lp := components.LocalPlayer.Get(entry)
	if s := ev.Runner; s != nil {
		if s.Calories > lp.Calories {
			r.cues.Push(cfg.CueEatSnack)
		}
		lp.Calories = s.Calories
		lp.SprintPercent = s.SprintPercent
		lp.Sprinting = s.Sprinting
		lp.Cooldown = s.Cooldown
		if s.Message != nil {
			lp.Message = *s.Message
		}
	}

	motion := components.Motion.Get(entry)
	motion.Target = gamemath.Transform{Position: ev.Position, Rotation: ev.Rotation}
	motion.HasTarget = true
	catalogue.Notify(r.cat.World, catalogue.Change{Kind: catalogue.ChangeLocalPlayer, PlayerID: ev.PlayerID})
}
