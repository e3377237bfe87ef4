package systems

import (
	"github.com/automoto/snackman-client/catalogue"
	"github.com/automoto/snackman-client/components"
	"github.com/automoto/snackman-client/shared/gamemath"
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/automoto/snackman-client/shared/protocol"
	"github.com/automoto/snackman-client/visuals"
	"github.com/sirupsen/logrus"
)

// applySquareChanged replaces a square record and keeps its snack visual in
// step. The old handle is read before the record is overwritten so it can
// always be released; a new handle is recorded only after the record is
// replaced.
func (r *Reconciler) applySquareChanged(ev protocol.SquareChanged) {
	entry, ok := r.cat.Square(ev.ID)
	if !ok {
		r.log.WithField("square", ev.ID).Warn("[reconcile] update for unknown square")
		return
	}
	sq := components.Square.Get(entry)
	next := components.SquareData{
		ID:     ev.ID,
		IndexX: ev.IndexX,
		IndexZ: ev.IndexZ,
		Type:   ev.Type,
		Snack:  ev.Snack,
	}

	if ev.Snack != netconfig.SnackEmpty && r.isLiveDuplicate(sq, next) {
		return
	}

	old := sq.SnackHandle
	if old != visuals.NoHandle && !r.reg.RemoveHandle(old) {
		r.log.WithFields(logrus.Fields{"square": ev.ID, "handle": old}).Warn("[reconcile] stale snack handle")
	}
	*sq = next

	if ev.Snack != netconfig.SnackEmpty {
		pos := gamemath.CellCenter(ev.IndexX, ev.IndexZ, r.cat.CellSize)
		h, err := r.reg.Create(visuals.SnackOf(ev.ID), visuals.AssetSnack, pos, visuals.Params{
			Snack:    ev.Snack,
			CellSize: r.cat.CellSize,
		})
		if err != nil {
			r.log.WithError(err).WithField("square", ev.ID).Warn("[reconcile] snack visual not created")
		} else {
			sq.SnackHandle = h
		}
	}

	catalogue.Notify(r.cat.World, catalogue.Change{Kind: catalogue.ChangeSquare, ID: ev.ID})
}

// isLiveDuplicate reports whether next is identical to the stored square and
// its snack visual is still registered.
func (r *Reconciler) isLiveDuplicate(cur *components.SquareData, next components.SquareData) bool {
	if cur.SnackHandle == visuals.NoHandle {
		return false
	}
	if cur.Snack != next.Snack || cur.Type != next.Type || cur.IndexX != next.IndexX || cur.IndexZ != next.IndexZ {
		return false
	}
	owner, ok := r.reg.Owner(cur.SnackHandle)
	return ok && owner == visuals.SnackOf(cur.ID)
}
