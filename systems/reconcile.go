package systems

import (
	"github.com/automoto/snackman-client/catalogue"
	cfg "github.com/automoto/snackman-client/config"
	"github.com/automoto/snackman-client/shared/protocol"
	"github.com/automoto/snackman-client/visuals"
	"github.com/sirupsen/logrus"
)

// Reconciler applies decoded update events to a catalogue. Events naming
// unknown entities or carrying unknown codes are logged and skipped; nothing
// is returned to the caller. SessionEnded is left to the session.
type Reconciler struct {
	cat  *catalogue.Catalogue
	reg  *visuals.Registry
	cues *CueQueue
	cfg  cfg.SmoothingConfig
	log  logrus.FieldLogger
}

func NewReconciler(cat *catalogue.Catalogue, reg *visuals.Registry, cues *CueQueue, c cfg.SmoothingConfig, log logrus.FieldLogger) *Reconciler {
	return &Reconciler{
		cat:  cat,
		reg:  reg,
		cues: cues,
		cfg:  c,
		log:  log.WithField("component", "reconcile"),
	}
}

// Apply applies one event.
func (r *Reconciler) Apply(ev protocol.Event) {
	switch e := ev.(type) {
	case protocol.PlayerMoved:
		r.applyPlayerMoved(e)
	case protocol.SquareChanged:
		r.applySquareChanged(e)
	case protocol.RoamingCharacterChanged:
		r.applyCharacterChanged(e)
	case protocol.ScriptGhostChanged:
		r.applyScriptGhostChanged(e)
	case protocol.GhostCaughtPlayer:
		r.log.WithField("player", e.PlayerID).Debug("[reconcile] ghost caught runner")
		r.cues.Push(cfg.CueGhostScaresSnackman)
	case protocol.SessionEnded:
		r.log.Debug("[reconcile] session end is handled by the session")
	default:
		r.log.WithField("event", ev).Warn("[reconcile] unhandled event type")
	}
}

// ApplyAll applies events in order up to, not including, the first
// SessionEnded, which is returned.
func (r *Reconciler) ApplyAll(events []protocol.Event) (*protocol.SessionEnded, bool) {
	for _, ev := range events {
		if end, ok := ev.(protocol.SessionEnded); ok {
			return &end, true
		}
		r.Apply(ev)
	}
	return nil, false
}
