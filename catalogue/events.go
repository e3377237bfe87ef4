package catalogue

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ChangeKind says which kind of record a Change is about.
type ChangeKind int

const (
	ChangeSquare ChangeKind = iota + 1
	ChangeCharacter
	ChangeScriptGhost
	ChangeLocalPlayer
	ChangeRemotePlayer
	ChangeLoaded
	ChangeCleared
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeSquare:
		return "square"
	case ChangeCharacter:
		return "character"
	case ChangeScriptGhost:
		return "script_ghost"
	case ChangeLocalPlayer:
		return "local_player"
	case ChangeRemotePlayer:
		return "remote_player"
	case ChangeLoaded:
		return "loaded"
	case ChangeCleared:
		return "cleared"
	}
	return "unknown"
}

// Change notifies observers that a record was modified. ID is set for
// squares, characters and ghosts; PlayerID for players.
type Change struct {
	Kind     ChangeKind
	ID       int64
	PlayerID string
}

// Changed is published by the reconciler and the session, and delivered to
// subscribers once per tick when the session flushes events.
var Changed = events.NewEventType[Change]()

// Notify queues a change on the world.
func Notify(w donburi.World, c Change) {
	Changed.Publish(w, c)
}

// Observe registers fn for every change published on w.
func Observe(w donburi.World, fn func(Change)) {
	Changed.Subscribe(w, func(_ donburi.World, c Change) {
		fn(c)
	})
}

// Flush delivers queued changes to observers.
func Flush(w donburi.World) {
	Changed.ProcessEvents(w)
}
