// Package protocol decodes lobby update batches into typed events.
package protocol

import (
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/go-gl/mathgl/mgl64"
)

// Kind tags the closed set of update events.
type Kind int

const (
	KindPlayerMoved Kind = iota + 1
	KindSquareChanged
	KindRoamingCharacterChanged
	KindScriptGhostChanged
	KindGhostCaughtPlayer
	KindSessionEnded
)

func (k Kind) String() string {
	switch k {
	case KindPlayerMoved:
		return "PlayerMoved"
	case KindSquareChanged:
		return "SquareChanged"
	case KindRoamingCharacterChanged:
		return "RoamingCharacterChanged"
	case KindScriptGhostChanged:
		return "ScriptGhostChanged"
	case KindGhostCaughtPlayer:
		return "GhostCaughtPlayer"
	case KindSessionEnded:
		return "SessionEnded"
	}
	return "unknown"
}

// Event is implemented only by the event types in this package.
type Event interface {
	Kind() Kind
	isEvent()
}

// RunnerStats is the part of a movement update only the runner carries.
type RunnerStats struct {
	Calories      int
	SprintPercent float64
	Sprinting     bool
	Cooldown      bool
	Message       *string
}

// PlayerMoved reports a new transform for a player of either role.
type PlayerMoved struct {
	PlayerID string
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Runner   *RunnerStats
}

// SquareChanged carries the full new state of one square.
type SquareChanged struct {
	ID     int64
	IndexX int
	IndexZ int
	Type   netconfig.SquareType
	Snack  netconfig.SnackType
}

// RoamingCharacterChanged is a chicken update. Positions are grid units.
// FacingKnown and SizeClassKnown are false when the server sent a code this
// client does not recognize; the prior value should be kept.
type RoamingCharacterChanged struct {
	ID             int64
	GridX, GridZ   float64
	SizeClass      netconfig.Thickness
	SizeClassKnown bool
	Facing         netconfig.Direction
	FacingKnown    bool
	FacingCode     string
	Alarmed        bool
}

// ScriptGhostChanged is a scripted ghost update. Positions are grid units.
type ScriptGhostChanged struct {
	ID           int64
	GridX, GridZ float64
	Facing       netconfig.Direction
	FacingKnown  bool
	FacingCode   string
}

// GhostCaughtPlayer is a one-shot notice that a ghost scared the runner.
type GhostCaughtPlayer struct {
	PlayerID string
}

// SessionEnded is the outcome of the session.
type SessionEnded struct {
	WinningRole   netconfig.Role
	RoleCode      string
	TimePlayed    int64
	KcalCollected int
	LobbyID       string
}

func (PlayerMoved) Kind() Kind             { return KindPlayerMoved }
func (SquareChanged) Kind() Kind           { return KindSquareChanged }
func (RoamingCharacterChanged) Kind() Kind { return KindRoamingCharacterChanged }
func (ScriptGhostChanged) Kind() Kind      { return KindScriptGhostChanged }
func (GhostCaughtPlayer) Kind() Kind       { return KindGhostCaughtPlayer }
func (SessionEnded) Kind() Kind            { return KindSessionEnded }

func (PlayerMoved) isEvent()             {}
func (SquareChanged) isEvent()           {}
func (RoamingCharacterChanged) isEvent() {}
func (ScriptGhostChanged) isEvent()      {}
func (GhostCaughtPlayer) isEvent()       {}
func (SessionEnded) isEvent()            {}
