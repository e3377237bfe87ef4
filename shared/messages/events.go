package messages

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl64"
)

// Wire event names carried in the "event" field of an update envelope.
const (
	EventSnackManUpdate    = "SnackManUpdate"
	EventGhostUpdate       = "GhostUpdate"
	EventSquareUpdate      = "SquareUpdate"
	EventChickenUpdate     = "ChickenUpdate"
	EventScriptGhostUpdate = "ScriptGhostUpdate"
	EventGameEnd           = "GameEnd"
)

// Envelope is one element of an update batch.
type Envelope struct {
	Event   string          `json:"event"`
	Message json.RawMessage `json:"message"`
}

// Vector3 is a position as sent by the server.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vector3) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Quaternion is an orientation as sent by the server.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Quat converts to mgl64. An all-zero quaternion (field missing on the wire)
// becomes the identity.
func (q Quaternion) Quat() mgl64.Quat {
	if q == (Quaternion{}) {
		return mgl64.QuatIdent()
	}
	return mgl64.Quat{W: q.W, V: mgl64.Vec3{q.X, q.Y, q.Z}}
}

// SnackManUpdate is the movement and stats of the runner.
type SnackManUpdate struct {
	Position       Vector3    `json:"position"`
	Rotation       Quaternion `json:"rotation"`
	Radius         float64    `json:"radius"`
	Speed          float64    `json:"speed"`
	PlayerID       string     `json:"playerId"`
	SprintTimeLeft float64    `json:"sprintTimeLeft"`
	IsSprinting    bool       `json:"isSprinting"`
	IsInCooldown   bool       `json:"isInCooldown"`
	Calories       int        `json:"calories"`
	Message        *string    `json:"message"`
	IsScared       bool       `json:"isScared"`
}

// GhostUpdate is the movement of a player-controlled ghost.
type GhostUpdate struct {
	Position Vector3    `json:"position"`
	Rotation Quaternion `json:"rotation"`
	Radius   float64    `json:"radius"`
	Speed    float64    `json:"speed"`
	PlayerID string     `json:"playerId"`
}

// SquareUpdate carries the full new state of one square.
type SquareUpdate struct {
	Square Square `json:"square"`
}

// GameEnd is the outcome of a finished session.
type GameEnd struct {
	Role          string `json:"role"`
	TimePlayed    int64  `json:"timePlayed"`
	KcalCollected int    `json:"kcalCollected"`
	LobbyID       string `json:"lobbyId"`
}
