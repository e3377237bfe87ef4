package protocol

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/automoto/snackman-client/shared/messages"
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed batch.schema.json
var batchSchema string

var (
	ErrMalformedBatch = errors.New("malformed update batch")
	ErrUnknownEvent   = errors.New("unknown event name")
	ErrUnknownCode    = errors.New("unknown enum code")
)

// AnomalyError describes one envelope that was skipped while decoding a batch.
type AnomalyError struct {
	Index int
	Event string
	Err   error
}

func (e *AnomalyError) Error() string {
	return fmt.Sprintf("envelope %d (%s): %v", e.Index, e.Event, e.Err)
}

func (e *AnomalyError) Unwrap() error { return e.Err }

// Batch is the result of decoding one frame. Events keep the array order of
// the frame. Skipped holds one *AnomalyError per envelope that was dropped.
type Batch struct {
	Events  []Event
	Skipped []error
}

// Decoder turns update frames into events. A strict decoder validates every
// frame against the batch schema before decoding it.
type Decoder struct {
	schema *jsonschema.Schema
}

func NewDecoder(strict bool) (*Decoder, error) {
	d := &Decoder{}
	if !strict {
		return d, nil
	}
	schema, err := jsonschema.CompileString("batch.schema.json", batchSchema)
	if err != nil {
		return nil, fmt.Errorf("compile batch schema: %w", err)
	}
	d.schema = schema
	return d, nil
}

// Strict reports whether frames are schema validated.
func (d *Decoder) Strict() bool { return d.schema != nil }

// Decode decodes a frame. An error is returned only when the frame as a whole
// is unusable; bad envelopes are reported in Batch.Skipped.
func (d *Decoder) Decode(frame []byte) (Batch, error) {
	if d.schema != nil {
		var doc any
		if err := json.Unmarshal(frame, &doc); err != nil {
			return Batch{}, fmt.Errorf("%w: %v", ErrMalformedBatch, err)
		}
		if err := d.schema.Validate(doc); err != nil {
			return Batch{}, fmt.Errorf("%w: %v", ErrMalformedBatch, err)
		}
	}

	var envelopes []messages.Envelope
	if err := json.Unmarshal(frame, &envelopes); err != nil {
		return Batch{}, fmt.Errorf("%w: %v", ErrMalformedBatch, err)
	}

	var b Batch
	for i, env := range envelopes {
		events, err := decodeEnvelope(env)
		if err != nil {
			b.Skipped = append(b.Skipped, &AnomalyError{Index: i, Event: env.Event, Err: err})
			continue
		}
		b.Events = append(b.Events, events...)
	}
	return b, nil
}

func decodeEnvelope(env messages.Envelope) ([]Event, error) {
	switch env.Event {
	case messages.EventSnackManUpdate:
		var m messages.SnackManUpdate
		if err := json.Unmarshal(env.Message, &m); err != nil {
			return nil, err
		}
		moved := PlayerMoved{
			PlayerID: m.PlayerID,
			Position: m.Position.Vec3(),
			Rotation: m.Rotation.Quat(),
			Runner: &RunnerStats{
				Calories:      m.Calories,
				SprintPercent: m.SprintTimeLeft,
				Sprinting:     m.IsSprinting,
				Cooldown:      m.IsInCooldown,
				Message:       m.Message,
			},
		}
		if m.IsScared {
			return []Event{moved, GhostCaughtPlayer{PlayerID: m.PlayerID}}, nil
		}
		return []Event{moved}, nil

	case messages.EventGhostUpdate:
		var m messages.GhostUpdate
		if err := json.Unmarshal(env.Message, &m); err != nil {
			return nil, err
		}
		return []Event{PlayerMoved{
			PlayerID: m.PlayerID,
			Position: m.Position.Vec3(),
			Rotation: m.Rotation.Quat(),
		}}, nil

	case messages.EventSquareUpdate:
		var m messages.SquareUpdate
		if err := json.Unmarshal(env.Message, &m); err != nil {
			return nil, err
		}
		ev, err := squareChanged(m.Square)
		if err != nil {
			return nil, err
		}
		return []Event{ev}, nil

	case messages.EventChickenUpdate:
		var m messages.Chicken
		if err := json.Unmarshal(env.Message, &m); err != nil {
			return nil, err
		}
		size, sizeOK := netconfig.ParseThickness(m.Thickness)
		facing, facingOK := netconfig.ParseDirection(m.LookingDirection)
		return []Event{RoamingCharacterChanged{
			ID:             m.ID,
			GridX:          m.PosX,
			GridZ:          m.PosZ,
			SizeClass:      size,
			SizeClassKnown: sizeOK,
			Facing:         facing,
			FacingKnown:    facingOK,
			FacingCode:     m.LookingDirection,
			Alarmed:        m.IsScared,
		}}, nil

	case messages.EventScriptGhostUpdate:
		var m messages.ScriptGhost
		if err := json.Unmarshal(env.Message, &m); err != nil {
			return nil, err
		}
		facing, facingOK := netconfig.ParseDirection(m.LookingDirection)
		return []Event{ScriptGhostChanged{
			ID:          m.ID,
			GridX:       m.PosX,
			GridZ:       m.PosZ,
			Facing:      facing,
			FacingKnown: facingOK,
			FacingCode:  m.LookingDirection,
		}}, nil

	case messages.EventGameEnd:
		var m messages.GameEnd
		if err := json.Unmarshal(env.Message, &m); err != nil {
			return nil, err
		}
		role, _ := netconfig.ParseRole(m.Role)
		return []Event{SessionEnded{
			WinningRole:   role,
			RoleCode:      m.Role,
			TimePlayed:    m.TimePlayed,
			KcalCollected: m.KcalCollected,
			LobbyID:       m.LobbyID,
		}}, nil
	}
	return nil, ErrUnknownEvent
}

func squareChanged(sq messages.Square) (SquareChanged, error) {
	kind, ok := netconfig.ParseSquareType(sq.Type)
	if !ok {
		return SquareChanged{}, fmt.Errorf("%w: square type %q", ErrUnknownCode, sq.Type)
	}
	snack, ok := netconfig.ParseSnackType(sq.SnackType())
	if !ok {
		return SquareChanged{}, fmt.Errorf("%w: snack type %q", ErrUnknownCode, sq.SnackType())
	}
	return SquareChanged{
		ID:     sq.ID,
		IndexX: sq.IndexX,
		IndexZ: sq.IndexZ,
		Type:   kind,
		Snack:  snack,
	}, nil
}
