// Package visuals tracks which renderer objects belong to which game entity
// and provides the renderer and model cache the client draws with.
package visuals

import (
	"errors"
	"fmt"

	"github.com/automoto/snackman-client/shared/gamemath"
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/go-gl/mathgl/mgl64"
)

// Handle identifies an object created by a Renderer. Handles are assigned by
// the renderer and are unrelated to server entity ids.
type Handle uint64

// NoHandle marks the absence of a visual.
const NoHandle Handle = 0

var ErrUnknownHandle = errors.New("unknown visual handle")

// AssetKind selects the model a visual is built from.
type AssetKind int

const (
	AssetSnack AssetKind = iota + 1
	AssetChicken
	AssetScriptGhost
	AssetPlayer
	AssetWall
	AssetFloor
)

func (k AssetKind) String() string {
	switch k {
	case AssetSnack:
		return "snack"
	case AssetChicken:
		return "chicken"
	case AssetScriptGhost:
		return "script_ghost"
	case AssetPlayer:
		return "player"
	case AssetWall:
		return "wall"
	case AssetFloor:
		return "floor"
	}
	return fmt.Sprintf("asset(%d)", int(k))
}

// Params are the creation options of a visual.
type Params struct {
	Snack    netconfig.SnackType
	Scale    mgl64.Vec3
	Rotation mgl64.Quat
	CellSize float64
}

// Renderer is the scene collaborator that owns drawable objects.
type Renderer interface {
	CreateVisual(kind AssetKind, pos mgl64.Vec3, p Params) (Handle, error)
	RemoveVisual(h Handle) error
	RescaleVisual(h Handle, scale mgl64.Vec3) error
	WorldTransform(h Handle) (gamemath.Transform, bool)
}

// Placer is implemented by renderers whose visuals can be moved after
// creation.
type Placer interface {
	Place(h Handle, t gamemath.Transform) bool
}

// OwnerKind is the kind of entity a visual belongs to.
type OwnerKind int

const (
	OwnerSnack OwnerKind = iota + 1
	OwnerCharacter
	OwnerScriptGhost
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerSnack:
		return "snack"
	case OwnerCharacter:
		return "character"
	case OwnerScriptGhost:
		return "script_ghost"
	}
	return "unknown"
}

// Owner is the logical owner of a visual. For snacks ID is the square id.
type Owner struct {
	Kind OwnerKind
	ID   int64
}

func (o Owner) String() string {
	return fmt.Sprintf("%s/%d", o.Kind, o.ID)
}

func SnackOf(squareID int64) Owner { return Owner{Kind: OwnerSnack, ID: squareID} }
func CharacterOf(id int64) Owner   { return Owner{Kind: OwnerCharacter, ID: id} }
func ScriptGhostOf(id int64) Owner { return Owner{Kind: OwnerScriptGhost, ID: id} }
