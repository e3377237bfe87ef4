package components

import (
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/automoto/snackman-client/visuals"
	"github.com/yohamta/donburi"
)

// CharacterData is a roaming chicken. GridX/GridZ stay in grid units.
type CharacterData struct {
	ID        int64
	GridX     float64
	GridZ     float64
	SizeClass netconfig.Thickness
	Facing    netconfig.Direction
	Alarmed   bool
	Handle    visuals.Handle
}

var Character = donburi.NewComponentType[CharacterData]()

// ScriptGhostData is a server-scripted ghost. GridX/GridZ stay in grid units.
type ScriptGhostData struct {
	ID     int64
	GridX  float64
	GridZ  float64
	Facing netconfig.Direction
	Handle visuals.Handle
}

var ScriptGhost = donburi.NewComponentType[ScriptGhostData]()
