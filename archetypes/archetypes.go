package archetypes

import (
	"github.com/automoto/snackman-client/components"
	"github.com/automoto/snackman-client/tags"
	"github.com/yohamta/donburi"
)

var (
	Square = newArchetype(
		tags.Square,
		components.Square,
	)
	Character = newArchetype(
		tags.Character,
		components.Character,
		components.Motion,
		components.Tween,
	)
	ScriptGhost = newArchetype(
		tags.ScriptGhost,
		components.ScriptGhost,
		components.Motion,
		components.Tween,
	)
	LocalPlayer = newArchetype(
		tags.LocalPlayer,
		components.LocalPlayer,
		components.Motion,
	)
	RemotePlayer = newArchetype(
		tags.RemotePlayer,
		components.RemotePlayer,
		components.Motion,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(w donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	return w.Entry(w.Create(append(a.components, cs...)...))
}
