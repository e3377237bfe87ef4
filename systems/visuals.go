package systems

import (
	"fmt"

	"github.com/automoto/snackman-client/catalogue"
	"github.com/automoto/snackman-client/components"
	"github.com/automoto/snackman-client/shared/gamemath"
	"github.com/automoto/snackman-client/visuals"
	"github.com/yohamta/donburi"
)

// PopulateVisuals creates the snack, chicken and ghost visuals of a freshly
// built catalogue and records their handles. On error the visuals created so
// far stay registered; the caller is expected to RemoveAll.
func PopulateVisuals(cat *catalogue.Catalogue, reg *visuals.Registry) error {
	var err error

	cat.EachSquare(func(entry *donburi.Entry) {
		if err != nil {
			return
		}
		sq := components.Square.Get(entry)
		if !sq.HasSnack() {
			return
		}
		h, cerr := reg.Create(visuals.SnackOf(sq.ID), visuals.AssetSnack, cat.SquareWorldPosition(*sq), visuals.Params{
			Snack:    sq.Snack,
			CellSize: cat.CellSize,
		})
		if cerr != nil {
			err = cerr
			return
		}
		sq.SnackHandle = h
	})
	if err != nil {
		return fmt.Errorf("populate snacks: %w", err)
	}

	cat.EachCharacter(func(entry *donburi.Entry) {
		if err != nil {
			return
		}
		ch := components.Character.Get(entry)
		motion := components.Motion.Get(entry)
		h, cerr := reg.Create(visuals.CharacterOf(ch.ID), visuals.AssetChicken, motion.Render.Position, visuals.Params{
			Scale:    gamemath.SizeClassScale(ch.SizeClass),
			Rotation: motion.Render.Rotation,
			CellSize: cat.CellSize,
		})
		if cerr != nil {
			err = cerr
			return
		}
		ch.Handle = h
	})
	if err != nil {
		return fmt.Errorf("populate characters: %w", err)
	}

	cat.EachScriptGhost(func(entry *donburi.Entry) {
		if err != nil {
			return
		}
		g := components.ScriptGhost.Get(entry)
		motion := components.Motion.Get(entry)
		h, cerr := reg.Create(visuals.ScriptGhostOf(g.ID), visuals.AssetScriptGhost, motion.Render.Position, visuals.Params{
			Rotation: motion.Render.Rotation,
			CellSize: cat.CellSize,
		})
		if cerr != nil {
			err = cerr
			return
		}
		g.Handle = h
	})
	if err != nil {
		return fmt.Errorf("populate script ghosts: %w", err)
	}
	return nil
}
