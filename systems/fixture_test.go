package systems

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/automoto/snackman-client/catalogue"
	"github.com/automoto/snackman-client/components"
	cfg "github.com/automoto/snackman-client/config"
	"github.com/automoto/snackman-client/shared/messages"
	"github.com/automoto/snackman-client/visuals"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func testBootstrap() Bootstrap {
	cal := 50
	return Bootstrap{
		Map: messages.GameMap{
			CellSize:   4,
			WallHeight: 5,
			Squares: []messages.Square{
				{ID: 1, IndexX: 0, IndexZ: 0, Type: "FLOOR", Snack: &messages.Snack{SnackType: "CHERRY"}},
				{ID: 2, IndexX: 1, IndexZ: 0, Type: "FLOOR", Snack: &messages.Snack{SnackType: "EMPTY"}},
				{ID: 3, IndexX: 2, IndexZ: 0, Type: "WALL"},
			},
			Chickens: []messages.Chicken{
				{ID: 10, PosX: 1, PosZ: 1, Thickness: "THIN", LookingDirection: "ONE_NORTH"},
			},
			ScriptGhosts: []messages.ScriptGhost{
				{ID: 20, PosX: 2, PosZ: 2, LookingDirection: "ONE_SOUTH"},
			},
		},
		LocalPlayerID: "me",
		Local: &messages.Player{
			PosX: 2, PosY: 2, PosZ: 2, QW: 1,
			MaxCalories:     3000,
			CurrentCalories: &cal,
		},
		Members: []messages.PlayerClient{
			{PlayerID: "me", Role: "SNACKMAN"},
			{PlayerID: "ghost-1", Role: "GHOST"},
		},
	}
}

type fixture struct {
	cat   *catalogue.Catalogue
	reg   *visuals.Registry
	scene *visuals.HeadlessScene
	cues  *CueQueue
	rec   *Reconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := quietLogger()
	scene := visuals.NewHeadlessScene(context.Background(), nil)
	reg := visuals.NewRegistry(scene, log)
	cat := BuildCatalogue(donburi.NewWorld(), testBootstrap(), log)
	if err := PopulateVisuals(cat, reg); err != nil {
		t.Fatalf("PopulateVisuals: %v", err)
	}
	cues := &CueQueue{}
	return &fixture{
		cat:   cat,
		reg:   reg,
		scene: scene,
		cues:  cues,
		rec:   NewReconciler(cat, reg, cues, cfg.Smoothing, log),
	}
}

func (f *fixture) square(t *testing.T, id int64) components.SquareData {
	t.Helper()
	entry, ok := f.cat.Square(id)
	if !ok {
		t.Fatalf("square %d missing", id)
	}
	return *components.Square.Get(entry)
}

// describe renders the catalogue without handle values so fixtures built
// independently can be compared.
func describe(cat *catalogue.Catalogue) string {
	var lines []string
	cat.EachSquare(func(e *donburi.Entry) {
		sq := components.Square.Get(e)
		lines = append(lines, fmt.Sprintf("square %d %v %v %v live=%v", sq.ID, sq.IndexX, sq.IndexZ, sq.Snack, sq.SnackHandle != visuals.NoHandle))
	})
	cat.EachCharacter(func(e *donburi.Entry) {
		ch := components.Character.Get(e)
		lines = append(lines, fmt.Sprintf("character %d %v %v %v %v %v target=%v", ch.ID, ch.GridX, ch.GridZ, ch.SizeClass, ch.Facing, ch.Alarmed, components.Motion.Get(e).Target))
	})
	cat.EachScriptGhost(func(e *donburi.Entry) {
		g := components.ScriptGhost.Get(e)
		lines = append(lines, fmt.Sprintf("ghost %d %v %v %v", g.ID, g.GridX, g.GridZ, g.Facing))
	})
	cat.EachRemotePlayer(func(e *donburi.Entry) {
		m := components.Motion.Get(e)
		lines = append(lines, fmt.Sprintf("remote %s render=%v target=%v", components.RemotePlayer.Get(e).PlayerID, m.Render, m.Target))
	})
	if e, ok := cat.LocalPlayer(); ok {
		lp := components.LocalPlayer.Get(e)
		lines = append(lines, fmt.Sprintf("local %+v target=%v", *lp, components.Motion.Get(e).Target))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
