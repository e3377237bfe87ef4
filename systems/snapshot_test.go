package systems

import (
	"testing"

	"github.com/automoto/snackman-client/components"
	"github.com/automoto/snackman-client/shared/messages"
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

func TestBuildCatalogue(t *testing.T) {
	f := newFixture(t)

	counts := f.cat.Counts()
	if counts.Squares != 3 || counts.Characters != 1 || counts.ScriptGhosts != 1 || counts.RemotePlayers != 1 || !counts.LocalPlayer {
		t.Fatalf("Counts = %+v", counts)
	}

	if sq := f.square(t, 1); sq.Snack != netconfig.SnackCherry || sq.SnackHandle == 0 {
		t.Errorf("square 1 = %+v, want cherry with a visual", sq)
	}
	if sq := f.square(t, 3); sq.Type != netconfig.SquareWall || sq.SnackHandle != 0 {
		t.Errorf("square 3 = %+v, want wall without visual", sq)
	}
	if f.reg.Len() != 3 {
		t.Errorf("registry has %d visuals, want 3 (snack, chicken, ghost)", f.reg.Len())
	}

	entry, _ := f.cat.Character(10)
	ch := components.Character.Get(entry)
	if ch.GridX != 1 || ch.GridZ != 1 {
		t.Errorf("character grid = (%v, %v), want raw grid units", ch.GridX, ch.GridZ)
	}
	if ch.Facing != netconfig.DirectionWest {
		t.Errorf("character facing = %v, want default WEST", ch.Facing)
	}
	if pos := components.Motion.Get(entry).Render.Position; !pos.ApproxEqual(mgl64.Vec3{6, 0, 6}) {
		t.Errorf("character world position = %v, want (6,0,6)", pos)
	}

	local, _ := f.cat.LocalPlayer()
	lp := components.LocalPlayer.Get(local)
	if lp.Calories != 50 || lp.Role != netconfig.RoleSnackman || lp.MaxCalories != 3000 {
		t.Errorf("local player = %+v", lp)
	}
	if _, ok := f.cat.RemotePlayer("ghost-1"); !ok {
		t.Error("remote player ghost-1 missing")
	}
}

func TestBuildCatalogueNeutralizesBadCodes(t *testing.T) {
	b := Bootstrap{Map: messages.GameMap{
		CellSize: 4,
		Squares: []messages.Square{
			{ID: 1, Type: "LAVA", Snack: &messages.Snack{SnackType: "PIZZA"}},
		},
		Chickens: []messages.Chicken{{ID: 2, Thickness: "ENORMOUS"}},
	}}
	cat := BuildCatalogue(donburi.NewWorld(), b, quietLogger())

	entry, ok := cat.Square(1)
	if !ok {
		t.Fatal("square with bad codes was dropped")
	}
	if sq := components.Square.Get(entry); sq.Type != netconfig.SquareFloor || sq.Snack != netconfig.SnackEmpty {
		t.Errorf("square = %+v, want FLOOR/EMPTY", sq)
	}
	ch, _ := cat.Character(2)
	if components.Character.Get(ch).SizeClass != netconfig.ThicknessThin {
		t.Error("unknown thickness should fall back to THIN")
	}
	if _, ok := cat.LocalPlayer(); ok {
		t.Error("no local player payload, but a local record exists")
	}
}

func TestBuildCatalogueReplacesWorld(t *testing.T) {
	w := donburi.NewWorld()
	first := BuildCatalogue(w, testBootstrap(), quietLogger())
	first.Clear()
	second := BuildCatalogue(w, testBootstrap(), quietLogger())
	if got := second.Counts().Squares; got != 3 {
		t.Fatalf("squares = %d, want 3", got)
	}
	if got := donburi.NewQuery(filter.Contains(components.Square)).Count(w); got != 3 {
		t.Fatalf("world holds %d squares, want 3", got)
	}
}
