// Package catalogue holds the client's copy of the game world for one session.
package catalogue

import (
	"github.com/automoto/snackman-client/archetypes"
	"github.com/automoto/snackman-client/components"
	"github.com/automoto/snackman-client/shared/gamemath"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// Catalogue indexes the entities of a donburi world by server id. Entities
// are only created through the catalogue so the indexes stay complete.
type Catalogue struct {
	World      donburi.World
	CellSize   float64
	WallHeight float64

	localPlayerID string
	local         donburi.Entity
	hasLocal      bool

	squares      map[int64]donburi.Entity
	characters   map[int64]donburi.Entity
	scriptGhosts map[int64]donburi.Entity
	remotes      map[string]donburi.Entity
}

func New(w donburi.World, cellSize, wallHeight float64) *Catalogue {
	if cellSize <= 0 {
		cellSize = gamemath.DefaultCellSize
	}
	return &Catalogue{
		World:        w,
		CellSize:     cellSize,
		WallHeight:   wallHeight,
		squares:      make(map[int64]donburi.Entity),
		characters:   make(map[int64]donburi.Entity),
		scriptGhosts: make(map[int64]donburi.Entity),
		remotes:      make(map[string]donburi.Entity),
	}
}

func (c *Catalogue) AddSquare(sq components.SquareData) *donburi.Entry {
	if e, ok := c.squares[sq.ID]; ok && c.World.Valid(e) {
		c.World.Remove(e)
	}
	entry := archetypes.Square.Spawn(c.World)
	components.Square.SetValue(entry, sq)
	c.squares[sq.ID] = entry.Entity()
	return entry
}

func (c *Catalogue) AddCharacter(ch components.CharacterData, motion components.MotionData) *donburi.Entry {
	if e, ok := c.characters[ch.ID]; ok && c.World.Valid(e) {
		c.World.Remove(e)
	}
	entry := archetypes.Character.Spawn(c.World)
	components.Character.SetValue(entry, ch)
	components.Motion.SetValue(entry, motion)
	c.characters[ch.ID] = entry.Entity()
	return entry
}

func (c *Catalogue) AddScriptGhost(g components.ScriptGhostData, motion components.MotionData) *donburi.Entry {
	if e, ok := c.scriptGhosts[g.ID]; ok && c.World.Valid(e) {
		c.World.Remove(e)
	}
	entry := archetypes.ScriptGhost.Spawn(c.World)
	components.ScriptGhost.SetValue(entry, g)
	components.Motion.SetValue(entry, motion)
	c.scriptGhosts[g.ID] = entry.Entity()
	return entry
}

// SetLocalPlayer creates or replaces the local player record.
func (c *Catalogue) SetLocalPlayer(p components.LocalPlayerData, motion components.MotionData) *donburi.Entry {
	if c.hasLocal && c.World.Valid(c.local) {
		c.World.Remove(c.local)
	}
	entry := archetypes.LocalPlayer.Spawn(c.World)
	components.LocalPlayer.SetValue(entry, p)
	components.Motion.SetValue(entry, motion)
	c.local = entry.Entity()
	c.hasLocal = true
	c.localPlayerID = p.PlayerID
	return entry
}

func (c *Catalogue) AddRemotePlayer(p components.RemotePlayerData) *donburi.Entry {
	if e, ok := c.remotes[p.PlayerID]; ok && c.World.Valid(e) {
		c.World.Remove(e)
	}
	entry := archetypes.RemotePlayer.Spawn(c.World)
	components.RemotePlayer.SetValue(entry, p)
	components.Motion.SetValue(entry, components.MotionData{
		Render: gamemath.IdentityTransform(),
		Target: gamemath.IdentityTransform(),
	})
	c.remotes[p.PlayerID] = entry.Entity()
	return entry
}

// LocalPlayerID returns the id of the player this client plays as. It is
// known from session start even before the local record exists.
func (c *Catalogue) LocalPlayerID() string {
	return c.localPlayerID
}

func (c *Catalogue) SetLocalPlayerID(id string) {
	c.localPlayerID = id
}

func (c *Catalogue) LocalPlayer() (*donburi.Entry, bool) {
	if !c.hasLocal || !c.World.Valid(c.local) {
		return nil, false
	}
	return c.World.Entry(c.local), true
}

func (c *Catalogue) Square(id int64) (*donburi.Entry, bool) {
	return c.lookup(c.squares, id)
}

func (c *Catalogue) Character(id int64) (*donburi.Entry, bool) {
	return c.lookup(c.characters, id)
}

func (c *Catalogue) ScriptGhost(id int64) (*donburi.Entry, bool) {
	return c.lookup(c.scriptGhosts, id)
}

func (c *Catalogue) RemotePlayer(playerID string) (*donburi.Entry, bool) {
	e, ok := c.remotes[playerID]
	if !ok || !c.World.Valid(e) {
		return nil, false
	}
	return c.World.Entry(e), true
}

func (c *Catalogue) lookup(index map[int64]donburi.Entity, id int64) (*donburi.Entry, bool) {
	e, ok := index[id]
	if !ok || !c.World.Valid(e) {
		return nil, false
	}
	return c.World.Entry(e), true
}

// Counts is the number of records of each kind.
type Counts struct {
	Squares       int
	Characters    int
	ScriptGhosts  int
	RemotePlayers int
	LocalPlayer   bool
}

func (c *Catalogue) Counts() Counts {
	_, local := c.LocalPlayer()
	return Counts{
		Squares:       len(c.squares),
		Characters:    len(c.characters),
		ScriptGhosts:  len(c.scriptGhosts),
		RemotePlayers: len(c.remotes),
		LocalPlayer:   local,
	}
}

// Empty reports whether no squares, characters or ghosts remain.
func (c *Catalogue) Empty() bool {
	return len(c.squares) == 0 && len(c.characters) == 0 && len(c.scriptGhosts) == 0
}

// Clear removes every record, including players, and forgets the local
// player id. Entities not created by the catalogue are left alone.
func (c *Catalogue) Clear() {
	for _, index := range []map[int64]donburi.Entity{c.squares, c.characters, c.scriptGhosts} {
		for id, e := range index {
			if c.World.Valid(e) {
				c.World.Remove(e)
			}
			delete(index, id)
		}
	}
	for id, e := range c.remotes {
		if c.World.Valid(e) {
			c.World.Remove(e)
		}
		delete(c.remotes, id)
	}
	if c.hasLocal && c.World.Valid(c.local) {
		c.World.Remove(c.local)
	}
	c.hasLocal = false
	c.localPlayerID = ""
	c.CellSize = gamemath.DefaultCellSize
	c.WallHeight = 0
}

// EachSquare calls fn for every square in the catalogue.
func (c *Catalogue) EachSquare(fn func(*donburi.Entry)) {
	for _, e := range c.squares {
		if c.World.Valid(e) {
			fn(c.World.Entry(e))
		}
	}
}

func (c *Catalogue) EachCharacter(fn func(*donburi.Entry)) {
	for _, e := range c.characters {
		if c.World.Valid(e) {
			fn(c.World.Entry(e))
		}
	}
}

func (c *Catalogue) EachScriptGhost(fn func(*donburi.Entry)) {
	for _, e := range c.scriptGhosts {
		if c.World.Valid(e) {
			fn(c.World.Entry(e))
		}
	}
}

func (c *Catalogue) EachRemotePlayer(fn func(*donburi.Entry)) {
	for _, e := range c.remotes {
		if c.World.Valid(e) {
			fn(c.World.Entry(e))
		}
	}
}

// SquareWorldPosition returns the center of a square in world units.
func (c *Catalogue) SquareWorldPosition(sq components.SquareData) mgl64.Vec3 {
	return gamemath.CellCenter(sq.IndexX, sq.IndexZ, c.CellSize)
}
