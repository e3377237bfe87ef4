package systems

import (
	"github.com/automoto/snackman-client/catalogue"
	"github.com/automoto/snackman-client/components"
	"github.com/automoto/snackman-client/shared/gamemath"
	"github.com/automoto/snackman-client/shared/messages"
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// Bootstrap is everything fetched before a session starts.
type Bootstrap struct {
	Map           messages.GameMap
	LocalPlayerID string
	Local         *messages.Player
	Members       []messages.PlayerClient
}

// BuildCatalogue builds a new catalogue in w from the bootstrap payloads.
// Character and ghost positions arrive in grid units and are placed at their
// world position facing the default direction.
func BuildCatalogue(w donburi.World, b Bootstrap, log logrus.FieldLogger) *catalogue.Catalogue {
	log = log.WithField("component", "snapshot")
	cat := catalogue.New(w, b.Map.CellSize, b.Map.WallHeight)
	cat.SetLocalPlayerID(b.LocalPlayerID)

	for _, sq := range b.Map.Squares {
		kind, ok := netconfig.ParseSquareType(sq.Type)
		if !ok {
			log.WithFields(logrus.Fields{"square": sq.ID, "type": sq.Type}).Warn("[snapshot] unknown square type, using FLOOR")
		}
		snack, ok := netconfig.ParseSnackType(sq.SnackType())
		if !ok {
			log.WithFields(logrus.Fields{"square": sq.ID, "snack": sq.SnackType()}).Warn("[snapshot] unknown snack type, using EMPTY")
		}
		cat.AddSquare(components.SquareData{
			ID:     sq.ID,
			IndexX: sq.IndexX,
			IndexZ: sq.IndexZ,
			Type:   kind,
			Snack:  snack,
		})
	}

	for _, ch := range b.Map.Chickens {
		size, ok := netconfig.ParseThickness(ch.Thickness)
		if !ok {
			log.WithFields(logrus.Fields{"character": ch.ID, "thickness": ch.Thickness}).Warn("[snapshot] unknown thickness, using THIN")
		}
		cat.AddCharacter(components.CharacterData{
			ID:        ch.ID,
			GridX:     ch.PosX,
			GridZ:     ch.PosZ,
			SizeClass: size,
			Facing:    netconfig.DirectionWest,
			Alarmed:   ch.IsScared,
		}, placedMotion(ch.PosX, ch.PosZ, cat.CellSize))
	}

	for _, g := range b.Map.ScriptGhosts {
		cat.AddScriptGhost(components.ScriptGhostData{
			ID:     g.ID,
			GridX:  g.PosX,
			GridZ:  g.PosZ,
			Facing: netconfig.DirectionWest,
		}, placedMotion(g.PosX, g.PosZ, cat.CellSize))
	}

	if b.Local != nil {
		seedLocalPlayer(cat, b.LocalPlayerID, b.Local, b.Members)
	}

	for _, m := range b.Members {
		if m.PlayerID == b.LocalPlayerID {
			continue
		}
		role, ok := netconfig.ParseRole(m.Role)
		if !ok {
			log.WithFields(logrus.Fields{"player": m.PlayerID, "role": m.Role}).Warn("[snapshot] unknown role")
		}
		cat.AddRemotePlayer(components.RemotePlayerData{
			PlayerID: m.PlayerID,
			Name:     m.PlayerName,
			Role:     role,
		})
	}

	log.WithFields(logrus.Fields{
		"squares":    len(b.Map.Squares),
		"characters": len(b.Map.Chickens),
		"ghosts":     len(b.Map.ScriptGhosts),
		"remotes":    cat.Counts().RemotePlayers,
	}).Info("[snapshot] catalogue built")
	return cat
}

func placedMotion(gridX, gridZ, cellSize float64) components.MotionData {
	t := gamemath.Transform{
		Position: gamemath.GridToWorld(gridX, gridZ, cellSize),
		Rotation: gamemath.FacingRotation(netconfig.DirectionWest),
	}
	return components.MotionData{Render: t, Target: t, HasTarget: true, Initialized: true}
}

func seedLocalPlayer(cat *catalogue.Catalogue, id string, p *messages.Player, members []messages.PlayerClient) {
	data := components.LocalPlayerData{
		PlayerID:         id,
		Radius:           p.Radius,
		Speed:            p.Speed,
		MaxCalories:      p.MaxCalories,
		SprintPercent:    p.SprintTimeLeft,
		SprintMultiplier: p.SprintMultiplier,
		Sprinting:        p.IsSprinting,
		Cooldown:         p.IsInCooldown,
	}
	if p.CurrentCalories != nil {
		data.Calories = *p.CurrentCalories
	}
	if p.Message != nil {
		data.Message = *p.Message
	}
	for _, m := range members {
		if m.PlayerID == id {
			data.Role, _ = netconfig.ParseRole(m.Role)
		}
	}
	t := gamemath.Transform{Position: p.Position().Vec3(), Rotation: p.Rotation().Quat()}
	cat.SetLocalPlayer(data, components.MotionData{Render: t, Target: t, HasTarget: true, Initialized: true})
}
