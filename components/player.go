package components

import (
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/yohamta/donburi"
)

// LocalPlayerData holds the stats of the player running this client. Only
// reconciliation writes them, except the jump flags which the smoother clears
// on ground contact.
type LocalPlayerData struct {
	PlayerID         string
	Role             netconfig.Role
	Radius           float64
	Speed            float64
	Calories         int
	MaxCalories      int
	SprintPercent    float64
	SprintMultiplier float64
	Sprinting        bool
	Cooldown         bool
	Message          string
	Jumping          bool
	DoubleJumping    bool
}

var LocalPlayer = donburi.NewComponentType[LocalPlayerData]()

type RemotePlayerData struct {
	PlayerID string
	Name     string
	Role     netconfig.Role
}

var RemotePlayer = donburi.NewComponentType[RemotePlayerData]()
