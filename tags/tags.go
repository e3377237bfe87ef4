package tags

import "github.com/yohamta/donburi"

var (
	Square       = donburi.NewTag().SetName("Square")
	Character    = donburi.NewTag().SetName("Character")
	ScriptGhost  = donburi.NewTag().SetName("ScriptGhost")
	LocalPlayer  = donburi.NewTag().SetName("LocalPlayer")
	RemotePlayer = donburi.NewTag().SetName("RemotePlayer")
)
