package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// TweenData stores an in-flight eased move of a character between two
// network positions.
type TweenData struct {
	X, Z   *gween.Tween
	Goal   mgl64.Vec3
	Active bool
}

var Tween = donburi.NewComponentType[TweenData]()
