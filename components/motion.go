package components

import (
	"github.com/automoto/snackman-client/shared/gamemath"
	"github.com/yohamta/donburi"
)

// MotionData pairs the last network target with what is drawn. Reconciliation
// writes Target and HasTarget; only the smoother writes Render and
// Initialized.
type MotionData struct {
	Render      gamemath.Transform
	Target      gamemath.Transform
	HasTarget   bool
	Initialized bool
}

var Motion = donburi.NewComponentType[MotionData]()
