package components

import (
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/automoto/snackman-client/visuals"
	"github.com/yohamta/donburi"
)

// SquareData is one map square. SnackHandle is visuals.NoHandle while no snack
// visual is live.
type SquareData struct {
	ID          int64
	IndexX      int
	IndexZ      int
	Type        netconfig.SquareType
	Snack       netconfig.SnackType
	SnackHandle visuals.Handle
}

func (s SquareData) HasSnack() bool {
	return s.Snack != netconfig.SnackEmpty
}

var Square = donburi.NewComponentType[SquareData]()
