package messages

// GameMap is the bulk payload fetched once at session start.
type GameMap struct {
	WallHeight   float64       `json:"DEFAULT_WALL_HEIGHT"`
	CellSize     float64       `json:"DEFAULT_SQUARE_SIDE_LENGTH"`
	Squares      []Square      `json:"gameMap"`
	Chickens     []Chicken     `json:"chickens"`
	ScriptGhosts []ScriptGhost `json:"scriptGhosts"`
}

type Square struct {
	ID     int64  `json:"id"`
	IndexX int    `json:"indexX"`
	IndexZ int    `json:"indexZ"`
	Type   string `json:"type"`
	Snack  *Snack `json:"snack,omitempty"`
}

// SnackType returns the square's snack code, EMPTY when there is none.
func (s Square) SnackType() string {
	if s.Snack == nil || s.Snack.SnackType == "" {
		return "EMPTY"
	}
	return s.Snack.SnackType
}

type Snack struct {
	SnackType string `json:"snackType"`
}

// Chicken positions are in grid units.
type Chicken struct {
	ID               int64   `json:"id"`
	PosX             float64 `json:"chickenPosX"`
	PosZ             float64 `json:"chickenPosZ"`
	Thickness        string  `json:"thickness"`
	LookingDirection string  `json:"lookingDirection"`
	IsScared         bool    `json:"isScared"`
}

// ScriptGhost positions are in grid units.
type ScriptGhost struct {
	ID               int64   `json:"id"`
	PosX             float64 `json:"scriptGhostPosX"`
	PosZ             float64 `json:"scriptGhostPosZ"`
	LookingDirection string  `json:"lookingDirection"`
}
