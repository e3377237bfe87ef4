// Package netconfig defines the enum codes shared with the game server. The
// wire carries Java enum names; every code set here is closed, and parsing an
// unknown code reports ok=false so callers can treat it as a protocol anomaly.
package netconfig

// SnackType identifies the snack lying on a floor square.
type SnackType int

const (
	SnackEmpty SnackType = iota
	SnackCherry
	SnackStrawberry
	SnackOrange
	SnackApple
	SnackEgg
)

func ParseSnackType(code string) (SnackType, bool) {
	switch code {
	case "EMPTY", "":
		return SnackEmpty, true
	case "CHERRY":
		return SnackCherry, true
	case "STRAWBERRY":
		return SnackStrawberry, true
	case "ORANGE":
		return SnackOrange, true
	case "APPLE":
		return SnackApple, true
	case "EGG":
		return SnackEgg, true
	}
	return SnackEmpty, false
}

func (s SnackType) String() string {
	switch s {
	case SnackEmpty:
		return "EMPTY"
	case SnackCherry:
		return "CHERRY"
	case SnackStrawberry:
		return "STRAWBERRY"
	case SnackOrange:
		return "ORANGE"
	case SnackApple:
		return "APPLE"
	case SnackEgg:
		return "EGG"
	}
	return "unknown"
}

// SquareType is the static kind of a map square.
type SquareType int

const (
	SquareFloor SquareType = iota
	SquareWall
)

func ParseSquareType(code string) (SquareType, bool) {
	switch code {
	case "FLOOR":
		return SquareFloor, true
	case "WALL":
		return SquareWall, true
	}
	return SquareFloor, false
}

func (s SquareType) String() string {
	switch s {
	case SquareFloor:
		return "FLOOR"
	case SquareWall:
		return "WALL"
	}
	return "unknown"
}

// Thickness is the size class of a roaming chicken. It grows as the chicken
// eats snacks.
type Thickness int

const (
	ThicknessThin Thickness = iota
	ThicknessSlightlyThick
	ThicknessMedium
	ThicknessHeavy
	ThicknessVeryHeavy
)

func ParseThickness(code string) (Thickness, bool) {
	switch code {
	case "THIN":
		return ThicknessThin, true
	case "SLIGHTLY_THICK":
		return ThicknessSlightlyThick, true
	case "MEDIUM":
		return ThicknessMedium, true
	case "HEAVY":
		return ThicknessHeavy, true
	case "VERY_HEAVY":
		return ThicknessVeryHeavy, true
	}
	return ThicknessThin, false
}

func (t Thickness) String() string {
	switch t {
	case ThicknessThin:
		return "THIN"
	case ThicknessSlightlyThick:
		return "SLIGHTLY_THICK"
	case ThicknessMedium:
		return "MEDIUM"
	case ThicknessHeavy:
		return "HEAVY"
	case ThicknessVeryHeavy:
		return "VERY_HEAVY"
	}
	return "unknown"
}

// Direction is one of the four canonical facings a mob can look in. The
// server's direction enum has more members (two-step and diagonal moves);
// those are not facings and parse as unknown.
type Direction int

const (
	DirectionWest Direction = iota // default facing, yaw 0
	DirectionNorth
	DirectionSouth
	DirectionEast
)

func ParseDirection(code string) (Direction, bool) {
	switch code {
	case "ONE_NORTH":
		return DirectionNorth, true
	case "ONE_SOUTH":
		return DirectionSouth, true
	case "ONE_EAST":
		return DirectionEast, true
	case "ONE_WEST":
		return DirectionWest, true
	}
	return DirectionWest, false
}

func (d Direction) String() string {
	switch d {
	case DirectionNorth:
		return "ONE_NORTH"
	case DirectionSouth:
		return "ONE_SOUTH"
	case DirectionEast:
		return "ONE_EAST"
	case DirectionWest:
		return "ONE_WEST"
	}
	return "unknown"
}

// Role is the part a player takes in a lobby.
type Role int

const (
	RoleUndefined Role = iota
	RoleSnackman
	RoleGhost
)

func ParseRole(code string) (Role, bool) {
	switch code {
	case "SNACKMAN":
		return RoleSnackman, true
	case "GHOST":
		return RoleGhost, true
	case "UNDEFINED", "":
		return RoleUndefined, true
	}
	return RoleUndefined, false
}

func (r Role) String() string {
	switch r {
	case RoleSnackman:
		return "SNACKMAN"
	case RoleGhost:
		return "GHOST"
	case RoleUndefined:
		return "UNDEFINED"
	}
	return "unknown"
}
