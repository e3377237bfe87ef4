package messages

// Player is the local player record returned by the player endpoint.
type Player struct {
	PosX             float64 `json:"posX"`
	PosY             float64 `json:"posY"`
	PosZ             float64 `json:"posZ"`
	QX               float64 `json:"qX"`
	QY               float64 `json:"qY"`
	QZ               float64 `json:"qZ"`
	QW               float64 `json:"qW"`
	Radius           float64 `json:"radius"`
	Speed            float64 `json:"speed"`
	PlayerID         string  `json:"playerId"`
	SprintTimeLeft   float64 `json:"sprintTimeLeft"`
	IsSprinting      bool    `json:"isSprinting"`
	IsInCooldown     bool    `json:"isInCooldown"`
	SprintMultiplier float64 `json:"sprintMultiplier"`
	MaxCalories      int     `json:"maxCalories"`
	CurrentCalories  *int    `json:"currentCalories,omitempty"`
	Message          *string `json:"message,omitempty"`
}

func (p Player) Position() Vector3 {
	return Vector3{X: p.PosX, Y: p.PosY, Z: p.PosZ}
}

func (p Player) Rotation() Quaternion {
	return Quaternion{X: p.QX, Y: p.QY, Z: p.QZ, W: p.QW}
}

// PlayerClient is a connected player as listed in a lobby.
type PlayerClient struct {
	PlayerID      string `json:"playerId"`
	PlayerName    string `json:"playerName"`
	JoinedLobbyID string `json:"joinedLobbyId,omitempty"`
	Role          string `json:"role"`
}

// Lobby is the response of the lobby endpoint.
type Lobby struct {
	LobbyID     string         `json:"lobbyId"`
	Name        string         `json:"name"`
	AdminClient PlayerClient   `json:"adminClient"`
	GameStarted bool           `json:"gameStarted"`
	ChooseRole  bool           `json:"chooseRole"`
	Members     []PlayerClient `json:"members"`
}

// MaxCaloriesMessage is the status the server sends once the runner is full.
const MaxCaloriesMessage = "Maximum calories reached!"
