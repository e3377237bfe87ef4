package config

// CueID represents a logical audio cue
type CueID int

const (
	CueNone CueID = iota
	CueEatSnack
	CueGhostScaresSnackman
	CueChickenScared
	CueGameEnd
)

func (c CueID) String() string {
	switch c {
	case CueEatSnack:
		return "EAT_SNACK"
	case CueGhostScaresSnackman:
		return "GHOST_SCARES_SNACKMAN"
	case CueChickenScared:
		return "GHOST_SCARES_CHICKEN"
	case CueGameEnd:
		return "GAME_END"
	}
	return "NONE"
}

// AudioConfig contains audio-related configuration values
type AudioConfig struct {
	Enabled       bool    `yaml:"enabled"`
	DefaultCueVol float64 `yaml:"default_cue_vol"`
}

// SoundConfig maps cue IDs to file paths
type SoundConfig struct {
	CuePaths          map[CueID]string
	VolumeMultipliers map[CueID]float64
}

var Audio AudioConfig
var Sound SoundConfig

func init() {
	Audio = AudioConfig{
		Enabled:       true,
		DefaultCueVol: 1.0,
	}

	Sound = SoundConfig{
		CuePaths: map[CueID]string{
			CueEatSnack:            "audio/sfx/eat_snack.mp3",
			CueGhostScaresSnackman: "audio/sfx/ghost_scares_snackman.mp3",
			CueChickenScared:       "audio/sfx/ghost_scares_chicken.mp3",
			CueGameEnd:             "audio/sfx/game_end.mp3",
		},
		VolumeMultipliers: map[CueID]float64{
			CueGameEnd: 1.5,
		},
	}
}
