package config

import "time"

// NetworkConfig contains server endpoints and transport settings
type NetworkConfig struct {
	ServerURL        string        `yaml:"server_url"`         // base URL for the REST API
	BrokerURL        string        `yaml:"broker_url"`         // WebSocket URL of the STOMP broker
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`      // per request timeout for REST calls
	DialTimeout      time.Duration `yaml:"dial_timeout"`       // WebSocket handshake timeout
	LobbyTopicFormat string        `yaml:"lobby_topic_format"` // printf format taking the lobby id
	LeaderboardTopic string        `yaml:"leaderboard_topic"`
	InboxSize        int           `yaml:"inbox_size"` // buffered frames per subscription
}

// SmoothingConfig contains motion smoothing values
type SmoothingConfig struct {
	Alpha              float64 `yaml:"alpha"`                // fraction of the remaining distance covered per tick (0.0-1.0)
	GroundThreshold    float64 `yaml:"ground_threshold"`     // local player height at or below which jump flags clear
	RemoteHeightOffset float64 `yaml:"remote_height_offset"` // subtracted from remote player heights
	CharacterMotion    string  `yaml:"character_motion"`     // "snap" or "tween"
	TweenDuration      float64 `yaml:"tween_duration"`       // seconds per character tween
}

// Character motion modes
const (
	MotionSnap  = "snap"
	MotionTween = "tween"
)

// SessionConfig contains session loop configuration
type SessionConfig struct {
	TickRate         int `yaml:"tick_rate"`          // updates per second in Run
	MaxResultHistory int `yaml:"max_result_history"` // finished games kept on disk
}

// ProtocolConfig contains wire decoding options
type ProtocolConfig struct {
	StrictSchema bool `yaml:"strict_schema"` // validate every frame against the batch schema
}

// LogConfig contains logger configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// ReplayConfig contains recording configuration
type ReplayConfig struct {
	Dir   string `yaml:"dir"`
	Level int    `yaml:"level"` // zstd encoder level, 1-4
}

// LeaderboardConfig contains leaderboard feed configuration
type LeaderboardConfig struct {
	CachePath string `yaml:"cache_path"` // SQLite file, empty disables the offline cache
}

// PersistenceConfig contains local storage configuration
type PersistenceConfig struct {
	AppName string `yaml:"app_name"`
}

// Global configuration instances
var Network NetworkConfig
var Smoothing SmoothingConfig
var Session SessionConfig
var Protocol ProtocolConfig
var Log LogConfig
var Replay ReplayConfig
var Leaderboard LeaderboardConfig
var Persistence PersistenceConfig

func init() {
	Network = NetworkConfig{
		ServerURL:        "http://localhost:8080",
		BrokerURL:        "ws://localhost:8080/ws",
		FetchTimeout:     5 * time.Second,
		DialTimeout:      5 * time.Second,
		LobbyTopicFormat: "/topic/lobbies/%s/update",
		LeaderboardTopic: "/topic/leaderboard",
		InboxSize:        256,
	}

	Smoothing = SmoothingConfig{
		Alpha:              0.1,
		GroundThreshold:    2.0,
		RemoteHeightOffset: 2.0,
		CharacterMotion:    MotionSnap,
		TweenDuration:      0.25,
	}

	Session = SessionConfig{
		TickRate:         60,
		MaxResultHistory: 20,
	}

	Protocol = ProtocolConfig{
		StrictSchema: false,
	}

	Log = LogConfig{
		Level:  "info",
		Format: "text",
	}

	Replay = ReplayConfig{
		Dir:   "replays",
		Level: 2,
	}

	Leaderboard = LeaderboardConfig{
		CachePath: "leaderboard.db",
	}

	Persistence = PersistenceConfig{
		AppName: "snackman_client",
	}
}
