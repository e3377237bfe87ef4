package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a config file. Sections or keys left out keep
// their current values.
type File struct {
	Network     NetworkConfig     `yaml:"network"`
	Smoothing   SmoothingConfig   `yaml:"smoothing"`
	Session     SessionConfig     `yaml:"session"`
	Protocol    ProtocolConfig    `yaml:"protocol"`
	Log         LogConfig         `yaml:"log"`
	Audio       AudioConfig       `yaml:"audio"`
	Replay      ReplayConfig      `yaml:"replay"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Persistence PersistenceConfig `yaml:"persistence"`
}

// Current returns the active configuration as a File.
func Current() File {
	return File{
		Network:     Network,
		Smoothing:   Smoothing,
		Session:     Session,
		Protocol:    Protocol,
		Log:         Log,
		Audio:       Audio,
		Replay:      Replay,
		Leaderboard: Leaderboard,
		Persistence: Persistence,
	}
}

// Apply makes f the active configuration.
func Apply(f File) {
	Network = f.Network
	Smoothing = f.Smoothing
	Session = f.Session
	Protocol = f.Protocol
	Log = f.Log
	Audio = f.Audio
	Replay = f.Replay
	Leaderboard = f.Leaderboard
	Persistence = f.Persistence
}

// LoadFile overlays the YAML file at path onto the active configuration.
func LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f := Current()
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	Apply(f)
	return nil
}

// LoadEnv loads the given .env files (".env" when none are given) and applies
// SNACKMAN_* and LOG_* overrides. Missing .env files are not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, name := range files {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}

	f := Current()
	overrideString(&f.Network.ServerURL, "SNACKMAN_SERVER_URL")
	overrideString(&f.Network.BrokerURL, "SNACKMAN_BROKER_URL")
	if err := overrideDuration(&f.Network.FetchTimeout, "SNACKMAN_FETCH_TIMEOUT"); err != nil {
		return err
	}
	if err := overrideFloat(&f.Smoothing.Alpha, "SNACKMAN_SMOOTHING_ALPHA"); err != nil {
		return err
	}
	overrideString(&f.Smoothing.CharacterMotion, "SNACKMAN_CHARACTER_MOTION")
	if err := overrideInt(&f.Session.TickRate, "SNACKMAN_TICK_RATE"); err != nil {
		return err
	}
	if err := overrideBool(&f.Protocol.StrictSchema, "SNACKMAN_STRICT_SCHEMA"); err != nil {
		return err
	}
	overrideString(&f.Replay.Dir, "SNACKMAN_REPLAY_DIR")
	overrideString(&f.Leaderboard.CachePath, "SNACKMAN_LEADERBOARD_CACHE")
	overrideString(&f.Log.Level, "LOG_LEVEL")
	overrideString(&f.Log.Format, "LOG_FORMAT")

	if err := f.Validate(); err != nil {
		return err
	}
	Apply(f)
	return nil
}

// Validate checks values that would make the client misbehave.
func (f File) Validate() error {
	if f.Smoothing.Alpha <= 0 || f.Smoothing.Alpha > 1 {
		return fmt.Errorf("smoothing alpha %v out of range (0, 1]", f.Smoothing.Alpha)
	}
	switch f.Smoothing.CharacterMotion {
	case MotionSnap, MotionTween:
	default:
		return fmt.Errorf("unknown character motion %q", f.Smoothing.CharacterMotion)
	}
	if f.Smoothing.CharacterMotion == MotionTween && f.Smoothing.TweenDuration <= 0 {
		return fmt.Errorf("tween duration must be positive")
	}
	if f.Session.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive")
	}
	if f.Network.InboxSize <= 0 {
		return fmt.Errorf("inbox size must be positive")
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overrideFloat(dst *float64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func overrideInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func overrideBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func overrideDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = parsed
	return nil
}
