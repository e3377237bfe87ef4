// Package persistence stores local settings and finished game results with
// gdata.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	cfg "github.com/automoto/snackman-client/config"
	"github.com/automoto/snackman-client/shared/messages"
	"github.com/quasilyte/gdata"
	"github.com/sirupsen/logrus"
)

const (
	settingsKey = "settings"
	resultsKey  = "results"
)

// itemStore is the subset of *gdata.Manager used here.
type itemStore interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// SavedSettings represents the settings data stored on disk
type SavedSettings struct {
	PlayerName      string  `json:"playerName"`
	ServerURL       string  `json:"serverUrl"`
	BrokerURL       string  `json:"brokerUrl"`
	LastLobbyID     string  `json:"lastLobbyId"`
	CharacterMotion string  `json:"characterMotion"`
	AudioEnabled    bool    `json:"audioEnabled"`
	CueVolume       float64 `json:"cueVolume"`
}

// SavedResult is one finished game.
type SavedResult struct {
	messages.GameEnd
	FinishedAt time.Time `json:"finishedAt"`
}

// Store persists settings and a bounded result history.
type Store struct {
	m          itemStore
	maxResults int
	now        func() time.Time
	log        logrus.FieldLogger
}

// Open opens the gdata store for appName.
func Open(appName string, maxResults int, log logrus.FieldLogger) (*Store, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open persistence: %w", err)
	}
	return newStore(m, maxResults, log), nil
}

func newStore(m itemStore, maxResults int, log logrus.FieldLogger) *Store {
	if maxResults <= 0 {
		maxResults = 1
	}
	return &Store{
		m:          m,
		maxResults: maxResults,
		now:        time.Now,
		log:        log.WithField("component", "persistence"),
	}
}

// LoadSettings loads settings from disk. It returns nil when nothing has been
// saved yet.
func (s *Store) LoadSettings() (*SavedSettings, error) {
	data, err := s.m.LoadItem(settingsKey)
	if err != nil {
		s.log.WithError(err).Warn("[persistence] could not load settings")
		return nil, nil
	}
	if len(data) == 0 {
		return nil, nil
	}

	var settings SavedSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		s.log.WithError(err).Warn("[persistence] could not parse saved settings")
		return nil, err
	}
	return &settings, nil
}

// SaveSettings saves settings to disk
func (s *Store) SaveSettings(settings *SavedSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.m.SaveItem(settingsKey, data); err != nil {
		s.log.WithError(err).Warn("[persistence] could not save settings")
		return err
	}
	return nil
}

// CurrentSettings captures the settings currently in effect.
func CurrentSettings(playerName, lobbyID string) *SavedSettings {
	return &SavedSettings{
		PlayerName:      playerName,
		ServerURL:       cfg.Network.ServerURL,
		BrokerURL:       cfg.Network.BrokerURL,
		LastLobbyID:     lobbyID,
		CharacterMotion: cfg.Smoothing.CharacterMotion,
		AudioEnabled:    cfg.Audio.Enabled,
		CueVolume:       cfg.Audio.DefaultCueVol,
	}
}

// ApplySettings copies saved values over the config globals. Empty fields
// leave the current value alone.
func ApplySettings(saved *SavedSettings) {
	if saved == nil {
		return
	}
	if saved.ServerURL != "" {
		cfg.Network.ServerURL = saved.ServerURL
	}
	if saved.BrokerURL != "" {
		cfg.Network.BrokerURL = saved.BrokerURL
	}
	if saved.CharacterMotion == cfg.MotionSnap || saved.CharacterMotion == cfg.MotionTween {
		cfg.Smoothing.CharacterMotion = saved.CharacterMotion
	}
	cfg.Audio.Enabled = saved.AudioEnabled
	if saved.CueVolume > 0 {
		cfg.Audio.DefaultCueVol = saved.CueVolume
	}
}

// Results returns the stored history, oldest first.
func (s *Store) Results() ([]SavedResult, error) {
	data, err := s.m.LoadItem(resultsKey)
	if err != nil {
		s.log.WithError(err).Debug("[persistence] no result history")
		return nil, nil
	}
	if len(data) == 0 {
		return nil, nil
	}
	var out []SavedResult
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse result history: %w", err)
	}
	return out, nil
}

// AppendResult adds a finished game to the history, dropping the oldest
// entries beyond the configured maximum.
func (s *Store) AppendResult(end messages.GameEnd) error {
	history, err := s.Results()
	if err != nil {
		s.log.WithError(err).Warn("[persistence] discarding unreadable result history")
		history = nil
	}
	history = append(history, SavedResult{GameEnd: end, FinishedAt: s.now().UTC()})
	if over := len(history) - s.maxResults; over > 0 {
		history = history[over:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode result history: %w", err)
	}
	if err := s.m.SaveItem(resultsKey, data); err != nil {
		return fmt.Errorf("save result history: %w", err)
	}
	s.log.WithFields(logrus.Fields{"lobby": end.LobbyID, "kept": len(history)}).Debug("[persistence] result saved")
	return nil
}

// ClearResults removes the stored history.
func (s *Store) ClearResults() error {
	return s.m.SaveItem(resultsKey, nil)
}
