package scenes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/automoto/snackman-client/catalogue"
	cfg "github.com/automoto/snackman-client/config"
	"github.com/automoto/snackman-client/shared/messages"
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/automoto/snackman-client/shared/protocol"
	"github.com/automoto/snackman-client/systems"
	"github.com/automoto/snackman-client/visuals"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"golang.org/x/sync/errgroup"
)

var ErrSessionActive = errors.New("session already active")

type State int

const (
	StateIdle State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// Deps are the collaborators a session talks to. Results may be nil.
type Deps struct {
	Source    MapSource
	Broker    Broker
	Renderer  visuals.Renderer
	Cues      systems.CuePlayer
	Navigator Navigator
	Results   ResultStore
}

// StartSpec names the game to join.
type StartSpec struct {
	LobbyID    string
	PlayerID   string
	PlayerName string
}

// Session owns the catalogue and registry of one running game and moves
// between Idle and Active. All methods must be called from the owner
// goroutine.
type Session struct {
	state State
	deps  Deps

	world    donburi.World
	cat      *catalogue.Catalogue
	reg      *visuals.Registry
	cues     systems.CueQueue
	rec      *systems.Reconciler
	smoother *systems.Smoother
	decoder  *protocol.Decoder
	feed     Feed

	player  messages.PlayerClient
	lastEnd *messages.GameEnd

	topicFormat string
	smoothing   cfg.SmoothingConfig
	log         logrus.FieldLogger
}

func NewSession(deps Deps, log logrus.FieldLogger) (*Session, error) {
	decoder, err := protocol.NewDecoder(cfg.Protocol.StrictSchema)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	log = log.WithField("component", "session")
	reg := visuals.NewRegistry(deps.Renderer, log)
	return &Session{
		state:       StateIdle,
		deps:        deps,
		world:       donburi.NewWorld(),
		reg:         reg,
		smoother:    systems.NewSmoother(cfg.Smoothing, reg),
		decoder:     decoder,
		topicFormat: cfg.Network.LobbyTopicFormat,
		smoothing:   cfg.Smoothing,
		log:         log,
	}, nil
}

func (s *Session) State() State { return s.state }

// Catalogue is the live catalogue, nil while idle.
func (s *Session) Catalogue() *catalogue.Catalogue { return s.cat }

func (s *Session) Registry() *visuals.Registry { return s.reg }

// Player is the local player's lobby identity. Its role and joined lobby are
// reset when a session ends.
func (s *Session) Player() messages.PlayerClient { return s.player }

// LastResult is the outcome of the most recently ended game.
func (s *Session) LastResult() (messages.GameEnd, bool) {
	if s.lastEnd == nil {
		return messages.GameEnd{}, false
	}
	return *s.lastEnd, true
}

// Observe registers fn for catalogue changes. Changes are delivered at the
// end of every Update.
func (s *Session) Observe(fn func(catalogue.Change)) {
	catalogue.Observe(s.world, fn)
}

// Start fetches the game, builds the catalogue and its visuals, and opens the
// lobby subscription. On any failure everything built so far is torn down
// and the session stays idle.
func (s *Session) Start(ctx context.Context, spec StartSpec) error {
	if s.state == StateActive {
		return ErrSessionActive
	}
	log := s.log.WithFields(logrus.Fields{"lobby": spec.LobbyID, "player": spec.PlayerID})

	var (
		gm    messages.GameMap
		local messages.Player
		lobby messages.Lobby
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		gm, err = s.deps.Source.FetchGameMap(gctx, spec.LobbyID)
		if err != nil {
			return fmt.Errorf("fetch game map: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		local, err = s.deps.Source.FetchPlayer(gctx, spec.LobbyID, spec.PlayerID)
		if err != nil {
			return fmt.Errorf("fetch player: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		lobby, err = s.deps.Source.FetchLobby(gctx, spec.LobbyID)
		if err != nil {
			return fmt.Errorf("fetch lobby: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("[session] bootstrap failed")
		s.rollback()
		return fmt.Errorf("start session %s: %w", spec.LobbyID, err)
	}

	s.player = messages.PlayerClient{
		PlayerID:      spec.PlayerID,
		PlayerName:    spec.PlayerName,
		JoinedLobbyID: spec.LobbyID,
		Role:          netconfig.RoleUndefined.String(),
	}
	for _, m := range lobby.Members {
		if m.PlayerID == spec.PlayerID {
			s.player.Role = m.Role
			if s.player.PlayerName == "" {
				s.player.PlayerName = m.PlayerName
			}
		}
	}

	if s.cat != nil {
		s.cat.Clear()
	}
	s.cat = systems.BuildCatalogue(s.world, systems.Bootstrap{
		Map:           gm,
		LocalPlayerID: spec.PlayerID,
		Local:         &local,
		Members:       lobby.Members,
	}, s.log)
	s.rec = systems.NewReconciler(s.cat, s.reg, &s.cues, s.smoothing, s.log)

	if err := systems.PopulateVisuals(s.cat, s.reg); err != nil {
		log.WithError(err).Warn("[session] visual population failed")
		s.rollback()
		return fmt.Errorf("start session %s: %w", spec.LobbyID, err)
	}

	topic := fmt.Sprintf(s.topicFormat, spec.LobbyID)
	feed, err := s.deps.Broker.Subscribe(topic)
	if err != nil {
		log.WithError(err).Warn("[session] subscribe failed")
		s.rollback()
		return fmt.Errorf("start session %s: subscribe %s: %w", spec.LobbyID, topic, err)
	}
	s.feed = feed
	s.state = StateActive
	s.lastEnd = nil

	catalogue.Notify(s.world, catalogue.Change{Kind: catalogue.ChangeLoaded})
	catalogue.Flush(s.world)

	log.WithFields(logrus.Fields{
		"topic":   topic,
		"visuals": s.reg.Len(),
		"role":    s.player.Role,
	}).Info("[session] started")
	return nil
}

// Update drains received frames and applies them in order, then advances
// smoothing, plays queued cues and delivers change notifications. It does
// nothing while idle.
func (s *Session) Update(dt float64) {
	if s.state != StateActive {
		return
	}

	for _, frame := range s.feed.Drain() {
		batch, err := s.decoder.Decode(frame)
		if err != nil {
			s.log.WithError(err).Warn("[session] frame dropped")
			continue
		}
		for _, skipped := range batch.Skipped {
			s.log.WithError(skipped).Warn("[session] envelope skipped")
		}
		if end, ok := s.rec.ApplyAll(batch.Events); ok {
			s.end(*end)
			return
		}
	}

	s.smoother.Update(s.cat, dt)
	s.cues.Flush(s.deps.Cues)
	catalogue.Flush(s.world)
}

// end runs the game-end transition in one step. Frames and events not yet
// applied are discarded.
func (s *Session) end(ev protocol.SessionEnded) {
	s.teardown()

	result := messages.GameEnd{
		Role:          ev.RoleCode,
		TimePlayed:    ev.TimePlayed,
		KcalCollected: ev.KcalCollected,
		LobbyID:       ev.LobbyID,
	}
	s.lastEnd = &result

	if s.deps.Navigator != nil {
		s.deps.Navigator.NavigateTo(ViewGameEnd, map[string]string{
			"winningRole":   ev.RoleCode,
			"timePlayed":    strconv.FormatInt(ev.TimePlayed, 10),
			"kcalCollected": strconv.Itoa(ev.KcalCollected),
			"lobbyId":       ev.LobbyID,
		})
	}

	s.cues.Push(cfg.CueGameEnd)
	s.cues.Flush(s.deps.Cues)

	if s.deps.Results != nil {
		if err := s.deps.Results.AppendResult(result); err != nil {
			s.log.WithError(err).Warn("[session] result not saved")
		}
	}

	s.log.WithFields(logrus.Fields{
		"winner":     ev.RoleCode,
		"timePlayed": ev.TimePlayed,
		"kcal":       ev.KcalCollected,
	}).Info("[session] game ended")
}

// Stop aborts an active session without navigating anywhere.
func (s *Session) Stop() {
	if s.state != StateActive {
		return
	}
	s.teardown()
	s.cues.Reset()
	s.log.Info("[session] stopped")
}

// teardown closes the subscription first so nothing is applied to the
// catalogue while it is being cleared.
func (s *Session) teardown() {
	if s.feed != nil {
		if err := s.feed.Close(); err != nil {
			s.log.WithError(err).Debug("[session] feed close")
		}
		s.feed = nil
	}
	s.state = StateIdle

	if s.cat != nil {
		s.cat.Clear()
		s.cat = nil
	}
	s.rec = nil
	removed := s.reg.RemoveAll()
	s.player.Role = netconfig.RoleUndefined.String()
	s.player.JoinedLobbyID = ""

	catalogue.Notify(s.world, catalogue.Change{Kind: catalogue.ChangeCleared})
	catalogue.Flush(s.world)
	s.log.WithField("visuals", removed).Debug("[session] torn down")
}

func (s *Session) rollback() {
	if s.cat != nil {
		s.cat.Clear()
		s.cat = nil
	}
	s.rec = nil
	s.reg.RemoveAll()
	s.cues.Reset()
	s.state = StateIdle
}

// Run calls Update tickRate times per second until ctx is done or the
// session goes idle. An active session is stopped when ctx is done.
func (s *Session) Run(ctx context.Context, tickRate int) error {
	if tickRate <= 0 {
		tickRate = cfg.Session.TickRate
	}
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case <-ticker.C:
			s.Update(dt)
			if s.state != StateActive {
				return nil
			}
		}
	}
}
