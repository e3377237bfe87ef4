package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/automoto/snackman-client/catalogue"
	"github.com/automoto/snackman-client/config"
	"github.com/automoto/snackman-client/leaderboard"
	"github.com/automoto/snackman-client/logger"
	"github.com/automoto/snackman-client/network"
	"github.com/automoto/snackman-client/persistence"
	"github.com/automoto/snackman-client/replay"
	"github.com/automoto/snackman-client/scenes"
	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/automoto/snackman-client/systems"
	"github.com/automoto/snackman-client/visuals"
	"github.com/sirupsen/logrus"
)

type options struct {
	configPath  string
	envFile     string
	lobbyID     string
	playerID    string
	playerName  string
	role        string
	start       bool
	serverURL   string
	brokerURL   string
	assetsDir   string
	record      bool
	replayPath  string
	speed       float64
	leaderboard bool
	submit      bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "YAML config file")
	flag.StringVar(&o.envFile, "env", ".env", "dotenv file with SNACKMAN_* overrides")
	flag.StringVar(&o.lobbyID, "lobby", "", "Lobby to join (defaults to the last one joined)")
	flag.StringVar(&o.playerID, "player", "", "Player ID inside the lobby")
	flag.StringVar(&o.playerName, "name", "", "Display name, used to create a player when -player is empty")
	flag.StringVar(&o.role, "role", "", "Role to claim after joining: SNACKMAN or GHOST")
	flag.BoolVar(&o.start, "start", false, "Start the lobby's game after joining")
	flag.StringVar(&o.serverURL, "server", "", "REST API base URL")
	flag.StringVar(&o.brokerURL, "broker", "", "STOMP WebSocket URL")
	flag.StringVar(&o.assetsDir, "assets", "assets", "Directory holding model files")
	flag.BoolVar(&o.record, "record", false, "Record the session to the replay directory")
	flag.StringVar(&o.replayPath, "replay", "", "Play back a recorded session instead of connecting")
	flag.Float64Var(&o.speed, "speed", 1, "Replay speed, 0 releases every frame at once")
	flag.BoolVar(&o.leaderboard, "leaderboard", false, "Follow the global leaderboard")
	flag.BoolVar(&o.submit, "submit", false, "Post a leaderboard entry when the local player's role wins")
	flag.Parse()

	if err := loadConfig(o); err != nil {
		logger.Log.WithError(err).Fatal("[main] invalid configuration")
	}
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.WithError(err).Error("[main] session failed")
		os.Exit(1)
	}
}

func loadConfig(o options) error {
	if o.configPath != "" {
		if err := config.LoadFile(o.configPath); err != nil {
			return err
		}
	}
	if err := config.LoadEnv(o.envFile); err != nil {
		return err
	}
	return config.Current().Validate()
}

func run(ctx context.Context, o options) error {
	log := logger.For("main")

	store, err := persistence.Open(config.Persistence.AppName, config.Session.MaxResultHistory, logger.Log)
	if err != nil {
		log.WithError(err).Warn("[main] persistence disabled")
	}
	if store != nil {
		saved, err := store.LoadSettings()
		if err != nil {
			log.WithError(err).Warn("[main] ignoring saved settings")
		}
		persistence.ApplySettings(saved)
		if saved != nil {
			o.lobbyID = cmp.Or(o.lobbyID, saved.LastLobbyID)
			o.playerName = cmp.Or(o.playerName, saved.PlayerName)
		}
	}
	if o.serverURL != "" {
		config.Network.ServerURL = o.serverURL
	}
	if o.brokerURL != "" {
		config.Network.BrokerURL = o.brokerURL
	}
	if o.lobbyID == "" {
		return errors.New("-lobby is required")
	}
	joinRole, ok := netconfig.ParseRole(o.role)
	if !ok {
		return fmt.Errorf("-role %q: want SNACKMAN or GHOST", o.role)
	}

	var (
		source scenes.MapSource
		broker scenes.Broker
		api    *network.HTTPClient
		client *network.Client
	)
	if o.replayPath != "" {
		if o.playerID == "" {
			return errors.New("-player is required for replay")
		}
		player, err := replay.Open(o.replayPath, o.speed)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"file": o.replayPath, "frames": player.Frames()}).Info("[main] replaying")
		source, broker = player, player
	} else {
		api = network.NewHTTPClient(config.Network, logger.Log)
		if o.playerID == "" {
			if o.playerName == "" {
				return errors.New("-player or -name is required")
			}
			pc, err := api.Join(ctx, network.JoinSpec{LobbyID: o.lobbyID, Name: o.playerName, Role: joinRole, Start: o.start})
			if err != nil {
				return err
			}
			o.playerID = pc.PlayerID
			log.WithFields(logrus.Fields{"lobby": o.lobbyID, "player": o.playerID, "role": pc.Role}).Info("[main] joined lobby")
		}
		client = network.NewClient(config.Network, logger.Log)
		if err := client.Connect(ctx); err != nil {
			return err
		}
		defer client.Disconnect()
		source, broker = api, stompBroker(client)
	}

	if o.record {
		path := filepath.Join(config.Replay.Dir, replay.FileName(o.lobbyID, time.Now()))
		rec, err := replay.Create(path, config.Replay.Level)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.WithError(err).Warn("[main] recording not flushed")
				return
			}
			log.WithFields(logrus.Fields{"file": rec.Path(), "records": rec.Len()}).Info("[main] recording saved")
		}()
		source = replay.RecordingSource{Source: source, Recorder: rec, Log: logger.Log}
		broker = replay.RecordingBroker{Broker: broker, Recorder: rec, Log: logger.Log}
	}

	var board *leaderboard.Board
	if o.leaderboard && client != nil {
		board = followLeaderboard(ctx, api, client)
		defer func() {
			for i, e := range board.Top(5) {
				log.WithFields(logrus.Fields{"rank": i + 1, "name": e.Name, "duration": e.Duration}).Info("[main] leaderboard")
			}
		}()
	}

	loader := visuals.FileLoader{Root: o.assetsDir, Paths: visuals.DefaultModelPaths}
	models := visuals.NewModelCache(loader, logger.Log)
	models.Preload(ctx, loader.Keys()...)

	deps := scenes.Deps{
		Source:    source,
		Broker:    broker,
		Renderer:  visuals.NewHeadlessScene(ctx, models),
		Cues:      systems.LogCuePlayer{Log: logger.For("audio")},
		Navigator: scenes.NewRouter(logger.Log),
	}
	if store != nil {
		deps.Results = store
	}
	session, err := scenes.NewSession(deps, logger.Log)
	if err != nil {
		return err
	}
	session.Observe(func(c catalogue.Change) {
		logger.For("catalogue").WithFields(logrus.Fields{
			"kind":   c.Kind.String(),
			"id":     c.ID,
			"player": c.PlayerID,
		}).Debug("[catalogue] changed")
	})

	spec := scenes.StartSpec{LobbyID: o.lobbyID, PlayerID: o.playerID, PlayerName: o.playerName}
	if err := session.Start(ctx, spec); err != nil {
		return err
	}
	if store != nil {
		if err := store.SaveSettings(persistence.CurrentSettings(o.playerName, o.lobbyID)); err != nil {
			log.WithError(err).Warn("[main] settings not saved")
		}
	}
	role := session.Player().Role

	if err := session.Run(ctx, config.Session.TickRate); err != nil {
		return err
	}

	res, ok := session.LastResult()
	if ok && o.submit && api != nil && res.Role == role {
		entry := leaderboard.EntryFor(cmp.Or(o.playerName, o.playerID), res, time.Now())
		// the server echoes accepted entries on the leaderboard topic
		if err := api.PostLeaderboardEntry(ctx, entry); err != nil {
			log.WithError(err).Warn("[main] leaderboard entry rejected")
		}
	}
	return nil
}

// stompBroker adapts the STOMP client to the session's broker.
func stompBroker(c *network.Client) scenes.Broker {
	return scenes.BrokerFunc(func(topic string) (scenes.Feed, error) {
		sub, err := c.Subscribe(topic)
		if err != nil {
			return nil, err
		}
		return sub, nil
	})
}

func followLeaderboard(ctx context.Context, api *network.HTTPClient, client *network.Client) *leaderboard.Board {
	log := logger.For("main")

	var cache *leaderboard.Cache
	if path := config.Leaderboard.CachePath; path != "" {
		c, err := leaderboard.OpenCache(path)
		if err != nil {
			log.WithError(err).Warn("[main] leaderboard cache disabled")
		} else {
			cache = c
		}
	}

	board := leaderboard.NewBoard(cache, logger.Log)
	if err := board.Load(ctx, api); err != nil {
		log.WithError(err).Warn("[main] leaderboard unavailable")
	}
	sub, err := client.Subscribe(config.Network.LeaderboardTopic)
	if err != nil {
		log.WithError(err).Warn("[main] leaderboard topic unavailable")
		_ = board.Close()
		return board
	}
	go func() {
		defer func() {
			_ = sub.Close()
			if err := board.Close(); err != nil {
				log.WithError(err).Warn("[main] leaderboard cache not closed cleanly")
			}
		}()
		if err := board.Follow(ctx, sub, time.Second/time.Duration(max(config.Session.TickRate, 1))); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Warn("[main] leaderboard follow stopped")
		}
	}()
	return board
}
