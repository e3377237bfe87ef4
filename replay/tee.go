package replay

import (
	"context"

	"github.com/automoto/snackman-client/scenes"
	"github.com/automoto/snackman-client/shared/messages"
	"github.com/sirupsen/logrus"
)

// RecordingSource records every payload fetched through Source.
type RecordingSource struct {
	Source   scenes.MapSource
	Recorder *Recorder
	Log      logrus.FieldLogger
}

func (s RecordingSource) FetchGameMap(ctx context.Context, lobbyID string) (messages.GameMap, error) {
	gm, err := s.Source.FetchGameMap(ctx, lobbyID)
	if err == nil {
		s.record(KindMap, gm)
	}
	return gm, err
}

func (s RecordingSource) FetchPlayer(ctx context.Context, lobbyID, playerID string) (messages.Player, error) {
	p, err := s.Source.FetchPlayer(ctx, lobbyID, playerID)
	if err == nil {
		s.record(KindPlayer, p)
	}
	return p, err
}

func (s RecordingSource) FetchLobby(ctx context.Context, lobbyID string) (messages.Lobby, error) {
	l, err := s.Source.FetchLobby(ctx, lobbyID)
	if err == nil {
		s.record(KindLobby, l)
	}
	return l, err
}

func (s RecordingSource) record(kind string, v any) {
	if err := s.Recorder.Write(kind, "", v); err != nil && s.Log != nil {
		s.Log.WithError(err).WithField("kind", kind).Warn("[replay] record failed")
	}
}

// RecordingBroker records subscriptions opened through Broker and every frame
// drained from them.
type RecordingBroker struct {
	Broker   scenes.Broker
	Recorder *Recorder
	Log      logrus.FieldLogger
}

func (b RecordingBroker) Subscribe(topic string) (scenes.Feed, error) {
	feed, err := b.Broker.Subscribe(topic)
	if err != nil {
		return nil, err
	}
	if err := b.Recorder.Write(KindSubscribe, topic, nil); err != nil && b.Log != nil {
		b.Log.WithError(err).Warn("[replay] record failed")
	}
	return &recordingFeed{Feed: feed, topic: topic, b: b}, nil
}

type recordingFeed struct {
	scenes.Feed
	topic string
	b     RecordingBroker
}

func (f *recordingFeed) Drain() [][]byte {
	frames := f.Feed.Drain()
	for _, frame := range frames {
		if err := f.b.Recorder.Write(KindFrame, f.topic, frame); err != nil && f.b.Log != nil {
			f.b.Log.WithError(err).Warn("[replay] record failed")
		}
	}
	return frames
}
