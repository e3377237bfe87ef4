package scenes

import (
	"context"

	"github.com/automoto/snackman-client/shared/messages"
)

// MapSource provides the payloads a session is built from.
type MapSource interface {
	FetchGameMap(ctx context.Context, lobbyID string) (messages.GameMap, error)
	FetchPlayer(ctx context.Context, lobbyID, playerID string) (messages.Player, error)
	FetchLobby(ctx context.Context, lobbyID string) (messages.Lobby, error)
}

// Feed is an open subscription. Drain returns the frames received since the
// last call; after Close it returns nothing.
type Feed interface {
	Drain() [][]byte
	Close() error
}

// Broker opens subscriptions on topics.
type Broker interface {
	Subscribe(topic string) (Feed, error)
}

// BrokerFunc adapts a function to Broker.
type BrokerFunc func(topic string) (Feed, error)

func (f BrokerFunc) Subscribe(topic string) (Feed, error) { return f(topic) }

// Navigator switches the visible view.
type Navigator interface {
	NavigateTo(view string, params map[string]string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(view string, params map[string]string)

func (f NavigatorFunc) NavigateTo(view string, params map[string]string) { f(view, params) }

// ResultStore keeps finished game results.
type ResultStore interface {
	AppendResult(end messages.GameEnd) error
}

// Views the session navigates to.
const (
	ViewGameEnd = "GameEnd"
)
