package network

import (
	"context"
	"errors"
	"fmt"
	"sync"

	cfg "github.com/automoto/snackman-client/config"
	"github.com/coder/websocket"
	"github.com/go-stomp/stomp/v3"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotConnected       = errors.New("not connected to broker")
	ErrSubscriptionClosed = errors.New("subscription closed")
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Client is a STOMP client speaking to the game server's broker over a
// WebSocket. All shared fields are protected by mu; subscription pumps run on
// their own goroutines and only ever touch their subscription's inbox.
type Client struct {
	mu sync.RWMutex

	state     ClientState
	lastError error
	ws        *websocket.Conn
	stomp     *stomp.Conn
	cancel    context.CancelFunc
	subs      map[*Subscription]struct{}

	brokerURL string
	cfg       cfg.NetworkConfig
	log       logrus.FieldLogger
}

func NewClient(c cfg.NetworkConfig, log logrus.FieldLogger) *Client {
	return &Client{
		state:     StateDisconnected,
		subs:      make(map[*Subscription]struct{}),
		brokerURL: c.BrokerURL,
		cfg:       c,
		log:       log.WithField("component", "broker"),
	}
}

// Connect dials the broker and completes the STOMP handshake. It blocks until
// connected, ctx is done, or DialTimeout passes.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnected {
		c.mu.Unlock()
		return nil
	}
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	dialCtx := ctx
	if c.cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.cfg.DialTimeout)
		defer cancel()
	}

	ws, _, err := websocket.Dial(dialCtx, c.brokerURL, &websocket.DialOptions{
		Subprotocols: []string{"v12.stomp", "v11.stomp", "v10.stomp"},
	})
	if err != nil {
		err = fmt.Errorf("dial %s: %w", c.brokerURL, err)
		c.setError(err)
		return err
	}
	ws.SetReadLimit(-1)

	// The net.Conn lives until Disconnect cancels connCtx.
	connCtx, cancel := context.WithCancel(context.Background())
	conn, err := stomp.Connect(websocket.NetConn(connCtx, ws, websocket.MessageText),
		stomp.ConnOpt.HeartBeat(0, 0),
		stomp.ConnOpt.Host("/"),
	)
	if err != nil {
		cancel()
		_ = ws.CloseNow()
		err = fmt.Errorf("stomp handshake: %w", err)
		c.setError(err)
		return err
	}

	c.mu.Lock()
	c.ws = ws
	c.stomp = conn
	c.cancel = cancel
	c.state = StateConnected
	c.mu.Unlock()

	c.log.WithField("url", c.brokerURL).Info("[broker] connected")
	return nil
}

// Disconnect closes every open subscription and the connection.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.stomp
	ws := c.ws
	cancel := c.cancel
	subs := c.subs
	c.subs = make(map[*Subscription]struct{})
	c.stomp = nil
	c.ws = nil
	c.cancel = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	for s := range subs {
		_ = s.Close()
	}
	if conn != nil {
		if err := conn.Disconnect(); err != nil {
			c.log.WithError(err).Debug("[broker] disconnect")
		}
	}
	if cancel != nil {
		cancel()
	}
	if ws != nil {
		_ = ws.CloseNow()
	}
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Subscribe opens a subscription on topic. Frames received on it are buffered
// until the owner drains them.
func (c *Client) Subscribe(topic string) (*Subscription, error) {
	c.mu.RLock()
	conn := c.stomp
	c.mu.RUnlock()
	if conn == nil {
		return nil, ErrNotConnected
	}

	ss, err := conn.Subscribe(topic, stomp.AckAuto)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	s := newSubscription(topic, c.cfg.InboxSize, c.log)
	s.unsubscribe = func() error {
		c.mu.Lock()
		delete(c.subs, s)
		c.mu.Unlock()
		if !ss.Active() {
			return nil
		}
		return ss.Unsubscribe()
	}

	c.mu.Lock()
	c.subs[s] = struct{}{}
	c.mu.Unlock()

	go c.pump(s, ss)

	c.log.WithField("topic", topic).Info("[broker] subscribed")
	return s, nil
}

// Publish sends body to destination as JSON.
func (c *Client) Publish(destination string, body []byte) error {
	c.mu.RLock()
	conn := c.stomp
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}
	if err := conn.Send(destination, "application/json", body); err != nil {
		return fmt.Errorf("send %s: %w", destination, err)
	}
	return nil
}

func (c *Client) pump(s *Subscription, ss *stomp.Subscription) {
	for msg := range ss.C {
		if msg.Err != nil {
			if s.Active() {
				c.log.WithError(msg.Err).WithField("topic", s.topic).Warn("[broker] subscription error")
				c.setError(msg.Err)
			}
			return
		}
		s.deliver(msg.Body)
	}
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}
