package network

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

const defaultInboxSize = 256

// Subscription buffers the frames of one topic for the owner loop. Every frame
// is delivered in order; when the inbox is full the sender waits for the next
// drain. Frames that arrive after Close are discarded.
type Subscription struct {
	topic       string
	active      atomic.Bool
	inbox       chan []byte
	done        chan struct{}
	stalls      atomic.Int64
	closeOnce   sync.Once
	unsubscribe func() error
	log         logrus.FieldLogger
}

func newSubscription(topic string, size int, log logrus.FieldLogger) *Subscription {
	if size <= 0 {
		size = defaultInboxSize
	}
	s := &Subscription{
		topic: topic,
		inbox: make(chan []byte, size),
		done:  make(chan struct{}),
		log:   log,
	}
	s.active.Store(true)
	return s
}

func (s *Subscription) Topic() string { return s.topic }

// Active reports whether frames are still being delivered.
func (s *Subscription) Active() bool { return s.active.Load() }

// Stalls is the number of frames that had to wait for a full inbox.
func (s *Subscription) Stalls() int64 { return s.stalls.Load() }

// deliver queues frame for the owner loop, blocking while the inbox is full.
// It returns false once the subscription is closed.
func (s *Subscription) deliver(frame []byte) bool {
	if !s.active.Load() {
		return false
	}
	select {
	case s.inbox <- frame:
		return true
	default:
	}

	n := s.stalls.Add(1)
	s.log.WithFields(logrus.Fields{"topic": s.topic, "stalls": n}).Warn("[broker] inbox full, waiting for drain")
	select {
	case s.inbox <- frame:
		return true
	case <-s.done:
		return false
	}
}

// Drain returns all pending frames in arrival order, non-blocking. A closed
// subscription returns nothing.
func (s *Subscription) Drain() [][]byte {
	if !s.active.Load() {
		return nil
	}
	return drainChan(s.inbox)
}

// Close stops delivery before unsubscribing, so no frame is handed out after
// Close returns. Closing twice returns ErrSubscriptionClosed.
func (s *Subscription) Close() error {
	if !s.active.CompareAndSwap(true, false) {
		return ErrSubscriptionClosed
	}
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		drainChan(s.inbox)
		if s.unsubscribe != nil {
			err = s.unsubscribe()
		}
	})
	return err
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
