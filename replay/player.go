package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/automoto/snackman-client/scenes"
	"github.com/automoto/snackman-client/shared/messages"
	"github.com/klauspost/compress/zstd"
)

var ErrNotRecorded = errors.New("payload not in recording")

// ReadAll decodes every record of a recording.
func ReadAll(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var out []Record
	for sc.Scan() {
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", filepath.Base(path), len(out)+1, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Player serves a recording as both the map source and the broker of a
// session. Frames are released on the recorded schedule scaled by Speed;
// Speed 0 releases all of them on the first drain.
type Player struct {
	Speed float64

	gameMap *messages.GameMap
	player  *messages.Player
	lobby   *messages.Lobby
	frames  []Record
	subAt   int64
	now     func() time.Time
}

// Open loads a recording for playback.
func Open(path string, speed float64) (*Player, error) {
	recs, err := ReadAll(path)
	if err != nil {
		return nil, err
	}
	return NewPlayer(recs, speed)
}

func NewPlayer(recs []Record, speed float64) (*Player, error) {
	p := &Player{Speed: speed, now: time.Now}
	subscribed := false
	for _, rec := range recs {
		var err error
		switch rec.Kind {
		case KindMap:
			p.gameMap = &messages.GameMap{}
			err = json.Unmarshal(rec.Data, p.gameMap)
		case KindPlayer:
			p.player = &messages.Player{}
			err = json.Unmarshal(rec.Data, p.player)
		case KindLobby:
			p.lobby = &messages.Lobby{}
			err = json.Unmarshal(rec.Data, p.lobby)
		case KindSubscribe:
			if !subscribed {
				p.subAt = rec.At
				subscribed = true
			}
		case KindFrame:
			p.frames = append(p.frames, rec)
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s record: %w", rec.Kind, err)
		}
	}
	if p.gameMap == nil {
		return nil, fmt.Errorf("recording has no game map: %w", ErrNotRecorded)
	}
	return p, nil
}

// Frames is the number of recorded frames.
func (p *Player) Frames() int { return len(p.frames) }

func (p *Player) FetchGameMap(ctx context.Context, _ string) (messages.GameMap, error) {
	if err := ctx.Err(); err != nil {
		return messages.GameMap{}, err
	}
	return *p.gameMap, nil
}

func (p *Player) FetchPlayer(ctx context.Context, _, _ string) (messages.Player, error) {
	if err := ctx.Err(); err != nil {
		return messages.Player{}, err
	}
	if p.player == nil {
		return messages.Player{}, fmt.Errorf("player: %w", ErrNotRecorded)
	}
	return *p.player, nil
}

func (p *Player) FetchLobby(ctx context.Context, lobbyID string) (messages.Lobby, error) {
	if err := ctx.Err(); err != nil {
		return messages.Lobby{}, err
	}
	if p.lobby == nil {
		return messages.Lobby{LobbyID: lobbyID}, nil
	}
	return *p.lobby, nil
}

// Subscribe returns a feed over the recorded frames of topic. Frames recorded
// on other topics are left out.
func (p *Player) Subscribe(topic string) (scenes.Feed, error) {
	var frames []Record
	for _, rec := range p.frames {
		if rec.Topic == "" || rec.Topic == topic {
			frames = append(frames, rec)
		}
	}
	return &Feed{
		frames: frames,
		subAt:  p.subAt,
		speed:  p.Speed,
		start:  p.now(),
		now:    p.now,
	}, nil
}

// Feed releases recorded frames as their time comes.
type Feed struct {
	mu     sync.Mutex
	frames []Record
	next   int
	subAt  int64
	speed  float64
	start  time.Time
	now    func() time.Time
	closed bool
}

func (f *Feed) Drain() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}

	limit := int64(-1)
	if f.speed > 0 {
		elapsed := float64(f.now().Sub(f.start).Milliseconds()) * f.speed
		limit = f.subAt + int64(elapsed)
	}

	var out [][]byte
	for f.next < len(f.frames) {
		rec := f.frames[f.next]
		if limit >= 0 && rec.At > limit {
			break
		}
		out = append(out, rec.Payload())
		f.next++
	}
	return out
}

// Done reports whether every frame has been released.
func (f *Feed) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next >= len(f.frames)
}

func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
