// Package replay records a session's bootstrap payloads and inbound frames to
// zstd-compressed JSONL, and plays recordings back through the same session
// controller.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Record kinds.
const (
	KindMap       = "map"
	KindPlayer    = "player"
	KindLobby     = "lobby"
	KindSubscribe = "subscribe"
	KindFrame     = "frame"
)

// Record is one line of a recording. At is milliseconds since the recording
// was created. Payloads that are not valid JSON are kept verbatim in Raw.
type Record struct {
	Kind  string          `json:"kind"`
	At    int64           `json:"at_ms"`
	Topic string          `json:"topic,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Raw   string          `json:"raw,omitempty"`
}

// Payload returns the recorded bytes.
func (rec Record) Payload() []byte {
	if rec.Data != nil {
		return rec.Data
	}
	if rec.Raw != "" {
		return []byte(rec.Raw)
	}
	return nil
}

// Recorder appends records to a compressed JSONL file. It is safe for
// concurrent use.
type Recorder struct {
	path  string
	start time.Time
	now   func() time.Time

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	n   int
}

// Create starts a new recording at path. level is the zstd encoder level
// from 1 (fastest) to 4 (best compression).
func Create(path string, level int) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	lvl := zstd.EncoderLevel(level)
	if lvl < zstd.SpeedFastest || lvl > zstd.SpeedBestCompression {
		lvl = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(lvl))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Recorder{
		path:  path,
		start: time.Now(),
		now:   time.Now,
		f:     f,
		enc:   enc,
		w:     bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// FileName is the default recording name for a lobby.
func FileName(lobbyID string, t time.Time) string {
	return fmt.Sprintf("session-%s-%s.jsonl.zst", lobbyID, t.UTC().Format("2006-01-02-150405"))
}

func (r *Recorder) Path() string { return r.path }

// Len is the number of records written.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Write records v, which is marshalled to JSON unless it already is raw JSON.
func (r *Recorder) Write(kind, topic string, v any) error {
	var data json.RawMessage
	switch x := v.(type) {
	case nil:
	case json.RawMessage:
		data = x
	case []byte:
		data = json.RawMessage(x)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s record: %w", kind, err)
		}
		data = b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return os.ErrClosed
	}

	rec := Record{
		Kind:  kind,
		At:    r.now().Sub(r.start).Milliseconds(),
		Topic: topic,
		Data:  data,
	}
	if data != nil && !json.Valid(data) {
		rec.Data, rec.Raw = nil, string(data)
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(line); err != nil {
		return err
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return err
	}
	r.n++
	return nil
}

// Close flushes and closes the recording.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.w != nil {
		err = r.w.Flush()
		r.w = nil
	}
	if r.enc != nil {
		if cerr := r.enc.Close(); err == nil {
			err = cerr
		}
		r.enc = nil
	}
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
		r.f = nil
	}
	return err
}
