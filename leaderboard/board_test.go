package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/automoto/snackman-client/logger"
	"github.com/automoto/snackman-client/shared/messages"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type fakeSource struct {
	board messages.Leaderboard
	err   error
}

func (f fakeSource) FetchLeaderboard(context.Context) (messages.Leaderboard, error) {
	return f.board, f.err
}

type fakeFeed struct{ frames [][]byte }

func (f *fakeFeed) Drain() [][]byte {
	out := f.frames
	f.frames = nil
	return out
}

func entry(name, duration, date string) messages.LeaderboardEntry {
	return messages.LeaderboardEntry{Name: name, Duration: duration, ReleaseDate: date}
}

func names(entries []messages.LeaderboardEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func equalNames(t *testing.T, got []messages.LeaderboardEntry, want ...string) {
	t.Helper()
	g := names(got)
	if len(g) != len(want) {
		t.Fatalf("names = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("names = %v, want %v", g, want)
		}
	}
}

func TestLoadSortsEntries(t *testing.T) {
	b := NewBoard(nil, logger.Discard())
	err := b.Load(context.Background(), fakeSource{board: messages.Leaderboard{Entries: []messages.LeaderboardEntry{
		entry("carl", "00:05:00", "2026-01-01"),
		entry("bea", "00:03:00", "2026-02-01"),
		entry("abe", "00:03:00", "2026-02-01"),
		entry("dan", "00:03:00", "2026-01-15"),
	}}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	equalNames(t, b.Entries(), "dan", "abe", "bea", "carl")
}

func TestLoadErrorWithoutCache(t *testing.T) {
	b := NewBoard(nil, logger.Discard())
	boom := errors.New("down")
	if err := b.Load(context.Background(), fakeSource{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestApplyFrameInsertsInOrder(t *testing.T) {
	b := NewBoard(nil, logger.Discard())
	ctx := context.Background()
	b.Add(ctx, entry("slow", "00:09:00", "2026-01-01"))
	b.Add(ctx, entry("fast", "00:01:00", "2026-01-01"))

	frame := []byte(`{"eventType":"LEADERBOARD","changeType":"CREATE","leaderboardEntry":{"name":"mid","duration":"00:04:00","releaseDate":"2026-03-01"}}`)
	if err := b.ApplyFrame(ctx, frame); err != nil {
		t.Fatalf("ApplyFrame: %v", err)
	}
	equalNames(t, b.Entries(), "fast", "mid", "slow")

	if err := b.ApplyFrame(ctx, []byte(`{}`)); err == nil {
		t.Error("empty event accepted")
	}
	if err := b.ApplyFrame(ctx, []byte(`nope`)); err == nil {
		t.Error("malformed event accepted")
	}
	if b.Len() != 3 {
		t.Errorf("len = %d, want 3", b.Len())
	}
	equalNames(t, b.Top(2), "fast", "mid")
	if len(b.Top(10)) != 3 || len(b.Top(-1)) != 0 {
		t.Error("Top bounds")
	}
}

func TestFollowDrainsFeed(t *testing.T) {
	b := NewBoard(nil, logger.Discard())
	feed := &fakeFeed{frames: [][]byte{
		[]byte(`{"leaderboardEntry":{"name":"x","duration":"00:02:00","releaseDate":"2026-01-01"}}`),
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := b.Follow(ctx, feed, 5*time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Follow = %v", err)
	}
	equalNames(t, b.Entries(), "x")
}

func TestCacheServesWhenOffline(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache", "leaderboard.db")
	cache, err := OpenCache(path)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	online := NewBoard(cache, logger.Discard())
	if err := online.Load(ctx, fakeSource{board: messages.Leaderboard{Entries: []messages.LeaderboardEntry{
		entry("b", "00:02:00", "2026-01-01"),
		entry("a", "00:01:00", "2026-01-01"),
	}}}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	online.Add(ctx, entry("c", "00:03:00", "2026-01-01"))

	offline := NewBoard(cache, logger.Discard())
	if err := offline.Load(ctx, fakeSource{err: errors.New("down")}); err != nil {
		t.Fatalf("offline Load: %v", err)
	}
	equalNames(t, offline.Entries(), "a", "b", "c")
}

func TestCacheReplace(t *testing.T) {
	ctx := context.Background()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "lb.db"))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	if err := cache.Replace(ctx, []messages.LeaderboardEntry{entry("old", "1", "1")}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := cache.Replace(ctx, []messages.LeaderboardEntry{entry("new", "2", "2")}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err := cache.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	equalNames(t, got, "new")
}

func TestOpenCacheEmptyPath(t *testing.T) {
	if _, err := OpenCache(""); err == nil {
		t.Fatal("expected error")
	}
}

func TestEntryFor(t *testing.T) {
	day := time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)
	got := EntryFor("Ada", messages.GameEnd{TimePlayed: 3725}, day)
	if got.Name != "Ada" || got.Duration != "01:02:05" || got.ReleaseDate != "2026-10-19" {
		t.Fatalf("entry = %+v", got)
	}
	if got := EntryFor("x", messages.GameEnd{TimePlayed: -4}, day); got.Duration != "00:00:00" {
		t.Errorf("negative duration = %q", got.Duration)
	}
}

func TestCloseDuringConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lb.db")
	cache, err := OpenCache(path)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	log, hook := logtest.NewNullLogger()
	b := NewBoard(cache, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			b.Add(ctx, entry(fmt.Sprintf("p%02d", i), "00:01:00", "2026-01-01"))
		}
	}()
	time.Sleep(time.Millisecond)
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	wg.Wait()

	if b.Len() != 50 {
		t.Errorf("board has %d entries, want 50", b.Len())
	}
	for _, e := range hook.AllEntries() {
		if e.Level <= logrus.WarnLevel {
			t.Errorf("unexpected %s: %s %v", e.Level, e.Message, e.Data)
		}
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	reopened, err := OpenCache(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	cached, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cached) > 50 {
		t.Errorf("cache has %d entries", len(cached))
	}
}
