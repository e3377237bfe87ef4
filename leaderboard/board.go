// Package leaderboard follows the global leaderboard: an initial fetch, then
// entries pushed on the leaderboard topic.
package leaderboard

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/automoto/snackman-client/shared/messages"
	"github.com/sirupsen/logrus"
)

var errLeaderboardEventEmpty = errors.New("leaderboard event without entry")

// Source fetches the full board.
type Source interface {
	FetchLeaderboard(ctx context.Context) (messages.Leaderboard, error)
}

// Feed yields frames pushed on the leaderboard topic.
type Feed interface {
	Drain() [][]byte
}

// Board is the sorted in-memory leaderboard. It is safe for concurrent use;
// Follow usually runs on its own goroutine while views read Entries.
type Board struct {
	mu      sync.RWMutex
	entries []messages.LeaderboardEntry
	log     logrus.FieldLogger

	// cacheMu serialises cache writes with Close.
	cacheMu sync.Mutex
	cache   *Cache
}

// NewBoard returns an empty board. cache may be nil.
func NewBoard(cache *Cache, log logrus.FieldLogger) *Board {
	return &Board{
		cache: cache,
		log:   log.WithField("component", "leaderboard"),
	}
}

// Load replaces the board with the server's. When the server cannot be
// reached the cached board is used instead, if there is one.
func (b *Board) Load(ctx context.Context, src Source) error {
	lb, err := src.FetchLeaderboard(ctx)

	b.cacheMu.Lock()
	defer b.cacheMu.Unlock()
	if err != nil {
		if b.cache == nil {
			return fmt.Errorf("load leaderboard: %w", err)
		}
		cached, cerr := b.cache.Load(ctx)
		if cerr != nil {
			return fmt.Errorf("load leaderboard: %w (cache: %v)", err, cerr)
		}
		b.set(cached)
		b.log.WithError(err).WithField("entries", len(cached)).Warn("[leaderboard] server unreachable, using cache")
		return nil
	}

	b.set(lb.Entries)
	if b.cache != nil {
		if err := b.cache.Replace(ctx, b.Entries()); err != nil {
			b.log.WithError(err).Warn("[leaderboard] cache write failed")
		}
	}
	b.log.WithField("entries", len(lb.Entries)).Info("[leaderboard] loaded")
	return nil
}

func (b *Board) set(entries []messages.LeaderboardEntry) {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, compareEntries)
	b.mu.Lock()
	b.entries = sorted
	b.mu.Unlock()
}

// Add inserts an entry at its sorted position.
func (b *Board) Add(ctx context.Context, e messages.LeaderboardEntry) {
	b.mu.Lock()
	i, _ := slices.BinarySearchFunc(b.entries, e, compareEntries)
	// after any equal entries, matching an append then stable sort
	for i < len(b.entries) && compareEntries(b.entries[i], e) == 0 {
		i++
	}
	b.entries = slices.Insert(b.entries, i, e)
	b.mu.Unlock()

	b.cacheMu.Lock()
	defer b.cacheMu.Unlock()
	if b.cache != nil {
		if err := b.cache.Insert(ctx, e); err != nil {
			b.log.WithError(err).Warn("[leaderboard] cache write failed")
		}
	}
}

// Close closes the offline cache. Later changes stay in memory only.
func (b *Board) Close() error {
	b.cacheMu.Lock()
	defer b.cacheMu.Unlock()
	if b.cache == nil {
		return nil
	}
	err := b.cache.Close()
	b.cache = nil
	return err
}

// ApplyFrame adds the entry carried by one topic frame.
func (b *Board) ApplyFrame(ctx context.Context, frame []byte) error {
	var ev messages.LeaderboardEvent
	if err := json.Unmarshal(frame, &ev); err != nil {
		return fmt.Errorf("decode leaderboard event: %w", err)
	}
	if ev.Entry.Name == "" && ev.Entry.Duration == "" {
		return errLeaderboardEventEmpty
	}
	b.Add(ctx, ev.Entry)
	b.log.WithFields(logrus.Fields{"name": ev.Entry.Name, "duration": ev.Entry.Duration}).Debug("[leaderboard] entry added")
	return nil
}

// Follow applies frames from feed every interval until ctx is done.
func (b *Board) Follow(ctx context.Context, feed Feed, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, frame := range feed.Drain() {
				if err := b.ApplyFrame(ctx, frame); err != nil {
					b.log.WithError(err).Warn("[leaderboard] frame skipped")
				}
			}
		}
	}
}

// Entries returns a copy of the board in order.
func (b *Board) Entries() []messages.LeaderboardEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.entries)
}

// Top returns at most n leading entries.
func (b *Board) Top(n int) []messages.LeaderboardEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n = min(max(n, 0), len(b.entries))
	return slices.Clone(b.entries[:n])
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// compareEntries orders by duration, then release date, then name.
func compareEntries(a, b messages.LeaderboardEntry) int {
	return cmp.Or(
		strings.Compare(a.Duration, b.Duration),
		strings.Compare(a.ReleaseDate, b.ReleaseDate),
		strings.Compare(a.Name, b.Name),
	)
}

// EntryFor builds the entry submitted for a finished game. TimePlayed is in
// seconds and is written as HH:MM:SS so entries sort by string comparison.
func EntryFor(name string, end messages.GameEnd, day time.Time) messages.LeaderboardEntry {
	secs := max(end.TimePlayed, 0)
	return messages.LeaderboardEntry{
		Name:        name,
		Duration:    fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60),
		ReleaseDate: day.Format(time.DateOnly),
	}
}
