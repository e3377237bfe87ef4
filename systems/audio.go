package systems

import (
	cfg "github.com/automoto/snackman-client/config"
	"github.com/sirupsen/logrus"
)

// CuePlayer plays audio cues.
type CuePlayer interface {
	PlayCue(cue cfg.CueID)
}

// CueQueue collects cues raised while applying events. The session flushes
// it once per tick so cues play in the order they were raised.
type CueQueue struct {
	pending []cfg.CueID
}

func (q *CueQueue) Push(cue cfg.CueID) {
	q.pending = append(q.pending, cue)
}

// Pending returns the queued cues without removing them.
func (q *CueQueue) Pending() []cfg.CueID {
	return q.pending
}

// Flush plays and removes all queued cues. A nil player drops them.
func (q *CueQueue) Flush(p CuePlayer) int {
	n := len(q.pending)
	if p != nil {
		for _, cue := range q.pending {
			p.PlayCue(cue)
		}
	}
	q.pending = q.pending[:0]
	return n
}

func (q *CueQueue) Reset() {
	q.pending = q.pending[:0]
}

// LogCuePlayer is a CuePlayer that logs the sound file each cue would play.
type LogCuePlayer struct {
	Log logrus.FieldLogger
}

func (p LogCuePlayer) PlayCue(cue cfg.CueID) {
	if !cfg.Audio.Enabled {
		return
	}
	vol := cfg.Audio.DefaultCueVol
	if mult, ok := cfg.Sound.VolumeMultipliers[cue]; ok {
		vol *= mult
	}
	p.Log.WithFields(logrus.Fields{
		"cue":    cue.String(),
		"file":   cfg.Sound.CuePaths[cue],
		"volume": vol,
	}).Info("[audio] play")
}
