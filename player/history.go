package player

import (
	"time"

	"github.com/sentinel-ac/sentinel/action"
)

// HistoryEntry is one recorded action in the player's bounded history ring.
type HistoryEntry struct {
	Type     action.Type
	At       time.Time
	ClientAt int64
	Sequence uint32
}

// RateTracker keeps the timestamps of recent same-type actions. Stamps are
// pruned lazily on insert; Count and AvgInterval evaluate any window up to the
// tracker's retention.
type RateTracker struct {
	retention time.Duration
	stamps    []time.Time
}

// NewRateTracker creates a tracker retaining stamps for the given duration.
func NewRateTracker(retention time.Duration) *RateTracker {
	return &RateTracker{retention: retention}
}

// Add records an occurrence and prunes stamps past the retention window.
func (t *RateTracker) Add(now time.Time) {
	cutoff := now.Add(-t.retention)
	i := 0
	for i < len(t.stamps) && t.stamps[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		t.stamps = append(t.stamps[:0], t.stamps[i:]...)
	}
	t.stamps = append(t.stamps, now)
}

// Count returns how many occurrences fall within the window ending at now.
func (t *RateTracker) Count(now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	n := 0
	for i := len(t.stamps) - 1; i >= 0; i-- {
		if t.stamps[i].Before(cutoff) {
			break
		}
		n++
	}
	return n
}

// AvgInterval returns the mean gap between occurrences inside the window
// ending at now, along with how many occurrences the window held. The mean is
// zero when fewer than two occurrences exist.
func (t *RateTracker) AvgInterval(now time.Time, window time.Duration) (time.Duration, int) {
	cutoff := now.Add(-window)
	first := -1
	for i := range t.stamps {
		if !t.stamps[i].Before(cutoff) {
			first = i
			break
		}
	}
	if first == -1 {
		return 0, 0
	}
	n := len(t.stamps) - first
	if n < 2 {
		return 0, n
	}
	span := t.stamps[len(t.stamps)-1].Sub(t.stamps[first])
	return span / time.Duration(n-1), n
}

// Rate returns the tracker for the given action type, creating it on first
// use. Retention is sized to the widest window any check evaluates.
func (p *Player) Rate(t action.Type) *RateTracker {
	tracker, ok := p.rates[t]
	if !ok {
		tracker = NewRateTracker(10 * time.Second)
		p.rates[t] = tracker
	}
	return tracker
}

// pruneHistory drops history entries older than the configured maximum age.
func (p *Player) pruneHistory(now time.Time) {
	cutoff := now.Add(-time.Duration(p.conf.HistoryMaxAgeSeconds * float64(time.Second)))
	p.History.PruneWhile(func(e HistoryEntry) bool {
		return e.At.Before(cutoff)
	})
}

// Prune drops stamps past the retention window without recording a new one.
func (t *RateTracker) Prune(now time.Time) {
	cutoff := now.Add(-t.retention)
	i := 0
	for i < len(t.stamps) && t.stamps[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		t.stamps = append(t.stamps[:0], t.stamps[i:]...)
	}
}

// PruneStale expires aged history entries and rate stamps. The periodic sweep
// calls it so an idle-but-connected player does not hold five minutes of
// samples forever; inserts prune lazily anyway.
func (p *Player) PruneStale(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pruneHistory(now)
	for _, tracker := range p.rates {
		tracker.Prune(now)
	}
}
