package player

import (
	"time"

	"github.com/chewxy/math32"
)

// AddViolation records one confirmed violation at the given time, bumping the
// suspicion score by the configured step.
func (p *Player) AddViolation(now time.Time) {
	p.ViolationCount++
	p.LastViolationAt = now

	p.decaySuspicion(now)
	p.suspicion = math32.Min(p.suspicion+float32(p.conf.SuspicionStep), 1)
	p.suspicionAt = now
}

// Suspicion returns the current suspicion score in [0, 1]. The score decays
// with time since the last violation; it is bookkeeping for external
// reporting and never gates a validator decision.
func (p *Player) Suspicion(now time.Time) float32 {
	p.decaySuspicion(now)
	return p.suspicion
}

func (p *Player) decaySuspicion(now time.Time) {
	if p.suspicionAt.IsZero() || p.suspicion == 0 {
		p.suspicionAt = now
		return
	}
	elapsed := now.Sub(p.suspicionAt).Seconds()
	if elapsed <= 0 {
		return
	}
	p.suspicion = math32.Max(0, p.suspicion-float32(elapsed*p.conf.SuspicionDecayPerSec))
	p.suspicionAt = now
}
