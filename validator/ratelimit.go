package validator

import (
	"time"

	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/player"
	"github.com/sentinel-ac/sentinel/settings"
)

// RateLimit enforces the per-type actions-per-second ceilings and the
// burst/timing heuristics layered on top of them. It runs on every action.
type RateLimit struct {
	conf settings.RateLimit
}

// NewRateLimit ...
func NewRateLimit(conf settings.RateLimit) *RateLimit {
	return &RateLimit{conf: conf}
}

// Type ...
func (*RateLimit) Type() string {
	return "RateLimit"
}

// Validate ...
func (rl *RateLimit) Validate(p *player.Player, a *action.Action) Result {
	now := a.Timestamp
	tracker := p.Rate(a.Type)

	if rate := tracker.Count(now, time.Second); rate > rl.conf.Limit(a.Type) {
		return Flag(ViolationRateLimit, 0.8, "actions per second above the ceiling for this type", float64(rate))
	}

	switch a.Type {
	case action.TypeFireWeapon:
		if r := rl.validateFire(p); !r.Valid {
			return r
		}
	case action.TypeJump:
		if r := rl.validateJump(p, now, tracker); !r.Valid {
			return r
		}
	case action.TypeChat:
		window := time.Duration(rl.conf.ChatWindowSec * float64(time.Second))
		if n := tracker.Count(now, window); n > rl.conf.ChatWindowMax {
			return Flag(ViolationRateLimit, 0.75, "chat messages beyond the spam window", float64(n))
		}
	}

	if a.Type == action.TypeFireWeapon || a.Type == action.TypeAim {
		if r := rl.validateTiming(now, tracker); !r.Valid {
			return r
		}
	}

	return Allowed()
}

func (rl *RateLimit) validateFire(p *player.Player) Result {
	if !p.PrevFireAt.IsZero() {
		if gap := p.LastFireAt.Sub(p.PrevFireAt); gap < msToDuration(rl.conf.MinFireGapMs) {
			return Flag(ViolationImpossibleShot, 0.95, "consecutive shots within the same millisecond range", float64(gap.Milliseconds()))
		}
	}

	if p.BurstShots > rl.conf.BurstMaxShots {
		return Flag(ViolationTriggerBot, 0.9, "too many shots inside one burst window", float64(p.BurstShots))
	}

	return Allowed()
}

func (rl *RateLimit) validateJump(p *player.Player, now time.Time, tracker *player.RateTracker) Result {
	if !p.PrevJumpAt.IsZero() {
		if gap := p.LastJumpAt.Sub(p.PrevJumpAt); gap < msToDuration(rl.conf.MinJumpGapMs) {
			return Flag(ViolationRateLimit, 0.85, "jumps closer together than humanly possible", float64(gap.Milliseconds()))
		}
	}

	window := time.Duration(rl.conf.JumpWindowSec * float64(time.Second))
	if n := tracker.Count(now, window); n > rl.conf.JumpWindowMax {
		return Flag(ViolationRateLimit, 0.8, "sustained jump spam", float64(n))
	}

	return Allowed()
}

// validateTiming flags input whose cadence is too regular to be human: a
// sustained stream of fire/aim actions whose average gap sits in a narrow
// metronomic band points at scripted input rather than a hand on a mouse.
func (rl *RateLimit) validateTiming(now time.Time, tracker *player.RateTracker) Result {
	avg, n := tracker.AvgInterval(now, time.Second)
	if n < rl.conf.BotMinSamples {
		return Allowed()
	}

	avgMs := float64(avg) / float64(time.Millisecond)
	if avgMs >= rl.conf.BotBandLowMs && avgMs <= rl.conf.BotBandHighMs {
		return Flag(ViolationBehavioral, 0.7, "metronomic input cadence", avgMs)
	}

	return Allowed()
}
