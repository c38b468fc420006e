package validator

import (
	"math"

	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/game"
	"github.com/sentinel-ac/sentinel/player"
	"github.com/sentinel-ac/sentinel/settings"
)

// Movement validates the kinematics of Move, Jump, Crouch and Sprint actions
// against loose speed and gravity bounds. The physics validator runs a second,
// stricter pass over the same actions.
type Movement struct {
	conf settings.Movement
}

// NewMovement ...
func NewMovement(conf settings.Movement) *Movement {
	return &Movement{conf: conf}
}

// Type ...
func (*Movement) Type() string {
	return "Movement"
}

// Validate ...
func (m *Movement) Validate(p *player.Player, a *action.Action) Result {
	if !p.Ticked() {
		return Allowed()
	}

	// A non-positive delta means out-of-order or forged timestamps, never
	// something to skip silently.
	dt := p.TimeDelta.Seconds()
	if dt <= 0 {
		return Flag(ViolationImpossibleMovement, 0.9, "non-positive time delta between actions", dt*1000)
	}

	if a.Position == nil {
		return Flag(ViolationServer, 0.5, "movement action without a position", 0)
	}

	if p.PrevPositionValid {
		dist := p.Position.Sub(p.PrevPosition).Len()
		if dist > m.conf.TeleportDistance {
			return Flag(ViolationImpossibleMovement, 0.95, "teleport: position jumped further than any legal movement", dist)
		}

		limit := m.conf.SpeedCap(a.Type) * m.conf.SpeedTolerance
		if speed := dist / dt; speed > limit {
			r := Flag(ViolationSpeedHack, speedConfidence(speed, limit), "speed above the cap for this movement type", speed)
			soft := limit
			r.SoftenTo = &soft
			return r
		}

		if p.PrevVelocityValid {
			expected := p.PrevVelocity.Mul(dt)
			actual := p.Position.Sub(p.PrevPosition)
			if err := actual.Sub(expected).Len(); err > m.conf.PositionTolerance {
				return Flag(ViolationImpossibleMovement, 0.7, "position inconsistent with reported velocity", err)
			}
		}
	}

	if a.Velocity != nil && p.PrevVelocityValid && !p.WasOnGround {
		expectedDvY := -m.conf.Gravity * dt
		actualDvY := a.Velocity.Y() - p.PrevVelocity.Y()
		if actualDvY-expectedDvY > m.conf.GravityTolerance {
			return Flag(ViolationPhysics, 0.8, "airborne vertical velocity defies gravity", actualDvY-expectedDvY)
		}
	}

	if a.Type == action.TypeJump {
		if r := m.validateJump(p, a); !r.Valid {
			return r
		}
	}

	return Allowed()
}

func (m *Movement) validateJump(p *player.Player, a *action.Action) Result {
	if !p.WasOnGround {
		return Flag(ViolationImpossibleMovement, 0.85, "jump issued while airborne", p.AirTime.Seconds())
	}

	if !p.PrevJumpAt.IsZero() {
		if gap := p.LastJumpAt.Sub(p.PrevJumpAt); gap < msToDuration(m.conf.JumpCooldownMs) {
			return Flag(ViolationImpossibleMovement, 0.8, "jump before the cooldown elapsed", float64(gap.Milliseconds()))
		}
	}

	if a.Velocity != nil {
		maxJumpVel := math.Sqrt(2*m.conf.Gravity*m.conf.MaxJumpHeight) * m.conf.JumpVelocityTolerance
		if vy := a.Velocity.Y(); vy > maxJumpVel {
			return Flag(ViolationImpossibleMovement, 0.85, "jump velocity above the reachable maximum", vy)
		}
	}

	return Allowed()
}

// speedConfidence scales confidence with how far past the limit the speed
// went: barely over reads as likely jitter, double the cap as a near-certain
// hack.
func speedConfidence(speed, limit float64) float32 {
	excess := speed/limit - 1
	return game.Clamp32(0.6+float32(excess)*0.35, 0.6, 0.95)
}
