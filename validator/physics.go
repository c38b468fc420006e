package validator

import (
	"math"

	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/game"
	"github.com/sentinel-ac/sentinel/player"
	"github.com/sentinel-ac/sentinel/settings"
)

// Physics is the strict second pass over movement actions. It simulates the
// tick with tighter tolerances than the movement validator, catching cheats
// that stay under the loose caps but cannot survive a physical simulation.
type Physics struct {
	conf settings.Physics
}

// NewPhysics ...
func NewPhysics(conf settings.Physics) *Physics {
	return &Physics{conf: conf}
}

// Type ...
func (*Physics) Type() string {
	return "Physics"
}

// Validate ...
func (ph *Physics) Validate(p *player.Player, a *action.Action) Result {
	if !p.Ticked() {
		return Allowed()
	}

	// The movement validator is the authority on non-positive deltas; a second
	// flag for the same defect would only dilute the reason.
	dt := p.TimeDelta.Seconds()
	if dt <= 0 {
		return Allowed()
	}

	if a.Position != nil && p.PrevPositionValid {
		if p.PrevVelocityValid {
			expected := p.PrevVelocity.Mul(dt)
			actual := p.Position.Sub(p.PrevPosition)
			if err := actual.Sub(expected).Len(); err > ph.conf.PositionTolerance {
				return Flag(ViolationPhysics, 0.75, "position drifted from simulated trajectory", err)
			}
		}

		if r := ph.validateCollision(p, a); !r.Valid {
			return r
		}
	}

	if a.Velocity != nil && p.PrevVelocityValid {
		maxDv := ph.conf.MaxAcceleration * dt * ph.conf.AccelTolerance

		if dv := a.Velocity.Sub(p.PrevVelocity).Len(); dv > maxDv {
			return Flag(ViolationPhysics, 0.8, "velocity change above the acceleration limit", dv)
		}

		// Horizontal acceleration and deceleration are bounded independently
		// of the vertical component, so gravity cannot mask a strafe hack.
		hzDv := game.HzVec64(*a.Velocity).Sub(game.HzVec64(p.PrevVelocity)).Len()
		if hzDv > maxDv {
			return Flag(ViolationPhysics, 0.8, "horizontal velocity change above the acceleration limit", hzDv)
		}
		hzSpeedDelta := math.Abs(game.Vec3HzDist(*a.Velocity) - game.Vec3HzDist(p.PrevVelocity))
		if hzSpeedDelta > maxDv {
			return Flag(ViolationPhysics, 0.8, "horizontal speed change above the deceleration limit", hzSpeedDelta)
		}

		if !p.WasOnGround {
			expectedDvY := -ph.conf.Gravity * dt
			actualDvY := a.Velocity.Y() - p.PrevVelocity.Y()
			tolerance := math.Abs(expectedDvY)*ph.conf.GravityErrorScale + ph.conf.GravityErrorBase
			if err := math.Abs(actualDvY - expectedDvY); err > tolerance {
				return Flag(ViolationPhysics, 0.8, "airborne velocity off the gravity curve", err)
			}
		}
	}

	return Allowed()
}

func (ph *Physics) validateCollision(p *player.Player, a *action.Action) Result {
	y, prevY := p.Position.Y(), p.PrevPosition.Y()

	if prevY >= game.GroundLevel && y < game.GroundLevel {
		return Flag(ViolationPhysics, 0.9, "clipped through the ground plane", y)
	}

	if p.WasOnGround && a.Type != action.TypeJump && y-prevY > ph.conf.StepTolerance {
		return Flag(ViolationPhysics, 0.85, "upward movement without a jump", y-prevY)
	}

	return Allowed()
}
