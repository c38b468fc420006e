package validator

import (
	"testing"
	"time"

	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/settings"
)

func newMovement() *Movement {
	return NewMovement(settings.Default().Movement)
}

func TestMovementFirstActionExempt(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a := act(action.TypeMove, 1, testBase)
	a.Position = v3(0, 0, 0)
	// The validator never sees a truly un-ticked player through the
	// orchestrator, but standalone it must not derive deltas from nothing.
	expectValid(t, v.Validate(p, a))
}

func TestMovementTeleport(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a1 := act(action.TypeMove, 1, testBase)
	a1.Position = v3(0, 0, 0)
	apply(p, a1)

	a2 := act(action.TypeMove, 2, testBase.Add(50*time.Millisecond))
	a2.Position = v3(50, 0, 0)
	res := check(t, v, p, a2)
	expectViolation(t, res, ViolationImpossibleMovement)
	if res.Evidence != 50 {
		t.Fatalf("teleport evidence = %v, want the 50m distance", res.Evidence)
	}
}

func TestMovementSpeedCap(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a1 := act(action.TypeMove, 1, testBase)
	a1.Position = v3(0, 0, 0)
	apply(p, a1)

	// 0.5m in 50ms is 10m/s, over the 7.2m/s tolerated walk cap.
	a2 := act(action.TypeMove, 2, testBase.Add(50*time.Millisecond))
	a2.Position = v3(0.5, 0, 0)
	res := check(t, v, p, a2)
	expectViolation(t, res, ViolationSpeedHack)
	if res.SoftenTo == nil || *res.SoftenTo != 6*1.2 {
		t.Fatalf("speed violation carries no clamp hint: %+v", res.SoftenTo)
	}
}

func TestMovementSprintAllowsHigherSpeed(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a1 := act(action.TypeSprint, 1, testBase)
	a1.Position = v3(0, 0, 0)
	apply(p, a1)

	// 10m/s sprints fine but would flag as a walk.
	a2 := act(action.TypeSprint, 2, testBase.Add(50*time.Millisecond))
	a2.Position = v3(0.5, 0, 0)
	expectValid(t, check(t, v, p, a2))
}

func TestMovementNonPositiveDelta(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a1 := act(action.TypeMove, 1, testBase)
	a1.Position = v3(0, 0, 0)
	apply(p, a1)

	a2 := act(action.TypeMove, 2, testBase)
	a2.Position = v3(0.1, 0, 0)
	res := check(t, v, p, a2)
	expectViolation(t, res, ViolationImpossibleMovement)
}

func TestMovementMissingPosition(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a1 := act(action.TypeMove, 1, testBase)
	a1.Position = v3(0, 0, 0)
	apply(p, a1)

	a2 := act(action.TypeMove, 2, testBase.Add(50*time.Millisecond))
	res := check(t, v, p, a2)
	expectViolation(t, res, ViolationServer)
}

func TestMovementGravity(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a1 := act(action.TypeMove, 1, testBase)
	a1.Position = v3(0, 5, 0)
	a1.Velocity = v3(0, 0, 0)
	apply(p, a1)

	// Airborne and accelerating upward with nothing to push against.
	a2 := act(action.TypeMove, 2, testBase.Add(100*time.Millisecond))
	a2.Position = v3(0, 5.02, 0)
	a2.Velocity = v3(0, 3, 0)
	res := check(t, v, p, a2)
	expectViolation(t, res, ViolationPhysics)
}

func TestMovementPositionVelocityConsistency(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a1 := act(action.TypeMove, 1, testBase)
	a1.Position = v3(0, 0, 0)
	a1.Velocity = v3(6, 0, 0)
	apply(p, a1)

	// Claimed velocity 6m/s east, claimed no movement at all over 100ms.
	a2 := act(action.TypeMove, 2, testBase.Add(100*time.Millisecond))
	a2.Position = v3(0, 0, 0)
	a2.Velocity = v3(6, 0, 0)
	res := check(t, v, p, a2)
	expectViolation(t, res, ViolationImpossibleMovement)
}

func TestMovementLegitimateWalk(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a1 := act(action.TypeMove, 1, testBase)
	a1.Position = v3(0, 0, 0)
	a1.Velocity = v3(5, 0, 0)
	apply(p, a1)

	a2 := act(action.TypeMove, 2, testBase.Add(100*time.Millisecond))
	a2.Position = v3(0.5, 0, 0)
	a2.Velocity = v3(5, 0, 0)
	expectValid(t, check(t, v, p, a2))
}

func TestJumpWhileAirborne(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a1 := act(action.TypeMove, 1, testBase)
	a1.Position = v3(0, 5, 0)
	apply(p, a1)

	a2 := act(action.TypeJump, 2, testBase.Add(100*time.Millisecond))
	a2.Position = v3(0, 5, 0)
	res := check(t, v, p, a2)
	expectViolation(t, res, ViolationImpossibleMovement)
}

func TestJumpCooldown(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a1 := act(action.TypeJump, 1, testBase)
	a1.Position = v3(0, 0, 0)
	a2 := act(action.TypeMove, 2, testBase.Add(100*time.Millisecond))
	a2.Position = v3(0, 0, 0)
	apply(p, a1, a2)

	a3 := act(action.TypeJump, 3, testBase.Add(200*time.Millisecond))
	a3.Position = v3(0, 0, 0)
	res := check(t, v, p, a3)
	expectViolation(t, res, ViolationImpossibleMovement)
}

func TestJumpVelocityCap(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a1 := act(action.TypeMove, 1, testBase)
	a1.Position = v3(0, 0, 0)
	apply(p, a1)

	// sqrt(2*9.81*1.5)*1.2 ≈ 6.51m/s is the most a jump can produce.
	a2 := act(action.TypeJump, 2, testBase.Add(100*time.Millisecond))
	a2.Position = v3(0, 0, 0)
	a2.Velocity = v3(0, 7, 0)
	res := check(t, v, p, a2)
	expectViolation(t, res, ViolationImpossibleMovement)
}

func TestJumpLegitimate(t *testing.T) {
	p := newTestPlayer()
	v := newMovement()

	a1 := act(action.TypeMove, 1, testBase)
	a1.Position = v3(0, 0, 0)
	apply(p, a1)

	a2 := act(action.TypeJump, 2, testBase.Add(100*time.Millisecond))
	a2.Position = v3(0, 0, 0)
	a2.Velocity = v3(0, 5, 0)
	expectValid(t, check(t, v, p, a2))
}
