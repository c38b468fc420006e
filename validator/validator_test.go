package validator

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/player"
	"github.com/sentinel-ac/sentinel/settings"
	"github.com/sirupsen/logrus"
)

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestPlayer() *player.Player {
	conf := settings.Default()
	return player.New("test", logrus.New(), conf.Engine, conf.Network.SampleHistory,
		time.Duration(conf.RateLimit.BurstWindowMs*float64(time.Millisecond)))
}

// act builds an action with believable network claims so checks unrelated to a
// scenario stay quiet.
func act(t action.Type, seq uint32, at time.Time) *action.Action {
	return &action.Action{
		PlayerID:        "test",
		Type:            t,
		Timestamp:       at,
		ClientTimestamp: at.UnixMilli(),
		Sequence:        seq,
		Ping:            50 * time.Millisecond,
		PacketLoss:      0.01,
	}
}

func v3(x, y, z float64) *mgl64.Vec3 {
	v := mgl64.Vec3{x, y, z}
	return &v
}

// apply folds actions into the player state the way the orchestrator would
// before invoking a validator.
func apply(p *player.Player, actions ...*action.Action) {
	for _, a := range actions {
		p.Update(a)
	}
}

// check updates the player with the action and runs the validator on it.
func check(t *testing.T, v Validator, p *player.Player, a *action.Action) Result {
	t.Helper()
	p.Update(a)
	return v.Validate(p, a)
}

func expectViolation(t *testing.T, res Result, want Violation) {
	t.Helper()
	if res.Valid {
		t.Fatalf("expected %v violation, got valid result", want)
	}
	if res.Violation != want {
		t.Fatalf("expected %v violation, got %v (%s)", want, res.Violation, res.Reason)
	}
	if res.Confidence <= 0 || res.Confidence > 1 {
		t.Fatalf("confidence %v out of range for %v", res.Confidence, res.Violation)
	}
}

func expectValid(t *testing.T, res Result) {
	t.Helper()
	if !res.Valid {
		t.Fatalf("expected valid result, got %v (%s)", res.Violation, res.Reason)
	}
	if res.Confidence != 0 {
		t.Fatalf("valid result carries confidence %v", res.Confidence)
	}
}
