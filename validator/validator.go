package validator

import (
	"time"

	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/player"
)

// Validator re-checks one claimed action against the player's rolling state.
// Implementations hold tunable thresholds but no per-player state, so a
// validator instance is shared safely across all players; the orchestrator
// serializes access per player.
type Validator interface {
	// Type returns the tag the validator reports as Result.Source.
	Type() string
	// Validate decides whether the action is plausible given the state the
	// orchestrator updated just before the call. It must be deterministic for
	// a fixed state/action pair and must never panic past its own boundary.
	Validate(p *player.Player, a *action.Action) Result
}

// msToDuration converts a millisecond threshold from the settings into a
// time.Duration.
func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
