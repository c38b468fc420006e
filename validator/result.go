package validator

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
)

// Violation classifies why an action was rejected.
type Violation uint8

const (
	ViolationNone Violation = iota
	ViolationImpossibleMovement
	ViolationSpeedHack
	ViolationPhysics
	ViolationImpossibleShot
	ViolationTriggerBot
	ViolationImpossibleAccuracy
	ViolationRateLimit
	ViolationTimingManipulation
	ViolationPacketTampering
	ViolationNetworkManipulation
	ViolationBehavioral
	ViolationServer
)

// String ...
func (v Violation) String() string {
	switch v {
	case ViolationNone:
		return "None"
	case ViolationImpossibleMovement:
		return "ImpossibleMovement"
	case ViolationSpeedHack:
		return "SpeedHack"
	case ViolationPhysics:
		return "PhysicsViolation"
	case ViolationImpossibleShot:
		return "ImpossibleShot"
	case ViolationTriggerBot:
		return "TriggerBot"
	case ViolationImpossibleAccuracy:
		return "ImpossibleAccuracy"
	case ViolationRateLimit:
		return "RateLimitExceeded"
	case ViolationTimingManipulation:
		return "TimingManipulation"
	case ViolationPacketTampering:
		return "PacketTampering"
	case ViolationNetworkManipulation:
		return "NetworkManipulation"
	case ViolationBehavioral:
		return "BehavioralAnalysis"
	case ViolationServer:
		return "ServerValidation"
	}
	return "Unknown"
}

// Result is the immutable outcome of one validator pass over one action.
type Result struct {
	Valid     bool
	Violation Violation
	// Confidence is how certain the validator is that the violation is a real
	// cheat rather than a false positive. Zero when valid.
	Confidence float32
	Reason     string
	// Evidence is the numeric value that tripped the decision, kept for audit.
	Evidence float64
	// SoftenTo carries the clamped legal value for moderate violations, so the
	// integration layer can soften instead of deny. Nil when not applicable.
	SoftenTo *float64
	// Data holds extra keyvals attached when the violation was flagged.
	Data *orderedmap.OrderedMap[string, any]

	ProcessingTime time.Duration
	Source         string
}

// Allowed returns a valid result.
func Allowed() Result {
	return Result{Valid: true}
}

// Flag returns an invalid result carrying the violation classification.
func Flag(v Violation, confidence float32, reason string, evidence float64) Result {
	return Result{
		Violation:  v,
		Confidence: confidence,
		Reason:     reason,
		Evidence:   evidence,
	}
}

// Combine merges two results into the one that should stand: any invalid
// result vetoes a valid one, and of two invalid results the higher-confidence
// one wins, ties keeping the first. Combining with Allowed is the identity, so
// folding any number of results in any order surfaces the single most damning
// violation.
func Combine(a, b Result) Result {
	if b.Valid {
		return a
	}
	if a.Valid {
		return b
	}
	if b.Confidence > a.Confidence {
		return b
	}
	return a
}
