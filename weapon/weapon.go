package weapon

import "time"

// FireMode determines how many shots a weapon may chain into a single burst.
type FireMode uint8

const (
	ModeSemiAuto FireMode = iota
	ModeBoltAction
	ModeBurst
	ModeFullAuto
)

// String ...
func (m FireMode) String() string {
	switch m {
	case ModeSemiAuto:
		return "semi-auto"
	case ModeBoltAction:
		return "bolt-action"
	case ModeBurst:
		return "burst"
	case ModeFullAuto:
		return "full-auto"
	}
	return "unknown"
}

// Definition describes the server-authoritative parameters of a weapon.
type Definition struct {
	ID           string
	FireRateRPM  float64
	MagazineSize int32
	ReloadTime   time.Duration
	// BaseAccuracy is the highest accuracy the weapon can legitimately reach,
	// as a fraction in [0, 1].
	BaseAccuracy float64
	Mode         FireMode
}

// MaxBurstSize returns the largest number of shots the weapon may chain
// without releasing the trigger.
func (d Definition) MaxBurstSize() int32 {
	switch d.Mode {
	case ModeSemiAuto, ModeBoltAction:
		return 1
	case ModeBurst:
		return 3
	default:
		return d.MagazineSize
	}
}

// MinFireInterval returns the smallest legitimate gap between two shots.
func (d Definition) MinFireInterval() time.Duration {
	if d.FireRateRPM <= 0 {
		return 0
	}
	return time.Duration(float64(time.Minute) / d.FireRateRPM)
}

// Registry resolves weapon definitions by id. It is an external collaborator
// of the engine; implementations must be safe for concurrent use.
type Registry interface {
	Definition(id string) (Definition, bool)
}

// Fallback returns the definition used when a weapon cannot be resolved. It is
// deliberately permissive so that a missing registry entry degrades to looser
// checks instead of false violations.
func Fallback(id string) Definition {
	return Definition{
		ID:           id,
		FireRateRPM:  1200,
		MagazineSize: 200,
		ReloadTime:   time.Second / 2,
		BaseAccuracy: 1.0,
		Mode:         ModeFullAuto,
	}
}
