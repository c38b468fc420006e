package validator

import (
	"time"

	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/player"
	"github.com/sentinel-ac/sentinel/settings"
	"github.com/sentinel-ac/sentinel/weapon"
)

// Weapon validates FireWeapon, ReloadWeapon and SwitchWeapon actions against
// the server-authoritative weapon definitions. An unresolvable weapon degrades
// to the permissive fallback definition instead of flagging honest players.
type Weapon struct {
	conf     settings.Weapon
	registry weapon.Registry
}

// NewWeapon creates the validator backed by the given registry. A nil
// registry leaves every lookup to the fallback definition.
func NewWeapon(conf settings.Weapon, registry weapon.Registry) *Weapon {
	return &Weapon{conf: conf, registry: registry}
}

// Type ...
func (*Weapon) Type() string {
	return "Weapon"
}

// Validate ...
func (w *Weapon) Validate(p *player.Player, a *action.Action) Result {
	if a.Weapon == nil {
		return Flag(ViolationServer, 0.5, "weapon action without weapon data", 0)
	}

	def := w.definition(a.Weapon.WeaponID)

	switch a.Type {
	case action.TypeFireWeapon:
		return w.validateFire(p, a, def)
	case action.TypeReloadWeapon:
		return w.validateReload(p, a, def)
	case action.TypeSwitchWeapon:
		return w.validateSwitch(p, a)
	}
	return Allowed()
}

func (w *Weapon) definition(id string) weapon.Definition {
	if w.registry != nil {
		if def, ok := w.registry.Definition(id); ok {
			return def
		}
	}
	return weapon.Fallback(id)
}

func (w *Weapon) validateFire(p *player.Player, a *action.Action, def weapon.Definition) Result {
	if p.HasFired && !p.PrevFireAt.IsZero() {
		minInterval := time.Duration(float64(def.MinFireInterval()) / w.conf.FireRateTolerance)
		if gap := p.LastFireAt.Sub(p.PrevFireAt); gap < minInterval {
			return Flag(ViolationImpossibleShot, 0.9, "shots closer together than the fire rate allows", float64(gap.Milliseconds()))
		}
	}

	if p.BurstShots > def.MaxBurstSize() {
		return Flag(ViolationImpossibleShot, 0.85, "burst longer than the fire mode allows", float64(p.BurstShots))
	}

	if r := w.validateAmmo(p, a, def); !r.Valid {
		return r
	}

	if p.PrevPositionValid {
		if dist := a.Weapon.FireOrigin.Sub(p.Position).Len(); dist > w.conf.FireOriginDistance {
			return Flag(ViolationImpossibleShot, 0.8, "muzzle position away from the player", dist)
		}
	}

	if acc := a.Weapon.Accuracy; acc > 1.0 {
		return Flag(ViolationImpossibleAccuracy, 0.95, "accuracy above 100%", acc)
	} else if acc > def.BaseAccuracy*w.conf.AccuracyTolerance {
		return Flag(ViolationImpossibleAccuracy, 0.8, "accuracy above the weapon's reachable maximum", acc)
	}

	return Allowed()
}

// validateAmmo checks the claimed magazine count against the one claimed
// before the shot. A shot must consume ammunition; the tolerance only covers
// extra decrements from multi-projectile fire, never a missing one.
func (w *Weapon) validateAmmo(p *player.Player, a *action.Action, def weapon.Definition) Result {
	ammo := a.Weapon.Ammo

	if ammo < 0 {
		return Flag(ViolationServer, 0.9, "negative ammunition count", float64(ammo))
	}
	if ammo > def.MagazineSize+w.conf.AmmoTolerance {
		return Flag(ViolationServer, 0.85, "ammunition above magazine capacity", float64(ammo))
	}

	if p.PrevAmmoValid {
		if ammo >= p.PrevAmmo {
			return Flag(ViolationServer, 0.8, "shot fired without consuming ammunition", float64(ammo))
		}
		if consumed := p.PrevAmmo - ammo; consumed > 1+w.conf.AmmoTolerance {
			return Flag(ViolationServer, 0.7, "ammunition dropped further than the shot explains", float64(consumed))
		}
	}

	return Allowed()
}

func (w *Weapon) validateReload(p *player.Player, a *action.Action, def weapon.Definition) Result {
	if p.PrevAmmoValid && p.PrevAmmo >= def.MagazineSize {
		return Flag(ViolationServer, 0.6, "reload on a full magazine", float64(p.PrevAmmo))
	}

	if p.HasFired {
		minReload := time.Duration(float64(def.ReloadTime) * w.conf.ReloadTimeFactor)
		if since := a.Timestamp.Sub(p.LastFireAt); since < minReload {
			return Flag(ViolationRateLimit, 0.75, "reload completed faster than the weapon allows", float64(since.Milliseconds()))
		}
	}

	return Allowed()
}

func (w *Weapon) validateSwitch(p *player.Player, a *action.Action) Result {
	// Switching to the already-equipped weapon is a no-op. The state update
	// ran first, so an unchanged LastSwitchAt means no switch happened.
	if a.Weapon.WeaponID == p.CurrentWeapon && p.LastSwitchAt != a.Timestamp {
		return Allowed()
	}

	if p.HasFired {
		if since := a.Timestamp.Sub(p.LastFireAt); since < msToDuration(w.conf.SwitchCooldownMs) {
			return Flag(ViolationRateLimit, 0.7, "weapon switch too soon after firing", float64(since.Milliseconds()))
		}
	}

	return Allowed()
}
