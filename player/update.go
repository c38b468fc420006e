package player

import (
	"time"

	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/game"
)

// Update folds one action into the rolling state. It must run before the
// validators so they observe the deltas this action produced; the per-action
// transient fields carry the values a validator cannot recover after the
// overwrite.
func (p *Player) Update(a *action.Action) {
	now := a.Timestamp

	// Snapshot old state first so deltas stay well-defined.
	p.PrevPosition = p.Position
	p.PrevVelocity = p.Velocity
	p.PrevRotation = p.Rotation
	p.PrevAt = p.CurrentAt
	p.PrevPositionValid = p.seenPosition
	p.PrevVelocityValid = p.seenVelocity
	p.PrevRotationValid = p.seenRotation

	p.TimeDelta = 0
	if p.ticked {
		p.TimeDelta = now.Sub(p.PrevAt)
	}

	if a.Position != nil {
		p.Position = *a.Position
		p.seenPosition = true
	}
	if a.Velocity != nil {
		p.Velocity = *a.Velocity
		p.seenVelocity = true
	}
	if a.Rotation != nil {
		p.Rotation = *a.Rotation
		p.seenRotation = true
	}

	p.updateNetwork(a, now)

	switch a.Type {
	case action.TypeMove, action.TypeCrouch, action.TypeSprint:
		p.updateMovement()
	case action.TypeJump:
		p.updateMovement()
		p.updateJump(now)
	case action.TypeFireWeapon:
		p.updateFire(a, now)
	case action.TypeReloadWeapon, action.TypeSwitchWeapon:
		p.updateWeaponState(a, now)
	}

	p.Rate(a.Type).Add(now)
	p.History.Append(HistoryEntry{Type: a.Type, At: now, ClientAt: a.ClientTimestamp, Sequence: a.Sequence})
	p.pruneHistory(now)
	p.PacketTimes.Append(now)

	p.ticked = true
	p.CurrentAt = now
	p.Touch(now)
}

func (p *Player) updateMovement() {
	p.WasOnGround = p.OnGround

	if p.seenPosition {
		if p.PrevPositionValid {
			dist := p.Position.Sub(p.PrevPosition).Len()
			p.DistanceTravelled += dist
			if dt := p.TimeDelta.Seconds(); dt > 0 {
				if speed := dist / dt; speed > p.MaxSpeed {
					p.MaxSpeed = speed
				}
			}
		}
		p.OnGround = p.Position.Y() <= game.GroundLevel+game.GroundContactEpsilon
	}

	if p.OnGround {
		p.AirTime = 0
	} else if p.TimeDelta > 0 {
		p.AirTime += p.TimeDelta
	}
}

func (p *Player) updateJump(now time.Time) {
	p.PrevJumpAt = p.LastJumpAt
	p.LastJumpAt = now
	p.JumpCount++
	// The takeoff leaves the ground regardless of what the claimed position
	// said; the grounded state the jump started from is kept in WasOnGround.
	p.OnGround = false
}

func (p *Player) updateFire(a *action.Action, now time.Time) {
	p.PrevFireAt = p.LastFireAt
	p.PrevAmmo = p.Ammo
	p.PrevAmmoValid = p.CurrentWeapon != "" && a.Weapon != nil && a.Weapon.WeaponID == p.CurrentWeapon

	if a.Weapon != nil {
		if a.Weapon.WeaponID != p.CurrentWeapon {
			p.CurrentWeapon = a.Weapon.WeaponID
		}
		p.Ammo = a.Weapon.Ammo
	}

	if !p.HasFired || now.Sub(p.BurstStartAt) > p.burstWindow {
		p.BurstShots = 1
		p.BurstStartAt = now
	} else {
		p.BurstShots++
	}

	p.HasFired = true
	p.LastFireAt = now
}

func (p *Player) updateWeaponState(a *action.Action, now time.Time) {
	if a.Weapon == nil {
		return
	}

	p.PrevAmmo = p.Ammo
	p.PrevAmmoValid = p.CurrentWeapon != "" && a.Weapon.WeaponID == p.CurrentWeapon

	if a.Type == action.TypeSwitchWeapon && a.Weapon.WeaponID != p.CurrentWeapon {
		p.CurrentWeapon = a.Weapon.WeaponID
		p.LastSwitchAt = now
	}
	p.Ammo = a.Weapon.Ammo
}
