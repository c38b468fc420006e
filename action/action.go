package action

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Type identifies the kind of event a client claims to have performed.
type Type uint8

const (
	TypeMove Type = iota
	TypeJump
	TypeCrouch
	TypeSprint
	TypeFireWeapon
	TypeReloadWeapon
	TypeSwitchWeapon
	TypeAim
	TypeInteract
	TypeChat
	TypeUseItem
)

// String ...
func (t Type) String() string {
	switch t {
	case TypeMove:
		return "Move"
	case TypeJump:
		return "Jump"
	case TypeCrouch:
		return "Crouch"
	case TypeSprint:
		return "Sprint"
	case TypeFireWeapon:
		return "FireWeapon"
	case TypeReloadWeapon:
		return "ReloadWeapon"
	case TypeSwitchWeapon:
		return "SwitchWeapon"
	case TypeAim:
		return "Aim"
	case TypeInteract:
		return "Interact"
	case TypeChat:
		return "Chat"
	case TypeUseItem:
		return "UseItem"
	}
	return "Unknown"
}

// Movement reports whether actions of this type move the player and are
// subject to kinematic validation.
func (t Type) Movement() bool {
	switch t {
	case TypeMove, TypeJump, TypeCrouch, TypeSprint:
		return true
	}
	return false
}

// Weapon reports whether actions of this type operate a weapon.
func (t Type) Weapon() bool {
	switch t {
	case TypeFireWeapon, TypeReloadWeapon, TypeSwitchWeapon:
		return true
	}
	return false
}

// WeaponData carries the weapon-specific claims attached to a weapon action.
type WeaponData struct {
	WeaponID string
	// Ammo is the magazine count the client claims after the action.
	Ammo int32
	// FireOrigin is the claimed muzzle position of the shot.
	FireOrigin mgl64.Vec3
	// Accuracy is the claimed hit accuracy as a fraction in [0, 1].
	Accuracy float64
	// Target is the claimed target position, if any.
	Target *mgl64.Vec3
}

// Action is an immutable record of one claimed player event. It is created at
// the network boundary and consumed exactly once by the validation engine.
type Action struct {
	PlayerID string
	Type     Type

	Position *mgl64.Vec3
	Velocity *mgl64.Vec3
	// Rotation holds pitch/yaw/roll in degrees.
	Rotation *mgl64.Vec3

	// Timestamp is the server-observed time of the event.
	Timestamp time.Time
	// ClientTimestamp is the client-claimed wall-clock time in unix
	// milliseconds.
	ClientTimestamp int64
	// Sequence is the per-connection counter the client claims for this
	// action. It is expected to increase by one per packet, wrapping around.
	Sequence uint32

	Ping       time.Duration
	PacketLoss float64

	Weapon *WeaponData
}
