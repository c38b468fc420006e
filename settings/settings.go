package settings

import (
	"os"

	"github.com/RestartFU/gophig"
	"github.com/pelletier/go-toml"
	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/game"
	"github.com/sentinel-ac/sentinel/serror"
)

// Settings contains every tunable threshold used by the engine and its
// validators. All checks read their tolerances from here so that none of them
// hide numeric literals at the check site.
type Settings struct {
	Engine    Engine
	Movement  Movement
	Physics   Physics
	Weapon    Weapon
	RateLimit RateLimit
	Network   Network
}

type Engine struct {
	// MaxAimSpeed is the highest believable rotation speed in degrees per second.
	MaxAimSpeed float64
	// SuspicionStep is added to a player's suspicion score per violation.
	SuspicionStep float64
	// SuspicionDecayPerSec is subtracted from the suspicion score per second
	// without violations.
	SuspicionDecayPerSec float64
	// IdleTimeoutSeconds is how long a player may stay inactive before the
	// eviction sweep removes their state.
	IdleTimeoutSeconds float64
	// HistorySize is the capacity of the per-player action history ring.
	HistorySize int
	// HistoryMaxAgeSeconds is the age past which history entries are pruned.
	HistoryMaxAgeSeconds float64
}

type Movement struct {
	TeleportDistance      float64
	WalkSpeed             float64
	SprintSpeed           float64
	CrouchSpeed           float64
	SpeedTolerance        float64
	Gravity               float64
	GravityTolerance      float64
	PositionTolerance     float64
	MaxJumpHeight         float64
	JumpVelocityTolerance float64
	JumpCooldownMs        float64
}

// SpeedCap returns the base speed cap for a movement action type, before the
// tolerance multiplier.
func (m Movement) SpeedCap(t action.Type) float64 {
	switch t {
	case action.TypeSprint, action.TypeJump:
		return m.SprintSpeed
	case action.TypeCrouch:
		return m.CrouchSpeed
	default:
		return m.WalkSpeed
	}
}

type Physics struct {
	Gravity           float64
	PositionTolerance float64
	MaxAcceleration   float64
	AccelTolerance    float64
	// GravityErrorBase and GravityErrorScale form the airborne gravity error
	// allowance: |expected|*scale + base.
	GravityErrorBase  float64
	GravityErrorScale float64
	// StepTolerance is the grounded rise allowed without a jump, covering
	// stairs and ramps.
	StepTolerance float64
}

type Weapon struct {
	FireRateTolerance  float64
	AmmoTolerance      int32
	ReloadTimeFactor   float64
	SwitchCooldownMs   float64
	FireOriginDistance float64
	AccuracyTolerance  float64
}

type RateLimit struct {
	MovePerSecond     int
	AimPerSecond      int
	FirePerSecond     int
	ReloadPerSecond   int
	SwitchPerSecond   int
	JumpPerSecond     int
	CrouchPerSecond   int
	InteractPerSecond int
	ChatPerSecond     int
	UseItemPerSecond  int

	MinFireGapMs   float64
	BurstWindowMs  float64
	BurstMaxShots  int32
	MinJumpGapMs   float64
	JumpWindowSec  float64
	JumpWindowMax  int
	ChatWindowSec  float64
	ChatWindowMax  int
	BotMinSamples  int
	BotBandLowMs   float64
	BotBandHighMs  float64
}

// Limit returns the flat actions-per-second ceiling for an action type.
func (r RateLimit) Limit(t action.Type) int {
	switch t {
	case action.TypeMove:
		return r.MovePerSecond
	case action.TypeAim:
		return r.AimPerSecond
	case action.TypeFireWeapon:
		return r.FirePerSecond
	case action.TypeReloadWeapon:
		return r.ReloadPerSecond
	case action.TypeSwitchWeapon:
		return r.SwitchPerSecond
	case action.TypeJump:
		return r.JumpPerSecond
	case action.TypeCrouch:
		return r.CrouchPerSecond
	case action.TypeInteract:
		return r.InteractPerSecond
	case action.TypeChat:
		return r.ChatPerSecond
	case action.TypeUseItem:
		return r.UseItemPerSecond
	case action.TypeSprint:
		return r.MovePerSecond
	}
	return r.MovePerSecond
}

type Network struct {
	MaxClockSkewMs       float64
	MinActionGapMs       float64
	FutureToleranceMs    float64
	SequenceTolerance    uint32
	MaxPingMs            float64
	MaxPacketLoss        float64
	MaxJitterMs          float64
	MinIntervalVariance  float64
	MinAvgPingMs         float64
	BurstWindowMs        float64
	BurstMaxPackets      int
	SkewDriftToleranceMs float64
	SampleHistory        int
	PatternSamples       int
}

// Default returns the settings the engine ships with.
func Default() Settings {
	return Settings{
		Engine: Engine{
			MaxAimSpeed:          1200,
			SuspicionStep:        0.1,
			SuspicionDecayPerSec: 0.01,
			IdleTimeoutSeconds:   300,
			HistorySize:          100,
			HistoryMaxAgeSeconds: 300,
		},
		Movement: Movement{
			TeleportDistance:      10,
			WalkSpeed:             game.MaxWalkSpeed,
			SprintSpeed:           game.MaxSprintSpeed,
			CrouchSpeed:           game.MaxCrouchSpeed,
			SpeedTolerance:        game.SpeedTolerance,
			Gravity:               game.Gravity,
			GravityTolerance:      2,
			PositionTolerance:     0.5,
			MaxJumpHeight:         game.MaxJumpHeight,
			JumpVelocityTolerance: 1.2,
			JumpCooldownMs:        500,
		},
		Physics: Physics{
			Gravity:           game.Gravity,
			PositionTolerance: 0.1,
			MaxAcceleration:   20,
			AccelTolerance:    1.2,
			GravityErrorBase:  1.0,
			GravityErrorScale: 0.2,
			StepTolerance:     0.05,
		},
		Weapon: Weapon{
			FireRateTolerance:  1.1,
			AmmoTolerance:      5,
			ReloadTimeFactor:   0.9,
			SwitchCooldownMs:   200,
			FireOriginDistance: 2,
			AccuracyTolerance:  1.2,
		},
		RateLimit: RateLimit{
			MovePerSecond:     60,
			AimPerSecond:      120,
			FirePerSecond:     20,
			ReloadPerSecond:   2,
			SwitchPerSecond:   5,
			JumpPerSecond:     3,
			CrouchPerSecond:   10,
			InteractPerSecond: 5,
			ChatPerSecond:     1,
			UseItemPerSecond:  5,

			MinFireGapMs:  10,
			BurstWindowMs: 500,
			BurstMaxShots: 10,
			MinJumpGapMs:  100,
			JumpWindowSec: 5,
			JumpWindowMax: 15,
			ChatWindowSec: 10,
			ChatWindowMax: 5,
			BotMinSamples: 10,
			BotBandLowMs:  50,
			BotBandHighMs: 200,
		},
		Network: Network{
			MaxClockSkewMs:       5000,
			MinActionGapMs:       1,
			FutureToleranceMs:    1000,
			SequenceTolerance:    100,
			MaxPingMs:            500,
			MaxPacketLoss:        0.1,
			MaxJitterMs:          100,
			MinIntervalVariance:  1.0,
			MinAvgPingMs:         1,
			BurstWindowMs:        10,
			BurstMaxPackets:      20,
			SkewDriftToleranceMs: 1000,
			SampleHistory:        50,
			PatternSamples:       10,
		},
	}
}

// Read loads settings from the toml file at path, creating it with defaults if
// it does not yet exist. The file is rewritten after loading so new fields
// always show up for the operator.
func Read(path string) (Settings, error) {
	c := Default()
	g := gophig.NewGophig[Settings](path, gophig.TOMLMarshaler{}, 0644)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := g.SaveConf(c); err != nil {
			return c, serror.New("error creating settings: %v", err)
		}
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, serror.New("error reading settings: %v", err)
	}
	if err := (gophig.TOMLMarshaler{}).Unmarshal(data, &c); err != nil {
		return c, serror.New("error reading settings: %v", err)
	}
	if err := g.SaveConf(c); err != nil {
		return c, serror.New("error writing settings: %v", err)
	}
	return c, nil
}

// String returns the toml rendering of the settings, for startup logging.
func (s Settings) String() string {
	data, err := toml.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}
