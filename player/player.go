package player

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/settings"
	"github.com/sentinel-ac/sentinel/utils"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Player holds the rolling validation state of one connected player. One
// instance exists per player id; every mutation happens under the player's own
// lock, taken by the orchestrator for the duration of a validation.
type Player struct {
	id   string
	log  *logrus.Logger
	conf settings.Engine

	// burstWindow is the span within which consecutive shots chain into one
	// burst; it mirrors the rate-limit validator's window.
	burstWindow time.Duration

	mu sync.Mutex

	// Current and previous snapshots. The previous fields always equal the
	// current fields as they were before the latest Update, so deltas are
	// well-defined once at least one prior action exists.
	Position     mgl64.Vec3
	PrevPosition mgl64.Vec3
	Velocity     mgl64.Vec3
	PrevVelocity mgl64.Vec3
	Rotation     mgl64.Vec3
	PrevRotation mgl64.Vec3
	CurrentAt    time.Time
	PrevAt       time.Time

	// Validity flags for the previous snapshot. A zero vector is the
	// uninitialized sentinel, so checks must not derive deltas until the
	// matching flag is set.
	PrevPositionValid bool
	PrevVelocityValid bool
	PrevRotationValid bool

	// Per-action transients derived during Update and consumed by the
	// validators that run right after.
	TimeDelta         time.Duration
	ClockSkew         float64 // ms, server time minus client claim
	SequenceDistance  uint32
	DuplicateSequence bool
	HadSequence       bool
	WasOnGround       bool
	PrevFireAt        time.Time
	PrevJumpAt        time.Time
	PrevAmmo          int32
	PrevAmmoValid     bool

	// History and rate windows.
	History     *utils.CircularQueue[HistoryEntry]
	PacketTimes *utils.CircularQueue[time.Time]
	rates       map[action.Type]*RateTracker

	// Movement bookkeeping.
	DistanceTravelled float64
	MaxSpeed          float64
	JumpCount         int
	LastJumpAt        time.Time
	OnGround          bool
	AirTime           time.Duration

	// Weapon bookkeeping.
	CurrentWeapon string
	Ammo          int32
	HasFired      bool
	LastFireAt    time.Time
	BurstShots    int32
	BurstStartAt  time.Time
	LastSwitchAt  time.Time

	// Network bookkeeping.
	AvgPing         float64 // ms
	AvgPacketLoss   float64
	NetSamples      int
	LastSequence    uint32
	SeqHistory      *utils.CircularQueue[uint32]
	PingHistory     *utils.CircularQueue[float64]
	SkewHistory     *utils.CircularQueue[float64]
	IntervalHistory *utils.CircularQueue[float64]

	// Violation bookkeeping.
	ViolationCount  int
	LastViolationAt time.Time
	suspicion       float32
	suspicionAt     time.Time

	seenPosition bool
	seenVelocity bool
	seenRotation bool
	seenSequence bool
	ticked       bool

	lastActivity atomic.Int64

	hMutex sync.RWMutex
	h      EventHandler

	closed atomic.Bool
}

// New creates the state for a newly seen player. sampleHistory caps the
// network sample rings and comes from the network settings; burstWindow is
// the fire-burst span from the rate-limit settings.
func New(id string, log *logrus.Logger, conf settings.Engine, sampleHistory int, burstWindow time.Duration) *Player {
	p := &Player{
		id:   id,
		log:  log,
		conf: conf,

		burstWindow: burstWindow,

		History:     utils.NewCircularQueue[HistoryEntry](conf.HistorySize),
		PacketTimes: utils.NewCircularQueue[time.Time](sampleHistory),
		rates:       make(map[action.Type]*RateTracker),

		SeqHistory:      utils.NewCircularQueue[uint32](sampleHistory),
		PingHistory:     utils.NewCircularQueue[float64](sampleHistory),
		SkewHistory:     utils.NewCircularQueue[float64](sampleHistory),
		IntervalHistory: utils.NewCircularQueue[float64](sampleHistory),

		h: NopHandler{},
	}
	p.lastActivity.Store(time.Now().UnixNano())
	return p
}

// ID returns the player id the state belongs to.
func (p *Player) ID() string {
	return p.id
}

// Log returns the logger of the player.
func (p *Player) Log() *logrus.Logger {
	return p.log
}

// Lock acquires the player's critical section. The orchestrator holds it for
// the whole of one validation so retransmitted or out-of-order concurrent
// deliveries for the same player serialize here.
func (p *Player) Lock() {
	p.mu.Lock()
}

// Unlock releases the player's critical section.
func (p *Player) Unlock() {
	p.mu.Unlock()
}

// Ticked reports whether the player has processed at least one action, i.e.
// whether delta-based checks have a previous snapshot to work from.
func (p *Player) Ticked() bool {
	return p.ticked
}

// Touch records activity at the given time for idle eviction.
func (p *Player) Touch(now time.Time) {
	p.lastActivity.Store(now.UnixNano())
}

// IdleSince returns the last recorded activity time. Safe to call without the
// player lock; the eviction sweep relies on that.
func (p *Player) IdleSince() time.Time {
	return time.Unix(0, p.lastActivity.Load())
}

// Handle sets the event handler receiving flag and punishment events.
func (p *Player) Handle(h EventHandler) {
	p.hMutex.Lock()
	if h == nil {
		h = NopHandler{}
	}
	p.h = h
	p.hMutex.Unlock()
}

// EventHandler returns the current event handler of the player.
func (p *Player) EventHandler() EventHandler {
	p.hMutex.RLock()
	defer p.hMutex.RUnlock()
	return p.h
}

// Close marks the player state as dead. A closed state is never revived; a
// late action for the same id recreates a fresh one.
func (p *Player) Close() {
	p.closed.Store(true)
}

// Closed reports whether the state has been removed from the engine.
func (p *Player) Closed() bool {
	return p.closed.Load()
}
