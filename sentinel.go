package sentinel

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/getsentry/sentry-go"
	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/game"
	"github.com/sentinel-ac/sentinel/player"
	"github.com/sentinel-ac/sentinel/settings"
	"github.com/sentinel-ac/sentinel/utils"
	"github.com/sentinel-ac/sentinel/validator"
	"github.com/sentinel-ac/sentinel/weapon"
	"github.com/sentinel-ac/sentinel/worker"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Sentinel is the validation orchestrator: it owns every player's rolling
// state, fans actions out to the validators, and reduces their verdicts into
// one result for the caller. It is safe for concurrent use from any number of
// connection workers.
type Sentinel struct {
	log *logrus.Logger
	set settings.Settings

	players *utils.ShardedMap[*player.Player]

	movement  *validator.Movement
	physics   *validator.Physics
	weapon    *validator.Weapon
	rateLimit *validator.RateLimit
	network   *validator.Network

	handler atomicHandler
	stats   *Stats
	closed  atomic.Bool
}

type atomicHandler struct {
	v atomic.Value // player.EventHandler
}

func (a *atomicHandler) load() player.EventHandler {
	if h, ok := a.v.Load().(player.EventHandler); ok {
		return h
	}
	return player.NopHandler{}
}

// New creates an engine with the given settings and weapon registry. A nil
// registry degrades every weapon lookup to the built-in fallback definition.
func New(log *logrus.Logger, set settings.Settings, weapons weapon.Registry) *Sentinel {
	s := &Sentinel{
		log:     log,
		set:     set,
		players: utils.NewShardedMap[*player.Player](),

		movement:  validator.NewMovement(set.Movement),
		physics:   validator.NewPhysics(set.Physics),
		weapon:    validator.NewWeapon(set.Weapon, weapons),
		rateLimit: validator.NewRateLimit(set.RateLimit),
		network:   validator.NewNetwork(set.Network),

		stats: newStats(),
	}
	s.handler.v.Store(player.EventHandler(player.NopHandler{}))
	return s
}

// Handle sets the event handler attached to every current and future player.
func (s *Sentinel) Handle(h player.EventHandler) {
	if h == nil {
		h = player.NopHandler{}
	}
	s.handler.v.Store(h)
	s.players.Range(func(_ string, p *player.Player) bool {
		p.Handle(h)
		return true
	})
}

// Validate re-checks one claimed action. It never panics and never blocks
// beyond the player's own critical section: an internal failure yields an
// allowed result with a diagnostic reason, because failing closed on an engine
// bug would disconnect innocent players.
func (s *Sentinel) Validate(playerID string, a *action.Action) (res validator.Result) {
	start := time.Now()
	defer func() {
		if v := recover(); v != nil {
			sentry.CurrentHub().Recover(v)
			s.log.Errorf("validation for %s did not complete: %v", playerID, v)
			res = validator.Allowed()
			res.Reason = "internal validation error"
			res.Source = "Orchestrator"
		}
		res.ProcessingTime = time.Since(start)
		s.stats.record(res)
	}()

	if s.closed.Load() || a == nil {
		res = validator.Allowed()
		res.Reason = "engine not accepting actions"
		res.Source = "Orchestrator"
		return res
	}
	if a.Timestamp.IsZero() {
		stamped := *a
		stamped.Timestamp = start
		a = &stamped
	}

	p, created := s.players.GetOrCreate(playerID, func() *player.Player {
		return s.newPlayer(playerID)
	})

	p.Lock()
	defer p.Unlock()

	p.Update(a)

	// The first-ever action of a player has no prior state to validate
	// against and never fails.
	if created {
		res = validator.Allowed()
		res.Reason = "first action"
		res.Source = "Orchestrator"
		return res
	}

	res = s.run(s.network, p, a)
	res = validator.Combine(res, s.run(s.rateLimit, p, a))

	switch {
	case a.Type.Movement():
		res = validator.Combine(res, s.run(s.movement, p, a))
		res = validator.Combine(res, s.run(s.physics, p, a))
	case a.Type.Weapon():
		res = validator.Combine(res, s.run(s.weapon, p, a))
	case a.Type == action.TypeAim:
		aimStart := time.Now()
		res = validator.Combine(res, s.validateAim(p, a))
		s.stats.observe("Orchestrator", time.Since(aimStart))
	}

	if !res.Valid {
		s.flag(p, a, &res)
	}
	return res
}

// run invokes one validator under its own recover so a validator bug turns
// into a tagged ServerValidation verdict instead of escaping the engine.
func (s *Sentinel) run(v validator.Validator, p *player.Player, a *action.Action) (res validator.Result) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			sentry.CurrentHub().Recover(rec)
			res = validator.Flag(validator.ViolationServer, 0.4, "validator failure in "+v.Type(), 0)
		}
		res.Source = v.Type()
		s.stats.observe(v.Type(), time.Since(start))
	}()
	return v.Validate(p, a)
}

// validateAim is the inline rotation-speed check for Aim actions: view
// rotation faster than any human flick is scripted aiming.
func (s *Sentinel) validateAim(p *player.Player, a *action.Action) validator.Result {
	res := validator.Allowed()
	res.Source = "Orchestrator"

	dt := p.TimeDelta.Seconds()
	if a.Rotation == nil || !p.PrevRotationValid || dt <= 0 {
		return res
	}

	var maxDelta float64
	for axis := 0; axis < 3; axis++ {
		if d := game.WrapDegreesDelta(a.Rotation[axis] - p.PrevRotation[axis]); d > maxDelta {
			maxDelta = d
		}
	}

	if speed := maxDelta / dt; speed > s.set.Engine.MaxAimSpeed {
		res = validator.Flag(validator.ViolationImpossibleMovement, 0.85, "rotation speed beyond human limits", speed)
		res.Source = "Orchestrator"
	}
	return res
}

// flag runs the violation bookkeeping: handler event, suspicion bump, log
// line, and the punishment hook once suspicion saturates.
func (s *Sentinel) flag(p *player.Player, a *action.Action, res *validator.Result) {
	data := res.Data
	if data == nil {
		data = orderedmap.NewOrderedMap[string, any]()
		res.Data = data
	}
	data.Set("evidence", game.Round64(res.Evidence, 4))
	data.Set("action", a.Type.String())

	ctx := player.C()
	p.EventHandler().HandleFlag(ctx, p, res.Violation.String(), res.Confidence, data)
	if ctx.Cancelled() {
		return
	}

	p.AddViolation(a.Timestamp)
	s.log.Warnf("%s flagged %s (%s) <conf %v> %s", p.ID(), res.Violation, res.Source,
		game.Round32(res.Confidence, 2), utils.OrderedMapToString(data))

	if p.Suspicion(a.Timestamp) < 1 {
		return
	}
	ctx = player.C()
	message := "suspicion score saturated"
	p.EventHandler().HandlePunishment(ctx, p, &message)
}

// newPlayer builds the state entry for a first-seen player id.
func (s *Sentinel) newPlayer(id string) *player.Player {
	p := player.New(id, s.log, s.set.Engine, s.set.Network.SampleHistory,
		time.Duration(s.set.RateLimit.BurstWindowMs*float64(time.Millisecond)))
	p.Handle(s.handler.load())
	return p
}

// CreatePlayer ensures state exists for the given player id and returns it.
func (s *Sentinel) CreatePlayer(id string) *player.Player {
	p, _ := s.players.GetOrCreate(id, func() *player.Player {
		return s.newPlayer(id)
	})
	return p
}

// Player returns the state of the given player id, if present.
func (s *Sentinel) Player(id string) (*player.Player, bool) {
	return s.players.Get(id)
}

// PlayerCount returns the number of tracked players.
func (s *Sentinel) PlayerCount() int {
	return s.players.Len()
}

// RemovePlayer drops the state of a disconnected player. A validation already
// in flight finishes on the detached state; a later action recreates a fresh
// one.
func (s *Sentinel) RemovePlayer(id string) {
	if p, ok := s.players.Delete(id); ok {
		p.Close()
	}
}

// Tick runs one maintenance pass: stale samples are pruned and players idle
// past the timeout are evicted. Call it from a periodic task; it takes no
// global lock and only briefly locks each player.
func (s *Sentinel) Tick() {
	now := time.Now()
	timeout := time.Duration(s.set.Engine.IdleTimeoutSeconds * float64(time.Second))

	var idle []string
	s.players.Range(func(id string, p *player.Player) bool {
		if now.Sub(p.IdleSince()) >= timeout {
			idle = append(idle, id)
			return true
		}
		p.PruneStale(now)
		return true
	})

	for _, id := range idle {
		s.RemovePlayer(id)
		s.log.Debugf("%s evicted after idle timeout", id)
	}
}

// StartTicking runs the maintenance sweep on the worker pool every interval
// until the engine closes.
func (s *Sentinel) StartTicking(interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for range t.C {
			if s.closed.Load() {
				return
			}
			worker.Submit(s.Tick)
		}
	}()
}

// Close stops the engine: pending states are dropped and further validations
// return allowed with a diagnostic reason.
func (s *Sentinel) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.players.Range(func(id string, p *player.Player) bool {
		p.Close()
		return true
	})
}
