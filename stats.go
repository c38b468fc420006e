package sentinel

import (
	"time"

	"github.com/sentinel-ac/sentinel/validator"
	"go.uber.org/atomic"
)

// Stats holds the engine's monotonic counters. They only reset on an explicit
// Reset, never as a side effect of validation.
type Stats struct {
	validations atomic.Int64
	violations  atomic.Int64
	processing  atomic.Int64 // ns

	validators map[string]*validatorStats
}

type validatorStats struct {
	calls atomic.Int64
	nanos atomic.Int64
}

var validatorNames = []string{"Network", "RateLimit", "Movement", "Physics", "Weapon", "Orchestrator"}

func newStats() *Stats {
	s := &Stats{validators: make(map[string]*validatorStats, len(validatorNames))}
	for _, name := range validatorNames {
		s.validators[name] = &validatorStats{}
	}
	return s
}

func (s *Stats) record(res validator.Result) {
	s.validations.Inc()
	if !res.Valid {
		s.violations.Inc()
	}
	s.processing.Add(int64(res.ProcessingTime))
}

func (s *Stats) observe(name string, d time.Duration) {
	vs, ok := s.validators[name]
	if !ok {
		return
	}
	vs.calls.Inc()
	vs.nanos.Add(int64(d))
}

// ValidatorStats is the per-validator latency snapshot.
type ValidatorStats struct {
	Calls      int64
	AvgLatency time.Duration
}

// StatsSnapshot is a consistent-enough copy of the engine counters for
// external reporting.
type StatsSnapshot struct {
	Validations   int64
	Violations    int64
	AvgProcessing time.Duration
	Validators    map[string]ValidatorStats
}

// Stats returns a snapshot of the engine counters.
func (s *Sentinel) Stats() StatsSnapshot {
	snap := StatsSnapshot{
		Validations: s.stats.validations.Load(),
		Violations:  s.stats.violations.Load(),
		Validators:  make(map[string]ValidatorStats, len(s.stats.validators)),
	}
	if snap.Validations > 0 {
		snap.AvgProcessing = time.Duration(s.stats.processing.Load() / snap.Validations)
	}
	for name, vs := range s.stats.validators {
		calls := vs.calls.Load()
		st := ValidatorStats{Calls: calls}
		if calls > 0 {
			st.AvgLatency = time.Duration(vs.nanos.Load() / calls)
		}
		snap.Validators[name] = st
	}
	return snap
}

// ResetStats zeroes every counter.
func (s *Sentinel) ResetStats() {
	s.stats.validations.Store(0)
	s.stats.violations.Store(0)
	s.stats.processing.Store(0)
	for _, vs := range s.stats.validators {
		vs.calls.Store(0)
		vs.nanos.Store(0)
	}
}
