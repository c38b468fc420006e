package validator

import (
	"math"
	"time"

	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/game"
	"github.com/sentinel-ac/sentinel/player"
	"github.com/sentinel-ac/sentinel/settings"
)

// Network validates the timing, sequencing and connection-metric claims of
// every action regardless of type.
type Network struct {
	conf settings.Network
}

// NewNetwork ...
func NewNetwork(conf settings.Network) *Network {
	return &Network{conf: conf}
}

// Type ...
func (*Network) Type() string {
	return "Network"
}

// Validate ...
func (n *Network) Validate(p *player.Player, a *action.Action) Result {
	if r := n.validateTiming(p); !r.Valid {
		return r
	}
	if r := n.validateSequence(p); !r.Valid {
		return r
	}
	if r := n.validateMetrics(p, a); !r.Valid {
		return r
	}
	if r := n.validatePatterns(p); !r.Valid {
		return r
	}
	return n.validateSkewDrift(p)
}

func (n *Network) validateTiming(p *player.Player) Result {
	if math.Abs(p.ClockSkew) > n.conf.MaxClockSkewMs {
		return Flag(ViolationTimingManipulation, 0.9, "client clock too far from server time", p.ClockSkew)
	}

	// A negative skew beyond the tolerance is a claim from the future.
	if -p.ClockSkew > n.conf.FutureToleranceMs {
		return Flag(ViolationTimingManipulation, 0.95, "action timestamped from the future", -p.ClockSkew)
	}

	if p.Ticked() {
		gapMs := float64(p.TimeDelta) / float64(time.Millisecond)
		if gapMs < n.conf.MinActionGapMs {
			return Flag(ViolationTimingManipulation, 0.8, "actions packed tighter than the wire allows", gapMs)
		}
	}

	return Allowed()
}

func (n *Network) validateSequence(p *player.Player) Result {
	// The first packet of a connection carries whatever starting sequence the
	// client chose and is exempt.
	if !p.HadSequence {
		return Allowed()
	}

	if p.DuplicateSequence {
		return Flag(ViolationPacketTampering, 0.9, "sequence number repeated from a recent packet", float64(p.LastSequence))
	}

	if p.SequenceDistance > n.conf.SequenceTolerance {
		return Flag(ViolationPacketTampering, 0.85, "sequence number outside the expected window", float64(p.SequenceDistance))
	}

	return Allowed()
}

func (n *Network) validateMetrics(p *player.Player, a *action.Action) Result {
	pingMs := float64(a.Ping) / float64(time.Millisecond)
	if pingMs < 0 || pingMs > n.conf.MaxPingMs {
		return Flag(ViolationNetworkManipulation, 0.7, "reported ping out of bounds", pingMs)
	}

	if a.PacketLoss < 0 || a.PacketLoss > n.conf.MaxPacketLoss {
		return Flag(ViolationNetworkManipulation, 0.7, "reported packet loss out of bounds", a.PacketLoss)
	}

	if p.PingHistory.Len() >= n.conf.PatternSamples {
		if jitter := game.MeanAbsoluteDeviation(p.PingHistory.Values()); jitter > n.conf.MaxJitterMs {
			return Flag(ViolationNetworkManipulation, 0.6, "ping jitter beyond a stable connection", jitter)
		}
	}

	return Allowed()
}

func (n *Network) validatePatterns(p *player.Player) Result {
	if p.IntervalHistory.Len() >= n.conf.PatternSamples {
		recent := p.IntervalHistory.Tail(n.conf.PatternSamples)
		if v := game.Variance(recent); v < n.conf.MinIntervalVariance {
			return Flag(ViolationBehavioral, 0.8, "inter-packet timing too perfect to be organic", v)
		}
	}

	if p.NetSamples >= n.conf.PatternSamples && p.AvgPing < n.conf.MinAvgPingMs {
		return Flag(ViolationNetworkManipulation, 0.9, "sustained ping below physical latency", p.AvgPing)
	}

	if r := n.validateBurst(p); !r.Valid {
		return r
	}

	return Allowed()
}

// validateBurst scans the recent packet arrival times for a sub-window packed
// with more packets than any legitimate client would emit.
func (n *Network) validateBurst(p *player.Player) Result {
	times := p.PacketTimes.Values()
	if len(times) <= n.conf.BurstMaxPackets {
		return Allowed()
	}

	window := msToDuration(n.conf.BurstWindowMs)
	for i := 0; i < len(times); i++ {
		count := 1
		for j := i + 1; j < len(times); j++ {
			if times[j].Sub(times[i]) > window {
				break
			}
			count++
		}
		if count > n.conf.BurstMaxPackets {
			return Flag(ViolationPacketTampering, 0.85, "packet burst beyond any legitimate client", float64(count))
		}
	}

	return Allowed()
}

func (n *Network) validateSkewDrift(p *player.Player) Result {
	if p.SkewHistory.Len() < n.conf.PatternSamples {
		return Allowed()
	}

	if dev := game.StandardDeviation(p.SkewHistory.Values()); dev > n.conf.SkewDriftToleranceMs {
		return Flag(ViolationTimingManipulation, 0.75, "client clock drifting between packets", dev)
	}

	return Allowed()
}
