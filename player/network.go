package player

import (
	"math"
	"time"

	"github.com/sentinel-ac/sentinel/action"
)

// updateNetwork folds the network-level claims of an action into the sample
// histories. Sequence bookkeeping derives its transients before the new
// sequence number lands in the ring, so duplicate detection never matches the
// action against itself.
func (p *Player) updateNetwork(a *action.Action, now time.Time) {
	skew := float64(now.UnixMilli() - a.ClientTimestamp)
	p.ClockSkew = skew
	p.SkewHistory.Append(skew)

	if p.ticked {
		p.IntervalHistory.Append(float64(p.TimeDelta) / float64(time.Millisecond))
	}

	p.HadSequence = p.seenSequence
	p.DuplicateSequence = false
	p.SequenceDistance = 0
	if p.seenSequence {
		p.SequenceDistance = seqDistance(p.LastSequence+1, a.Sequence)
		for s := range p.SeqHistory.Iter() {
			if s == a.Sequence {
				p.DuplicateSequence = true
				break
			}
		}
	}
	p.SeqHistory.Append(a.Sequence)
	p.LastSequence = a.Sequence
	p.seenSequence = true

	ping := float64(a.Ping) / float64(time.Millisecond)
	n := float64(p.NetSamples)
	p.AvgPing = (p.AvgPing*n + ping) / (n + 1)
	p.AvgPacketLoss = (p.AvgPacketLoss*n + a.PacketLoss) / (n + 1)
	p.NetSamples++
	p.PingHistory.Append(ping)
}

// seqDistance returns the wraparound-aware distance between two sequence
// numbers, so 0xFFFFFFFF followed by 0 counts as adjacent.
func seqDistance(expected, got uint32) uint32 {
	d := got - expected
	if d > math.MaxUint32/2 {
		d = -d
	}
	return d
}
