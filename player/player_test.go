package player

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/settings"
	"github.com/sirupsen/logrus"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newPlayer() *Player {
	conf := settings.Default()
	return New("test", logrus.New(), conf.Engine, conf.Network.SampleHistory,
		time.Duration(conf.RateLimit.BurstWindowMs*float64(time.Millisecond)))
}

func move(seq uint32, at time.Time, pos mgl64.Vec3) *action.Action {
	return &action.Action{
		PlayerID:        "test",
		Type:            action.TypeMove,
		Position:        &pos,
		Timestamp:       at,
		ClientTimestamp: at.UnixMilli(),
		Sequence:        seq,
		Ping:            50 * time.Millisecond,
	}
}

func TestUpdateSnapshotsPreviousState(t *testing.T) {
	p := newPlayer()

	p.Update(move(1, base, mgl64.Vec3{1, 0, 0}))
	if p.Ticked() != true {
		t.Fatal("player should be ticked after the first action")
	}
	if p.PrevPositionValid {
		t.Fatal("no previous position can exist after one action")
	}

	p.Update(move(2, base.Add(100*time.Millisecond), mgl64.Vec3{2, 0, 0}))
	if !p.PrevPositionValid {
		t.Fatal("previous position should be valid after two actions")
	}
	if p.PrevPosition != (mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("previous position %v, want {1 0 0}", p.PrevPosition)
	}
	if p.Position != (mgl64.Vec3{2, 0, 0}) {
		t.Fatalf("current position %v, want {2 0 0}", p.Position)
	}
	if p.TimeDelta != 100*time.Millisecond {
		t.Fatalf("time delta %v, want 100ms", p.TimeDelta)
	}
}

func TestUpdateGroundTransitions(t *testing.T) {
	p := newPlayer()

	p.Update(move(1, base, mgl64.Vec3{0, 0, 0}))
	if !p.OnGround {
		t.Fatal("player at y=0 should be grounded")
	}

	jump := move(2, base.Add(100*time.Millisecond), mgl64.Vec3{0, 0.2, 0})
	jump.Type = action.TypeJump
	p.Update(jump)
	if p.OnGround {
		t.Fatal("a jump leaves the ground")
	}
	if !p.WasOnGround {
		t.Fatal("the jump started from the ground")
	}
	if p.JumpCount != 1 {
		t.Fatalf("jump count %d, want 1", p.JumpCount)
	}

	p.Update(move(3, base.Add(600*time.Millisecond), mgl64.Vec3{0, 0, 0}))
	if !p.OnGround {
		t.Fatal("landing at y=0 should restore the grounded state")
	}
}

func TestUpdateTracksMaxSpeed(t *testing.T) {
	p := newPlayer()

	p.Update(move(1, base, mgl64.Vec3{0, 0, 0}))
	p.Update(move(2, base.Add(time.Second), mgl64.Vec3{8, 0, 0}))

	if p.MaxSpeed != 8 {
		t.Fatalf("max speed %v, want 8", p.MaxSpeed)
	}
	if p.DistanceTravelled != 8 {
		t.Fatalf("distance travelled %v, want 8", p.DistanceTravelled)
	}
}

func TestFireBurstWindow(t *testing.T) {
	conf := settings.Default()
	p := New("test", logrus.New(), conf.Engine, conf.Network.SampleHistory, 5*time.Millisecond)

	fire := func(seq uint32, at time.Time) {
		p.Update(&action.Action{
			PlayerID:        "test",
			Type:            action.TypeFireWeapon,
			Timestamp:       at,
			ClientTimestamp: at.UnixMilli(),
			Sequence:        seq,
		})
	}

	fire(1, base)
	fire(2, base.Add(48*time.Millisecond))
	if p.BurstShots != 1 {
		t.Fatalf("shots outside the burst window chained: %d", p.BurstShots)
	}

	fire(3, base.Add(51*time.Millisecond))
	if p.BurstShots != 2 {
		t.Fatalf("shot inside the burst window did not chain: %d", p.BurstShots)
	}
}

func TestSuspicionStepAndCap(t *testing.T) {
	p := newPlayer()

	p.AddViolation(base)
	if got := p.Suspicion(base); got != 0.1 {
		t.Fatalf("suspicion after one violation %v, want 0.1", got)
	}

	for i := 0; i < 20; i++ {
		p.AddViolation(base)
	}
	if got := p.Suspicion(base); got != 1 {
		t.Fatalf("suspicion should cap at 1, got %v", got)
	}
}

func TestSuspicionDecays(t *testing.T) {
	p := newPlayer()
	p.AddViolation(base)

	got := p.Suspicion(base.Add(5 * time.Second))
	want := float32(0.1 - 5*0.01)
	if got < want-1e-6 || got > want+1e-6 {
		t.Fatalf("suspicion after 5s %v, want %v", got, want)
	}

	if got := p.Suspicion(base.Add(time.Hour)); got != 0 {
		t.Fatalf("suspicion should decay to zero, got %v", got)
	}
}

func TestViolationCount(t *testing.T) {
	p := newPlayer()
	p.AddViolation(base)
	p.AddViolation(base.Add(time.Second))

	if p.ViolationCount != 2 {
		t.Fatalf("violation count %d, want 2", p.ViolationCount)
	}
	if !p.LastViolationAt.Equal(base.Add(time.Second)) {
		t.Fatalf("last violation at %v", p.LastViolationAt)
	}
}

func TestRateTrackerCount(t *testing.T) {
	tr := NewRateTracker(10 * time.Second)
	for i := 0; i < 5; i++ {
		tr.Add(base.Add(time.Duration(i) * 100 * time.Millisecond))
	}

	now := base.Add(400 * time.Millisecond)
	if n := tr.Count(now, time.Second); n != 5 {
		t.Fatalf("count in 1s window %d, want 5", n)
	}
	if n := tr.Count(now, 250*time.Millisecond); n != 3 {
		t.Fatalf("count in 250ms window %d, want 3", n)
	}
}

func TestRateTrackerAvgInterval(t *testing.T) {
	tr := NewRateTracker(10 * time.Second)
	for i := 0; i < 5; i++ {
		tr.Add(base.Add(time.Duration(i) * 100 * time.Millisecond))
	}

	avg, n := tr.AvgInterval(base.Add(400*time.Millisecond), time.Second)
	if n != 5 {
		t.Fatalf("sample count %d, want 5", n)
	}
	if avg != 100*time.Millisecond {
		t.Fatalf("average interval %v, want 100ms", avg)
	}
}

func TestRateTrackerRetention(t *testing.T) {
	tr := NewRateTracker(10 * time.Second)
	tr.Add(base)
	tr.Add(base.Add(20 * time.Second))

	if n := tr.Count(base.Add(20*time.Second), time.Minute); n != 1 {
		t.Fatalf("stale stamps should be pruned on insert, got %d", n)
	}
}

func TestSeqDistance(t *testing.T) {
	cases := []struct {
		expected, got, want uint32
	}{
		{1, 1, 0},
		{1, 5, 4},
		{5, 1, 4},
		{0, 0xFFFFFFFF, 1},
		{0xFFFFFFFF, 0, 1},
	}
	for _, c := range cases {
		if d := seqDistance(c.expected, c.got); d != c.want {
			t.Fatalf("seqDistance(%d, %d) = %d, want %d", c.expected, c.got, d, c.want)
		}
	}
}

func TestDuplicateSequenceDetection(t *testing.T) {
	p := newPlayer()
	at := base
	for _, seq := range []uint32{1, 2, 3} {
		p.Update(move(seq, at, mgl64.Vec3{}))
		at = at.Add(50 * time.Millisecond)
	}

	p.Update(move(2, at, mgl64.Vec3{}))
	if !p.DuplicateSequence {
		t.Fatal("repeated sequence should be marked duplicate")
	}

	p.Update(move(4, at.Add(50*time.Millisecond), mgl64.Vec3{}))
	if p.DuplicateSequence {
		t.Fatal("fresh sequence should clear the duplicate mark")
	}
}

func TestPruneStale(t *testing.T) {
	p := newPlayer()
	p.Update(move(1, base, mgl64.Vec3{}))
	p.Update(move(2, base.Add(time.Second), mgl64.Vec3{}))

	if p.History.Len() != 2 {
		t.Fatalf("history length %d, want 2", p.History.Len())
	}

	p.PruneStale(base.Add(time.Hour))
	if p.History.Len() != 0 {
		t.Fatalf("aged history should be gone, got %d entries", p.History.Len())
	}
	if n := p.Rate(action.TypeMove).Count(base.Add(time.Hour), time.Hour); n != 0 {
		t.Fatalf("aged rate stamps should be gone, got %d", n)
	}
}

func TestTouchAndIdleSince(t *testing.T) {
	p := newPlayer()
	p.Touch(base)

	if !p.IdleSince().Equal(base) {
		t.Fatalf("idle since %v, want %v", p.IdleSince(), base)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p := newPlayer()
	if p.Closed() {
		t.Fatal("fresh player reports closed")
	}
	p.Close()
	p.Close()
	if !p.Closed() {
		t.Fatal("player should report closed")
	}
}
