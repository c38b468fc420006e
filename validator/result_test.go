package validator

import "testing"

func TestCombineAllowedIsIdentity(t *testing.T) {
	flagged := Flag(ViolationSpeedHack, 0.8, "too fast", 14)

	if res := Combine(flagged, Allowed()); res != flagged {
		t.Fatalf("combine(flagged, allowed) = %+v, want the flagged result", res)
	}
	if res := Combine(Allowed(), flagged); res != flagged {
		t.Fatalf("combine(allowed, flagged) = %+v, want the flagged result", res)
	}
	if res := Combine(Allowed(), Allowed()); !res.Valid {
		t.Fatalf("combine of two valid results is invalid: %+v", res)
	}
}

func TestCombineKeepsHighestConfidence(t *testing.T) {
	low := Flag(ViolationRateLimit, 0.5, "spam", 7)
	high := Flag(ViolationImpossibleShot, 0.9, "too fast", 4)

	if res := Combine(low, high); res != high {
		t.Fatalf("combine kept %v over the higher-confidence %v", res.Violation, high.Violation)
	}
	if res := Combine(high, low); res != high {
		t.Fatalf("combine order changed the winner: got %v", res.Violation)
	}
}

func TestCombineTieKeepsFirst(t *testing.T) {
	first := Flag(ViolationSpeedHack, 0.8, "first", 1)
	second := Flag(ViolationRateLimit, 0.8, "second", 2)

	if res := Combine(first, second); res != first {
		t.Fatalf("tie did not keep the first result: got %v", res.Violation)
	}
}

func TestCombineOrderIndependent(t *testing.T) {
	valid := Allowed()
	invalid := Flag(ViolationPhysics, 0.7, "off the curve", 3)
	results := []Result{valid, invalid, valid}

	// Fold in every order; exactly one invalid result must always win.
	orders := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, order := range orders {
		res := results[order[0]]
		res = Combine(res, results[order[1]])
		res = Combine(res, results[order[2]])
		if res.Valid || res.Confidence != invalid.Confidence || res.Violation != invalid.Violation {
			t.Fatalf("fold order %v changed the outcome: %+v", order, res)
		}
	}
}

func TestViolationStrings(t *testing.T) {
	for v := ViolationNone; v <= ViolationServer; v++ {
		if v.String() == "Unknown" {
			t.Fatalf("violation %d has no name", v)
		}
	}
}
