package stats

import (
	"testing"
)

func TestNewTierCollectionRejectsBadThresholds(t *testing.T) {
	cases := []struct {
		name      string
		direction Direction
		tiers     []Tier
	}{
		{"empty", Ascending, nil},
		{"duplicate threshold ascending", Ascending, []Tier{{Name: "a", Threshold: 5}, {Name: "b", Threshold: 5}}},
		{"non-monotonic ascending", Ascending, []Tier{{Name: "a", Threshold: 10}, {Name: "b", Threshold: 5}}},
		{"non-monotonic descending", Descending, []Tier{{Name: "a", Threshold: 1}, {Name: "b", Threshold: 2.5}}},
		{"duplicate name", Ascending, []Tier{{Name: "a", Threshold: 5}, {Name: "a", Threshold: 10}}},
		{"empty name", Ascending, []Tier{{Name: "", Threshold: 5}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTierCollection(tc.direction, tc.tiers...); err == nil {
				t.Fatalf("expected construction error")
			}
		})
	}
}

func TestThresholdReturnsNextHarderBound(t *testing.T) {
	m := Milestones()

	b, err := m.Threshold("fives")
	if err != nil {
		t.Fatalf("Threshold returned error: %v", err)
	}
	if b.Threshold != 5 || !b.HasNext || b.Next != 10 {
		t.Fatalf("fives band = %+v, want threshold 5 next 10", b)
	}

	b, err = m.Threshold("centuries")
	if err != nil {
		t.Fatalf("Threshold returned error: %v", err)
	}
	if b.Threshold != 100 || b.HasNext {
		t.Fatalf("terminal band = %+v, want threshold 100 and no next", b)
	}

	if _, err := m.Threshold("nope"); err == nil {
		t.Fatalf("expected error for unknown tier")
	}
}

func TestInTierAscendingBands(t *testing.T) {
	m := Milestones()
	cases := []struct {
		value float64
		tier  string
		want  bool
	}{
		{4, "fives", false},
		{5, "fives", true},
		{9, "fives", true},
		{10, "fives", false},
		{10, "dimes", true},
		{150, "centuries", true}, // terminal band unbounded
		{99, "centuries", false},
	}
	for _, tc := range cases {
		if got := m.InTier(tc.value, tc.tier); got != tc.want {
			t.Fatalf("InTier(%v, %s) = %v, want %v", tc.value, tc.tier, got, tc.want)
		}
	}
}

func TestInTierDescendingBands(t *testing.T) {
	c := CostClub()
	cases := []struct {
		value float64
		tier  string
		want  bool
	}{
		{6, "five-dollar", false},
		{5, "five-dollar", true},
		{2.6, "five-dollar", true},
		{2.5, "five-dollar", false},
		{2.5, "two-fifty", true},
		{0.5, "fifty-cent", true},
		{0.1, "fifty-cent", true}, // terminal band unbounded
		{0.6, "fifty-cent", false},
	}
	for _, tc := range cases {
		if got := c.InTier(tc.value, tc.tier); got != tc.want {
			t.Fatalf("InTier(%v, %s) = %v, want %v", tc.value, tc.tier, got, tc.want)
		}
	}
}

func TestTierForMatchesExactlyOneTier(t *testing.T) {
	for _, c := range []TierCollection{Milestones(), CostClub()} {
		for _, v := range []float64{0, 0.5, 1, 2.5, 3, 4.99, 5, 7, 10, 25, 99, 100, 1000} {
			matches := 0
			for _, tier := range c.Tiers() {
				if c.InTier(v, tier.Name) {
					matches++
				}
			}
			if matches > 1 {
				t.Fatalf("%s value %v is in %d tiers, want at most 1", c.Direction(), v, matches)
			}
			name, ok := c.TierFor(v)
			if ok != (matches == 1) {
				t.Fatalf("%s TierFor(%v) ok = %v, matches = %d", c.Direction(), v, ok, matches)
			}
			if ok && !c.InTier(v, name) {
				t.Fatalf("TierFor(%v) = %s but InTier disagrees", v, name)
			}
		}
	}
}

func TestAtOrBeyondIsMonotonic(t *testing.T) {
	m := Milestones()
	// Once a value reaches a tier, it has reached every easier tier too.
	for _, v := range []float64{0, 5, 12, 25, 100, 500} {
		reached := true
		for _, tier := range m.Tiers() {
			at := m.AtOrBeyond(v, tier.Name)
			if at && !reached {
				t.Fatalf("value %v reaches %s without reaching an easier tier", v, tier.Name)
			}
			reached = at
		}
	}

	c := CostClub()
	if !c.AtOrBeyond(2.5, "five-dollar") || !c.AtOrBeyond(2.5, "two-fifty") {
		t.Fatalf("cost 2.5 must reach both the 5 and 2.5 tiers")
	}
	if c.AtOrBeyond(2.5, "one-dollar") {
		t.Fatalf("cost 2.5 must not reach the 1 tier")
	}
}

func TestNextTarget(t *testing.T) {
	m := Milestones()
	if target, ok := m.NextTarget(7); !ok || target != 10 {
		t.Fatalf("NextTarget(7) = %v, %v, want 10, true", target, ok)
	}
	if target, ok := m.NextTarget(3); !ok || target != 5 {
		t.Fatalf("NextTarget(3) = %v, %v, want 5, true", target, ok)
	}
	if _, ok := m.NextTarget(100); ok {
		t.Fatalf("NextTarget past terminal threshold must report none")
	}

	c := CostClub()
	if target, ok := c.NextTarget(3); !ok || target != 2.5 {
		t.Fatalf("NextTarget(3) = %v, %v, want 2.5, true", target, ok)
	}
	if _, ok := c.NextTarget(0.5); ok {
		t.Fatalf("NextTarget at terminal cost threshold must report none")
	}
}

func TestNextTier(t *testing.T) {
	m := Milestones()
	if next, ok := m.NextTier("fives"); !ok || next != "dimes" {
		t.Fatalf("NextTier(fives) = %s, %v, want dimes, true", next, ok)
	}
	if _, ok := m.NextTier("centuries"); ok {
		t.Fatalf("terminal tier must have no next tier")
	}
}
