package stats

import (
	"fmt"
)

// Direction fixes which way a tier collection's thresholds get harder.
type Direction int

const (
	// Ascending means higher values are better (play-count milestones).
	Ascending Direction = iota
	// Descending means lower values are better (cost per play).
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// Tier is a named threshold on the metric value line.
type Tier struct {
	Name      string
	Threshold float64
}

// Band is the half-open value range a single tier occupies. Next is the
// next-harder threshold; HasNext is false at the terminal tier, whose open
// end is unbounded.
type Band struct {
	Threshold float64
	Next      float64
	HasNext   bool
}

// TierCollection is an immutable ordered set of named thresholds. Tiers are
// ordered from entry (easiest) to terminal (hardest) and partition the value
// line without overlap: at most one tier contains any given value.
type TierCollection struct {
	direction Direction
	tiers     []Tier
}

// NewTierCollection validates and builds a collection. Tiers must be given
// in entry-to-terminal order and be strictly monotonic per direction;
// duplicate thresholds or names are construction errors, never normalized.
func NewTierCollection(direction Direction, tiers ...Tier) (TierCollection, error) {
	if len(tiers) == 0 {
		return TierCollection{}, fmt.Errorf("tier collection requires at least one tier")
	}
	names := make(map[string]struct{}, len(tiers))
	for i, t := range tiers {
		if t.Name == "" {
			return TierCollection{}, fmt.Errorf("tier %d has an empty name", i)
		}
		if _, dup := names[t.Name]; dup {
			return TierCollection{}, fmt.Errorf("duplicate tier name %q", t.Name)
		}
		names[t.Name] = struct{}{}
		if i == 0 {
			continue
		}
		prev := tiers[i-1].Threshold
		switch direction {
		case Ascending:
			if t.Threshold <= prev {
				return TierCollection{}, fmt.Errorf("ascending thresholds must strictly increase: %v after %v", t.Threshold, prev)
			}
		case Descending:
			if t.Threshold >= prev {
				return TierCollection{}, fmt.Errorf("descending thresholds must strictly decrease: %v after %v", t.Threshold, prev)
			}
		}
	}
	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	return TierCollection{direction: direction, tiers: cp}, nil
}

func (c TierCollection) Direction() Direction { return c.direction }

// Tiers returns the tiers in entry-to-terminal order.
func (c TierCollection) Tiers() []Tier {
	cp := make([]Tier, len(c.tiers))
	copy(cp, c.tiers)
	return cp
}

// Values returns the thresholds in entry-to-terminal order.
func (c TierCollection) Values() []float64 {
	vals := make([]float64, len(c.tiers))
	for i, t := range c.tiers {
		vals[i] = t.Threshold
	}
	return vals
}

func (c TierCollection) index(name string) int {
	for i, t := range c.tiers {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// Threshold returns the band for a tier, bounded below (ascending) or above
// (descending) by its own threshold and by the next-harder threshold on the
// open side.
func (c TierCollection) Threshold(name string) (Band, error) {
	i := c.index(name)
	if i < 0 {
		return Band{}, fmt.Errorf("unknown tier %q", name)
	}
	b := Band{Threshold: c.tiers[i].Threshold}
	if i+1 < len(c.tiers) {
		b.Next = c.tiers[i+1].Threshold
		b.HasNext = true
	}
	return b, nil
}

// NextTier returns the next-harder tier name, or false at the terminal tier.
func (c TierCollection) NextTier(name string) (string, bool) {
	i := c.index(name)
	if i < 0 || i+1 >= len(c.tiers) {
		return "", false
	}
	return c.tiers[i+1].Name, true
}

// InTier reports whether value falls inside the tier's own band:
// [threshold, next) ascending, (next, threshold] descending. The terminal
// tier has no far bound.
func (c TierCollection) InTier(value float64, name string) bool {
	i := c.index(name)
	if i < 0 {
		return false
	}
	b, _ := c.Threshold(name)
	if c.direction == Descending {
		if value > b.Threshold {
			return false
		}
		return !b.HasNext || value > b.Next
	}
	if value < b.Threshold {
		return false
	}
	return !b.HasNext || value < b.Next
}

// AtOrBeyond reports cumulative membership: the value has reached this
// tier's threshold or any harder one.
func (c TierCollection) AtOrBeyond(value float64, name string) bool {
	i := c.index(name)
	if i < 0 {
		return false
	}
	if c.direction == Descending {
		return value <= c.tiers[i].Threshold
	}
	return value >= c.tiers[i].Threshold
}

// TierFor returns the unique tier whose band contains value, or false when
// the value has not reached the entry tier.
func (c TierCollection) TierFor(value float64) (string, bool) {
	for _, t := range c.tiers {
		if c.InTier(value, t.Name) {
			return t.Name, true
		}
	}
	return "", false
}

// NextTarget returns the nearest threshold strictly harder than value, or
// false when the terminal threshold is already reached.
func (c TierCollection) NextTarget(value float64) (float64, bool) {
	for _, t := range c.tiers {
		if c.direction == Descending {
			if value > t.Threshold {
				return t.Threshold, true
			}
		} else if value < t.Threshold {
			return t.Threshold, true
		}
	}
	return 0, false
}

// Milestones is the ascending play-count club ladder: fives, dimes,
// quarters, centuries.
func Milestones() TierCollection {
	return mustTiers(Ascending,
		Tier{Name: "fives", Threshold: 5},
		Tier{Name: "dimes", Threshold: 10},
		Tier{Name: "quarters", Threshold: 25},
		Tier{Name: "centuries", Threshold: 100},
	)
}

// CostClub is the descending price-per-metric ladder; lower cost per play
// is the harder tier.
func CostClub() TierCollection {
	return mustTiers(Descending,
		Tier{Name: "five-dollar", Threshold: 5},
		Tier{Name: "two-fifty", Threshold: 2.5},
		Tier{Name: "one-dollar", Threshold: 1},
		Tier{Name: "fifty-cent", Threshold: 0.5},
	)
}

func mustTiers(direction Direction, tiers ...Tier) TierCollection {
	c, err := NewTierCollection(direction, tiers...)
	if err != nil {
		panic(err)
	}
	return c
}
