package affinity

// Multiplier tiers used by the standard table.
const (
	Strong  = 1.5
	Neutral = 1.0
	Weak    = 0.5
	Immune  = 0.0
)

// Advantage classifies a single matchup from the attacker's point of view.
type Advantage int

const (
	AdvantageNeutral Advantage = iota
	AdvantageFavored
	AdvantageUnfavored
)

// String returns a short label for the advantage.
func (a Advantage) String() string {
	switch a {
	case AdvantageFavored:
		return "advantage"
	case AdvantageUnfavored:
		return "disadvantage"
	default:
		return "neutral"
	}
}

type matchup struct {
	attacker Class
	defender Class
}

// Table is an immutable attack-class by defense-class multiplier lookup.
// Pairs that are not listed resolve to Neutral.
type Table struct {
	entries map[matchup]float64
}

// Standard returns the fixed class relations:
// warrior beats rogue, rogue beats mage, mage beats warrior; warrior and rogue
// are resisted by tank while mage is strong against it; support is neutral.
//
// Postcondition: Returns a non-nil Table. Every call returns an independent value.
func Standard() *Table {
	return NewTable(map[[2]Class]float64{
		{ClassWarrior, ClassRogue}: Strong,
		{ClassWarrior, ClassMage}:  Weak,
		{ClassRogue, ClassMage}:    Strong,
		{ClassRogue, ClassWarrior}: Weak,
		{ClassMage, ClassWarrior}:  Strong,
		{ClassMage, ClassRogue}:    Weak,
		{ClassWarrior, ClassTank}:  Weak,
		{ClassRogue, ClassTank}:    Weak,
		{ClassMage, ClassTank}:     Strong,
	})
}

// NewTable builds a Table from explicit [attacker, defender] pairs.
// The input map is copied.
func NewTable(pairs map[[2]Class]float64) *Table {
	t := &Table{entries: make(map[matchup]float64, len(pairs))}
	for k, v := range pairs {
		t.entries[matchup{attacker: k[0], defender: k[1]}] = v
	}
	return t
}

// Multiplier returns the damage factor for attacker hitting defender.
//
// Postcondition: Returns the listed factor, or Neutral for any unlisted pair.
func (t *Table) Multiplier(attacker, defender Class) float64 {
	if v, ok := t.entries[matchup{attacker: attacker, defender: defender}]; ok {
		return v
	}
	return Neutral
}

// Advantage classifies attacker against defender.
func (t *Table) Advantage(attacker, defender Class) Advantage {
	m := t.Multiplier(attacker, defender)
	switch {
	case m > Neutral:
		return AdvantageFavored
	case m < Neutral:
		return AdvantageUnfavored
	default:
		return AdvantageNeutral
	}
}

// Score returns +1 for a favored matchup, -1 for an unfavored one and 0 otherwise.
func (t *Table) Score(attacker, defender Class) int {
	switch t.Advantage(attacker, defender) {
	case AdvantageFavored:
		return 1
	case AdvantageUnfavored:
		return -1
	default:
		return 0
	}
}

// BestMatchup returns the index in candidates whose class fares best when
// attacking defender, ties broken by lowest index.
//
// Postcondition: Returns -1 iff candidates is empty.
func (t *Table) BestMatchup(candidates []Class, defender Class) int {
	best := -1
	bestMult := 0.0
	for i, c := range candidates {
		m := t.Multiplier(c, defender)
		if best == -1 || m > bestMult {
			best, bestMult = i, m
		}
	}
	return best
}

// WorstMatchup returns the index in candidates whose class fares worst when
// attacking defender, ties broken by lowest index.
//
// Postcondition: Returns -1 iff candidates is empty.
func (t *Table) WorstMatchup(candidates []Class, defender Class) int {
	worst := -1
	worstMult := 0.0
	for i, c := range candidates {
		m := t.Multiplier(c, defender)
		if worst == -1 || m < worstMult {
			worst, worstMult = i, m
		}
	}
	return worst
}
