package status

// Active tracks one applied effect on a combatant.
type Active struct {
	Kind      Kind
	Remaining int
	// Stacks escalates damage for effects whose Def.Escalates is set.
	Stacks int
}

// ActiveSet tracks the effects currently applied to one combatant, in the
// order they were first applied. At most one entry exists per kind.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	effects []*Active
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

func (s *ActiveSet) find(k Kind) *Active {
	for _, a := range s.effects {
		if a.Kind == k {
			return a
		}
	}
	return nil
}

// Apply adds def's kind to the set or refreshes it.
// A refresh resets Remaining to def.Duration and, for escalating effects,
// increments Stacks immediately.
//
// Precondition: def must not be nil.
// Postcondition: Has(def.Kind) is true and exactly one entry exists for def.Kind.
func (s *ActiveSet) Apply(def *Def) {
	if existing := s.find(def.Kind); existing != nil {
		existing.Remaining = def.Duration
		if def.Escalates {
			existing.Stacks++
		}
		return
	}
	s.effects = append(s.effects, &Active{Kind: def.Kind, Remaining: def.Duration})
}

// Remove deletes k from the set. Removing an absent kind is a no-op.
//
// Postcondition: Has(k) is false.
func (s *ActiveSet) Remove(k Kind) {
	for i, a := range s.effects {
		if a.Kind == k {
			s.effects = append(s.effects[:i], s.effects[i+1:]...)
			return
		}
	}
}

// Escalate increments the stack count of k if present.
func (s *ActiveSet) Escalate(k Kind) {
	if a := s.find(k); a != nil {
		a.Stacks++
	}
}

// Tick decrements every effect's Remaining by one and removes those that
// reach zero or below.
//
// Postcondition: For every kind in the returned slice, Has(kind) is false.
func (s *ActiveSet) Tick() []Kind {
	var expired []Kind
	kept := s.effects[:0]
	for _, a := range s.effects {
		a.Remaining--
		if a.Remaining <= 0 {
			expired = append(expired, a.Kind)
			continue
		}
		kept = append(kept, a)
	}
	s.effects = kept
	return expired
}

// Has reports whether k is currently active.
func (s *ActiveSet) Has(k Kind) bool {
	return s.find(k) != nil
}

// Stacks returns the stack count for k, or 0 if absent.
func (s *ActiveSet) Stacks(k Kind) int {
	if a := s.find(k); a != nil {
		return a.Stacks
	}
	return 0
}

// Remaining returns the turns left for k, or 0 if absent.
func (s *ActiveSet) Remaining(k Kind) int {
	if a := s.find(k); a != nil {
		return a.Remaining
	}
	return 0
}

// Len returns the number of active effects.
func (s *ActiveSet) Len() int { return len(s.effects) }

// All returns copies of the active effects in application order.
func (s *ActiveSet) All() []Active {
	out := make([]Active, len(s.effects))
	for i, a := range s.effects {
		out[i] = *a
	}
	return out
}

// Clear removes every effect.
func (s *ActiveSet) Clear() {
	s.effects = nil
}

// Clone returns an independent copy of the set.
func (s *ActiveSet) Clone() *ActiveSet {
	c := &ActiveSet{effects: make([]*Active, len(s.effects))}
	for i, a := range s.effects {
		cp := *a
		c.effects[i] = &cp
	}
	return c
}
