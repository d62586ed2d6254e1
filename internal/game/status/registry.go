package status

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Def is the static definition of one status effect kind.
type Def struct {
	Kind Kind `yaml:"kind"`
	// Duration is the number of turns a fresh or refreshed effect lasts.
	Duration int `yaml:"duration"`
	// DamagePercent is the fraction of max HP dealt per tick at stack 0.
	DamagePercent float64 `yaml:"damage_percent"`
	// StackPercent is the extra fraction of max HP dealt per stack.
	StackPercent float64 `yaml:"stack_percent"`
	// Escalates means the stack count grows on every tick and on re-apply.
	Escalates bool `yaml:"escalates"`
	// DamageReduction is the fraction of post-defense damage removed while active.
	DamageReduction float64 `yaml:"damage_reduction"`
	// AttackMultiplier scales effective attack while active; 0 means no change.
	AttackMultiplier float64 `yaml:"attack_multiplier"`
	// BlocksAction prevents the holder from acting while active.
	BlocksAction bool `yaml:"blocks_action"`
}

// DealsDamage reports whether the effect deals damage when processed.
func (d *Def) DealsDamage() bool {
	return d.DamagePercent > 0 || d.StackPercent > 0
}

// TickPercent returns the fraction of max HP dealt at the given stack count.
func (d *Def) TickPercent(stacks int) float64 {
	return d.DamagePercent + d.StackPercent*float64(stacks)
}

// Validate checks that the definition is internally consistent.
//
// Postcondition: Returns nil iff Kind is valid, Duration >= 1, and every
// percentage lies in [0, 1].
func (d *Def) Validate() error {
	if !d.Kind.Valid() {
		return fmt.Errorf("status def: invalid kind %d", d.Kind)
	}
	if d.Duration < 1 {
		return fmt.Errorf("status def %s: duration must be >= 1, got %d", d.Kind, d.Duration)
	}
	for name, v := range map[string]float64{
		"damage_percent":   d.DamagePercent,
		"stack_percent":    d.StackPercent,
		"damage_reduction": d.DamageReduction,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("status def %s: %s must be in [0, 1], got %v", d.Kind, name, v)
		}
	}
	if d.AttackMultiplier < 0 {
		return fmt.Errorf("status def %s: attack_multiplier must be >= 0, got %v", d.Kind, d.AttackMultiplier)
	}
	return nil
}

// Registry holds the definition of every status kind.
// A Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	defs map[Kind]*Def
}

// NewRegistry builds a Registry from defs. Every kind must be defined exactly once.
//
// Postcondition: Returns a Registry covering all Kinds, or an error listing every problem.
func NewRegistry(defs []Def) (*Registry, error) {
	r := &Registry{defs: make(map[Kind]*Def, len(defs))}
	var errs []error
	for i := range defs {
		d := defs[i]
		if err := d.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := r.defs[d.Kind]; dup {
			errs = append(errs, fmt.Errorf("status def %s: defined more than once", d.Kind))
			continue
		}
		r.defs[d.Kind] = &d
	}
	for _, k := range Kinds {
		if _, ok := r.defs[k]; !ok {
			errs = append(errs, fmt.Errorf("status def %s: missing", k))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// DefaultDefs returns the standard effect parameters.
func DefaultDefs() []Def {
	return []Def{
		{Kind: KindBurn, Duration: 3, DamagePercent: 0.05},
		{Kind: KindPoison, Duration: 4, DamagePercent: 0.05, StackPercent: 0.05, Escalates: true},
		{Kind: KindStun, Duration: 1, BlocksAction: true},
		{Kind: KindShield, Duration: 2, DamageReduction: 0.5},
		{Kind: KindBuff, Duration: 3, AttackMultiplier: 1.3},
		{Kind: KindDebuff, Duration: 3, AttackMultiplier: 0.7},
	}
}

// DefaultRegistry returns a Registry populated with DefaultDefs.
//
// Postcondition: Returns a non-nil Registry.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultDefs())
	if err != nil {
		panic("status: default definitions are invalid: " + err.Error())
	}
	return r
}

// Get returns the definition for k.
func (r *Registry) Get(k Kind) (*Def, bool) {
	d, ok := r.defs[k]
	return d, ok
}

// All returns the definitions in Kinds order.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, k := range Kinds {
		if d, ok := r.defs[k]; ok {
			out = append(out, d)
		}
	}
	return out
}

type registryFile struct {
	Effects []Def `yaml:"effects"`
}

// LoadFile reads a YAML file with an `effects:` list and builds a Registry.
//
// Precondition: path must name a readable file.
// Postcondition: Returns a complete Registry, or an error on read, parse or validation failure.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading status file %q: %w", path, err)
	}
	return LoadBytes(data)
}

// LoadBytes parses a registry from raw YAML.
func LoadBytes(data []byte) (*Registry, error) {
	var f registryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing status effects: %w", err)
	}
	if len(f.Effects) == 0 {
		return nil, errors.New("parsing status effects: no effects defined")
	}
	r, err := NewRegistry(f.Effects)
	if err != nil {
		return nil, fmt.Errorf("building status registry: %w", err)
	}
	return r, nil
}

// String summarizes the registry for logs.
func (r *Registry) String() string {
	parts := make([]string, 0, len(r.defs))
	for _, d := range r.All() {
		parts = append(parts, fmt.Sprintf("%s/%d", d.Kind, d.Duration))
	}
	return strings.Join(parts, ",")
}
