// Package affinity defines combatant classes and the attack-versus-defense
// multiplier table that scales damage between them.
package affinity

import (
	"fmt"
	"strings"
)

// Class is the archetype of a combatant.
// The zero value (ClassNone) means "no class" and is only valid as an
// ability's class restriction.
type Class int

const (
	ClassNone Class = iota
	ClassWarrior
	ClassMage
	ClassRogue
	ClassTank
	ClassSupport
)

// Classes lists every concrete class in declaration order.
var Classes = []Class{ClassWarrior, ClassMage, ClassRogue, ClassTank, ClassSupport}

// String returns the lower-case class name.
func (c Class) String() string {
	switch c {
	case ClassWarrior:
		return "warrior"
	case ClassMage:
		return "mage"
	case ClassRogue:
		return "rogue"
	case ClassTank:
		return "tank"
	case ClassSupport:
		return "support"
	default:
		return "none"
	}
}

// Valid reports whether c is one of the five concrete classes.
func (c Class) Valid() bool {
	return c >= ClassWarrior && c <= ClassSupport
}

// ParseClass converts a case-insensitive class name into a Class.
//
// Postcondition: Returns a concrete Class, or an error for unknown names.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warrior":
		return ClassWarrior, nil
	case "mage":
		return ClassMage, nil
	case "rogue":
		return ClassRogue, nil
	case "tank":
		return ClassTank, nil
	case "support":
		return ClassSupport, nil
	default:
		return ClassNone, fmt.Errorf("unknown class %q", s)
	}
}

// UnmarshalText lets YAML definitions name classes as strings.
// An empty string decodes to ClassNone.
func (c *Class) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = ClassNone
		return nil
	}
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText encodes the class by name.
func (c Class) MarshalText() ([]byte, error) {
	if c == ClassNone {
		return []byte{}, nil
	}
	return []byte(c.String()), nil
}
