// Package status holds the timed status effects that can be attached to a
// combatant: their static per-kind parameters and the per-combatant active set.
package status

import (
	"fmt"
	"strings"
)

// Kind identifies a status effect.
// The zero value (KindNone) is intentionally invalid.
type Kind int

const (
	KindNone Kind = iota
	KindBurn
	KindPoison
	KindStun
	KindShield
	KindBuff
	KindDebuff
)

// Kinds lists every valid kind in declaration order.
var Kinds = []Kind{KindBurn, KindPoison, KindStun, KindShield, KindBuff, KindDebuff}

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindBurn:
		return "burn"
	case KindPoison:
		return "poison"
	case KindStun:
		return "stun"
	case KindShield:
		return "shield"
	case KindBuff:
		return "buff"
	case KindDebuff:
		return "debuff"
	default:
		return "none"
	}
}

// Valid reports whether k names a real effect.
func (k Kind) Valid() bool {
	return k >= KindBurn && k <= KindDebuff
}

// ParseKind converts a case-insensitive name into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(strings.TrimSpace(s), k.String()) {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("unknown status effect %q", s)
}

// UnmarshalText decodes a kind from its name. Empty input decodes to KindNone.
func (k *Kind) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*k = KindNone
		return nil
	}
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if k == KindNone {
		return []byte{}, nil
	}
	return []byte(k.String()), nil
}
