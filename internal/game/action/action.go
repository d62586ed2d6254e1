// Package action defines the decision a side submits for one turn.
package action

import (
	"fmt"
	"strings"
)

// Kind identifies what a side intends to do on its turn.
// The zero value (KindUnknown) is intentionally invalid.
type Kind int

const (
	KindUnknown Kind = iota
	KindAttack
	KindAbility
	KindSwitch
	// KindItem is reserved; it always fails legality.
	KindItem
)

// String returns the human-readable name of the Kind.
func (k Kind) String() string {
	switch k {
	case KindAttack:
		return "attack"
	case KindAbility:
		return "ability"
	case KindSwitch:
		return "switch"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

// ParseKind converts a name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attack":
		return KindAttack, nil
	case "ability", "use_ability":
		return KindAbility, nil
	case "switch":
		return KindSwitch, nil
	case "item", "use_item":
		return KindItem, nil
	default:
		return KindUnknown, fmt.Errorf("unknown action kind %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// NoTarget marks an Action without a switch target.
const NoTarget = -1

// Action is one side's decision for a turn.
type Action struct {
	Kind Kind
	// Ability is the ID of the ability to use for KindAbility.
	Ability string
	// SwitchTarget is the roster index for KindSwitch, or NoTarget.
	SwitchTarget int
}

// Attack returns a basic attack.
func Attack() Action { return Action{Kind: KindAttack, SwitchTarget: NoTarget} }

// UseAbility returns an ability action for the ability with the given ID.
func UseAbility(id string) Action {
	return Action{Kind: KindAbility, Ability: id, SwitchTarget: NoTarget}
}

// SwitchTo returns a switch to roster index i.
func SwitchTo(i int) Action { return Action{Kind: KindSwitch, SwitchTarget: i} }

// Item returns the reserved item action.
func Item() Action { return Action{Kind: KindItem, SwitchTarget: NoTarget} }

// String renders the action for logs.
func (a Action) String() string {
	switch a.Kind {
	case KindAbility:
		return fmt.Sprintf("ability %s", a.Ability)
	case KindSwitch:
		return fmt.Sprintf("switch %d", a.SwitchTarget)
	default:
		return a.Kind.String()
	}
}
