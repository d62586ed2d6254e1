package policy

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
)

// Policy kind names accepted by New.
const (
	KindRandom   = "random"
	KindScripted = "scripted"
	KindGreedy   = "greedy"
	KindLua      = "lua"
	KindAdvisor  = "advisor"
)

// Kinds lists every policy kind New accepts.
var Kinds = []string{KindRandom, KindScripted, KindGreedy, KindLua, KindAdvisor}

// Deps carries what the policy variants may need. Only the fields a kind uses
// must be set.
type Deps struct {
	// Source drives Random, the dice of Lua scripts and the Random fallback
	// of Advisor.
	Source dice.Source
	// Resolver drives Greedy, and the Greedy fallback of Advisor when set.
	Resolver *combat.Resolver
	// Scripts and Script select the loaded Lua script for KindLua.
	Scripts ScriptCaller
	Script  string
	// Completer answers KindAdvisor prompts.
	Completer Completer
	// Actions seeds KindScripted.
	Actions []action.Action
	Logger  *zap.Logger
}

// New builds the policy named kind.
//
// Postcondition: Returns an error naming kind if it is unknown or a
// dependency it requires is missing.
func New(kind string, deps Deps) (Policy, error) {
	switch strings.ToLower(kind) {
	case KindRandom:
		if deps.Source == nil {
			return nil, fmt.Errorf("policy %q: random source required", kind)
		}
		return NewRandom(deps.Source), nil
	case KindScripted:
		return NewScripted(deps.Actions...), nil
	case KindGreedy:
		if deps.Resolver == nil {
			return nil, fmt.Errorf("policy %q: resolver required", kind)
		}
		return NewGreedy(deps.Resolver), nil
	case KindLua:
		if deps.Scripts == nil || deps.Script == "" {
			return nil, fmt.Errorf("policy %q: script required", kind)
		}
		return NewLua(deps.Scripts, deps.Script, deps.Source), nil
	case KindAdvisor:
		if deps.Completer == nil {
			return nil, fmt.Errorf("policy %q: completer required", kind)
		}
		var fallback Policy
		switch {
		case deps.Resolver != nil:
			fallback = NewGreedy(deps.Resolver)
		case deps.Source != nil:
			fallback = NewRandom(deps.Source)
		default:
			return nil, fmt.Errorf("policy %q: resolver or random source required for the fallback", kind)
		}
		return NewAdvisor(deps.Completer, fallback, deps.Logger), nil
	default:
		return nil, fmt.Errorf("unknown policy %q (want one of %s)", kind, strings.Join(Kinds, ", "))
	}
}
