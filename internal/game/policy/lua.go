package policy

import (
	"context"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/roster"
)

// DecideHook is the global Lua function a policy script must define. It
// receives the state table built by BuildState and returns a decision table:
//
//	{kind = "attack"}
//	{kind = "ability", ability = "<id>"}
//	{kind = "switch", switch = <one-based member index>}
const DecideHook = "decide"

// ScriptCaller is the interface required by the Lua policy to evaluate a script.
type ScriptCaller interface {
	// CallHookWithSource calls a named Lua function in the named script's VM
	// with the script's dice drawing from src. Returns (LNil, nil) if the
	// function is not defined.
	CallHookWithSource(src dice.Source, name, hook string, args ...any) (lua.LValue, error)
}

// Lua delegates every decision to the decide hook of a loaded script.
//
// Invariant: caller must not be nil.
type Lua struct {
	caller ScriptCaller
	script string
	src    dice.Source
}

// NewLua constructs a Lua policy calling script through caller. The script's
// engine.dice draws from src, or from the caller's own source when src is nil.
//
// Precondition: caller must not be nil; script must name a loaded script.
func NewLua(caller ScriptCaller, script string, src dice.Source) *Lua {
	if caller == nil {
		panic("policy.NewLua: caller must not be nil")
	}
	return &Lua{caller: caller, script: script, src: src}
}

// Name returns "lua:<script>".
func (l *Lua) Name() string { return KindLua + ":" + l.script }

// Decide runs the decide hook.
//
// Postcondition: Returns an error wrapping ErrNoDecision when the script is
// missing, defines no hook or returns a malformed decision.
func (l *Lua) Decide(ctx context.Context, own, opp *roster.Roster, snap combat.Snapshot) (action.Action, error) {
	if err := ctx.Err(); err != nil {
		return action.Action{}, err
	}
	ret, err := l.caller.CallHookWithSource(l.src, l.script, DecideHook, BuildState(own, opp, snap))
	if err != nil {
		return action.Action{}, fmt.Errorf("policy %s: %w", l.Name(), err)
	}
	if ret == nil {
		ret = lua.LNil
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return action.Action{}, fmt.Errorf("policy %s: %w: decide returned %s", l.Name(), ErrNoDecision, ret.Type())
	}
	act, err := parseDecisionTable(tbl)
	if err != nil {
		return action.Action{}, fmt.Errorf("policy %s: %w", l.Name(), err)
	}
	return act, nil
}

func parseDecisionTable(tbl *lua.LTable) (action.Action, error) {
	kind := strings.ToLower(lua.LVAsString(tbl.RawGetString("kind")))
	switch kind {
	case "attack":
		return action.Attack(), nil
	case "ability":
		id := lua.LVAsString(tbl.RawGetString("ability"))
		if id == "" {
			return action.Action{}, fmt.Errorf("%w: ability decision without an ability id", ErrNoDecision)
		}
		return action.UseAbility(id), nil
	case "switch":
		n, ok := tbl.RawGetString("switch").(lua.LNumber)
		if !ok {
			return action.Action{}, fmt.Errorf("%w: switch decision without a member index", ErrNoDecision)
		}
		return action.SwitchTo(int(n) - 1), nil
	case "item":
		return action.Item(), nil
	default:
		return action.Action{}, fmt.Errorf("%w: unknown decision kind %q", ErrNoDecision, kind)
	}
}
