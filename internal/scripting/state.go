package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// AbilityInfo is a snapshot of one ability passed to Lua.
type AbilityInfo struct {
	ID        string
	Name      string
	Category  string
	Ready     bool
	Remaining int
	Priority  int
	Damage    int
	Heal      int
}

// CombatantInfo is a snapshot of a combatant's state passed to Lua.
type CombatantInfo struct {
	Name      string
	Class     string
	HP        int
	MaxHP     int
	Attack    int
	Defense   int
	Speed     int
	Stunned   bool
	Statuses  []string
	Abilities []AbilityInfo
}

// TeamInfo is a snapshot of a roster passed to Lua. Active is the zero-based
// roster index; it is exposed to Lua as a one-based index.
type TeamInfo struct {
	Name    string
	Active  int
	Members []CombatantInfo
}

// StateInfo is the argument of a policy script's decide hook.
type StateInfo struct {
	Turn     int
	MaxTurns int
	Own      TeamInfo
	Opponent TeamInfo
}

func abilityToTable(L *lua.LState, a AbilityInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(a.ID))
	t.RawSetString("name", lua.LString(a.Name))
	t.RawSetString("category", lua.LString(a.Category))
	t.RawSetString("ready", lua.LBool(a.Ready))
	t.RawSetString("remaining", lua.LNumber(a.Remaining))
	t.RawSetString("priority", lua.LNumber(a.Priority))
	t.RawSetString("damage", lua.LNumber(a.Damage))
	t.RawSetString("heal", lua.LNumber(a.Heal))
	return t
}

func combatantToTable(L *lua.LState, c CombatantInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("class", lua.LString(c.Class))
	t.RawSetString("hp", lua.LNumber(c.HP))
	t.RawSetString("max_hp", lua.LNumber(c.MaxHP))
	t.RawSetString("attack", lua.LNumber(c.Attack))
	t.RawSetString("defense", lua.LNumber(c.Defense))
	t.RawSetString("speed", lua.LNumber(c.Speed))
	t.RawSetString("stunned", lua.LBool(c.Stunned))
	t.RawSetString("alive", lua.LBool(c.HP > 0))
	t.RawSetString("statuses", stringsToTable(L, c.Statuses))
	abs := L.NewTable()
	for _, a := range c.Abilities {
		abs.Append(abilityToTable(L, a))
	}
	t.RawSetString("abilities", abs)
	return t
}

func teamToTable(L *lua.LState, team TeamInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("name", lua.LString(team.Name))
	t.RawSetString("active", lua.LNumber(team.Active+1))
	members := L.NewTable()
	for _, m := range team.Members {
		members.Append(combatantToTable(L, m))
	}
	t.RawSetString("members", members)
	return t
}

func stateToTable(L *lua.LState, s StateInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("turn", lua.LNumber(s.Turn))
	t.RawSetString("max_turns", lua.LNumber(s.MaxTurns))
	t.RawSetString("own", teamToTable(L, s.Own))
	t.RawSetString("opponent", teamToTable(L, s.Opponent))
	return t
}

func stringsToTable(L *lua.LState, ss []string) *lua.LTable {
	t := L.NewTable()
	for _, s := range ss {
		t.Append(lua.LString(s))
	}
	return t
}

// toLValue converts a hook argument into a Lua value owned by L.
func toLValue(L *lua.LState, v any) (lua.LValue, error) {
	switch x := v.(type) {
	case nil:
		return lua.LNil, nil
	case lua.LValue:
		return x, nil
	case bool:
		return lua.LBool(x), nil
	case int:
		return lua.LNumber(x), nil
	case float64:
		return lua.LNumber(x), nil
	case string:
		return lua.LString(x), nil
	case []string:
		return stringsToTable(L, x), nil
	case StateInfo:
		return stateToTable(L, x), nil
	case *StateInfo:
		return stateToTable(L, *x), nil
	case TeamInfo:
		return teamToTable(L, x), nil
	case CombatantInfo:
		return combatantToTable(L, x), nil
	case *CombatantInfo:
		return combatantToTable(L, *x), nil
	default:
		return nil, fmt.Errorf("scripting: unsupported hook argument type %T", v)
	}
}
