package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
)

// registerModules registers all engine.* Lua tables into the LState of v:
//   - engine.log.{debug,info,warn,error}(msg)
//   - engine.dice.pick(n) returns a one-based index in [1, n]
//   - engine.dice.chance(p) returns true with probability p
//   - engine.affinity.multiplier(attacker_class, defender_class)
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) registerModules(L *lua.LState, v *vm) {
	engine := L.NewTable()
	L.SetGlobal("engine", engine)
	engine.RawSetString("log", m.logModule(L))
	engine.RawSetString("dice", m.diceModule(L, v))
	engine.RawSetString("affinity", m.affinityModule(L))
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, logFn := range levels {
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			logFn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

// diceModule draws from the source of the call in progress on v. Hooks run
// with v.mu held, so v.src is stable for the whole call.
func (m *Manager) diceModule(L *lua.LState, v *vm) *lua.LTable {
	source := func() dice.Source {
		if v.src != nil {
			return v.src
		}
		return m.src
	}
	mod := L.NewTable()
	L.SetField(mod, "pick", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		L.Push(lua.LNumber(dice.Pick(source(), n) + 1))
		return 1
	}))
	L.SetField(mod, "chance", L.NewFunction(func(L *lua.LState) int {
		p := float64(L.CheckNumber(1))
		L.Push(lua.LBool(dice.Chance(source(), p)))
		return 1
	}))
	return mod
}

func (m *Manager) affinityModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "multiplier", L.NewFunction(func(L *lua.LState) int {
		attacker := L.CheckString(1)
		defender := L.CheckString(2)
		if m.Multiplier == nil {
			L.Push(lua.LNumber(1))
			return 1
		}
		L.Push(lua.LNumber(m.Multiplier(attacker, defender)))
		return 1
	}))
	return mod
}
