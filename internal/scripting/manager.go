package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
)

// vm is one sandboxed script. An LState is single-threaded, so every use
// holds mu.
type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	cancel context.CancelFunc
	// src overrides the Manager's dice source for the call in progress.
	src dice.Source
}

// Manager owns one sandboxed LState per named script and exposes hook dispatch.
//
// Manager is safe for concurrent use. Calls into the same script are
// serialized; different scripts run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	src    dice.Source
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	// Multiplier returns the affinity multiplier of attacker class against defender class.
	Multiplier func(attacker, defender string) float64
}

// NewManager creates a Manager.
//
// Precondition: src and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no scripts loaded.
func NewManager(src dice.Source, logger *zap.Logger) *Manager {
	if src == nil {
		panic("scripting.NewManager: src must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		src:    src,
		logger: logger,
	}
}

// LoadFile creates a sandboxed VM named name, registers all engine.* modules,
// then executes path. When path is a directory every *.lua file in it runs in
// lexicographic order. A previously loaded script of the same name is replaced.
//
// Precondition: name must be non-empty; path must be readable.
// Postcondition: The script is registered, or an error is returned and no
// state changes.
func (m *Manager) LoadFile(name, path string, instLimit int) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("scripting: loading %q: %w", name, err)
	}
	files := []string{path}
	if info.IsDir() {
		if files, err = luaFiles(path); err != nil {
			return fmt.Errorf("scripting: loading %q: %w", name, err)
		}
	}
	return m.load(name, instLimit, func(L *lua.LState) error {
		for _, f := range files {
			if err := L.DoFile(f); err != nil {
				return fmt.Errorf("loading %q: %w", f, err)
			}
		}
		return nil
	})
}

// LoadString is LoadFile for in-memory source.
func (m *Manager) LoadString(name, src string, instLimit int) error {
	return m.load(name, instLimit, func(L *lua.LState) error {
		return L.DoString(src)
	})
}

func luaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *Manager) load(name string, instLimit int, run func(*lua.LState) error) error {
	if name == "" {
		return fmt.Errorf("scripting: script name must not be empty")
	}
	L, cancel := NewSandboxedState(instLimit)
	v := &vm{L: L, limit: instLimit, cancel: cancel}
	m.registerModules(L, v)
	if err := run(L); err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: %q: %w", name, err)
	}

	m.mu.Lock()
	old := m.vms[name]
	m.vms[name] = v
	m.mu.Unlock()

	if old != nil {
		old.close()
	}
	m.logger.Debug("scripting: script loaded", zap.String("script", name))
	return nil
}

func (v *vm) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cancel()
	v.L.Close()
}

// Loaded reports whether a script named name is registered.
func (m *Manager) Loaded(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vms[name]
	return ok
}

// HasHook reports whether the named script defines a global function hook.
func (m *Manager) HasHook(name, hook string) bool {
	m.mu.RLock()
	v, ok := m.vms[name]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	_, isFn := v.L.GetGlobal(hook).(*lua.LFunction)
	return isFn
}

// CallHook calls the named Lua global function in the named script with a
// fresh instruction budget. Returns (LNil, nil) if the script or hook is not
// defined. Lua runtime errors, including an exhausted budget, are logged at
// Warn level and returned.
//
// Precondition: args must be lua.LValue instances or types accepted by toLValue.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(name, hook string, args ...any) (lua.LValue, error) {
	return m.CallHookWithSource(nil, name, hook, args...)
}

// CallHookWithSource is CallHook with engine.dice drawing from src for the
// duration of the call. A nil src uses the Manager's source.
func (m *Manager) CallHookWithSource(src dice.Source, name, hook string, args ...any) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[name]
	m.mu.RUnlock()
	if !ok {
		m.logger.Info("scripting: no VM for script",
			zap.String("script", name),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	L := v.L
	v.src = src
	defer func() { v.src = nil }()

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		lv, err := toLValue(L, a)
		if err != nil {
			return lua.LNil, err
		}
		largs[i] = lv
	}

	v.cancel()
	v.cancel = resetBudget(L, v.limit)

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, largs...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("script", name),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, fmt.Errorf("scripting: %s.%s: %w", name, hook, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases every loaded script.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.close()
	}
}
