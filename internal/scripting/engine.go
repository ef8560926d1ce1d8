package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for handler formula overrides.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
// A missing directory yields an engine with no overrides.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)

	for _, sub := range []string{"core", "handler"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// NewEngineFromString builds an engine from inline Lua source.
func NewEngineFromString(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load inline script: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Has reports whether a global function is defined.
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// SolarContext holds pre-packed inputs for one solar panel evaluation.
type SolarContext struct {
	ChargeRate  float64
	Orientation float64 // clamped cosine of the sun angle
	TempFactor  float64
	Multiplier  float64 // power curve or relative flux
	InSunlight  bool
	Delta       float64 // seconds of universal time this tick
	UT          float64
}

// CalcSolarOutput calls the Lua calc_solar_output function. The second
// return is false when no override is loaded or the call failed, in which
// case the caller uses its built-in formula.
func (e *Engine) CalcSolarOutput(ctx SolarContext) (float64, bool) {
	fn, ok := e.vm.GetGlobal("calc_solar_output").(*lua.LFunction)
	if !ok {
		return 0, false
	}

	t := e.vm.NewTable()
	t.RawSetString("charge_rate", lua.LNumber(ctx.ChargeRate))
	t.RawSetString("orientation", lua.LNumber(ctx.Orientation))
	t.RawSetString("temp_factor", lua.LNumber(ctx.TempFactor))
	t.RawSetString("multiplier", lua.LNumber(ctx.Multiplier))
	t.RawSetString("in_sunlight", lua.LBool(ctx.InSunlight))
	t.RawSetString("delta", lua.LNumber(ctx.Delta))
	t.RawSetString("ut", lua.LNumber(ctx.UT))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_solar_output error", zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua calc_solar_output returned non-number",
			zap.String("type", result.Type().String()))
		return 0, false
	}
	return float64(n), true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
