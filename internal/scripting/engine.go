package scripting

import (
	"fmt"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"core", "combat"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// loadDir runs every .lua file directly under dir in name order. A missing
// dir loads nothing.
func (e *Engine) loadDir(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := e.vm.DoFile(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	if len(files) > 0 {
		e.log.Debug("lua scripts loaded", zap.String("dir", dir), zap.Int("files", len(files)))
	}
	return nil
}

// Has reports whether a global Lua function with the given name is defined.
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
