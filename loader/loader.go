package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	quest  *lua.LTable
	rows   []string
	maps   int
	vaults []rawVault
	cards  []rawCard
	loot   []string
}

// Load reads a quest from a .lua file, or from every .lua file of a
// directory with quest.lua first. The result is compiled and validated; the
// Lua VM is discarded before returning.
func Load(path string) (*Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading quest %s: %w", path, err)
	}
	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading quest directory %s: %w", path, err)
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
				names = append(names, e.Name())
			}
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("no .lua files found in %s", path)
		}
		for _, n := range sortedLuaFiles(names) {
			files = append(files, filepath.Join(path, n))
		}
	} else {
		files = []string{path}
	}

	return run(func(L *lua.LState) error {
		for _, f := range files {
			if err := L.DoFile(f); err != nil {
				return fmt.Errorf("executing %s: %w", filepath.Base(f), err)
			}
		}
		return nil
	})
}

// LoadString compiles a quest from Lua source.
func LoadString(src string) (*Scenario, error) {
	return run(func(L *lua.LState) error {
		if err := L.DoString(src); err != nil {
			return fmt.Errorf("executing quest: %w", err)
		}
		return nil
	})
}

func run(exec func(*lua.LState) error) (*Scenario, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)
	if err := exec(L); err != nil {
		return nil, err
	}

	sc, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling quest: %w", err)
	}
	if err := validate(sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM or break determinism.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}

// sortedLuaFiles puts quest.lua first and the rest in name order.
func sortedLuaFiles(files []string) []string {
	var first string
	var others []string
	for _, f := range files {
		if f == "quest.lua" {
			first = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if first != "" {
		return append([]string{first}, others...)
	}
	return others
}
