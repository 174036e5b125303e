package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// rawVault holds a Vault "<id>" { items } call before compilation.
type rawVault struct {
	id    string
	table *lua.LTable
}

// rawCard holds a SpawnCard "<name>" { rows } call before compilation.
type rawCard struct {
	name  string
	table *lua.LTable
}

// registerAPI registers the quest constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Quest { name = "...", characters = {...}, caps = {...} }
	L.SetGlobal("Quest", L.NewFunction(func(L *lua.LState) int {
		if coll.quest != nil {
			L.RaiseError("Quest{} defined twice")
		}
		coll.quest = L.CheckTable(1)
		return 0
	}))

	// Map { "z1:st z1 z2:i:dw", ... }: one string per row.
	L.SetGlobal("Map", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.maps++
		coll.rows = nil
		for i := 1; i <= tbl.MaxN(); i++ {
			s, ok := tbl.RawGetInt(i).(lua.LString)
			if !ok {
				L.RaiseError("Map row %d is not a string", i)
			}
			coll.rows = append(coll.rows, string(s))
		}
		return 0
	}))

	// Vault "1" { "sword", "axe" }: curried like the other constructors.
	L.SetGlobal("Vault", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.vaults = append(coll.vaults, rawVault{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// SpawnCard "walkers" { {zombie = "walker", count = 1}, ... } with one
	// row per danger level, or { red = {...} } keyed by level.
	L.SetGlobal("SpawnCard", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.cards = append(coll.cards, rawCard{name: name, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Loot { "sword", "sword", "torch" }: appends to the loot deck.
	L.SetGlobal("Loot", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		for i := 1; i <= tbl.MaxN(); i++ {
			s, ok := tbl.RawGetInt(i).(lua.LString)
			if !ok {
				L.RaiseError("Loot entry %d is not a string", i)
			}
			coll.loot = append(coll.loot, string(s))
		}
		return 0
	}))
}
