package quest

import "github.com/nathoo/deadzone/engine/actor"

func row(z string, blue, yellow, orange, red int) [actor.NumLevels]SpawnEntry {
	return [actor.NumLevels]SpawnEntry{
		{Zombie: z, Count: blue},
		{Zombie: z, Count: yellow},
		{Zombie: z, Count: orange},
		{Zombie: z, Count: red},
	}
}

// DefaultSpawnCards is the spawn deck used when a quest defines none of its
// own.
var DefaultSpawnCards = []SpawnCard{
	{Name: "walkers_a", Levels: row("walker", 1, 2, 3, 4)},
	{Name: "walkers_b", Levels: row("walker", 2, 3, 4, 5)},
	{Name: "walkers_c", Levels: row("walker", 1, 2, 4, 6)},
	{Name: "runners_a", Levels: row("runner", 1, 1, 2, 3)},
	{Name: "runners_b", Levels: row("runner", 0, 1, 2, 2)},
	{Name: "fatties_a", Levels: row("fatty", 1, 1, 2, 2)},
	{Name: "fatties_b", Levels: row("fatty", 0, 1, 1, 2)},
	{Name: "abomination", Levels: row("abomination", 0, 0, 1, 1)},
	{Name: "rush_walkers", Levels: [actor.NumLevels]SpawnEntry{
		{Zombie: "walker", Count: 1},
		{Zombie: "walker", ExtraActivation: true},
		{Zombie: "walker", ExtraActivation: true},
		{Zombie: "walker", ExtraActivation: true},
	}},
	{Name: "rush_runners", Levels: [actor.NumLevels]SpawnEntry{
		{Zombie: "runner", Count: 1},
		{Zombie: "runner", Count: 1},
		{Zombie: "runner", ExtraActivation: true},
		{Zombie: "runner", ExtraActivation: true},
	}},
	{Name: "necromancer", Levels: [actor.NumLevels]SpawnEntry{
		{Zombie: "walker", Count: 1, Necromancer: true},
		{Zombie: "walker", Count: 2, Necromancer: true},
		{Zombie: "walker", Count: 3, Necromancer: true},
		{Zombie: "walker", Count: 4, Necromancer: true},
	}},
}

// DefaultLoot is the equipment deck used when a quest defines none.
var DefaultLoot = []string{
	"short_sword", "sword", "sword", "great_sword", "axe", "axe", "hammer",
	"dagger", "dagger", "crowbar", "short_bow", "long_bow", "crossbow",
	"hand_crossbow", "hand_crossbow", "repeating_crossbow", "fireball",
	"mana_blast", "lightning_bolt", "healing", "speed", "invisibility",
	"leather_armour", "plate_armour", "shield", "salted_meat", "salted_meat",
	"torch", "torch", "dragon_bile", "dragon_bile", "plenty_of_arrows",
}
