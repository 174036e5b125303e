package actor

import (
	"fmt"
	"sort"
)

// SlotClass says where an item may be carried.
type SlotClass int

const (
	SlotHand SlotClass = iota
	SlotBody
	SlotHandOrBody
	SlotBackpackOnly
)

// Weapon is the attack profile of one kind of attack.
type Weapon struct {
	Dice      int  `json:"dice"`
	Threshold int  `json:"threshold"`
	Damage    int  `json:"damage"`
	MinRange  int  `json:"min_range"`
	MaxRange  int  `json:"max_range"`
	Noisy     bool `json:"noisy"`
}

// Enchantment is the spell an enchantment item casts.
type Enchantment string

const (
	EnchantHealing      Enchantment = "healing"
	EnchantSpeed        Enchantment = "speed"
	EnchantInvisibility Enchantment = "invisibility"
)

// ItemType is the immutable description of an equipment card.
type ItemType struct {
	Name        string      `json:"name"`
	Slot        SlotClass   `json:"slot"`
	Melee       *Weapon     `json:"melee,omitempty"`
	Ranged      *Weapon     `json:"ranged,omitempty"`
	Magic       *Weapon     `json:"magic,omitempty"`
	Armour      int         `json:"armour,omitempty"`
	OpensDoors  bool        `json:"opens_doors,omitempty"`
	DoorNoisy   bool        `json:"door_noisy,omitempty"`
	Throwable   bool        `json:"throwable,omitempty"`
	Enchantment Enchantment `json:"enchantment,omitempty"`
	Heal        int         `json:"heal,omitempty"`
	Skills      []Skill     `json:"skills,omitempty"`
	DualWield   bool        `json:"dual_wield,omitempty"`
	Torch       bool        `json:"torch,omitempty"`
	Bile        bool        `json:"bile,omitempty"`
}

// Weapon returns the profile used for an attack of the given kind.
func (t *ItemType) Weapon(kind AttackKind) *Weapon {
	switch kind {
	case AttackMelee:
		return t.Melee
	case AttackRanged:
		return t.Ranged
	case AttackMagic:
		return t.Magic
	}
	return nil
}

// AttackKind selects a weapon profile.
type AttackKind int

const (
	AttackMelee AttackKind = iota
	AttackRanged
	AttackMagic
)

func (k AttackKind) String() string {
	switch k {
	case AttackMelee:
		return "melee"
	case AttackRanged:
		return "ranged"
	case AttackMagic:
		return "magic"
	}
	return "invalid"
}

func melee(dice, threshold, damage int) *Weapon {
	return &Weapon{Dice: dice, Threshold: threshold, Damage: damage}
}

func ranged(dice, threshold, damage, min, max int, noisy bool) *Weapon {
	return &Weapon{Dice: dice, Threshold: threshold, Damage: damage, MinRange: min, MaxRange: max, Noisy: noisy}
}

// Catalogue holds every item type by name.
var Catalogue = map[string]*ItemType{
	"short_sword":        {Name: "short_sword", Slot: SlotHand, Melee: melee(1, 4, 1), DualWield: true},
	"sword":              {Name: "sword", Slot: SlotHand, Melee: melee(1, 4, 1), DualWield: true},
	"great_sword":        {Name: "great_sword", Slot: SlotHand, Melee: melee(5, 5, 1)},
	"axe":                {Name: "axe", Slot: SlotHand, Melee: melee(1, 4, 2), OpensDoors: true, DoorNoisy: true},
	"hammer":             {Name: "hammer", Slot: SlotHand, Melee: melee(1, 3, 2), OpensDoors: true, DoorNoisy: true},
	"dagger":             {Name: "dagger", Slot: SlotHand, Melee: melee(1, 4, 1), DualWield: true},
	"crowbar":            {Name: "crowbar", Slot: SlotHand, Melee: melee(1, 4, 1), OpensDoors: true},
	"short_bow":          {Name: "short_bow", Slot: SlotHand, Ranged: ranged(1, 3, 1, 0, 1, false)},
	"long_bow":           {Name: "long_bow", Slot: SlotHand, Ranged: ranged(1, 3, 1, 1, 3, false)},
	"crossbow":           {Name: "crossbow", Slot: SlotHand, Ranged: ranged(2, 4, 2, 1, 2, false)},
	"hand_crossbow":      {Name: "hand_crossbow", Slot: SlotHand, Ranged: ranged(2, 4, 1, 0, 1, false), DualWield: true},
	"repeating_crossbow": {Name: "repeating_crossbow", Slot: SlotHand, Ranged: ranged(3, 5, 2, 0, 1, true)},
	"fireball":           {Name: "fireball", Slot: SlotHand, Magic: ranged(3, 4, 1, 0, 1, false)},
	"mana_blast":         {Name: "mana_blast", Slot: SlotHand, Magic: ranged(1, 4, 1, 0, 1, false)},
	"inferno":            {Name: "inferno", Slot: SlotHand, Magic: ranged(4, 4, 1, 0, 1, true)},
	"lightning_bolt":     {Name: "lightning_bolt", Slot: SlotHand, Magic: ranged(1, 4, 1, 0, 2, false)},
	"healing":            {Name: "healing", Slot: SlotHand, Enchantment: EnchantHealing},
	"speed":              {Name: "speed", Slot: SlotHand, Enchantment: EnchantSpeed},
	"invisibility":       {Name: "invisibility", Slot: SlotHand, Enchantment: EnchantInvisibility},
	"leather_armour":     {Name: "leather_armour", Slot: SlotBody, Armour: 5},
	"plate_armour":       {Name: "plate_armour", Slot: SlotBody, Armour: 4},
	"shield":             {Name: "shield", Slot: SlotHandOrBody, Armour: 5},
	"salted_meat":        {Name: "salted_meat", Slot: SlotHand, Heal: 1},
	"torch":              {Name: "torch", Slot: SlotHand, Throwable: true, Torch: true},
	"dragon_bile":        {Name: "dragon_bile", Slot: SlotHand, Throwable: true, Bile: true},
	"plenty_of_arrows":   {Name: "plenty_of_arrows", Slot: SlotBackpackOnly, Skills: []Skill{Lucky}},
	"orcish_crossbow":    {Name: "orcish_crossbow", Slot: SlotHand, Ranged: ranged(2, 3, 2, 0, 2, true), Skills: []Skill{PlusRollRanged}},
	"vampire_blade":      {Name: "vampire_blade", Slot: SlotHand, Melee: melee(2, 3, 2), Skills: []Skill{Bloodlust}},
}

// Lookup returns the item type named name.
func Lookup(name string) (*ItemType, error) {
	t, ok := Catalogue[name]
	if !ok {
		return nil, fmt.Errorf("unknown item type %q", name)
	}
	return t, nil
}

// ItemNames returns the catalogue names sorted.
func ItemNames() []string {
	names := make([]string, 0, len(Catalogue))
	for n := range Catalogue {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Item is one physical equipment card.
type Item struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Def returns the item's type. Items are only created for known types.
func (i *Item) Def() *ItemType {
	return Catalogue[i.Type]
}

func (i *Item) String() string {
	return i.Type
}
