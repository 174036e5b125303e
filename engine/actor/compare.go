package actor

import "sort"

// armourRank orders characters from least to best protected. No armour
// ranks below any save.
func armourRank(c *Character) int {
	if a := c.Armour(); a > 0 {
		return a
	}
	return 7
}

// SortByVulnerability orders characters for zombie attacks: least armoured
// first, then most wounded, then by id.
func SortByVulnerability(cs []*Character) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if ra, rb := armourRank(a), armourRank(b); ra != rb {
			return ra > rb
		}
		if a.Wounds != b.Wounds {
			return a.Wounds > b.Wounds
		}
		return a.ID < b.ID
	})
}

// SortForMelee orders zombie targets for a melee attack dealing damage:
// those the attack can kill first, toughest first within each group.
func SortForMelee(zs []*Zombie, damage int) {
	sort.SliceStable(zs, func(i, j int) bool {
		a, b := zs[i].Def(), zs[j].Def()
		ka, kb := a.Threshold <= damage, b.Threshold <= damage
		if ka != kb {
			return ka
		}
		if a.Threshold != b.Threshold {
			return a.Threshold > b.Threshold
		}
		return zs[i].ID < zs[j].ID
	})
}

// SortForRanged orders zombie targets by target priority; reversed puts the
// last-priority kinds first.
func SortForRanged(zs []*Zombie, reversed bool) {
	sort.SliceStable(zs, func(i, j int) bool {
		a, b := zs[i].Def().TargetPriority, zs[j].Def().TargetPriority
		if a != b {
			if reversed {
				return a > b
			}
			return a < b
		}
		return zs[i].ID < zs[j].ID
	})
}
