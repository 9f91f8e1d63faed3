package game

import "math"

const (
	baseBonus     = 100
	adjacentBonus = 200
	baseXP        = 25
)

// ComboMultiplier is 1 + (combo-1)*0.5, never below 1.
func ComboMultiplier(combo int) float64 {
	if combo < 1 {
		return 1
	}
	return 1 + float64(combo-1)*0.5
}

// Bonus is the score for one hack. Hacking next to the previous active node
// pays a flat 200 (instead of the valuable 1.5x); the combo multiplier applies
// on top and the result is floored.
func Bonus(valuable, adjacent bool, combo int) int {
	base := float64(baseBonus)
	switch {
	case adjacent:
		base = adjacentBonus
	case valuable:
		base *= 1.5
	}
	return int(math.Floor(base * ComboMultiplier(combo)))
}

// XPGain is 25 (50 for valuable nodes) times the combo multiplier, floored,
// then doubled under Double XP.
func XPGain(valuable bool, combo int, doubled bool) int {
	base := float64(baseXP)
	if valuable {
		base *= 2
	}
	xp := int(math.Floor(base * ComboMultiplier(combo)))
	if doubled {
		xp *= 2
	}
	return xp
}
