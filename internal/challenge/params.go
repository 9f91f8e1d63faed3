package challenge

import "time"

// Difficulty scaling. Every function clamps difficulty to 1..10.

func clampDifficulty(d int) int {
	return max(1, min(d, 10))
}

// PatternLength: 2 symbols at difficulty 1, up to 8.
func PatternLength(d int) int {
	return min(1+clampDifficulty(d), 8)
}

// PatternTime: 10s minus 0.5s per level, never below 5s.
func PatternTime(d int) time.Duration {
	ms := max(10000-clampDifficulty(d)*500, 5000)
	return time.Duration(ms) * time.Millisecond
}

// CodeLength: 3 to 6 digits.
func CodeLength(d int) int {
	switch d = clampDifficulty(d); {
	case d <= 2:
		return 3
	case d <= 5:
		return 4
	case d <= 7:
		return 5
	default:
		return 6
	}
}

// CodeAttempts: 6 guesses, dropping to 4 at the top levels.
func CodeAttempts(d int) int {
	switch d = clampDifficulty(d); {
	case d <= 5:
		return 6
	case d <= 7:
		return 5
	default:
		return 4
	}
}

// ShooterEnemies: kills needed, 3 plus the difficulty.
func ShooterEnemies(d int) int {
	return 3 + clampDifficulty(d)
}

// ShooterSpeed: enemy approach multiplier, 1.1 to 2.0, so an enemy closes
// 0.05 + 0.005·d per frame.
func ShooterSpeed(d int) float64 {
	return 1.0 + float64(clampDifficulty(d))*0.1
}

// ShooterSpawnInterval: time between spawns, 1.8s down to 0.5s.
func ShooterSpawnInterval(d int) time.Duration {
	ms := max(500, 2000-clampDifficulty(d)*200)
	return time.Duration(ms) * time.Millisecond
}
