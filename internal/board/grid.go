package board

// Row is the row of index i in the 8-column layout.
func Row(i int) int { return i / Cols }

// Col is the column of index i.
func Col(i int) int { return i % Cols }

// InRange reports whether i is a valid node index.
func InRange(i int) bool { return i >= 0 && i < Size }

// Adjacent returns the orthogonal neighbours of i (left, right, up, down),
// clipped to the grid.
func Adjacent(i int) []int {
	r, c := Row(i), Col(i)
	out := make([]int, 0, 4)
	if c > 0 {
		out = append(out, i-1)
	}
	if c < Cols-1 {
		out = append(out, i+1)
	}
	if r > 0 {
		out = append(out, i-Cols)
	}
	if r < Rows-1 {
		out = append(out, i+Cols)
	}
	return out
}

// IsAdjacent reports whether b is an orthogonal neighbour of a.
func IsAdjacent(a, b int) bool {
	for _, n := range Adjacent(a) {
		if n == b {
			return true
		}
	}
	return false
}

// Near reports 8-neighbour adjacency: row and column differ by at most one
// and the indices differ.
func Near(a, b int) bool {
	if a == b {
		return false
	}
	return abs(Row(a)-Row(b)) <= 1 && abs(Col(a)-Col(b)) <= 1
}

// Difficulty is derived from progress: 1 + hacked/5, capped at 10.
func Difficulty(hacked int) int {
	return min(1+hacked/5, 10)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
