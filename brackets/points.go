package brackets

// DFFLPoints returns the fixed per-rank point curve awarded in a final table
// with the given number of teams. Curves are defined for 3 to 9 teams; any
// other size yields a zero-filled curve which callers must tolerate.
func DFFLPoints(numberOfTeams int) []int {
	switch numberOfTeams {
	case 3:
		return []int{6, 4, 2}
	case 4:
		return []int{8, 6, 4, 2}
	case 5:
		return []int{10, 8, 6, 4, 2}
	case 6:
		return []int{11, 9, 7, 5, 3, 2}
	case 7:
		return []int{12, 10, 8, 6, 4, 3, 2}
	case 8:
		return []int{13, 11, 9, 7, 5, 4, 3, 2}
	case 9:
		return []int{14, 12, 10, 8, 6, 5, 4, 3, 2}
	}
	if numberOfTeams < 0 {
		return nil
	}
	return make([]int, numberOfTeams)
}
