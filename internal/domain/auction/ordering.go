package auction

// Ordering decides which of two offers leads an auction.
type Ordering interface {
	// Beats reports whether candidate strictly improves on current
	Beats(candidate, current float64) bool
	// Ascending reports whether better offers are larger
	Ascending() bool
}

type lowestWins struct{}

func (lowestWins) Beats(candidate, current float64) bool { return candidate < current }
func (lowestWins) Ascending() bool                       { return false }

type highestWins struct{}

func (highestWins) Beats(candidate, current float64) bool { return candidate > current }
func (highestWins) Ascending() bool                       { return true }

// OrderingFor returns the ordering for an auction type. Unknown types bid in reverse.
func OrderingFor(t Type) Ordering {
	if t == TypeStandard {
		return highestWins{}
	}
	return lowestWins{}
}

// Better sorts amounts best-first under o
func Better(o Ordering, a, b float64) bool {
	if a == b {
		return false
	}
	return o.Beats(a, b)
}
