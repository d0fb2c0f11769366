package render

// plateau detects when a monotonically sampled count has stopped changing.
// Observe reports true once the same value has been seen rounds times in a
// row.
type plateau struct {
	rounds int
	last   int
	streak int
}

func newPlateau(rounds int) *plateau {
	return &plateau{rounds: rounds}
}

// Observe records a sample and reports whether the series has settled.
func (p *plateau) Observe(count int) bool {
	if p.streak > 0 && count == p.last {
		p.streak++
	} else {
		p.last = count
		p.streak = 1
	}

	return p.streak >= p.rounds
}
