package game

import "golang.org/x/exp/rand"

// Roller is the single source of randomness in a match. *rand.Rand from
// golang.org/x/exp/rand satisfies it.
type Roller interface {
	Intn(n int) int
}

// NewRoller returns a seeded generator; equal seeds replay equal matches.
func NewRoller(seed uint64) Roller {
	return rand.New(rand.NewSource(seed))
}

func rollD6(r Roller) int {
	return r.Intn(6) + 1
}

// shuffle permutes s in place with a Fisher-Yates pass over r.
func shuffle[T any](r Roller, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
