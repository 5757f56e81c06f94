package battle

import "math/rand"

// Rand is the random source threaded through move selection and effect
// calculation. *rand.Rand satisfies it; tests feed scripted draws.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
