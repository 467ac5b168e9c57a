package universe

import "math/rand/v2"

//RNG is a deterministic random source owned by a single experiment
//the same seed and stream always produce the same sequence of draws
type RNG struct {
	r *rand.Rand
}

//NewRNG creates a PCG backed RNG, stream separates experiments sharing one seed
func NewRNG(seed uint64, stream uint64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(seed, stream))}
}

//IntRange returns a uniform integer in [low, high], high is inclusive
func (r *RNG) IntRange(low int, high int) int {
	if high <= low {
		return low
	}
	return low + r.r.IntN(high-low+1)
}

//Bool returns a random boolean value
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}
