package ga

import (
	"math/rand/v2"
)

// splitmix64 scrambles a 64-bit word. It is used to turn neighbouring (seed, generation, slot) triples into unrelated
// PCG states
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// stream returns the random source owned by one population slot of one generation. Generation 0 is initialization
func stream(seed uint64, generation, slot int) *rand.Rand {
	hi := splitmix64(seed ^ splitmix64(uint64(generation)))
	low := splitmix64(hi ^ splitmix64(uint64(slot)+0x632be59bd9b4e019))
	return rand.New(rand.NewPCG(hi, low))
}
