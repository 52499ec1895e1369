package ga

import (
	"log"
	"math/rand/v2"
)

// tournament draws k distinct members and returns the index of the one with the lowest penalty, the lowest index
// winning ties. k is clamped to the population size
func tournament(rng *rand.Rand, penalties []int, k int) int {
	size := len(penalties)
	if size == 0 {
		log.Panicf("cannot run a tournament on an empty population")
	}
	k = max(1, min(k, size))

	drawn := make(map[int]bool, k)
	winner := -1
	for len(drawn) < k {
		candidate := rng.IntN(size)
		if drawn[candidate] {
			continue
		}
		drawn[candidate] = true

		if winner == -1 || penalties[candidate] < penalties[winner] ||
			(penalties[candidate] == penalties[winner] && candidate < winner) {
			winner = candidate
		}
	}
	return winner
}

// crossover returns a child of both parents. With the given probability the child takes its genes up to a random cut
// in [1, L-1] from a and the rest from b, otherwise it is a copy of a
func crossover(rng *rand.Rand, a, b Chromosome, rate float64) Chromosome {
	if len(a.Genes) != len(b.Genes) {
		log.Panicf("cannot cross chromosomes of length %d and %d", len(a.Genes), len(b.Genes))
	}

	child := a.Clone()
	length := len(a.Genes)
	if length < 2 || rng.Float64() >= rate {
		return child
	}

	cut := 1 + rng.IntN(length-1)
	copy(child.Genes[cut:], b.Genes[cut:])
	return child
}

// mutate redraws every gene with the given probability from its session's candidates
func mutate(rng *rand.Rand, encoder *Encoder, chromosome *Chromosome, rate float64) {
	encoder.assertLength(*chromosome)
	if rate <= 0 {
		return
	}
	for i := range chromosome.Genes {
		if rng.Float64() < rate {
			encoder.Redraw(rng, &chromosome.Genes[i], i)
		}
	}
}
