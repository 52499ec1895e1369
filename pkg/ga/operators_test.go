package ga

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTournament(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	t.Run("Full tournament picks the lowest penalty", func(t *testing.T) {
		for range 20 {
			assert.Equal(t, 1, tournament(rng, []int{5, 1, 3}, 3))
		}
	})

	t.Run("Ties go to the lowest index", func(t *testing.T) {
		for range 20 {
			assert.Equal(t, 0, tournament(rng, []int{2, 2, 2}, 3))
		}
	})

	t.Run("Size is clamped to the population", func(t *testing.T) {
		assert.Equal(t, 2, tournament(rng, []int{9, 8, 7}, 10))
	})

	t.Run("Single draw returns a member", func(t *testing.T) {
		for range 20 {
			winner := tournament(rng, []int{4, 4, 4, 4}, 1)
			assert.GreaterOrEqual(t, winner, 0)
			assert.Less(t, winner, 4)
		}
	})
}

func TestCrossover(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	a := Chromosome{Genes: []Gene{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}}
	b := Chromosome{Genes: []Gene{{0, 1}, {1, 1}, {2, 1}, {3, 1}, {4, 1}}}

	t.Run("Cut keeps a prefix of a and a suffix of b", func(t *testing.T) {
		for range 50 {
			child := crossover(rng, a, b, 1)

			assert.Len(t, child.Genes, 5)
			assert.Equal(t, a.Genes[0], child.Genes[0])
			assert.Equal(t, b.Genes[4], child.Genes[4])

			// Exactly one switch from a's genes to b's genes
			switches := 0
			for i := 1; i < len(child.Genes); i++ {
				if child.Genes[i].Room != child.Genes[i-1].Room {
					switches++
				}
			}
			assert.Equal(t, 1, switches)
		}
	})

	t.Run("No crossover clones a", func(t *testing.T) {
		child := crossover(rng, a, b, 0)

		assert.Equal(t, a, child)
		child.Genes[0].Room = 7
		assert.Equal(t, 0, a.Genes[0].Room)
	})

	t.Run("Length mismatch is fatal", func(t *testing.T) {
		assert.Panics(t, func() {
			crossover(rng, a, Chromosome{Genes: b.Genes[:3]}, 1)
		})
	})
}

func TestMutate(t *testing.T) {
	encoder := NewEncoder(mediumInput(t))
	rng := rand.New(rand.NewPCG(3, 3))

	t.Run("Zero rate leaves the chromosome untouched", func(t *testing.T) {
		chromosome := encoder.Random(rng)
		original := chromosome.Clone()

		mutate(rng, encoder, &chromosome, 0)

		assert.Equal(t, original, chromosome)
	})

	t.Run("Mutated genes stay within the candidates", func(t *testing.T) {
		chromosome := encoder.Random(rng)

		mutate(rng, encoder, &chromosome, 1)

		assert.Len(t, chromosome.Genes, encoder.Length())
		for i, gene := range chromosome.Genes {
			assert.Contains(t, encoder.slots, gene.Slot)
			assert.Contains(t, encoder.rooms[i], gene.Room)
		}
	})

	t.Run("Length mismatch is fatal", func(t *testing.T) {
		assert.Panics(t, func() {
			mutate(rng, encoder, &Chromosome{Genes: []Gene{{0, 0}}}, 0.5)
		})
	})
}
