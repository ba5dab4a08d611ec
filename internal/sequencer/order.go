package sequencer

import (
	"fmt"
	"math/rand"
)

// GenerateOrder returns a shuffle order for trackCount tracks: a permutation
// of [0, trackCount) with anchorIndex at position 0. The track already
// playing stays first, so enabling shuffle never interrupts it. The
// remaining indices are placed in uniformly random order.
//
// A nil rng falls back to the shared math/rand source.
func GenerateOrder(rng *rand.Rand, trackCount, anchorIndex int) []int {
	if trackCount < 1 {
		panic(fmt.Sprintf("sequencer: trackCount must be >= 1, got %d", trackCount))
	}
	if anchorIndex < 0 || anchorIndex >= trackCount {
		panic(fmt.Sprintf("sequencer: anchorIndex %d out of range [0,%d)", anchorIndex, trackCount))
	}

	order := make([]int, 0, trackCount)
	order = append(order, anchorIndex)
	for i := 0; i < trackCount; i++ {
		if i != anchorIndex {
			order = append(order, i)
		}
	}

	rest := order[1:]
	swap := func(i, j int) { rest[i], rest[j] = rest[j], rest[i] }
	if rng != nil {
		rng.Shuffle(len(rest), swap)
	} else {
		rand.Shuffle(len(rest), swap)
	}
	return order
}
