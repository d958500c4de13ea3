package netscore

import (
	"math"
	"math/rand"
	"time"

	"github.com/fhaive/dream"
)

// PermutationResult reports the outcome of a similarity permutation test.
type PermutationResult struct {
	Observed float64
	Distance float64
	// PValue is the one-sided probability of a permuted score at least as
	// large as the observed one: 1 - count(observed > permuted)/nIter.
	PValue float64
}

// JaccardPermutationTest assesses the significance of the k-order
// neighborhood Jaccard between two genes. The null draws nIter random
// vertex pairs whose shortest-path distance matches the observed pair's
// distance, so the comparison is against topologically comparable pairs
// rather than arbitrary ones. A nil rng means time-seeded.
func (gr *Graph) JaccardPermutationTest(a, b string, k, nIter int, rng *rand.Rand) (PermutationResult, error) {
	var res PermutationResult

	if nIter < 1 {
		return res, dream.Configf("permutation test needs at least one iteration, got %d", nIter)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	observed, err := gr.Jaccard(a, b, k)
	if err != nil {
		return res, err
	}
	dist, err := gr.ShortestPathLen(a, b)
	if err != nil {
		return res, err
	}
	res.Observed = observed
	res.Distance = dist

	pairs := gr.pairsAtDistance(dist)
	if len(pairs) == 0 {
		return res, dream.Configf("no vertex pair at distance %v to permute against", dist)
	}

	greater := 0
	for i := 0; i < nIter; i++ {
		p := pairs[rng.Intn(len(pairs))]
		permuted, err := gr.Jaccard(gr.genes[p[0]], gr.genes[p[1]], k)
		if err != nil {
			return res, err
		}
		if observed > permuted {
			greater++
		}
	}

	res.PValue = 1 - float64(greater)/float64(nIter)
	return res, nil
}

// pairsAtDistance lists every unordered vertex pair whose shortest-path
// distance equals d. Infinite d matches disconnected pairs.
func (gr *Graph) pairsAtDistance(d float64) [][2]int64 {
	paths := gr.allPaths()
	var out [][2]int64
	n := len(gr.genes)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := paths.Weight(int64(i), int64(j))
			if w == d || (math.IsInf(w, 1) && math.IsInf(d, 1)) {
				out = append(out, [2]int64{int64(i), int64(j)})
			}
		}
	}
	return out
}
