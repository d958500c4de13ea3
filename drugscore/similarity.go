package drugscore

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/fhaive/dream"
	"github.com/fhaive/dream/genematrix"
	"github.com/fhaive/dream/netscore"
)

// Aggregation selects how per-pair scores of multi-target drugs are reduced.
type Aggregation int

const (
	Mean Aggregation = iota
	Median
)

func aggregate(values []float64, agg Aggregation) (float64, error) {
	if len(values) == 0 {
		return 0, dream.Configf("nothing to aggregate")
	}
	if agg == Median {
		return stats.Median(values)
	}
	return stats.Mean(values)
}

// NeighborhoodSimilarity scores a drug pair by the Jaccard similarity of
// their targets' k-order neighborhoods, aggregated over every cross pair of
// targets.
func NeighborhoodSimilarity(g *netscore.Graph, targetsA, targetsB []string, k int, agg Aggregation) (float64, error) {
	if len(targetsA) == 0 || len(targetsB) == 0 {
		return 0, dream.Configf("both drugs need at least one network-mapped target")
	}

	var scores []float64
	for _, a := range targetsA {
		for _, b := range targetsB {
			j, err := g.Jaccard(a, b, k)
			if err != nil {
				return 0, err
			}
			scores = append(scores, j)
		}
	}
	return aggregate(scores, agg)
}

// IntraSimilarity scores how topologically clustered one drug's own targets
// are: the aggregated Jaccard over every unordered target pair. A single
// target is perfectly clustered with itself and scores 1.
func IntraSimilarity(g *netscore.Graph, targets []string, k int, agg Aggregation) (float64, error) {
	if len(targets) == 0 {
		return 0, dream.Configf("drug has no network-mapped target")
	}
	if len(targets) == 1 {
		return 1, nil
	}

	var scores []float64
	for i := 0; i < len(targets); i++ {
		for j := i + 1; j < len(targets); j++ {
			s, err := g.Jaccard(targets[i], targets[j], k)
			if err != nil {
				return 0, err
			}
			scores = append(scores, s)
		}
	}
	return aggregate(scores, agg)
}

// AvgShortestPath averages the shortest-path edge count between every target
// of one drug and every target of another. Disconnected pairs are excluded
// from the mean; if no pair is connected the result is +Inf.
func AvgShortestPath(g *netscore.Graph, targetsA, targetsB []string) (float64, error) {
	if len(targetsA) == 0 || len(targetsB) == 0 {
		return 0, dream.Configf("both drugs need at least one network-mapped target")
	}

	sum, n := 0.0, 0
	for _, a := range targetsA {
		for _, b := range targetsB {
			d, err := g.ShortestPathLen(a, b)
			if err != nil {
				return 0, err
			}
			if math.IsInf(d, 1) {
				continue
			}
			sum += d
			n++
		}
	}
	if n == 0 {
		return math.Inf(1), nil
	}
	return sum / float64(n), nil
}

// DistanceMatrix computes the symmetric drug-by-drug average shortest path
// matrix over all drugs of the mapping.
func DistanceMatrix(g *netscore.Graph, tm TargetMap) (*genematrix.Matrix, error) {
	drugs := tm.Drugs()
	if len(drugs) == 0 {
		return nil, dream.Configf("no drugs with network-mapped targets")
	}

	out := genematrix.NewSquare(drugs)
	for i := 0; i < len(drugs); i++ {
		for j := i + 1; j < len(drugs); j++ {
			d, err := AvgShortestPath(g, tm[drugs[i]], tm[drugs[j]])
			if err != nil {
				return nil, err
			}
			out.Set(i, j, d)
			out.Set(j, i, d)
		}
	}
	return out, nil
}
