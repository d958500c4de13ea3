package netscore

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/graph/network"

	"github.com/fhaive/dream/ranking"
)

// Centralities holds the per-gene vertex annotations used for consensus
// gene ranking.
type Centralities struct {
	Betweenness map[string]float64
	Closeness   map[string]float64
	Degree      map[string]float64
	Eigenvector map[string]float64
	Clustering  map[string]float64
}

// Centralities computes the default annotation set: betweenness, normalized
// closeness, degree, eigenvector centrality, and local clustering
// coefficient.
func (gr *Graph) Centralities() *Centralities {
	out := &Centralities{
		Betweenness: make(map[string]float64, len(gr.genes)),
		Closeness:   make(map[string]float64, len(gr.genes)),
		Degree:      make(map[string]float64, len(gr.genes)),
		Eigenvector: make(map[string]float64, len(gr.genes)),
		Clustering:  make(map[string]float64, len(gr.genes)),
	}

	betweenness := network.Betweenness(gr.g)
	for _, gene := range gr.genes {
		out.Betweenness[gene] = betweenness[gr.ids[gene]]
	}

	paths := gr.allPaths()
	for _, gene := range gr.genes {
		id := gr.ids[gene]
		sum, reachable := 0.0, 0
		for _, other := range gr.genes {
			oid := gr.ids[other]
			if oid == id {
				continue
			}
			if w := paths.Weight(id, oid); !math.IsInf(w, 1) {
				sum += w
				reachable++
			}
		}
		// Normalized closeness: inverse of the mean distance to reachable
		// vertices. Isolated vertices score zero.
		if sum > 0 {
			out.Closeness[gene] = float64(reachable) / sum
		}
	}

	for _, gene := range gr.genes {
		out.Degree[gene] = float64(gr.g.From(gr.ids[gene]).Len())
	}

	eigen := gr.eigenvector()
	for i, gene := range gr.genes {
		out.Eigenvector[gene] = eigen[i]
	}

	for _, gene := range gr.genes {
		out.Clustering[gene] = gr.clusteringCoefficient(gene)
	}

	return out
}

// eigenvector runs power iteration on the adjacency structure, scaled so the
// largest component is 1.
func (gr *Graph) eigenvector() []float64 {
	n := len(gr.genes)
	v := make([]float64, n)
	next := make([]float64, n)
	for i := range v {
		v[i] = 1 / float64(n)
	}

	for iter := 0; iter < 100; iter++ {
		for i := range next {
			next[i] = 0
		}
		for i := 0; i < n; i++ {
			neighbors := gr.g.From(int64(i))
			for neighbors.Next() {
				next[i] += v[neighbors.Node().ID()]
			}
		}
		norm := floats.Norm(next, 2)
		if norm == 0 {
			return v
		}
		floats.Scale(1/norm, next)
		if floats.Distance(v, next, 2) < 1e-10 {
			copy(v, next)
			break
		}
		copy(v, next)
	}

	if max := floats.Max(v); max > 0 {
		floats.Scale(1/max, v)
	}
	return v
}

// clusteringCoefficient is the fraction of a vertex's neighbor pairs that
// are themselves connected. Vertices with fewer than two neighbors score
// zero.
func (gr *Graph) clusteringCoefficient(gene string) float64 {
	id := gr.ids[gene]
	var neigh []int64
	it := gr.g.From(id)
	for it.Next() {
		neigh = append(neigh, it.Node().ID())
	}
	if len(neigh) < 2 {
		return 0
	}

	links := 0
	for i := 0; i < len(neigh); i++ {
		for j := i + 1; j < len(neigh); j++ {
			if gr.g.HasEdgeBetween(neigh[i], neigh[j]) {
				links++
			}
		}
	}
	return 2 * float64(links) / float64(len(neigh)*(len(neigh)-1))
}

// ScoreVector is a caller-supplied per-gene score used as an extra voter in
// gene ranking. Scores are compared by absolute value, so signed statistics
// such as differential-expression scores rank by magnitude.
type ScoreVector struct {
	Name   string
	Scores map[string]float64
}

// RankGenes aggregates the default centrality annotations, plus any extra
// score vectors, into one consensus gene ranking via Borda voting. Every
// voter ranks genes descending; ties keep vertex order.
func (gr *Graph) RankGenes(extra ...ScoreVector) (*ranking.Consensus, error) {
	c := gr.Centralities()

	voters := [][]string{
		gr.rankBy(c.Betweenness, false),
		gr.rankBy(c.Clustering, false),
		gr.rankBy(c.Degree, false),
		gr.rankBy(c.Closeness, false),
		gr.rankBy(c.Eigenvector, false),
	}
	for _, ev := range extra {
		voters = append(voters, gr.rankBy(ev.Scores, true))
	}

	return ranking.Aggregate(voters)
}

// rankBy orders the graph's genes by descending score. Genes absent from the
// score map are left at the tail in vertex order.
func (gr *Graph) rankBy(scores map[string]float64, useAbs bool) []string {
	out := append([]string{}, gr.genes...)
	val := func(g string) float64 {
		v := scores[g]
		if useAbs {
			return math.Abs(v)
		}
		return v
	}
	sort.SliceStable(out, func(a, b int) bool { return val(out[a]) > val(out[b]) })
	return out
}
