// Package ranking converts weighted gene-by-gene matrices into ordered edge
// lists and merges multiple ranked lists (edges or genes) into one consensus
// ranking by Borda positional voting with median positions.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/fhaive/dream"
	"github.com/fhaive/dream/genematrix"
)

// Ordering states how matrix weights relate to edge strength.
type Ordering int

const (
	// Rank means lower values are stronger (weights are already rank
	// positions); edges sort ascending.
	Rank Ordering = iota
	// Score means higher values are stronger (raw similarity scores); edges
	// sort descending.
	Score
)

// ParseOrdering maps the weight-type name onto an Ordering. "rank" sorts
// ascending; every other value is treated as a raw score and sorts
// descending.
func ParseOrdering(name string) Ordering {
	if name == "rank" {
		return Rank
	}
	return Score
}

// EdgeID builds the canonical undirected edge identifier for two genes in
// matrix order.
func EdgeID(a, b string) string {
	return a + ";" + b
}

// SplitEdgeID returns the two gene identifiers of an edge id.
func SplitEdgeID(id string) (string, string) {
	parts := strings.SplitN(id, ";", 2)
	if len(parts) < 2 {
		return id, ""
	}
	return parts[0], parts[1]
}

// RankEdges orders the edges of a symmetric weighted matrix by weight. Only
// the strict upper triangle is read, so no self edge and no duplicate
// orientation can be emitted. Edges with zero or undefined weight are
// dropped before ordering. Ties keep matrix iteration order (stable sort).
func RankEdges(m *genematrix.Matrix, ord Ordering) ([]string, error) {
	if m == nil {
		return nil, dream.Configf("nil matrix")
	}
	if !m.IsSquare() {
		r, c := m.Dims()
		return nil, dream.Mismatchf("edge ranking requires a square gene-by-gene matrix, got %dx%d", r, c)
	}

	type edge struct {
		id     string
		weight float64
	}
	n, _ := m.Dims()
	edges := make([]edge, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := m.At(i, j)
			if w == 0 || math.IsNaN(w) {
				continue
			}
			edges = append(edges, edge{id: EdgeID(m.RowNames[i], m.RowNames[j]), weight: w})
		}
	}

	if ord == Rank {
		sort.SliceStable(edges, func(a, b int) bool { return edges[a].weight < edges[b].weight })
	} else {
		sort.SliceStable(edges, func(a, b int) bool { return edges[a].weight > edges[b].weight })
	}

	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.id
	}
	return out, nil
}

// ZeroEdges lists the upper-triangle edges of a square matrix whose weight
// is exactly zero, in matrix iteration order. Callers that treat zero as an
// explicit "no edge" vote append these at the tail of a ranked list instead
// of dropping them.
func ZeroEdges(m *genematrix.Matrix) ([]string, error) {
	if m == nil {
		return nil, dream.Configf("nil matrix")
	}
	if !m.IsSquare() {
		r, c := m.Dims()
		return nil, dream.Mismatchf("edge listing requires a square gene-by-gene matrix, got %dx%d", r, c)
	}

	n, _ := m.Dims()
	var out []string
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m.At(i, j) == 0 {
				out = append(out, EdgeID(m.RowNames[i], m.RowNames[j]))
			}
		}
	}
	return out, nil
}
