// Package netscore builds an annotated undirected graph from a binary
// adjacency matrix and scores it: vertex centralities, consensus gene
// ranking, k-order neighborhood similarity, shortest paths, and permutation
// significance of similarity scores.
package netscore

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/fhaive/dream"
	"github.com/fhaive/dream/genematrix"
)

// Graph is an undirected gene network with stable gene labels. Every
// operation takes its graph receiver explicitly; nothing is captured from an
// enclosing scope.
type Graph struct {
	g     *simple.UndirectedGraph
	genes []string
	ids   map[string]int64

	paths    path.AllShortest
	hasPaths bool
}

// FromAdjacency builds a Graph from a square gene-by-gene matrix. An
// asymmetric matrix is repaired by element-wise maximum with its transpose
// rather than rejected. Any non-zero cell is an edge; self loops are
// ignored.
func FromAdjacency(m *genematrix.Matrix) (*Graph, error) {
	if m == nil {
		return nil, dream.Configf("nil adjacency matrix")
	}
	if !m.IsSquare() {
		r, c := m.Dims()
		return nil, dream.Mismatchf("adjacency must be a square gene-by-gene matrix, got %dx%d", r, c)
	}

	adj := m.Clone()
	if err := adj.SymmetrizeMax(); err != nil {
		return nil, err
	}

	out := &Graph{
		g:     simple.NewUndirectedGraph(),
		genes: append([]string{}, adj.RowNames...),
		ids:   make(map[string]int64, len(adj.RowNames)),
	}
	for i, gene := range out.genes {
		out.ids[gene] = int64(i)
		out.g.AddNode(simple.Node(int64(i)))
	}

	n, _ := adj.Dims()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if adj.At(i, j) != 0 {
				out.g.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(int64(j))})
			}
		}
	}
	return out, nil
}

// Genes returns the vertex labels in matrix order.
func (gr *Graph) Genes() []string {
	return gr.genes
}

// HasGene reports whether the gene is a vertex of the graph.
func (gr *Graph) HasGene(gene string) bool {
	_, ok := gr.ids[gene]
	return ok
}

// Order returns the number of vertices.
func (gr *Graph) Order() int {
	return len(gr.genes)
}

func (gr *Graph) id(gene string) (int64, error) {
	id, ok := gr.ids[gene]
	if !ok {
		return 0, dream.Configf("gene %q is not a vertex of the graph", gene)
	}
	return id, nil
}

// Degree returns the number of neighbors of the gene.
func (gr *Graph) Degree(gene string) (int, error) {
	id, err := gr.id(gene)
	if err != nil {
		return 0, err
	}
	return gr.g.From(id).Len(), nil
}

// NeighborhoodWithin returns the set of genes reachable within k edges of
// the center, the center included.
func (gr *Graph) NeighborhoodWithin(gene string, k int) (map[string]struct{}, error) {
	id, err := gr.id(gene)
	if err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, dream.Configf("neighborhood order must be non-negative, got %d", k)
	}

	out := make(map[string]struct{})
	bf := traverse.BreadthFirst{}
	bf.Walk(gr.g, gr.g.Node(id), func(n graph.Node, d int) bool {
		if d > k {
			return true
		}
		out[gr.genes[n.ID()]] = struct{}{}
		return false
	})
	return out, nil
}

// Jaccard computes the Jaccard similarity of the k-order neighborhoods of
// two genes: |N_k(a) n N_k(b)| / |N_k(a) u N_k(b)|.
func (gr *Graph) Jaccard(a, b string, k int) (float64, error) {
	na, err := gr.NeighborhoodWithin(a, k)
	if err != nil {
		return 0, err
	}
	nb, err := gr.NeighborhoodWithin(b, k)
	if err != nil {
		return 0, err
	}

	inter := 0
	for g := range na {
		if _, ok := nb[g]; ok {
			inter++
		}
	}
	union := len(na) + len(nb) - inter
	if union == 0 {
		return 0, nil
	}
	return float64(inter) / float64(union), nil
}

// allPaths lazily computes all-pairs shortest paths. Edges are unweighted,
// so path length is the edge count.
func (gr *Graph) allPaths() path.AllShortest {
	if !gr.hasPaths {
		gr.paths = path.DijkstraAllPaths(gr.g)
		gr.hasPaths = true
	}
	return gr.paths
}

// ShortestPathLen returns the number of edges on a shortest path between two
// genes, or +Inf when they are disconnected. Distance is symmetric.
func (gr *Graph) ShortestPathLen(a, b string) (float64, error) {
	ida, err := gr.id(a)
	if err != nil {
		return 0, err
	}
	idb, err := gr.id(b)
	if err != nil {
		return 0, err
	}
	if ida == idb {
		return 0, nil
	}
	w := gr.allPaths().Weight(ida, idb)
	if math.IsInf(w, 1) {
		return math.Inf(1), nil
	}
	return w, nil
}
