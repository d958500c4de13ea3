// Package consensus orchestrates the inference pipeline: per-method network
// inference (or caller-supplied weighted matrices), per-matrix edge ranking,
// Borda aggregation into one consensus edge ranking, and materialization of
// a binary adjacency matrix under an edge-selection policy.
package consensus

import (
	"math"

	"github.com/fhaive/dream"
	"github.com/fhaive/dream/genematrix"
	"github.com/fhaive/dream/infer"
	"github.com/fhaive/dream/mutinfo"
	"github.com/fhaive/dream/ranking"
)

// Selection is the edge-selection policy applied to the consensus ranking.
type Selection int

const (
	// Default accepts edges in rank order until every gene referenced by the
	// ranking has at least one accepted edge.
	Default Selection = iota
	// Top accepts the first ceil(TopPct% x total edges) edges.
	Top
)

var selectionNames = map[string]Selection{
	"default": Default,
	"top":     Top,
}

// ParseSelection resolves a selection policy name. Unknown names are a
// ConfigurationError.
func ParseSelection(name string) (Selection, error) {
	if s, ok := selectionNames[name]; ok {
		return s, nil
	}
	return 0, dream.Configf("unknown edge selection policy %q", name)
}

// Options configures one consensus network build. Exactly one input path
// must be populated: an expression table with inference vectors, or a list
// of pre-computed weighted matrices.
type Options struct {
	// Path (a): infer from expression.
	Table           *genematrix.Matrix
	Methods         []infer.Method
	Estimators      []mutinfo.Estimator
	Discretizations []mutinfo.Discretization

	// Path (b): caller-supplied weighted matrices.
	Matrices []*genematrix.Matrix
	// WeightType states how caller matrix weights order edges. With
	// ranking.Rank, zero-weight edges are an explicit "no edge" vote: they
	// are split off and re-appended at the tail of each ranked list instead
	// of being dropped.
	WeightType ranking.Ordering

	Selection Selection
	// TopPct is the percentage of ranked edges accepted by the Top policy.
	TopPct float64

	Workers  int
	Progress dream.ProgressSink
}

// Result is the output of a consensus network build.
type Result struct {
	// Ranking is the Borda consensus over all per-matrix edge rankings.
	Ranking *ranking.Consensus
	// RankMatrix holds the 1-based consensus position of every ranked edge,
	// symmetric, zero where an edge never appeared.
	RankMatrix *genematrix.Matrix
	// Binary is the 0/1 adjacency matrix of the selected edges.
	Binary *genematrix.Matrix
	// Accepted is the prefix of the consensus ranking that was materialized.
	Accepted []string
}

// Build runs the full pipeline and returns the consensus ranking, the rank
// matrix side-output, and the selected binary network.
func Build(opts Options) (*Result, error) {
	lists, genes, err := rankedLists(opts)
	if err != nil {
		return nil, err
	}

	cons, err := ranking.Aggregate(lists)
	if err != nil {
		return nil, err
	}

	rankMatrix := genematrix.NewSquare(genes)
	for pos, id := range cons.Items {
		a, b := ranking.SplitEdgeID(id)
		i, j := rankMatrix.RowIndex(a), rankMatrix.RowIndex(b)
		if i < 0 || j < 0 {
			return nil, dream.Mismatchf("ranked edge %q references a gene outside the input universe", id)
		}
		rankMatrix.Set(i, j, float64(pos+1))
		rankMatrix.Set(j, i, float64(pos+1))
	}

	accepted, err := selectEdges(cons.Items, opts.Selection, opts.TopPct)
	if err != nil {
		return nil, err
	}

	binary := genematrix.NewSquare(genes)
	for _, id := range accepted {
		a, b := ranking.SplitEdgeID(id)
		i, j := binary.RowIndex(a), binary.RowIndex(b)
		binary.Set(i, j, 1)
		binary.Set(j, i, 1)
	}

	return &Result{
		Ranking:    cons,
		RankMatrix: rankMatrix,
		Binary:     binary,
		Accepted:   accepted,
	}, nil
}

// rankedLists produces one ranked edge list per inference method or caller
// matrix, plus the gene universe the output matrices are labeled with.
func rankedLists(opts Options) ([][]string, []string, error) {
	switch {
	case opts.Table != nil:
		if len(opts.Methods) == 0 {
			return nil, nil, dream.Configf("expression table supplied without inference methods")
		}

		lists := make([][]string, 0, len(opts.Methods))
		for _, method := range opts.Methods {
			m, err := infer.Run(opts.Table, infer.Config{
				Methods:         []infer.Method{method},
				Estimators:      opts.Estimators,
				Discretizations: opts.Discretizations,
				Workers:         opts.Workers,
				Progress:        opts.Progress,
			})
			if err != nil {
				return nil, nil, err
			}
			// Inference outputs are raw strength scores: higher is stronger.
			list, err := ranking.RankEdges(m, ranking.Score)
			if err != nil {
				return nil, nil, err
			}
			lists = append(lists, list)
		}
		return lists, opts.Table.RowNames, nil

	case len(opts.Matrices) > 0:
		lists := make([][]string, 0, len(opts.Matrices))
		var genes []string
		seen := make(map[string]struct{})
		for _, m := range opts.Matrices {
			list, err := ranking.RankEdges(m, opts.WeightType)
			if err != nil {
				return nil, nil, err
			}
			if opts.WeightType == ranking.Rank {
				zeros, err := ranking.ZeroEdges(m)
				if err != nil {
					return nil, nil, err
				}
				list = append(list, zeros...)
			}
			lists = append(lists, list)
			for _, g := range m.RowNames {
				if _, ok := seen[g]; !ok {
					seen[g] = struct{}{}
					genes = append(genes, g)
				}
			}
		}
		return lists, genes, nil
	}

	return nil, nil, dream.Configf("need either an expression table with methods or a list of weighted matrices")
}

// selectEdges applies the edge-selection policy to a rank-ordered edge
// sequence and returns the accepted prefix.
func selectEdges(items []string, sel Selection, topPct float64) ([]string, error) {
	switch sel {
	case Top:
		if math.IsNaN(topPct) || topPct <= 0 || topPct > 100 {
			return nil, dream.Configf("top selection percentile must be in (0, 100], got %v", topPct)
		}
		n := int(math.Ceil(topPct / 100 * float64(len(items))))
		if n > len(items) {
			n = len(items)
		}
		return append([]string{}, items[:n]...), nil

	case Default:
		universe := make(map[string]struct{})
		for _, id := range items {
			a, b := ranking.SplitEdgeID(id)
			universe[a] = struct{}{}
			universe[b] = struct{}{}
		}

		covered := make(map[string]struct{}, len(universe))
		var accepted []string
		for _, id := range items {
			accepted = append(accepted, id)
			a, b := ranking.SplitEdgeID(id)
			covered[a] = struct{}{}
			covered[b] = struct{}{}
			if len(covered) == len(universe) {
				break
			}
		}
		return accepted, nil
	}

	return nil, dream.Configf("unknown edge selection policy %d", sel)
}
