// Package infer runs mutual-information network inference over an expression
// table. Each (method, estimator, discretization) combination of the
// requested grid is evaluated independently on its own worker, and the valid
// per-combination matrices are reduced to one consensus matrix by
// element-wise median.
package infer

import (
	"math"

	"github.com/fhaive/dream"
	"github.com/fhaive/dream/genematrix"
)

// Method selects the network inference algorithm applied to the pairwise
// mutual information matrix.
type Method int

const (
	// CLR scores each edge by the joint z-score of its mutual information
	// against both genes' background distributions.
	CLR Method = iota
	// ARACNE prunes the weakest edge of every gene triple (data processing
	// inequality).
	ARACNE
	// MRNET scores edges by maximum-relevance minimum-redundancy forward
	// selection around each target gene.
	MRNET
)

var methodNames = map[string]Method{
	"clr":    CLR,
	"aracne": ARACNE,
	"mrnet":  MRNET,
}

// ParseMethod resolves a method name. Unknown names are a ConfigurationError.
func ParseMethod(name string) (Method, error) {
	if m, ok := methodNames[name]; ok {
		return m, nil
	}
	return 0, dream.Configf("unknown inference method %q", name)
}

func (m Method) String() string {
	for name, v := range methodNames {
		if v == m {
			return name
		}
	}
	return "unknown"
}

// Apply transforms a symmetric mutual information matrix into the method's
// edge score matrix. The input is not modified.
func (m Method) Apply(mi *genematrix.Matrix) *genematrix.Matrix {
	switch m {
	case ARACNE:
		return aracne(mi)
	case MRNET:
		return mrnet(mi)
	default:
		return clr(mi)
	}
}

// clr computes the context likelihood of relatedness score: for each edge the
// per-gene z-scores of its mutual information are floored at zero and
// combined as sqrt(zi^2 + zj^2).
func clr(mi *genematrix.Matrix) *genematrix.Matrix {
	n, _ := mi.Dims()
	means := make([]float64, n)
	sds := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			if j != i {
				sum += mi.At(i, j)
			}
		}
		means[i] = sum / float64(n-1)
		ss := 0.0
		for j := 0; j < n; j++ {
			if j != i {
				d := mi.At(i, j) - means[i]
				ss += d * d
			}
		}
		sds[i] = math.Sqrt(ss / float64(n-1))
	}

	out := genematrix.NewSquare(mi.RowNames)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			zi, zj := 0.0, 0.0
			if sds[i] > 0 {
				zi = math.Max(0, (mi.At(i, j)-means[i])/sds[i])
			}
			if sds[j] > 0 {
				zj = math.Max(0, (mi.At(i, j)-means[j])/sds[j])
			}
			v := math.Sqrt(zi*zi + zj*zj)
			out.Set(i, j, v)
			out.Set(j, i, v)
		}
	}
	return out
}

// aracne applies the data processing inequality: within every gene triple,
// the strictly weakest edge is zeroed. Removal decisions are made against
// the original values so that triple visiting order does not matter.
func aracne(mi *genematrix.Matrix) *genematrix.Matrix {
	n, _ := mi.Dims()
	out := mi.Clone()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				ij, ik, jk := mi.At(i, j), mi.At(i, k), mi.At(j, k)
				switch {
				case ij < ik && ij < jk:
					out.Set(i, j, 0)
					out.Set(j, i, 0)
				case ik < ij && ik < jk:
					out.Set(i, k, 0)
					out.Set(k, i, 0)
				case jk < ij && jk < ik:
					out.Set(j, k, 0)
					out.Set(k, j, 0)
				}
			}
		}
	}
	return out
}

// mrnet performs maximum-relevance minimum-redundancy forward selection with
// each gene in turn as the target. A candidate's score is its mutual
// information with the target minus its mean mutual information with the
// already selected genes; selection stops when no candidate scores above
// zero. The final edge score is the larger of the two directed scores.
func mrnet(mi *genematrix.Matrix) *genematrix.Matrix {
	n, _ := mi.Dims()
	score := make([][]float64, n)
	for i := range score {
		score[i] = make([]float64, n)
	}

	for target := 0; target < n; target++ {
		selected := make([]int, 0, n-1)
		chosen := make([]bool, n)
		chosen[target] = true

		for {
			best := -1
			bestScore := 0.0
			for cand := 0; cand < n; cand++ {
				if chosen[cand] {
					continue
				}
				relevance := mi.At(cand, target)
				redundancy := 0.0
				for _, s := range selected {
					redundancy += mi.At(cand, s)
				}
				if len(selected) > 0 {
					redundancy /= float64(len(selected))
				}
				s := relevance - redundancy
				if s > bestScore {
					bestScore = s
					best = cand
				}
			}
			if best < 0 {
				break
			}
			chosen[best] = true
			selected = append(selected, best)
			score[best][target] = bestScore
		}
	}

	out := genematrix.NewSquare(mi.RowNames)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := math.Max(score[i][j], score[j][i])
			out.Set(i, j, v)
			out.Set(j, i, v)
		}
	}
	return out
}
