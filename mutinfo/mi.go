package mutinfo

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/fhaive/dream"
	"github.com/fhaive/dream/genematrix"
)

// Pairwise computes the symmetric gene-by-gene mutual information matrix for
// an expression table (genes in rows, samples in columns). The diagonal is
// zero. Estimators of the mi.* family require a discretization other than
// None.
func Pairwise(table *genematrix.Matrix, est Estimator, disc Discretization) (*genematrix.Matrix, error) {
	if table == nil {
		return nil, dream.Configf("nil expression table")
	}
	nGenes, nSamples := table.Dims()
	if nGenes < 2 {
		return nil, dream.Mismatchf("expression table needs at least 2 genes, got %d", nGenes)
	}

	rows := make([][]float64, nGenes)
	for i := 0; i < nGenes; i++ {
		rows[i] = make([]float64, nSamples)
		mat.Row(rows[i], i, table.Data)
	}

	out := genematrix.NewSquare(table.RowNames)

	if est.NeedsDiscretization() {
		if disc == None {
			return nil, dream.Configf("estimator %s is undefined without discretization", est)
		}
		bins := DefaultBins(nSamples)
		binned, err := DiscretizeRows(rows, disc, bins)
		if err != nil {
			return nil, err
		}
		for i := 0; i < nGenes; i++ {
			for j := i + 1; j < nGenes; j++ {
				mi := discreteMI(binned[i], binned[j], bins, est)
				out.Set(i, j, mi)
				out.Set(j, i, mi)
			}
		}
		return out, nil
	}

	for i := 0; i < nGenes; i++ {
		for j := i + 1; j < nGenes; j++ {
			mi := continuousMI(rows[i], rows[j], est)
			out.Set(i, j, mi)
			out.Set(j, i, mi)
		}
	}
	return out, nil
}

// continuousMI applies the Gaussian identity MI = -0.5*log(1-rho^2) to a
// correlation-family estimate.
func continuousMI(x, y []float64, est Estimator) float64 {
	var rho float64
	switch est {
	case Pearson:
		rho = stat.Correlation(x, y, nil)
	case Spearman:
		rho = stat.Correlation(ranks(x), ranks(y), nil)
	case Kendall:
		rho = stat.Kendall(x, y, nil)
	}
	r2 := rho * rho
	if r2 >= 1 {
		r2 = 1 - 1e-12
	}
	return -0.5 * math.Log(1-r2)
}

// ranks returns 1-based fractional ranks with ties averaged.
func ranks(x []float64) []float64 {
	n := len(x)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && x[order[j+1]] == x[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[order[k]] = avg
		}
		i = j + 1
	}
	return out
}

// discreteMI estimates I(X;Y) = H(X) + H(Y) - H(X,Y) from binned profiles.
func discreteMI(x, y []int, bins int, est Estimator) float64 {
	n := len(x)
	cx := make([]float64, bins)
	cy := make([]float64, bins)
	cxy := make([]float64, bins*bins)
	for i := 0; i < n; i++ {
		cx[x[i]]++
		cy[y[i]]++
		cxy[x[i]*bins+y[i]]++
	}

	hx := entropy(cx, n, est)
	hy := entropy(cy, n, est)
	hxy := entropy(cxy, n, est)

	mi := hx + hy - hxy
	if mi < 0 {
		mi = 0
	}
	return mi
}

// entropy estimates H from bin counts over n observations. counts includes
// empty cells; its length is the support size K used by the Bayesian
// estimators.
func entropy(counts []float64, n int, est Estimator) float64 {
	k := float64(len(counts))
	nf := float64(n)

	switch est {
	case MIEmpirical:
		return plugin(counts, nf)
	case MIMillerMadow:
		nonzero := 0.0
		for _, c := range counts {
			if c > 0 {
				nonzero++
			}
		}
		return plugin(counts, nf) + (nonzero-1)/(2*nf)
	case MISchurmannGrassberger:
		// Dirichlet plugin with pseudocount 1/K per cell.
		a := 1 / k
		h := 0.0
		for _, c := range counts {
			p := (c + a) / (nf + k*a)
			h -= p * math.Log(p)
		}
		return h
	case MIShrink:
		// James-Stein shrinkage of cell frequencies toward uniform.
		sumSq := 0.0
		denom := 0.0
		for _, c := range counts {
			p := c / nf
			sumSq += p * p
			denom += (1/k - p) * (1/k - p)
		}
		lambda := 1.0
		if denom > 0 && n > 1 {
			lambda = (1 - sumSq) / (float64(n-1) * denom)
		}
		if lambda > 1 {
			lambda = 1
		}
		if lambda < 0 {
			lambda = 0
		}
		h := 0.0
		for _, c := range counts {
			p := lambda/k + (1-lambda)*(c/nf)
			if p > 0 {
				h -= p * math.Log(p)
			}
		}
		return h
	}
	return plugin(counts, nf)
}

func plugin(counts []float64, n float64) float64 {
	h := 0.0
	for _, c := range counts {
		if c > 0 {
			p := c / n
			h -= p * math.Log(p)
		}
	}
	return h
}
