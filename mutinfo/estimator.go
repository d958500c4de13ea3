// Package mutinfo estimates pairwise mutual information between gene
// expression profiles. Correlation-family estimators work on the continuous
// values through the Gaussian identity MI = -0.5*log(1-rho^2); the mi.*
// family works on discretized profiles through entropy estimates.
package mutinfo

import (
	"github.com/fhaive/dream"
)

// Estimator selects how mutual information is estimated from a pair of
// expression profiles.
type Estimator int

const (
	Pearson Estimator = iota
	Spearman
	Kendall
	MIEmpirical
	MIMillerMadow
	MIShrink
	MISchurmannGrassberger
)

var estimatorNames = map[string]Estimator{
	"pearson":      Pearson,
	"spearman":     Spearman,
	"kendall":      Kendall,
	"mi.empirical": MIEmpirical,
	"mi.mm":        MIMillerMadow,
	"mi.shrink":    MIShrink,
	"mi.sg":        MISchurmannGrassberger,
}

// ParseEstimator resolves an estimator name. Unknown names are a
// ConfigurationError; the accepted set is the estimator enumeration above.
func ParseEstimator(name string) (Estimator, error) {
	if e, ok := estimatorNames[name]; ok {
		return e, nil
	}
	return 0, dream.Configf("unknown estimator %q", name)
}

func (e Estimator) String() string {
	for name, v := range estimatorNames {
		if v == e {
			return name
		}
	}
	return "unknown"
}

// NeedsDiscretization reports whether the estimator operates on binned
// values. The combination of such an estimator with no discretization is
// analytically undefined and is skipped by the inference engine.
func (e Estimator) NeedsDiscretization() bool {
	switch e {
	case MIEmpirical, MIMillerMadow, MIShrink, MISchurmannGrassberger:
		return true
	}
	return false
}
