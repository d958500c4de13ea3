package mutinfo

import (
	"math"
	"sort"

	"github.com/fhaive/dream"
)

// Discretization selects how continuous expression values are binned before
// entropy-based mutual information estimation.
type Discretization int

const (
	// None leaves values continuous. Valid only with correlation-family
	// estimators.
	None Discretization = iota
	// EqualWidth bins each gene over its own value range.
	EqualWidth
	// EqualFreq bins each gene into equally populated bins.
	EqualFreq
	// GlobalEqualWidth bins every gene over the value range of the whole
	// table.
	GlobalEqualWidth
)

var discretizationNames = map[string]Discretization{
	"none":             None,
	"equalwidth":       EqualWidth,
	"equalfreq":        EqualFreq,
	"globalequalwidth": GlobalEqualWidth,
}

// ParseDiscretization resolves a discretization name. Unknown names are a
// ConfigurationError.
func ParseDiscretization(name string) (Discretization, error) {
	if d, ok := discretizationNames[name]; ok {
		return d, nil
	}
	return 0, dream.Configf("unknown discretization %q", name)
}

func (d Discretization) String() string {
	for name, v := range discretizationNames {
		if v == d {
			return name
		}
	}
	return "unknown"
}

// DefaultBins is the conventional bin count for n samples: floor(sqrt(n)),
// never below 2.
func DefaultBins(nSamples int) int {
	b := int(math.Floor(math.Sqrt(float64(nSamples))))
	if b < 2 {
		b = 2
	}
	return b
}

// DiscretizeRows bins every row of the table into bins levels according to
// the discretization mode. Rows are gene profiles over samples.
func DiscretizeRows(rows [][]float64, d Discretization, bins int) ([][]int, error) {
	if bins < 2 {
		return nil, dream.Configf("discretization needs at least 2 bins, got %d", bins)
	}
	if d == None {
		return nil, dream.Configf("cannot discretize with mode none")
	}

	out := make([][]int, len(rows))

	var globalMin, globalMax float64
	if d == GlobalEqualWidth {
		globalMin, globalMax = math.Inf(1), math.Inf(-1)
		for _, row := range rows {
			for _, v := range row {
				globalMin = math.Min(globalMin, v)
				globalMax = math.Max(globalMax, v)
			}
		}
	}

	for i, row := range rows {
		switch d {
		case EqualWidth:
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, v := range row {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
			out[i] = binEqualWidth(row, lo, hi, bins)
		case GlobalEqualWidth:
			out[i] = binEqualWidth(row, globalMin, globalMax, bins)
		case EqualFreq:
			out[i] = binEqualFreq(row, bins)
		}
	}
	return out, nil
}

func binEqualWidth(row []float64, lo, hi float64, bins int) []int {
	out := make([]int, len(row))
	width := (hi - lo) / float64(bins)
	if width == 0 {
		return out
	}
	for j, v := range row {
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		if b < 0 {
			b = 0
		}
		out[j] = b
	}
	return out
}

func binEqualFreq(row []float64, bins int) []int {
	n := len(row)
	order := make([]int, n)
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool { return row[order[a]] < row[order[b]] })

	out := make([]int, n)
	for pos, j := range order {
		b := pos * bins / n
		if b >= bins {
			b = bins - 1
		}
		out[j] = b
	}
	return out
}
