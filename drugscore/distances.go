package drugscore

import (
	"encoding/csv"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/fhaive/dream"
	"github.com/fhaive/dream/genematrix"
	"github.com/fhaive/dream/netscore"
	"github.com/fhaive/dream/ranking"
)

// DistanceRecord is one long-form drug-pair distance, as produced by the
// external chemical and mechanistic scoring collaborators.
type DistanceRecord struct {
	Drug1    string  `csv:"drug1"`
	Drug2    string  `csv:"drug2"`
	Distance float64 `csv:"distance"`
}

// ReadDistances parses a tab-delimited (drug1, drug2, distance) table.
func ReadDistances(r io.Reader) ([]DistanceRecord, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = '\t'
		cr.LazyQuotes = true
		return cr
	})

	var records []DistanceRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, pfx.Err(err)
	}
	return records, nil
}

// ReadDistancesFile parses a drug-pair distance table from disk.
func ReadDistancesFile(path string) ([]DistanceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	return ReadDistances(f)
}

// PivotDistances turns long-form drug-pair distances into a symmetric
// drug-by-drug matrix over the sorted union of drug names. Pairs absent
// from the records stay zero.
func PivotDistances(records []DistanceRecord) (*genematrix.Matrix, error) {
	if len(records) == 0 {
		return nil, dream.Configf("no distance records")
	}

	seen := make(map[string]struct{})
	for _, rec := range records {
		seen[rec.Drug1] = struct{}{}
		seen[rec.Drug2] = struct{}{}
	}
	drugs := make([]string, 0, len(seen))
	for d := range seen {
		drugs = append(drugs, d)
	}
	sort.Strings(drugs)

	out := genematrix.NewSquare(drugs)
	for _, rec := range records {
		i, j := out.RowIndex(rec.Drug1), out.RowIndex(rec.Drug2)
		out.Set(i, j, rec.Distance)
		out.Set(j, i, rec.Distance)
	}
	return out, nil
}

// MeanSubsetDistance averages the upper-triangle distances of a drug subset
// within a symmetric distance matrix.
func MeanSubsetDistance(m *genematrix.Matrix, drugs []string) (float64, error) {
	if len(drugs) < 2 {
		return 0, dream.Configf("subset distance needs at least 2 drugs, got %d", len(drugs))
	}

	idx := make([]int, len(drugs))
	for k, d := range drugs {
		i := m.RowIndex(d)
		if i < 0 {
			return 0, dream.Configf("drug %q absent from distance matrix", d)
		}
		idx[k] = i
	}

	sum, n := 0.0, 0
	for a := 0; a < len(idx); a++ {
		for b := a + 1; b < len(idx); b++ {
			sum += m.At(idx[a], idx[b])
			n++
		}
	}
	return sum / float64(n), nil
}

// SetEvaluation summarizes one candidate drug combination: mean pairwise
// distances along the three distance axes, the permutation significance of
// the combined target coverage, and the combination size.
type SetEvaluation struct {
	MeanChemicalDistance    float64
	MeanMechanisticDistance float64
	MeanGraphDistance       float64
	CoverageZ               float64
	CoverageP               float64
	NDrugs                  int
}

// EvaluateSet scores a candidate drug combination against externally
// computed chemical and mechanistic distance matrices, the network distance
// matrix, and the consensus gene ranking. Sets of fewer than two drugs are
// a ConfigurationError.
func EvaluateSet(
	g *netscore.Graph,
	geneRank *ranking.Consensus,
	tm TargetMap,
	chemical, mechanistic, graphDist *genematrix.Matrix,
	drugs []string,
	k, nPerm int,
	rng *rand.Rand,
) (SetEvaluation, error) {
	var out SetEvaluation
	if len(drugs) < 2 {
		return out, dream.Configf("drug set evaluation needs at least 2 drugs, got %d", len(drugs))
	}

	var err error
	if out.MeanChemicalDistance, err = MeanSubsetDistance(chemical, drugs); err != nil {
		return out, err
	}
	if out.MeanMechanisticDistance, err = MeanSubsetDistance(mechanistic, drugs); err != nil {
		return out, err
	}
	if out.MeanGraphDistance, err = MeanSubsetDistance(graphDist, drugs); err != nil {
		return out, err
	}

	var combined []string
	seen := make(map[string]struct{})
	for _, d := range drugs {
		for _, t := range tm[d] {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			combined = append(combined, t)
		}
	}

	out.CoverageZ, out.CoverageP, err = CoverageSignificance(g, geneRank, combined, k, nPerm, rng)
	if err != nil {
		return out, err
	}
	out.NDrugs = len(drugs)
	return out, nil
}
