// Package drugscore maps drug targets onto a gene network and scores drugs
// and drug sets: neighborhood similarity, graph distance between target
// sets, rank-weighted coverage, and permutation significance of coverage.
package drugscore

import (
	"encoding/csv"
	"io"
	"os"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/fhaive/dream/netscore"
)

// TargetRecord is one row of a drug-target relation table.
type TargetRecord struct {
	Drug   string `csv:"drug"`
	Target string `csv:"target"`
}

// TargetMap is the many-to-many drug to target-gene relation.
type TargetMap map[string][]string

// ReadTargets parses a tab-delimited drug-target table with a "drug" and a
// "target" column.
func ReadTargets(r io.Reader) (TargetMap, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = '\t'
		cr.LazyQuotes = true
		return cr
	})

	var records []*TargetRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, pfx.Err(err)
	}

	out := make(TargetMap)
	for _, rec := range records {
		out[rec.Drug] = append(out[rec.Drug], rec.Target)
	}
	return out, nil
}

// ReadTargetsFile parses a drug-target table from disk.
func ReadTargetsFile(path string) (TargetMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	return ReadTargets(f)
}

// Drugs returns the drug names in sorted order.
func (tm TargetMap) Drugs() []string {
	out := make([]string, 0, len(tm))
	for d := range tm {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// OnGraph returns a copy of the mapping restricted to targets that are
// vertices of the graph. Drugs left with no mapped target are dropped:
// only network-mapped targets participate in scoring.
func (tm TargetMap) OnGraph(g *netscore.Graph) TargetMap {
	out := make(TargetMap, len(tm))
	for drug, targets := range tm {
		var kept []string
		seen := make(map[string]struct{})
		for _, t := range targets {
			if !g.HasGene(t) {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			kept = append(kept, t)
		}
		if len(kept) > 0 {
			out[drug] = kept
		}
	}
	return out
}
