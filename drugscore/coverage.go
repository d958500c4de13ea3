package drugscore

import (
	"math"
	"math/rand"
	"sort"
	"time"

	fet "github.com/glycerine/golang-fisher-exact"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/fhaive/dream"
	"github.com/fhaive/dream/netscore"
	"github.com/fhaive/dream/ranking"
)

// degreeBins is the number of equal-count degree bins used when drawing
// degree-matched random target sets.
const degreeBins = 20

// Coverage scores one drug: the number of distinct network-mapped targets,
// divided by the median consensus rank of those targets, times the median
// pairwise Jaccard among the targets' k-order neighborhoods. Drugs with
// many, highly ranked, topologically clustered targets score high.
func Coverage(g *netscore.Graph, geneRank *ranking.Consensus, targets []string, k int) (float64, error) {
	if len(targets) == 0 {
		return 0, dream.Configf("drug has no network-mapped target")
	}

	positions := geneRank.Positions()
	ranks := make([]float64, 0, len(targets))
	for _, t := range targets {
		if pos, ok := positions[t]; ok {
			ranks = append(ranks, float64(pos))
		}
	}
	if len(ranks) == 0 {
		return 0, dream.Configf("none of the drug's targets appear in the consensus gene ranking")
	}
	medianRank, err := stats.Median(ranks)
	if err != nil {
		return 0, err
	}

	clustering, err := IntraSimilarity(g, targets, k, Median)
	if err != nil {
		return 0, err
	}

	return float64(len(targets)) / medianRank * clustering, nil
}

// CoverageSignificance evaluates how surprising a target set's rank-weighted
// network coverage is. The coverage score is the fraction of vertices inside
// the union of the targets' order-k neighborhoods, divided by the median
// consensus rank of the covered vertices. The null draws nPerm random target
// sets with the same degree distribution as the observed one (vertices cut
// into equal-count degree bins, sampled bin for bin), and the observed score
// is standardized against them. The p-value is the normal tail beyond |z|.
func CoverageSignificance(g *netscore.Graph, geneRank *ranking.Consensus, targets []string, k, nPerm int, rng *rand.Rand) (z, p float64, err error) {
	if len(targets) == 0 {
		return 0, 0, dream.Configf("drug set has no network-mapped target")
	}
	if nPerm < 2 {
		return 0, 0, dream.Configf("coverage significance needs at least 2 permutations, got %d", nPerm)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	positions := geneRank.Positions()

	observed, err := coverageScore(g, positions, targets, k)
	if err != nil {
		return 0, 0, err
	}

	bins, binOf, err := degreeBinned(g)
	if err != nil {
		return 0, 0, err
	}
	want := make([]int, degreeBins)
	for _, t := range targets {
		want[binOf[t]]++
	}

	simulated := make([]float64, 0, nPerm)
	for i := 0; i < nPerm; i++ {
		random := drawBinMatched(bins, want, rng)
		s, err := coverageScore(g, positions, random, k)
		if err != nil {
			return 0, 0, err
		}
		simulated = append(simulated, s)
	}

	mean, _ := stats.Mean(simulated)
	sd, _ := stats.StandardDeviation(simulated)
	if sd == 0 {
		return 0, 1, nil
	}
	z = (observed - mean) / sd
	p = distuv.Normal{Mu: 0, Sigma: 1}.CDF(-math.Abs(z))
	return z, p, nil
}

// coverageScore is the rank-weighted coverage of one target set: the union
// of order-k neighborhoods (targets included) as a fraction of the vertex
// count, divided by the median consensus rank of the covered vertices.
func coverageScore(g *netscore.Graph, positions map[string]int, targets []string, k int) (float64, error) {
	covered := make(map[string]struct{})
	for _, t := range targets {
		neigh, err := g.NeighborhoodWithin(t, k)
		if err != nil {
			return 0, err
		}
		for gene := range neigh {
			covered[gene] = struct{}{}
		}
	}

	ranks := make([]float64, 0, len(covered))
	for gene := range covered {
		if pos, ok := positions[gene]; ok {
			ranks = append(ranks, float64(pos))
		}
	}
	if len(ranks) == 0 {
		return 0, dream.Configf("no covered vertex appears in the consensus gene ranking")
	}
	informRank, err := stats.Median(ranks)
	if err != nil {
		return 0, err
	}

	coverage := float64(len(covered)) / float64(g.Order())
	return coverage / informRank, nil
}

// degreeBinned sorts the graph's vertices by degree and cuts them into
// equal-count bins. It returns the genes per bin and each gene's bin.
func degreeBinned(g *netscore.Graph) ([][]string, map[string]int, error) {
	genes := append([]string{}, g.Genes()...)
	degrees := make(map[string]int, len(genes))
	for _, gene := range genes {
		d, err := g.Degree(gene)
		if err != nil {
			return nil, nil, err
		}
		degrees[gene] = d
	}
	sort.SliceStable(genes, func(a, b int) bool { return degrees[genes[a]] < degrees[genes[b]] })

	bins := make([][]string, degreeBins)
	binOf := make(map[string]int, len(genes))
	for pos, gene := range genes {
		b := pos * degreeBins / len(genes)
		if b >= degreeBins {
			b = degreeBins - 1
		}
		bins[b] = append(bins[b], gene)
		binOf[gene] = b
	}
	return bins, binOf, nil
}

// drawBinMatched samples, without replacement within each bin, as many genes
// per degree bin as the observed target set has there.
func drawBinMatched(bins [][]string, want []int, rng *rand.Rand) []string {
	var out []string
	for b, freq := range want {
		if freq == 0 {
			continue
		}
		candidates := bins[b]
		if freq >= len(candidates) {
			out = append(out, candidates...)
			continue
		}
		perm := rng.Perm(len(candidates))
		for _, idx := range perm[:freq] {
			out = append(out, candidates[idx])
		}
	}
	return out
}

// TargetEnrichment tests whether a drug's targets are over-represented among
// the topK genes of the consensus ranking, via Fisher's exact test. The
// right-tailed p-value is returned: the probability of at least as many
// targets in the top of the ranking by chance.
func TargetEnrichment(geneRank *ranking.Consensus, targets []string, topK int) (float64, error) {
	if topK < 1 || topK > len(geneRank.Items) {
		return 0, dream.Configf("topK must be in [1, %d], got %d", len(geneRank.Items), topK)
	}

	targetSet := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		targetSet[t] = struct{}{}
	}

	inTop := 0
	for _, gene := range geneRank.Items[:topK] {
		if _, ok := targetSet[gene]; ok {
			inTop++
		}
	}

	nTargets := 0
	for _, gene := range geneRank.Items {
		if _, ok := targetSet[gene]; ok {
			nTargets++
		}
	}

	n11 := inTop
	n12 := nTargets - inTop
	n21 := topK - inTop
	n22 := len(geneRank.Items) - topK - n12

	_, _, rightp, _ := fet.FisherExactTest(n11, n12, n21, n22)
	return rightp, nil
}
