package netscore

import (
	"math"
	"math/rand"
	"testing"

	"github.com/fhaive/dream/genematrix"
)

// adjacency builds a binary matrix over the genes with the given undirected
// edges.
func adjacency(genes []string, edges [][2]string) *genematrix.Matrix {
	m := genematrix.NewSquare(genes)
	for _, e := range edges {
		i, j := m.RowIndex(e[0]), m.RowIndex(e[1])
		m.Set(i, j, 1)
		m.Set(j, i, 1)
	}
	return m
}

func pathGraph(t *testing.T) *Graph {
	t.Helper()
	adj := adjacency(
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}},
	)
	g, err := FromAdjacency(adj)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFromAdjacencyRepairsAsymmetry(t *testing.T) {
	m := genematrix.NewSquare([]string{"a", "b"})
	m.Set(0, 1, 1) // only one orientation set

	g, err := FromAdjacency(m)
	if err != nil {
		t.Fatal(err)
	}

	d, err := g.Degree("a")
	if err != nil {
		t.Fatal(err)
	}
	if d != 1 {
		t.Errorf("degree(a) = %d after symmetrization, want 1", d)
	}
}

func TestNeighborhoodWithin(t *testing.T) {
	g := pathGraph(t)

	n1, err := g.NeighborhoodWithin("b", 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, gene := range []string{"a", "b", "c"} {
		if _, ok := n1[gene]; !ok {
			t.Errorf("gene %s missing from order-1 neighborhood of b: %v", gene, n1)
		}
	}
	if _, ok := n1["d"]; ok {
		t.Error("gene d should be outside the order-1 neighborhood of b")
	}

	n0, err := g.NeighborhoodWithin("b", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(n0) != 1 {
		t.Errorf("order-0 neighborhood should hold only the center, got %v", n0)
	}
}

func TestJaccardSelfIsOne(t *testing.T) {
	g := pathGraph(t)
	for _, k := range []int{0, 1, 2, 3} {
		j, err := g.Jaccard("b", "b", k)
		if err != nil {
			t.Fatal(err)
		}
		if j != 1.0 {
			t.Errorf("Jaccard(b, b, k=%d) = %v, want 1.0", k, j)
		}
	}
}

func TestShortestPathSymmetric(t *testing.T) {
	g := pathGraph(t)

	ad, err := g.ShortestPathLen("a", "d")
	if err != nil {
		t.Fatal(err)
	}
	da, err := g.ShortestPathLen("d", "a")
	if err != nil {
		t.Fatal(err)
	}
	if ad != 3 || da != 3 {
		t.Errorf("shortest path a-d = %v, d-a = %v, want 3 both ways", ad, da)
	}
}

func TestShortestPathDisconnected(t *testing.T) {
	adj := adjacency([]string{"a", "b", "c"}, [][2]string{{"a", "b"}})
	g, err := FromAdjacency(adj)
	if err != nil {
		t.Fatal(err)
	}

	d, err := g.ShortestPathLen("a", "c")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(d, 1) {
		t.Errorf("distance to a disconnected vertex = %v, want +Inf", d)
	}
}

func TestCentralities(t *testing.T) {
	g := pathGraph(t)
	c := g.Centralities()

	if c.Degree["b"] != 2 || c.Degree["a"] != 1 {
		t.Errorf("degrees = %v", c.Degree)
	}
	if c.Betweenness["b"] <= c.Betweenness["a"] {
		t.Errorf("betweenness of an interior vertex (%v) should exceed an endpoint (%v)", c.Betweenness["b"], c.Betweenness["a"])
	}
	if c.Closeness["b"] <= c.Closeness["a"] {
		t.Errorf("closeness of an interior vertex (%v) should exceed an endpoint (%v)", c.Closeness["b"], c.Closeness["a"])
	}
	if c.Eigenvector["b"] <= c.Eigenvector["a"] {
		t.Errorf("eigenvector centrality of an interior vertex (%v) should exceed an endpoint (%v)", c.Eigenvector["b"], c.Eigenvector["a"])
	}
	for gene, cc := range c.Clustering {
		if cc != 0 {
			t.Errorf("clustering coefficient of %s on a path = %v, want 0", gene, cc)
		}
	}
}

func TestClusteringCoefficientTriangle(t *testing.T) {
	adj := adjacency(
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}},
	)
	g, err := FromAdjacency(adj)
	if err != nil {
		t.Fatal(err)
	}

	c := g.Centralities()
	for gene, cc := range c.Clustering {
		if cc != 1 {
			t.Errorf("clustering coefficient of %s in a triangle = %v, want 1", gene, cc)
		}
	}
}

func TestRankGenesStarCenterFirst(t *testing.T) {
	adj := adjacency(
		[]string{"l1", "l2", "l3", "l4", "hub"},
		[][2]string{{"hub", "l1"}, {"hub", "l2"}, {"hub", "l3"}, {"hub", "l4"}},
	)
	g, err := FromAdjacency(adj)
	if err != nil {
		t.Fatal(err)
	}

	cons, err := g.RankGenes()
	if err != nil {
		t.Fatal(err)
	}
	if cons.Items[0] != "hub" {
		t.Errorf("consensus gene ranking starts with %q, want the hub: %v", cons.Items[0], cons.Items)
	}
}

func TestRankByAbsoluteValue(t *testing.T) {
	g := pathGraph(t)

	// Caller-supplied vectors such as differential-expression scores rank
	// by magnitude: a strongly negative score is a strong vote.
	scores := map[string]float64{"a": 0.1, "b": 0.2, "c": 0.3, "d": -50}

	byAbs := g.rankBy(scores, true)
	if byAbs[0] != "d" {
		t.Errorf("abs ranking starts with %q, want d: %v", byAbs[0], byAbs)
	}

	signed := g.rankBy(scores, false)
	if signed[len(signed)-1] != "d" {
		t.Errorf("signed ranking should end with d: %v", signed)
	}

	cons, err := g.RankGenes(ScoreVector{Name: "dex", Scores: scores})
	if err != nil {
		t.Fatal(err)
	}
	if len(cons.Items) != 4 {
		t.Errorf("consensus over extra scores holds %d genes, want 4", len(cons.Items))
	}
}

func TestJaccardPermutationTest(t *testing.T) {
	// Triangle a-b-c plus eight pendants on c: a and b have identical
	// closed neighborhoods (Jaccard 1.0), while every other adjacent pair
	// scores well below 1, so the observed score is rarely matched under
	// the distance-matched null.
	genes := []string{"a", "b", "c", "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}
	edges := [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}
	for _, p := range genes[3:] {
		edges = append(edges, [2]string{"c", p})
	}
	g, err := FromAdjacency(adjacency(genes, edges))
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(42))
	res, err := g.JaccardPermutationTest("a", "b", 1, 1000, rng)
	if err != nil {
		t.Fatal(err)
	}

	if res.Observed != 1.0 {
		t.Fatalf("observed Jaccard = %v, want 1.0", res.Observed)
	}
	if res.Distance != 1 {
		t.Fatalf("observed distance = %v, want 1", res.Distance)
	}
	if res.PValue > 0.2 {
		t.Errorf("p-value = %v, expected a small value for an unusually similar pair", res.PValue)
	}
	if res.PValue < 0 || res.PValue > 1 {
		t.Errorf("p-value %v outside [0,1]", res.PValue)
	}
}

func TestJaccardPermutationTestValidation(t *testing.T) {
	g := pathGraph(t)
	if _, err := g.JaccardPermutationTest("a", "b", 1, 0, nil); err == nil {
		t.Error("expected error for zero iterations")
	}
	if _, err := g.JaccardPermutationTest("a", "zz", 1, 10, nil); err == nil {
		t.Error("expected error for an unknown gene")
	}
}
