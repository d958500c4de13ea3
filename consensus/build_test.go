package consensus

import (
	"errors"
	"testing"

	"github.com/fhaive/dream"
	"github.com/fhaive/dream/genematrix"
	"github.com/fhaive/dream/ranking"
)

// rankWeightFixture is the 4-gene matrix with upper-triangle weights
// {1,2,0,3,0,4}: four real edges carrying rank values and two explicit
// zero-weight "no edge" cells.
func rankWeightFixture() *genematrix.Matrix {
	m := genematrix.NewSquare([]string{"a", "b", "c", "d"})
	set := func(i, j int, v float64) {
		m.Set(i, j, v)
		m.Set(j, i, v)
	}
	set(0, 1, 1)
	set(0, 2, 2)
	set(0, 3, 0)
	set(1, 2, 3)
	set(1, 3, 0)
	set(2, 3, 4)
	return m
}

func TestBuildTopPolicyRankWeights(t *testing.T) {
	res, err := Build(Options{
		Matrices:   []*genematrix.Matrix{rankWeightFixture()},
		WeightType: ranking.Rank,
		Selection:  Top,
		TopPct:     50,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Four ranked edges plus two re-appended zero edges makes six items;
	// the top 50% is three edges, and the lowest rank values are the
	// strongest.
	if len(res.Ranking.Items) != 6 {
		t.Fatalf("consensus holds %d items, want 6", len(res.Ranking.Items))
	}
	want := []string{"a;b", "a;c", "b;c"}
	if len(res.Accepted) != len(want) {
		t.Fatalf("accepted %d edges, want %d: %v", len(res.Accepted), len(want), res.Accepted)
	}
	for i := range want {
		if res.Accepted[i] != want[i] {
			t.Fatalf("accepted = %v, want %v", res.Accepted, want)
		}
	}

	// Accepted edges are written symmetrically into the binary matrix.
	type cell struct{ i, j int }
	ones := map[cell]bool{{0, 1}: true, {0, 2}: true, {1, 2}: true}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if ones[cell{i, j}] || ones[cell{j, i}] {
				want = 1
			}
			if got := res.Binary.At(i, j); got != want {
				t.Errorf("binary(%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestBuildTopPolicyCount(t *testing.T) {
	// 15 genes give 105 upper-triangle pairs; zeroing 5 leaves exactly 100
	// ranked edges, of which top 10% is 10.
	genes := make([]string, 15)
	for i := range genes {
		genes[i] = "g" + string(rune('A'+i))
	}
	m := genematrix.NewSquare(genes)
	w := 1.0
	for i := 0; i < 15; i++ {
		for j := i + 1; j < 15; j++ {
			m.Set(i, j, w)
			m.Set(j, i, w)
			w++
		}
	}
	zeroed := 0
	for j := 1; j < 15 && zeroed < 5; j++ {
		m.Set(0, j, 0)
		m.Set(j, 0, 0)
		zeroed++
	}

	res, err := Build(Options{
		Matrices:   []*genematrix.Matrix{m},
		WeightType: ranking.Score,
		Selection:  Top,
		TopPct:     10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Ranking.Items) != 100 {
		t.Fatalf("consensus holds %d edges, want 100", len(res.Ranking.Items))
	}
	if len(res.Accepted) != 10 {
		t.Errorf("top policy accepted %d edges, want 10", len(res.Accepted))
	}
}

func TestBuildDefaultPolicyCoversEveryGene(t *testing.T) {
	m := genematrix.NewSquare([]string{"a", "b", "c", "d"})
	set := func(i, j int, v float64) {
		m.Set(i, j, v)
		m.Set(j, i, v)
	}
	set(0, 1, 10)
	set(0, 2, 9)
	set(0, 3, 8)
	set(1, 2, 7)

	res, err := Build(Options{
		Matrices:   []*genematrix.Matrix{m},
		WeightType: ranking.Score,
		Selection:  Default,
	})
	if err != nil {
		t.Fatal(err)
	}

	// The ranking is [a;b, a;c, a;d, b;c]; gene d is first covered by the
	// third edge, so the minimal prefix has exactly three edges.
	if len(res.Accepted) != 3 {
		t.Fatalf("accepted %d edges, want 3: %v", len(res.Accepted), res.Accepted)
	}

	for i, gene := range res.Binary.RowNames {
		degree := 0.0
		for j := range res.Binary.RowNames {
			degree += res.Binary.At(i, j)
		}
		if degree < 1 {
			t.Errorf("gene %s has degree %v after default selection", gene, degree)
		}
	}

	// No earlier prefix covers every gene.
	covered := make(map[string]struct{})
	for _, id := range res.Accepted[:2] {
		a, b := ranking.SplitEdgeID(id)
		covered[a] = struct{}{}
		covered[b] = struct{}{}
	}
	if len(covered) == 4 {
		t.Error("a two-edge prefix already covers every gene; selection was not minimal")
	}
}

func TestBuildRankMatrix(t *testing.T) {
	m := genematrix.NewSquare([]string{"a", "b", "c"})
	set := func(i, j int, v float64) {
		m.Set(i, j, v)
		m.Set(j, i, v)
	}
	set(0, 1, 5)
	set(1, 2, 3)

	res, err := Build(Options{
		Matrices:   []*genematrix.Matrix{m},
		WeightType: ranking.Score,
		Selection:  Default,
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := res.RankMatrix.At(0, 1); got != 1 {
		t.Errorf("rank of strongest edge = %v, want 1", got)
	}
	if got := res.RankMatrix.At(2, 1); got != 2 {
		t.Errorf("rank of second edge = %v, want 2 (symmetric)", got)
	}
	if got := res.RankMatrix.At(0, 2); got != 0 {
		t.Errorf("unranked pair = %v, want 0", got)
	}
}

func TestBuildValidation(t *testing.T) {
	_, err := Build(Options{})
	var cfg dream.ConfigurationError
	if !errors.As(err, &cfg) {
		t.Errorf("expected ConfigurationError without inputs, got %v", err)
	}

	table := genematrix.New([]string{"a", "b"}, []string{"s1", "s2"})
	_, err = Build(Options{Table: table})
	if !errors.As(err, &cfg) {
		t.Errorf("expected ConfigurationError for table without methods, got %v", err)
	}

	_, err = Build(Options{
		Matrices:   []*genematrix.Matrix{rankWeightFixture()},
		WeightType: ranking.Rank,
		Selection:  Top,
		TopPct:     0,
	})
	if !errors.As(err, &cfg) {
		t.Errorf("expected ConfigurationError for out-of-range percentile, got %v", err)
	}
}

func TestParseSelection(t *testing.T) {
	s, err := ParseSelection("top")
	if err != nil || s != Top {
		t.Errorf("ParseSelection(top) = %v, %v", s, err)
	}
	if _, err := ParseSelection("bottom"); err == nil {
		t.Error("expected error for unknown selection policy")
	}
}
