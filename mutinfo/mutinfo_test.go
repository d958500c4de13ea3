package mutinfo

import (
	"errors"
	"math"
	"testing"

	"github.com/fhaive/dream"
	"github.com/fhaive/dream/genematrix"
)

func TestParseEstimator(t *testing.T) {
	for name, want := range map[string]Estimator{
		"pearson":      Pearson,
		"mi.empirical": MIEmpirical,
		"mi.sg":        MISchurmannGrassberger,
	} {
		got, err := ParseEstimator(name)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("ParseEstimator(%q) = %v, want %v", name, got, want)
		}
	}

	_, err := ParseEstimator("mutual-ish")
	var cfg dream.ConfigurationError
	if !errors.As(err, &cfg) {
		t.Errorf("expected ConfigurationError for unknown estimator, got %v", err)
	}
}

func TestNeedsDiscretization(t *testing.T) {
	for est, want := range map[Estimator]bool{
		Pearson:                false,
		Spearman:               false,
		Kendall:                false,
		MIEmpirical:            true,
		MIMillerMadow:          true,
		MIShrink:               true,
		MISchurmannGrassberger: true,
	} {
		if got := est.NeedsDiscretization(); got != want {
			t.Errorf("%s.NeedsDiscretization() = %v, want %v", est, got, want)
		}
	}
}

func TestDiscretizeRows(t *testing.T) {
	rows := [][]float64{{0, 1, 2, 3}}

	got, err := DiscretizeRows(rows, EqualWidth, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 0, 1, 1}
	for j := range want {
		if got[0][j] != want[j] {
			t.Errorf("equalwidth bin[%d] = %d, want %d", j, got[0][j], want[j])
		}
	}

	got, err = DiscretizeRows([][]float64{{10, 40, 20, 30}}, EqualFreq, 2)
	if err != nil {
		t.Fatal(err)
	}
	want = []int{0, 1, 0, 1}
	for j := range want {
		if got[0][j] != want[j] {
			t.Errorf("equalfreq bin[%d] = %d, want %d", j, got[0][j], want[j])
		}
	}

	if _, err := DiscretizeRows(rows, None, 2); err == nil {
		t.Error("expected error for discretization mode none")
	}
	if _, err := DiscretizeRows(rows, EqualWidth, 1); err == nil {
		t.Error("expected error for a single bin")
	}
}

func expressionFixture() *genematrix.Matrix {
	m := genematrix.New([]string{"gA", "gB", "gC"}, []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10"})
	for j := 0; j < 10; j++ {
		x := float64(j + 1)
		m.Set(0, j, x)   // gA: 1..10
		m.Set(1, j, 2*x) // gB: perfectly correlated with gA
		if j%2 == 0 {    // gC: alternating, weak correlation with gA
			m.Set(2, j, 1)
		} else {
			m.Set(2, j, -1)
		}
	}
	return m
}

func TestPairwisePearson(t *testing.T) {
	m := expressionFixture()

	mi, err := Pairwise(m, Pearson, None)
	if err != nil {
		t.Fatal(err)
	}

	n, c := mi.Dims()
	if n != 3 || c != 3 {
		t.Fatalf("expected 3x3 matrix, got %dx%d", n, c)
	}
	for i := 0; i < n; i++ {
		if mi.At(i, i) != 0 {
			t.Errorf("diagonal (%d,%d) = %v, want 0", i, i, mi.At(i, i))
		}
		for j := 0; j < n; j++ {
			if mi.At(i, j) != mi.At(j, i) {
				t.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
		}
	}

	if strong, weak := mi.At(0, 1), mi.At(0, 2); strong <= weak {
		t.Errorf("perfectly correlated pair scored %v, weakly correlated pair %v", strong, weak)
	}
}

func TestPairwiseEmpiricalMI(t *testing.T) {
	m := expressionFixture()

	mi, err := Pairwise(m, MIEmpirical, EqualFreq)
	if err != nil {
		t.Fatal(err)
	}

	// gA and gB fall into identical equal-frequency bins, so their mutual
	// information equals the marginal entropy. DefaultBins(10)=3 splits ten
	// samples into counts {4,3,3}.
	want := -(0.4*math.Log(0.4) + 2*0.3*math.Log(0.3))
	if got := mi.At(0, 1); math.Abs(got-want) > 1e-9 {
		t.Errorf("MI of identically binned genes = %v, want %v", got, want)
	}
}

func TestPairwiseUndefinedCombination(t *testing.T) {
	_, err := Pairwise(expressionFixture(), MIEmpirical, None)
	var cfg dream.ConfigurationError
	if !errors.As(err, &cfg) {
		t.Errorf("expected ConfigurationError for mi estimator without discretization, got %v", err)
	}
}

func TestRanksAverageTies(t *testing.T) {
	got := ranks([]float64{10, 20, 20, 30})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
