// dreamnet builds a consensus gene co-expression network, either by running
// mutual-information inference over an expression table or by aggregating
// caller-supplied weighted network matrices.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fhaive/dream/consensus"
	"github.com/fhaive/dream/genematrix"
	"github.com/fhaive/dream/infer"
	"github.com/fhaive/dream/mutinfo"
	"github.com/fhaive/dream/ranking"
)

func main() {
	var (
		expression      string
		matrices        string
		methods         string
		estimators      string
		discretizations string
		weights         string
		selection       string
		topPct          float64
		workers         int
		out             string
	)

	flag.StringVar(&expression, "expression", "", "Expression table (genes x samples, delimited text with labels). Mutually exclusive with -matrices.")
	flag.StringVar(&matrices, "matrices", "", "Comma-separated list of pre-computed weighted network matrix files. Mutually exclusive with -expression.")
	flag.StringVar(&methods, "methods", "clr,aracne,mrnet", "Comma-separated inference methods.")
	flag.StringVar(&estimators, "estimators", "pearson,spearman", "Comma-separated mutual information estimators.")
	flag.StringVar(&discretizations, "discretizations", "none,equalfreq", "Comma-separated discretization modes.")
	flag.StringVar(&weights, "weights", "rank", "How -matrices weights order edges: 'rank' (lower is stronger) or 'score' (higher is stronger).")
	flag.StringVar(&selection, "selection", "default", "Edge selection policy: 'default' (cover every gene) or 'top'.")
	flag.Float64Var(&topPct, "toppct", 10, "Percent of ranked edges accepted by the 'top' policy.")
	flag.IntVar(&workers, "workers", 4, "Maximum concurrent inference combinations.")
	flag.StringVar(&out, "out", "consensus", "Output prefix.")
	flag.Parse()

	if expression == "" && matrices == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	sel, err := consensus.ParseSelection(selection)
	if err != nil {
		log.Fatalln(err)
	}

	opts := consensus.Options{
		Selection: sel,
		TopPct:    topPct,
		Workers:   workers,
	}

	switch {
	case expression != "":
		table, err := genematrix.ReadTableFile(expression)
		if err != nil {
			log.Fatalln(err)
		}
		opts.Table = table

		for _, name := range splitList(methods) {
			m, err := infer.ParseMethod(name)
			if err != nil {
				log.Fatalln(err)
			}
			opts.Methods = append(opts.Methods, m)
		}
		for _, name := range splitList(estimators) {
			e, err := mutinfo.ParseEstimator(name)
			if err != nil {
				log.Fatalln(err)
			}
			opts.Estimators = append(opts.Estimators, e)
		}
		for _, name := range splitList(discretizations) {
			d, err := mutinfo.ParseDiscretization(name)
			if err != nil {
				log.Fatalln(err)
			}
			opts.Discretizations = append(opts.Discretizations, d)
		}

	default:
		for _, path := range splitList(matrices) {
			m, err := genematrix.ReadTableFile(path)
			if err != nil {
				log.Fatalln(err)
			}
			opts.Matrices = append(opts.Matrices, m)
		}
		opts.WeightType = ranking.ParseOrdering(weights)
	}

	log.Println("Building consensus network")
	res, err := consensus.Build(opts)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Consensus ranking holds %d edges; %d accepted by the %s policy", len(res.Ranking.Items), len(res.Accepted), selection)

	if err := res.Binary.WriteTableFile(out + "_network.tsv"); err != nil {
		log.Fatalln(err)
	}
	if err := res.RankMatrix.WriteTableFile(out + "_edgerank.tsv"); err != nil {
		log.Fatalln(err)
	}

	fmt.Printf("Wrote %s_network.tsv and %s_edgerank.tsv\n", out, out)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
