// dreamrank ranks the genes of a network by consensus over centrality
// annotations, optionally joined by caller-supplied score vectors such as
// differential-expression statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fhaive/dream/genematrix"
	"github.com/fhaive/dream/netscore"
)

func main() {
	var (
		network string
		scores  string
		out     string
	)

	flag.StringVar(&network, "network", "", "Binary adjacency matrix file (genes x genes).")
	flag.StringVar(&scores, "scores", "", "Optional comma-separated list of extra score tables (one score column per gene row); scores are compared by absolute value.")
	flag.StringVar(&out, "out", "generank.tsv", "Output file.")
	flag.Parse()

	if network == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	adj, err := genematrix.ReadTableFile(network)
	if err != nil {
		log.Fatalln(err)
	}

	g, err := netscore.FromAdjacency(adj)
	if err != nil {
		log.Fatalln(err)
	}

	var extra []netscore.ScoreVector
	for _, path := range splitList(scores) {
		table, err := genematrix.ReadTableFile(path)
		if err != nil {
			log.Fatalln(err)
		}
		_, c := table.Dims()
		if c < 1 {
			log.Fatalf("score table %s has no score column", path)
		}
		vec := netscore.ScoreVector{
			Name:   filepath.Base(path),
			Scores: make(map[string]float64, len(table.RowNames)),
		}
		for i, gene := range table.RowNames {
			vec.Scores[gene] = table.At(i, 0)
		}
		extra = append(extra, vec)
	}

	cons, err := g.RankGenes(extra...)
	if err != nil {
		log.Fatalln(err)
	}

	f, err := os.Create(out)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	fmt.Fprintln(f, "gene\trank\tmedian_position")
	for i, gene := range cons.Items {
		fmt.Fprintf(f, "%s\t%d\t%g\n", gene, i+1, cons.Median[gene])
	}

	log.Printf("Ranked %d genes into %s", len(cons.Items), out)
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
