// dreamdrug maps drug targets onto a gene network and scores every drug by
// rank-weighted coverage, target clustering, and enrichment among the top
// consensus genes. It also writes the drug-by-drug network distance matrix.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fhaive/dream/drugscore"
	"github.com/fhaive/dream/genematrix"
	"github.com/fhaive/dream/netscore"
)

func main() {
	var (
		network string
		targets string
		order   int
		topK    int
		out     string
	)

	flag.StringVar(&network, "network", "", "Binary adjacency matrix file (genes x genes).")
	flag.StringVar(&targets, "targets", "", "Tab-delimited drug-target table with 'drug' and 'target' columns.")
	flag.IntVar(&order, "order", 1, "Neighborhood order for similarity and coverage.")
	flag.IntVar(&topK, "topk", 100, "Top consensus genes used for the enrichment test.")
	flag.StringVar(&out, "out", "drugscore", "Output prefix.")
	flag.Parse()

	if network == "" || targets == "" {
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

	tm, err := drugscore.ReadTargetsFile(targets)
	if err != nil {
		log.Fatalln(err)
	}
	mapped := tm.OnGraph(g)
	log.Printf("%d of %d drugs have at least one network-mapped target", len(mapped), len(tm))

	log.Println("Ranking genes by consensus centrality")
	geneRank, err := g.RankGenes()
	if err != nil {
		log.Fatalln(err)
	}
	if topK > len(geneRank.Items) {
		topK = len(geneRank.Items)
	}

	f, err := os.Create(out + "_scores.tsv")
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	fmt.Fprintln(f, "drug\tn_targets\tcoverage\ttarget_clustering\tenrichment_p")
	for _, drug := range mapped.Drugs() {
		drugTargets := mapped[drug]

		coverage, err := drugscore.Coverage(g, geneRank, drugTargets, order)
		if err != nil {
			log.Fatalln(err)
		}
		clustering, err := drugscore.IntraSimilarity(g, drugTargets, order, drugscore.Median)
		if err != nil {
			log.Fatalln(err)
		}
		enrichment, err := drugscore.TargetEnrichment(geneRank, drugTargets, topK)
		if err != nil {
			log.Fatalln(err)
		}

		fmt.Fprintf(f, "%s\t%d\t%g\t%g\t%g\n", drug, len(drugTargets), coverage, clustering, enrichment)
	}

	dist, err := drugscore.DistanceMatrix(g, mapped)
	if err != nil {
		log.Fatalln(err)
	}
	if err := dist.WriteTableFile(out + "_distances.tsv"); err != nil {
		log.Fatalln(err)
	}

	log.Printf("Wrote %s_scores.tsv and %s_distances.tsv", out, out)
}
