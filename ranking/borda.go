package ranking

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/fhaive/dream"
)

// Consensus is the result of Borda aggregation: items ordered best first,
// with each item's median 1-based position across the input lists it
// appeared in.
type Consensus struct {
	Items  []string
	Median map[string]float64
}

// Positions returns the 1-based consensus position of every item.
func (c *Consensus) Positions() map[string]int {
	out := make(map[string]int, len(c.Items))
	for i, item := range c.Items {
		out[item] = i + 1
	}
	return out
}

// Aggregate merges ranked lists by Borda positional voting. An item's score
// under one list is its 1-based position there; an item absent from a list
// contributes nothing for that list rather than a worst-case position, so
// items ranked highly by a subset of voters are not dragged down by the
// rest. The consensus orders items by ascending median position; ties keep
// first-appearance order across the inputs.
func Aggregate(rankings [][]string) (*Consensus, error) {
	if len(rankings) == 0 {
		return nil, dream.Configf("rank aggregation requires at least one ranking")
	}

	positions := make(map[string][]float64)
	var order []string
	for _, list := range rankings {
		for pos, item := range list {
			if _, seen := positions[item]; !seen {
				order = append(order, item)
			}
			positions[item] = append(positions[item], float64(pos+1))
		}
	}

	median := make(map[string]float64, len(order))
	for item, ps := range positions {
		m, err := stats.Median(ps)
		if err != nil {
			return nil, err
		}
		median[item] = m
	}

	items := append([]string{}, order...)
	sort.SliceStable(items, func(a, b int) bool { return median[items[a]] < median[items[b]] })

	return &Consensus{Items: items, Median: median}, nil
}
