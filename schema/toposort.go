package schema

import (
	"slices"
	"sort"

	"github.com/pkg/errors"
)

// topoSort returns node indices so that every node follows its
// dependencies. deps(i) yields the nodes that must come before i.
//
// When several nodes are ready the smallest index goes first, so the
// result is stable for a given input order.
func topoSort(n int, deps func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)
	for i := range n {
		for _, d := range deps(i) {
			if d < 0 || d >= n {
				return nil, errors.Errorf("dependency index out of range: %d depends on %d", i, d)
			}
			indeg[i]++
			out[d] = append(out[d], i)
		}
	}
	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int
	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = slices.Insert(ready, k, j)
			}
		}
	}

	if len(order) != n {
		var stuck []int
		for i := range n {
			if indeg[i] > 0 {
				stuck = append(stuck, i)
			}
		}
		return stuck, ErrCycle
	}
	return order, nil
}
