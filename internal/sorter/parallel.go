package sorter

import (
	"sort"

	"golang.org/x/sync/errgroup"
)

// sortEntries sorts in place. The comparator already embeds the
// base-position tie-break, so an unstable sort yields a stable result.
func sortEntries(entries []entry, less func(a, b entry) bool) {
	sort.Slice(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
}

// parallelSort partitions entries into one chunk per worker, sorts the
// chunks concurrently, and merges them. The comparator is a total order,
// so the merged result is identical to a sequential sort.
func parallelSort(entries []entry, less func(a, b entry) bool, workers int) {
	chunkSize := (len(entries) + workers - 1) / workers
	var chunks [][]entry
	for lo := 0; lo < len(entries); lo += chunkSize {
		hi := min(lo+chunkSize, len(entries))
		chunks = append(chunks, entries[lo:hi])
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, c := range chunks {
		g.Go(func() error {
			sortEntries(c, less)
			return nil
		})
	}
	_ = g.Wait()

	// Pairwise merge rounds until one run remains.
	for len(chunks) > 1 {
		var merged [][]entry
		for i := 0; i < len(chunks); i += 2 {
			if i+1 == len(chunks) {
				merged = append(merged, chunks[i])
				continue
			}
			merged = append(merged, mergeRuns(chunks[i], chunks[i+1], less))
		}
		chunks = merged
	}
	copy(entries, chunks[0])
}

func mergeRuns(a, b []entry, less func(x, y entry) bool) []entry {
	out := make([]entry, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if less(b[j], a[i]) {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
