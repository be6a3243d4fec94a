// Package shellsort implements ShellSort driven by an explicit gap sequence.
package shellsort

import (
	"fmt"

	"github.com/Blackdeer1524/sortbench/src/gapseq"
	"github.com/Blackdeer1524/sortbench/src/records"
)

// StartIndex returns the position in seq of the first gap to sort with:
// the largest gap strictly less than n. It returns -1 when no gap
// qualifies.
func StartIndex(seq gapseq.Sequence, n int) int {
	i := 0
	for i < len(seq) && seq[i] > 0 && seq[i] < int64(n) {
		i++
	}

	return i - 1
}

// Sort orders items ascending in place. greater must be a strict ordering
// test; equal items keep no particular order.
//
// seq must start with a gap of 1 and increase strictly up to its sentinel.
// A sequence that breaks this is rejected before items are touched,
// because passes without a final gap of 1 leave the slice only partially
// ordered.
func Sort[T any](items []T, seq gapseq.Sequence, greater func(a, b T) bool) error {
	if err := seq.Validate(); err != nil {
		return fmt.Errorf("shellsort: %w", err)
	}

	n := len(items)
	if n <= 1 {
		return nil
	}

	for igap := StartIndex(seq, n); igap >= 0; igap-- {
		gap := int(seq[igap])

		for i := gap; i < n; i++ {
			held := items[i]

			j := i
			for ; j >= gap && greater(items[j-gap], held); j -= gap {
				items[j] = items[j-gap]
			}

			items[j] = held
		}
	}

	return nil
}

// SortArray sorts the records of arr by their comparison prefix.
func SortArray(arr *records.Array, seq gapseq.Sequence) error {
	return Sort(arr.Records, seq, arr.Greater)
}
