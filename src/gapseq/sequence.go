package gapseq

import (
	"fmt"
	"strconv"
	"strings"
)

// Sequence is an ascending list of gaps ended by a non-positive sentinel.
// A slice without a sentinel is accepted and ends at its length.
type Sequence []int64

// Of builds a terminated sequence from the given gaps.
func Of(gaps ...int64) Sequence {
	seq := make(Sequence, 0, len(gaps)+1)
	seq = append(seq, gaps...)

	return append(seq, Terminator)
}

// Len returns the number of usable gaps.
func (s Sequence) Len() int {
	for i, g := range s {
		if g <= 0 {
			return i
		}
	}

	return len(s)
}

// Gaps returns the usable gaps, sentinel excluded.
func (s Sequence) Gaps() []int64 {
	return s[:s.Len()]
}

// Validate reports whether s can drive a complete ShellSort: it must begin
// with a gap of 1 and increase strictly up to the sentinel.
func (s Sequence) Validate() error {
	gaps := s.Gaps()
	if len(gaps) == 0 || gaps[0] != 1 {
		return ErrNoUnitGap
	}

	for i := 1; i < len(gaps); i++ {
		if gaps[i] <= gaps[i-1] {
			return fmt.Errorf(
				"%w: gap[%d]=%d follows gap[%d]=%d",
				ErrNotIncreasing, i, gaps[i], i-1, gaps[i-1],
			)
		}
	}

	return nil
}

func (s Sequence) String() string {
	gaps := s.Gaps()

	parts := make([]string, len(gaps))
	for i, g := range gaps {
		parts[i] = strconv.FormatInt(g, 10)
	}

	return strings.Join(parts, " ")
}
