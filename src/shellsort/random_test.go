package shellsort

import (
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Blackdeer1524/sortbench/src/gapseq"
)

func randomSequence(r *rand.Rand) gapseq.Sequence {
	gaps := []int64{1}

	count := r.Intn(12)
	for i := 0; i < count; i++ {
		last := gaps[len(gaps)-1]
		gaps = append(gaps, last+1+int64(r.Intn(int(last)*3+1)))
	}

	return gapseq.Of(gaps...)
}

func TestSort_RandomInputsMatchSlicesSort(t *testing.T) {
	seed := time.Now().UnixNano()
	t.Logf("seed=%d", seed)
	r := rand.New(rand.NewSource(seed))

	const rounds = 300

	for round := 0; round < rounds; round++ {
		n := r.Intn(400)
		items := make([]int, n)
		for i := range items {
			items[i] = r.Intn(50)
		}

		want := slices.Clone(items)
		slices.Sort(want)

		seq := randomSequence(r)
		err := Sort(items, seq, func(a, b int) bool { return a > b })
		require.NoError(t, err)
		require.Equal(t, want, items, "round=%d seq=%v", round, seq)
	}

	t.Logf("random sort ok: seed=%d, rounds=%d", seed, rounds)
}
