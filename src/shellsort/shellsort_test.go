package shellsort

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackdeer1524/sortbench/src/gapseq"
	"github.com/Blackdeer1524/sortbench/src/rangen"
	"github.com/Blackdeer1524/sortbench/src/records"
)

var ciuraPrefix = gapseq.Of(1, 4, 10, 23, 57, 132, 301, 701)

func generate(t testing.TB, n int, seed int64) *records.Array {
	arr, err := records.Generate(n, rangen.NewGenerator(seed), records.DefaultLayout())
	require.NoError(t, err)

	return arr
}

// identities counts records by the address of their storage, so a sort
// that duplicates or drops a record is caught even when keys collide.
func identities(recs []records.Record) map[*byte]int {
	ids := make(map[*byte]int, len(recs))
	for _, r := range recs {
		ids[&r[0]]++
	}

	return ids
}

func TestStartIndex(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, -1},
		{1, -1},
		{2, 0},
		{4, 0},
		{5, 1},
		{10, 1},
		{11, 2},
		{12, 2},
		{701, 6},
		{702, 7},
		{1_000_000, 7},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StartIndex(ciuraPrefix, tt.n), "n=%d", tt.n)
	}
}

func TestStartIndex_IgnoresEntriesPastSentinel(t *testing.T) {
	seq := gapseq.Sequence{1, 4, -1, 5, 6}

	assert.Equal(t, 1, StartIndex(seq, 100))
	assert.Equal(t, 1, StartIndex(gapseq.Sequence{1, 4}, 100))
}

func TestSortArray_AllVariants(t *testing.T) {
	for _, v := range gapseq.All() {
		seq := gapseq.MustMaterialize(v)

		for _, n := range []int{0, 1, 2, 12, 1000} {
			t.Run(fmt.Sprintf("%s/n=%d", v, n), func(t *testing.T) {
				arr := generate(t, n, 301)
				before := identities(arr.Records)

				require.NoError(t, SortArray(arr, seq))

				require.True(t, records.CheckOrder(arr))
				require.Equal(t, before, identities(arr.Records))
				require.Equal(t, n, arr.Len())
			})
		}
	}
}

func TestSortArray_Idempotent(t *testing.T) {
	for _, v := range gapseq.All() {
		seq := gapseq.MustMaterialize(v)

		arr := generate(t, 2000, 42)
		require.NoError(t, SortArray(arr, seq))

		sorted := arr.Snapshot()
		require.NoError(t, SortArray(arr, seq))

		require.Equal(t, sorted, arr.Records, v.String())
	}
}

func TestSortArray_Seed5555Scenario(t *testing.T) {
	arr := generate(t, 12, 5555)

	before := arr.Snapshot()
	keys := make([]string, 0, len(before))
	for _, r := range before {
		keys = append(keys, string(arr.Key(r)))
	}
	sort.Strings(keys)

	require.NoError(t, SortArray(arr, ciuraPrefix))
	require.True(t, records.CheckOrder(arr))

	for i, r := range arr.Records {
		t.Logf("%3d: %s", i, r)
		require.Equal(t, keys[i], string(arr.Key(r)))
	}

	require.Equal(t, identities(before), identities(arr.Records))
}

func TestSort_RejectsSequenceWithoutUnitGap(t *testing.T) {
	arr := generate(t, 12, 5555)
	before := arr.Snapshot()

	err := SortArray(arr, gapseq.Of(4, 10, 23, 701))
	require.ErrorIs(t, err, gapseq.ErrNoUnitGap)

	require.Equal(t, before, arr.Records)
}

func TestSort_RejectsNonIncreasingSequence(t *testing.T) {
	items := []int{3, 2, 1}

	err := Sort(items, gapseq.Of(1, 4, 4), func(a, b int) bool { return a > b })
	require.ErrorIs(t, err, gapseq.ErrNotIncreasing)
	require.Equal(t, []int{3, 2, 1}, items)
}

func TestSort_RejectsBadSequenceForTinyInput(t *testing.T) {
	err := Sort([]int{}, gapseq.Of(4, 10), func(a, b int) bool { return a > b })
	require.ErrorIs(t, err, gapseq.ErrNoUnitGap)
}

func TestSort_Ints(t *testing.T) {
	items := []int{9, 3, 7, 1, 8, 2, 6, 4, 5, 0, 11, 10}

	require.NoError(t, Sort(items, ciuraPrefix, func(a, b int) bool { return a > b }))
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, items)
}

func TestSort_UnitGapOnlyIsInsertionSort(t *testing.T) {
	items := []int{5, 4, 3, 2, 1}

	require.NoError(t, Sort(items, gapseq.Of(1), func(a, b int) bool { return a > b }))
	require.Equal(t, []int{1, 2, 3, 4, 5}, items)
}

func BenchmarkSortArray(b *testing.B) {
	for _, v := range gapseq.All() {
		seq := gapseq.MustMaterialize(v)

		b.Run(v.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				arr := generate(b, 10_000, int64(301+i%5))
				b.StartTimer()

				if err := SortArray(arr, seq); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
