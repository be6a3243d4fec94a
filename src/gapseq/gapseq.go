// Package gapseq builds the ShellSort gap sequences the benchmark compares.
//
// Sequences are stored smallest gap first and always end with Terminator.
// Consumers stop at the first non-positive entry.
package gapseq

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// Capacity is the maximum number of usable gaps in a sequence.
	Capacity = 48
	// Terminator marks the logical end of a sequence.
	Terminator int64 = -1
)

var (
	ErrUnknownVariant = errors.New("unknown gap sequence variant")
	ErrNoUnitGap      = errors.New("gap sequence does not start with 1")
	ErrNotIncreasing  = errors.New("gap sequence is not strictly increasing")
)

// Ciura's empirically tuned gaps; every variant except Knuth starts here.
var prefix = [...]int64{1, 4, 10, 23, 57, 132, 301, 701}

// Prefix returns a copy of the hard-coded gaps the Ciura variants extend.
func Prefix() []int64 {
	return append([]int64(nil), prefix[:]...)
}

type Variant int

const (
	Ciura22 Variant = iota
	Ciura225
	Ciura225Odd
	Ciura5Sqrt5
	Knuth

	variantsCount
)

// extender produces the gap at position i from the gaps already built.
// ok is false when the next gap would not fit in an int64.
type extender func(gaps []int64, i int) (next int64, ok bool)

type variantInfo struct {
	name       string
	usesPrefix bool
	extend     extender
}

var variants = [variantsCount]variantInfo{
	Ciura22:     {name: "ciura-2.2", usesPrefix: true, extend: extendTimes22},
	Ciura225:    {name: "ciura-2.25", usesPrefix: true, extend: extendTimes225},
	Ciura225Odd: {name: "ciura-2.25-odd", usesPrefix: true, extend: extendTimes225Odd},
	Ciura5Sqrt5: {name: "ciura-5-sqrt5", usesPrefix: true, extend: extendAlternating},
	Knuth:       {name: "knuth", usesPrefix: false, extend: extendPowersOfThree},
}

// All returns every variant in display order.
func All() []Variant {
	all := make([]Variant, 0, variantsCount)
	for v := Variant(0); v < variantsCount; v++ {
		all = append(all, v)
	}

	return all
}

func (v Variant) valid() bool {
	return v >= 0 && v < variantsCount
}

func (v Variant) String() string {
	if !v.valid() {
		return fmt.Sprintf("Variant(%d)", int(v))
	}

	return variants[v].name
}

// ParseVariant resolves a display name, ignoring case.
func ParseVariant(name string) (Variant, error) {
	for v := Variant(0); v < variantsCount; v++ {
		if strings.EqualFold(variants[v].name, strings.TrimSpace(name)) {
			return v, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// ParseVariants resolves a list of names. An empty list selects all variants.
func ParseVariants(names []string) ([]Variant, error) {
	if len(names) == 0 {
		return All(), nil
	}

	res := make([]Variant, 0, len(names))
	for _, name := range names {
		v, err := ParseVariant(name)
		if err != nil {
			return nil, err
		}

		res = append(res, v)
	}

	return res, nil
}

// Materialize builds the full sequence for v, terminator included.
func Materialize(v Variant) (Sequence, error) {
	if !v.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}

	info := variants[v]

	gaps := make([]int64, 0, Capacity+1)
	if info.usesPrefix {
		gaps = append(gaps, prefix[:]...)
	}

	for i := len(gaps); i < Capacity; i++ {
		next, ok := info.extend(gaps, i)
		if !ok || (i > 0 && next <= gaps[i-1]) {
			break
		}

		gaps = append(gaps, next)
	}

	return append(Sequence(gaps), Terminator), nil
}

// MustMaterialize is Materialize for variants known at compile time.
func MustMaterialize(v Variant) Sequence {
	seq, err := Materialize(v)
	if err != nil {
		panic(err)
	}

	return seq
}

func extendTimes22(gaps []int64, i int) (int64, bool) {
	prev := gaps[i-1]
	if prev > math.MaxInt64/11 {
		return 0, false
	}

	return prev * 11 / 5, true
}

// maxFloatSafe bounds inputs whose float64 product still converts to an
// int64 without overflow.
const maxFloatSafe = 1 << 60

func times225(prev int64) (int64, bool) {
	if prev > maxFloatSafe {
		return 0, false
	}

	return int64(float64(prev) * 2.25), true
}

func extendTimes225(gaps []int64, i int) (int64, bool) {
	return times225(gaps[i-1])
}

func extendTimes225Odd(gaps []int64, i int) (int64, bool) {
	next, ok := times225(gaps[i-1])

	return next | 1, ok
}

// extendAlternating interleaves two recurrences after the prefix: even
// offsets take five times the gap two positions back, odd offsets take the
// previous gap times sqrt(5).
func extendAlternating(gaps []int64, i int) (int64, bool) {
	if (i-len(prefix))%2 == 0 {
		back := gaps[i-2]
		if back > math.MaxInt64/5 {
			return 0, false
		}

		return back * 5, true
	}

	prev := gaps[i-1]
	if prev > maxFloatSafe/2 {
		return 0, false
	}

	return int64(float64(prev) * math.Sqrt(5)), true
}

// extendPowersOfThree yields (3^n - 1) / 2 for n = i + 1.
func extendPowersOfThree(gaps []int64, i int) (int64, bool) {
	if i == 0 {
		return 1, true
	}

	// (3^(n+1) - 1) / 2 == 3 * ((3^n - 1) / 2) + 1
	prev := gaps[i-1]
	if prev > (math.MaxInt64-1)/3 {
		return 0, false
	}

	return 3*prev + 1, true
}
