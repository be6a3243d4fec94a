package records

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultWidth is 71 usable bytes plus a NUL terminator.
	DefaultWidth = 72
	// DefaultKeyLen is the number of leading bytes that take part in ordering.
	DefaultKeyLen = 6
)

// MaxBytes caps the backing allocation of a single array.
var MaxBytes = math.MaxInt / 2

var (
	ErrInvalidLayout     = errors.New("invalid record layout")
	ErrNegativeCount     = errors.New("negative record count")
	ErrResourceExhausted = errors.New("record array too large")
)

// CharSource supplies the characters records are filled with.
type CharSource interface {
	NextChar() byte
}

// Layout describes the shape of every record in an array.
type Layout struct {
	// Width is the full record size in bytes, terminator included.
	Width int
	// KeyLen is the comparison prefix length.
	KeyLen int
	// FillLen is how many leading bytes are generated; the rest stay NUL.
	FillLen int
}

func DefaultLayout() Layout {
	return Layout{
		Width:   DefaultWidth,
		KeyLen:  DefaultKeyLen,
		FillLen: DefaultKeyLen,
	}
}

func (l Layout) Validate() error {
	switch {
	case l.Width < 2:
		return fmt.Errorf("%w: width %d must leave room for a terminator", ErrInvalidLayout, l.Width)
	case l.KeyLen < 1 || l.KeyLen > l.Width-1:
		return fmt.Errorf("%w: key length %d outside [1, %d]", ErrInvalidLayout, l.KeyLen, l.Width-1)
	case l.FillLen < l.KeyLen || l.FillLen > l.Width-1:
		return fmt.Errorf(
			"%w: fill length %d outside [%d, %d]",
			ErrInvalidLayout, l.FillLen, l.KeyLen, l.Width-1,
		)
	}

	return nil
}

// Record is a view into an Array's backing storage. Sorting moves views,
// never record bytes.
type Record []byte

// Array is a set of fixed-width records sharing one allocation.
type Array struct {
	Records []Record

	layout  Layout
	backing []byte
}

// Generate builds n records, drawing the first FillLen bytes of each from
// src in order. The caller must have seeded src.
func Generate(n int, src CharSource, layout Layout) (*Array, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}

	if n > 0 && n > MaxBytes/layout.Width {
		return nil, fmt.Errorf(
			"%w: %d records of %d bytes exceed %d bytes",
			ErrResourceExhausted, n, layout.Width, MaxBytes,
		)
	}

	arr := &Array{
		Records: make([]Record, n),
		layout:  layout,
		backing: make([]byte, n*layout.Width),
	}

	for i := range arr.Records {
		off := i * layout.Width
		rec := Record(arr.backing[off : off+layout.Width : off+layout.Width])

		for j := 0; j < layout.FillLen; j++ {
			rec[j] = src.NextChar()
		}

		arr.Records[i] = rec
	}

	return arr, nil
}

// FromStrings builds an array holding the given values, truncated to the
// layout width minus the terminator. Used for fixtures.
func FromStrings(layout Layout, values ...string) (*Array, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	arr := &Array{
		Records: make([]Record, len(values)),
		layout:  layout,
		backing: make([]byte, len(values)*layout.Width),
	}

	for i, v := range values {
		off := i * layout.Width
		rec := Record(arr.backing[off : off+layout.Width : off+layout.Width])
		copy(rec[:layout.Width-1], v)
		arr.Records[i] = rec
	}

	return arr, nil
}

func (a *Array) Len() int {
	return len(a.Records)
}

func (a *Array) Layout() Layout {
	return a.layout
}

// Key returns the comparison prefix of r.
func (a *Array) Key(r Record) []byte {
	return r[:min(a.layout.KeyLen, len(r))]
}

// Greater orders records by their comparison prefix.
func (a *Array) Greater(x, y Record) bool {
	return KeyGreater(x, y, a.layout.KeyLen)
}

// Snapshot returns a copy of the current record order. The views still
// point into the array's storage.
func (a *Array) Snapshot() []Record {
	return append([]Record(nil), a.Records...)
}

// String renders a record up to its terminator.
func (r Record) String() string {
	for i, c := range r {
		if c == 0 {
			return string(r[:i])
		}
	}

	return string(r)
}
