package rangen

import (
	"errors"
	"fmt"
)

var ErrUnknownSource = errors.New("unknown random source")

const (
	SourceMD5  = "md5"
	SourceQuad = "quad"
)

// Source is a resettable stream of pseudo-random bytes.
type Source interface {
	SetSeed(seed int64)
	NextByte() byte
	NextChar() byte
}

var (
	_ Source = &Generator{}
	_ Source = &QuadSource{}
)

// NewSource builds an unseeded source of the given kind. Callers must
// SetSeed before drawing from it.
func NewSource(kind string) (Source, error) {
	switch kind {
	case SourceMD5, "":
		return &Generator{}, nil
	case SourceQuad:
		return &QuadSource{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
}

// QuadSource is the four-word additive generator the benchmark used before
// the MD5 stream. It is faster and much weaker; results produced with it are
// only comparable with other quad runs.
type QuadSource struct {
	state [4]uint64
}

func (q *QuadSource) SetSeed(seed int64) {
	s := uint64(seed)

	q.state[0] = s
	q.state[1] = (s << 3) ^ 0x136
	q.state[2] = s + ((s << 6) ^ 0x400)
	q.state[3] = (s << 9) ^ 0x59031
}

func (q *QuadSource) next() uint64 {
	r := ((q.state[0] + q.state[2]) ^ 0x2d135) + (q.state[1] >> 7)

	q.state[0] = q.state[1]
	q.state[1] = q.state[2]
	q.state[2] = q.state[3]
	q.state[3] = r

	return r
}

// NextByte drops the five low bits of the next word, which are the
// weakest.
func (q *QuadSource) NextByte() byte {
	return byte(q.next() >> 5)
}

func (q *QuadSource) NextChar() byte {
	return CharFromByte(q.NextByte())
}
