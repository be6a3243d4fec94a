package rangen

import "encoding/binary"

// Alphabet is the set of characters records are built from. Its length is
// a power of two so a byte maps onto it by masking.
const Alphabet = "abcdefghijklmnopqrstuvwxyz012345"

const alphabetMask = len(Alphabet) - 1

// CharFromByte maps the low five bits of b onto Alphabet.
func CharFromByte(b byte) byte {
	return Alphabet[int(b)&alphabetMask]
}

// Generator is a seedable byte stream built by chaining MD5 digests.
// The stream for a given seed is identical on every platform.
//
// A Generator is not safe for concurrent use; each trial owns its own.
type Generator struct {
	hash    HashState
	digest  Digest
	seed    int64
	counter uint64
	left    int
}

// NewGenerator returns a generator already reset to seed.
func NewGenerator(seed int64) *Generator {
	g := &Generator{}
	g.SetSeed(seed)

	return g
}

// SetSeed discards all previous state and restarts the stream for seed.
func (g *Generator) SetSeed(seed int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))

	g.hash.Reset()
	g.hash.Absorb(buf[:])
	g.digest = g.hash.Finalize()

	g.seed = seed
	g.counter = 0
	g.left = DigestSize
}

func (g *Generator) Seed() int64 {
	return g.seed
}

func (g *Generator) refill() {
	g.counter++

	var ctr [8]byte
	binary.LittleEndian.PutUint64(ctr[:], g.counter)

	g.hash.Reset()
	g.hash.Absorb(g.digest[:])
	g.hash.Absorb(ctr[:])
	g.digest = g.hash.Finalize()
	g.left = DigestSize
}

// NextByte returns the next byte of the stream.
func (g *Generator) NextByte() byte {
	if g.left == 0 {
		g.refill()
	}

	b := g.digest[DigestSize-g.left]
	g.left--

	return b
}

// NextChar returns the next stream byte mapped onto Alphabet.
func (g *Generator) NextChar() byte {
	return CharFromByte(g.NextByte())
}

// Read fills p from the stream. It never fails.
func (g *Generator) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = g.NextByte()
	}

	return len(p), nil
}
