package rangen

import (
	"encoding/binary"
	"hash"
	"math/bits"
)

const (
	// DigestSize is the number of bytes produced by Finalize.
	DigestSize = 16
	// BlockSize is the number of input bytes consumed by one compression.
	BlockSize = 64

	lengthOffset = BlockSize - 8
)

const (
	initA = 0x67452301
	initB = 0xefcdab89
	initC = 0x98badcfe
	initD = 0x10325476
)

// Digest is the output of HashState.Finalize.
type Digest [DigestSize]byte

// HashState is an MD5 engine (RFC 1321). It is a plain value: copying it
// forks the hash, and the zero value must be Reset before use.
type HashState struct {
	a, b, c, d uint32

	// number of absorbed bits modulo 2^64, least significant word first
	count [2]uint32

	input [BlockSize]byte
	block [16]uint32
}

var _ hash.Hash = &HashState{}

var roundConstants = [64]uint32{
	0xd76aa478, 0xe8c7b756, 0x242070db, 0xc1bdceee,
	0xf57c0faf, 0x4787c62a, 0xa8304613, 0xfd469501,
	0x698098d8, 0x8b44f7af, 0xffff5bb1, 0x895cd7be,
	0x6b901122, 0xfd987193, 0xa679438e, 0x49b40821,

	0xf61e2562, 0xc040b340, 0x265e5a51, 0xe9b6c7aa,
	0xd62f105d, 0x02441453, 0xd8a1e681, 0xe7d3fbc8,
	0x21e1cde6, 0xc33707d6, 0xf4d50d87, 0x455a14ed,
	0xa9e3e905, 0xfcefa3f8, 0x676f02d9, 0x8d2a4c8a,

	0xfffa3942, 0x8771f681, 0x6d9d6122, 0xfde5380c,
	0xa4beea44, 0x4bdecfa9, 0xf6bb4b60, 0xbebfbc70,
	0x289b7ec6, 0xeaa127fa, 0xd4ef3085, 0x04881d05,
	0xd9d4d039, 0xe6db99e5, 0x1fa27cf8, 0xc4ac5665,

	0xf4292244, 0x432aff97, 0xab9423a7, 0xfc93a039,
	0x655b59c3, 0x8f0ccc92, 0xffeff47d, 0x85845dd1,
	0x6fa87e4f, 0xfe2ce6e0, 0xa3014314, 0x4e0811a1,
	0xf7537e82, 0xbd3af235, 0x2ad7d2bb, 0xeb86d391,
}

var shiftAmounts = [4][4]int{
	{7, 12, 17, 22},
	{5, 9, 14, 20},
	{4, 11, 16, 23},
	{6, 10, 15, 21},
}

// NewHashState returns a HashState ready to absorb input.
func NewHashState() HashState {
	var h HashState
	h.Reset()

	return h
}

func (h *HashState) Reset() {
	h.a, h.b, h.c, h.d = initA, initB, initC, initD
	h.count = [2]uint32{}
	h.input = [BlockSize]byte{}
	h.block = [16]uint32{}
}

func (h *HashState) bitCount() uint64 {
	return uint64(h.count[1])<<32 | uint64(h.count[0])
}

// buffered returns how many unprocessed bytes sit in the input buffer.
func (h *HashState) buffered() int {
	return int(h.count[0]>>3) & (BlockSize - 1)
}

// Absorb appends p to the hashed message, compressing every completed
// 64-byte block immediately.
func (h *HashState) Absorb(p []byte) {
	n := h.buffered()

	total := h.bitCount() + uint64(len(p))<<3
	h.count[0] = uint32(total)
	h.count[1] = uint32(total >> 32)

	if n > 0 {
		copied := copy(h.input[n:], p)
		n += copied
		p = p[copied:]

		if n < BlockSize {
			return
		}

		h.compress(h.input[:])
	}

	for len(p) >= BlockSize {
		h.compress(p[:BlockSize])
		p = p[BlockSize:]
	}

	copy(h.input[:], p)
}

// Finalize pads the message, appends the message bit count and returns
// the digest. The state must be Reset before it is reused.
func (h *HashState) Finalize() Digest {
	var length [8]byte
	binary.LittleEndian.PutUint32(length[0:], h.count[0])
	binary.LittleEndian.PutUint32(length[4:], h.count[1])

	n := h.buffered()

	padLen := lengthOffset - n
	if n >= lengthOffset {
		padLen += BlockSize
	}

	var padding [BlockSize]byte
	padding[0] = 0x80

	h.Absorb(padding[:padLen])
	h.Absorb(length[:])

	var digest Digest
	binary.LittleEndian.PutUint32(digest[0:], h.a)
	binary.LittleEndian.PutUint32(digest[4:], h.b)
	binary.LittleEndian.PutUint32(digest[8:], h.c)
	binary.LittleEndian.PutUint32(digest[12:], h.d)

	return digest
}

func (h *HashState) compress(chunk []byte) {
	for i := range h.block {
		h.block[i] = binary.LittleEndian.Uint32(chunk[4*i:])
	}

	a, b, c, d := h.a, h.b, h.c, h.d

	for i := 0; i < 64; i++ {
		var f uint32
		var g int

		round := i / 16
		switch round {
		case 0:
			f = (b & c) | (^b & d)
			g = i
		case 1:
			f = (d & b) | (^d & c)
			g = (5*i + 1) % 16
		case 2:
			f = b ^ c ^ d
			g = (3*i + 5) % 16
		default:
			f = c ^ (b | ^d)
			g = (7 * i) % 16
		}

		f += a + roundConstants[i] + h.block[g]
		a, d, c = d, c, b
		b += bits.RotateLeft32(f, shiftAmounts[round][i%4])
	}

	h.a += a
	h.b += b
	h.c += c
	h.d += d
}

func (h *HashState) Write(p []byte) (int, error) {
	h.Absorb(p)

	return len(p), nil
}

// Sum appends the digest of everything written so far to in without
// changing the state.
func (h *HashState) Sum(in []byte) []byte {
	tmp := *h
	digest := tmp.Finalize()

	return append(in, digest[:]...)
}

func (h *HashState) Size() int      { return DigestSize }
func (h *HashState) BlockSize() int { return BlockSize }

// HashBytes returns the digest of p.
func HashBytes(p []byte) Digest {
	h := NewHashState()
	h.Absorb(p)

	return h.Finalize()
}
