package search

import "math/bits"

// fxSeed is the multiplier of the rolling hash. The client script uses the
// same constant, so changing it invalidates every published filter.
const fxSeed uint64 = 0x517cc1b727220a95

// Hash64 hashes the UTF-8 bytes of s: rotate left 5, xor byte, multiply.
func Hash64(s string) uint64 {
	var v uint64
	for i := 0; i < len(s); i++ {
		v = (bits.RotateLeft64(v, 5) ^ uint64(s[i])) * fxSeed
	}
	return v
}

// positions returns the k bit positions of s in a filter of nbits bits,
// derived by double hashing the two 32-bit halves of Hash64.
func positions(s string, k int, nbits uint32) []uint32 {
	h := Hash64(s)
	low, high := uint32(h), uint32(h>>32)

	out := make([]uint32, k)
	for i := range out {
		out[i] = (low + uint32(i)*high) % nbits
	}
	return out
}
