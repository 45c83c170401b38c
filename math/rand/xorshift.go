package rand

import (
	"math"
)

// xorshiftGenerator is Marsaglia's 128-bit xorshift generator. Its state
// is filled from the seed by splitmix64, so consecutive seeds give
// unrelated streams.
type xorshiftGenerator struct {
	w, x, y, z uint32
}

func splitmix64(s *uint64) uint64 {
	*s += 0x9e3779b97f4a7c15
	z := *s
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func (gen *xorshiftGenerator) Init(seed uint64) {
	a, b := splitmix64(&seed), splitmix64(&seed)
	gen.x, gen.y = uint32(a), uint32(a>>32)
	gen.z, gen.w = uint32(b), uint32(b>>32)
	if gen.x|gen.y|gen.z|gen.w == 0 {
		gen.x = 123456789
	}
}

func (gen *xorshiftGenerator) step() uint32 {
	t := gen.x ^ (gen.x << 11)
	gen.x, gen.y, gen.z = gen.y, gen.z, gen.w
	gen.w = gen.w ^ (gen.w >> 19) ^ (t ^ (t >> 8))
	return gen.w
}

func (gen *xorshiftGenerator) Next() float64 {
	// Dividing by 2^32 keeps the result strictly below 1.
	return float64(gen.step()) / (float64(math.MaxUint32) + 1)
}
