/*package rand provides seeded pseudo random number generators used to
orient box replicas. Every stream is reproducible from its seed.

	gen := New(Xorshift, 1337)
	x := gen.Uniform(3, 7)    // float in [3, 7)
	face := gen.UniformInt(1, 7) // int in [1, 7)
	flip := gen.Bool()

Three generators are provided. Xorshift is very fast, Tausworthe is slower
(especially at start up) but has better statistical properties, and Golang
is a wrapper around the standard library's generator.
*/
package rand

import (
	"fmt"
	"strings"
)

// generatorBackend is an interface which is used by the generators to supply
// the functionality needed for top-level functions like Uniform(). Next
// must return values in [0, 1).
type generatorBackend interface {
	Init(seed uint64)
	Next() float64
}

// Generator is a random number generator. Generators are not safe for
// concurrent use.
type Generator struct {
	backend generatorBackend
}

// GeneratorType is a flag used to indicate the desired algorithm
// for a random number generator.
type GeneratorType uint8

const (
	Xorshift GeneratorType = iota
	Golang
	Tausworthe
)

// ParseGeneratorType converts the name of a generator to a GeneratorType.
func ParseGeneratorType(s string) (GeneratorType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xorshift":
		return Xorshift, nil
	case "golang":
		return Golang, nil
	case "tausworthe":
		return Tausworthe, nil
	}
	return Xorshift, fmt.Errorf("The generator '%s' isn't one of "+
		"Xorshift, Golang, or Tausworthe.", s)
}

func (gt GeneratorType) String() string {
	switch gt {
	case Xorshift:
		return "Xorshift"
	case Golang:
		return "Golang"
	case Tausworthe:
		return "Tausworthe"
	}
	return fmt.Sprintf("GeneratorType(%d)", uint8(gt))
}

// New returns a new random number generator.
func New(gt GeneratorType, seed uint64) *Generator {
	var backend generatorBackend

	switch gt {
	case Xorshift:
		backend = new(xorshiftGenerator)
	case Golang:
		backend = new(golangGenerator)
	case Tausworthe:
		backend = new(tauswortheGenerator)
	default:
		panic("Unrecognized GeneratorType")
	}

	backend.Init(seed)
	return &Generator{backend}
}

// UniformInt returns an integer uniformly at random within in the
// range [low, high). It panics if high <= low.
func (gen *Generator) UniformInt(low, high int) int {
	if high <= low {
		panic(fmt.Sprintf("Empty integer range [%d, %d).", low, high))
	}
	n := high - low
	i := int(float64(n) * gen.backend.Next())
	if i >= n {
		// Rounding in the backend can land exactly on 1.
		i = n - 1
	}
	return low + i
}

// Uniform returns a float uniformly at random within the range [low, high).
func (gen *Generator) Uniform(low, high float64) float64 {
	if low == 0.0 && high == 1.0 {
		return gen.backend.Next()
	}
	return (gen.backend.Next() * (high - low)) + low
}

// Bool returns true or false with equal probability.
func (gen *Generator) Bool() bool {
	return gen.backend.Next() < 0.5
}

// Sign returns +1 or -1 with equal probability.
func (gen *Generator) Sign() float64 {
	if gen.Bool() {
		return -1
	}
	return +1
}

// UniformAt writes floats generated uniformly at random in the range
// [low, high) to every element in a target slice.
func (gen *Generator) UniformAt(low, high float64, target []float64) {
	for i := range target {
		target[i] = gen.Uniform(low, high)
	}
}
