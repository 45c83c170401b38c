package rand

const (
	tauswortheDigitsRandomized = 15

	tauswortheSeqLen       = 9689
	tauswortheFirstOffset  = 2444
	tauswortheSecondOffset = 4187
)

// tauswortheGenerator is a lagged-subtraction generator over a 9689-long
// table of floats, seeded digit by digit from the Golang generator.
type tauswortheGenerator struct {
	seq                                   []float64
	leader, firstFollower, secondFollower int
}

func (gen *tauswortheGenerator) Init(seed uint64) {
	gen.seq = make([]float64, tauswortheSeqLen)

	digitGen := New(Golang, seed)

	f := 1.0
	for digit := 0; digit < tauswortheDigitsRandomized; digit++ {
		for i := range gen.seq {
			gen.seq[i] += digitGen.Uniform(0, f)
		}
		f /= 2.0
	}

	for i := range gen.seq {
		if gen.seq[i] >= 1 {
			gen.seq[i] -= 1
		}
	}

	gen.leader = 0
	gen.firstFollower = tauswortheFirstOffset
	gen.secondFollower = tauswortheSecondOffset
}

func wrapIndex(i, n int) int {
	if i == 0 {
		return n - 1
	}
	return i - 1
}

func (gen *tauswortheGenerator) Next() float64 {
	next := gen.seq[gen.firstFollower] - gen.seq[gen.secondFollower]
	if next < 0 {
		next += 1.0
	}
	if next >= 1.0 {
		next = 0
	}
	gen.seq[gen.leader] = next

	n := len(gen.seq)
	gen.leader = wrapIndex(gen.leader, n)
	gen.firstFollower = wrapIndex(gen.firstFollower, n)
	gen.secondFollower = wrapIndex(gen.secondFollower, n)

	return next
}
