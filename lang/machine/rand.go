package machine

import "math/rand"

// randSource is the interpreter's private random source, backing both the
// `rand` stdlib module and Vector.Shuffle. It is seeded with the fixed
// value 1 by default, so runs are reproducible; SetSeed reseeds it.
type randSource struct {
	r *rand.Rand
}

func newRandSource() randSource {
	return randSource{r: rand.New(rand.NewSource(1))}
}

func (rs *randSource) ensure() *rand.Rand {
	if rs.r == nil {
		rs.r = rand.New(rand.NewSource(1))
	}
	return rs.r
}

// SetSeed reseeds the interpreter's random source, for reproducible tests.
func (ip *Interpreter) SetSeed(seed int64) {
	ip.rng = randSource{r: rand.New(rand.NewSource(seed))}
}

// randInt returns a value in the half-open range [lo, hi), per rand.int's
// documented contract.
func (ip *Interpreter) randInt(lo, hi int64) Int {
	r := ip.rng.ensure()
	if hi <= lo {
		return Int(lo)
	}
	return Int(lo + r.Int63n(hi-lo))
}

func (ip *Interpreter) randFloat() Float {
	return Float(ip.rng.ensure().Float64())
}

func (ip *Interpreter) randBool() Bool {
	return Bool(ip.rng.ensure().Intn(2) == 0)
}
