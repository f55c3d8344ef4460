package neural

import (
	"math"
	"math/rand"
)

// RNG is the random capability consumed by network construction, merging
// and the simulation. Both draws are half-open: [lo, hi).
type RNG interface {
	UniformFloat(lo, hi float32) float32
	UniformInt(lo, hi int) int
}

// Rand adapts a math/rand source to RNG.
type Rand struct {
	r *rand.Rand
}

// NewRand creates a seeded RNG.
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// WrapRand adapts an existing *rand.Rand.
func WrapRand(r *rand.Rand) *Rand {
	return &Rand{r: r}
}

// UniformFloat returns a float32 in [lo, hi). Returns lo when hi <= lo.
func (r *Rand) UniformFloat(lo, hi float32) float32 {
	if hi <= lo {
		return lo
	}
	v := lo + r.r.Float32()*(hi-lo)
	// float32 rounding can land exactly on hi for narrow ranges
	if v >= hi {
		v = math.Nextafter32(hi, lo)
	}
	return v
}

// UniformInt returns an int in [lo, hi). Returns lo when hi <= lo.
func (r *Rand) UniformInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.r.Intn(hi-lo)
}
