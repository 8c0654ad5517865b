package rainfall

import (
	"math"
	"math/rand"
)

// Generator produces synthetic daily rainfall.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a Generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns days values. A day is wet with probability wetProb; wet
// day depth is exponentially distributed with mean meanDepth mm, rounded to
// 0.1 mm.
func (g *Generator) Generate(days int, wetProb, meanDepth float64) []float64 {
	if days <= 0 {
		return []float64{}
	}
	out := make([]float64, days)
	if wetProb <= 0 || meanDepth <= 0 {
		return out
	}
	for i := range out {
		if g.rnd.Float64() > wetProb {
			continue
		}
		depth := g.rnd.ExpFloat64() * meanDepth
		out[i] = math.Round(depth*10) / 10
	}
	return out
}
