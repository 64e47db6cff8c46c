package generators

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// linspace returns n evenly spaced values over [start, stop]. A single point is start.
func linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, stop)
}

// uniformInt draws from [min, max).
func uniformInt(rng *rand.Rand, min, max int64) int64 {
	return min + rng.Int63n(max-min)
}

func normal(rng *rand.Rand, mean, std float64) float64 {
	return rng.NormFloat64()*std + mean
}

func choice(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

// weightedChoice picks values[i] with probability weights[i]/sum(weights).
// Weights are package constants, non-negative and of matching length.
func weightedChoice(rng *rand.Rand, values []string, weights []float64) string {
	total := floats.Sum(weights)
	r := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r < cum {
			return values[i]
		}
	}
	return values[len(values)-1]
}

func choices(rng *rand.Rand, values []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = choice(rng, values)
	}
	return out
}
