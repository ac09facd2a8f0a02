// Package embed turns text into fixed-length vectors.
//
// The default strategy is HashEmbedder, a deterministic placeholder that
// derives a unit-length vector from a stable hash of the input text. It has no
// semantic meaning; it exists so callers can exercise the embedding contract
// (dimension, range, determinism) without an inference engine. A real engine
// plugs in behind the same Embedder interface.
package embed

import (
	"context"
	"math"
)

// Dim is the embedding dimension produced by the built-in strategies.
const Dim = 128

// NormTolerance bounds how far the Euclidean norm of a vector returned by
// HashEmbedder may drift from 1 after float32 rounding.
const NormTolerance = 1e-5

// Embedder converts text into a vector of Dim() components.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dim() int
}

// Norm returns the Euclidean norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize scales v in place to unit Euclidean norm. It reports false, and
// leaves v untouched, when the norm is zero or not finite.
func Normalize(v []float32) bool {
	n := Norm(v)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	inv := 1 / n
	for i, x := range v {
		v[i] = float32(float64(x) * inv)
	}
	return true
}

// Cosine returns the cosine similarity of a and b. Vectors of different
// length or zero norm yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
