package embed

import (
	"context"
	"math"

	"github.com/cespare/xxhash/v2"
)

const golden = 0x9E3779B97F4A7C15

// HashEmbedder expands a 64-bit xxhash of the text into Dim components in
// [-1, 1) and scales the result to unit L2 norm. The same text always yields
// the same bits, in this process and in any other.
type HashEmbedder struct{}

// NewHashEmbedder returns the placeholder strategy.
func NewHashEmbedder() HashEmbedder { return HashEmbedder{} }

func (HashEmbedder) Dim() int { return Dim }

// Embed never fails; the context is accepted to satisfy Embedder.
func (HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return HashVector(text), nil
}

// HashVector is the pure derivation behind HashEmbedder.
func HashVector(text string) []float32 {
	seed := xxhash.Sum64String(text)
	raw := make([]float64, Dim)
	var sum float64
	for i := range raw {
		bits := splitmix64(seed + uint64(i+1)*golden)
		// top 53 bits -> [0,1) -> [-1,1)
		u := float64(bits>>11) / (1 << 53)
		raw[i] = u*2 - 1
		// explicit conversion blocks FMA fusion so the bits match on every arch
		sum += float64(raw[i] * raw[i])
	}
	out := make([]float32, Dim)
	if sum == 0 {
		out[0] = 1
		return out
	}
	inv := 1 / math.Sqrt(sum)
	for i, x := range raw {
		out[i] = float32(x * inv)
	}
	return out
}

func splitmix64(x uint64) uint64 {
	z := x + golden
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
