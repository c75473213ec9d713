// Package distance provides the similarity metrics used to rank vectors.
//
// Every metric is oriented so that a higher score means a closer match;
// euclidean distance is negated to fit that convention.
package distance

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/vecstore/internal/math32"
)

// Epsilon is added to L2 norms before dividing, so zero vectors score 0
// under cosine instead of producing NaN.
const Epsilon = 1e-10

// Metric represents the scoring function used for vector comparison.
type Metric int

const (
	// MetricCosine is the cosine similarity of the two vectors. It is the
	// zero value and the fallback for unknown metric names.
	MetricCosine Metric = iota
	// MetricEuclidean is the negated L2 distance.
	MetricEuclidean
	// MetricDot is the raw inner product.
	MetricDot
)

// DefaultMetric is used when no metric (or an unknown one) is requested.
const DefaultMetric = MetricCosine

func (m Metric) String() string {
	switch m {
	case MetricCosine:
		return "cosine"
	case MetricEuclidean:
		return "euclidean"
	case MetricDot:
		return "dot"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}

// ParseMetric resolves a metric name. Names are case-insensitive and accept
// the aliases "l2" and "dot_product". Unknown or empty names resolve to
// DefaultMetric with ok=false so callers can report the fallback.
func ParseMetric(name string) (m Metric, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cosine":
		return MetricCosine, true
	case "euclidean", "l2":
		return MetricEuclidean, true
	case "dot", "dot_product":
		return MetricDot, true
	default:
		return DefaultMetric, false
	}
}

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	return math32.Dot(a, b)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	return math32.SquaredL2(a, b)
}

// Euclidean calculates the L2 distance between two vectors.
func Euclidean(a, b []float32) float32 {
	return float32(math.Sqrt(float64(math32.SquaredL2(a, b))))
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float32 {
	return math32.Norm(v)
}

// Cosine returns the cosine similarity of a and b, with Epsilon added to
// both norms.
func Cosine(a, b []float32) float32 {
	return math32.Dot(a, b) / ((math32.Norm(a) + Epsilon) * (math32.Norm(b) + Epsilon))
}

// Score returns the score of a single pair under m.
func Score(m Metric, a, b []float32) float32 {
	switch m {
	case MetricEuclidean:
		return -Euclidean(a, b)
	case MetricDot:
		return Dot(a, b)
	default:
		return Cosine(a, b)
	}
}
