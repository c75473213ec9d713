package distance

import (
	"github.com/hupe1980/vecstore/internal/math32"
)

// Batch scores every row of the row-major matrix against query and writes
// the scores to out, which must hold len(matrix)/dim elements.
func Batch(m Metric, query, matrix []float32, dim int, out []float32) {
	n := len(out)
	batch(m, query, dim, n, func(i int) []float32 {
		off := i * dim
		return matrix[off : off+dim]
	}, out)
}

// BatchRows scores only the listed rows of the row-major matrix.
// out[i] receives the score of rows[i]; len(out) must equal len(rows).
func BatchRows(m Metric, query, matrix []float32, dim int, rows []uint32, out []float32) {
	batch(m, query, dim, len(rows), func(i int) []float32 {
		off := int(rows[i]) * dim
		return matrix[off : off+dim]
	}, out)
}

func batch(m Metric, query []float32, dim, n int, row func(i int) []float32, out []float32) {
	if n == 0 || dim == 0 {
		return
	}

	switch m {
	case MetricEuclidean:
		for i := 0; i < n; i++ {
			out[i] = -Euclidean(row(i), query)
		}
	case MetricDot:
		for i := 0; i < n; i++ {
			out[i] = math32.Dot(row(i), query)
		}
	default:
		// Normalize the query once; each row is divided by its own norm.
		q := make([]float32, len(query))
		copy(q, query)
		math32.ScaleInPlace(q, 1/(math32.Norm(q)+Epsilon))

		for i := 0; i < n; i++ {
			r := row(i)
			out[i] = math32.Dot(r, q) / (math32.Norm(r) + Epsilon)
		}
	}
}
