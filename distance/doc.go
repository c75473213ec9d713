// Package distance provides vector similarity metrics.
//
// # Supported Metrics
//
//   - MetricCosine: cosine similarity, range ≈ [-1, 1] (default)
//   - MetricEuclidean: negated L2 distance, range (-inf, 0]
//   - MetricDot: raw inner product
//
// All metrics score "higher is more similar", so a single descending sort
// ranks results for every metric.
//
// # Usage
//
//	m, _ := distance.ParseMetric("euclidean")
//	scores := make([]float32, rows)
//	distance.Batch(m, query, matrix, dim, scores)
package distance
