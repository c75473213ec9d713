package vecstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/vecstore/distance"
	"github.com/hupe1980/vecstore/internal/queue"
	"github.com/hupe1980/vecstore/metadata"
	"golang.org/x/sync/errgroup"
)

// DefaultK is the result count callers use when none is requested.
const DefaultK = 10

// SearchRequest describes a k-nearest-neighbour query.
type SearchRequest struct {
	// Vector is the query; its length must equal the collection dimension.
	Vector []float32

	// K is the maximum number of results. It must be positive.
	K int

	// Metric selects the scoring function. The zero value is cosine.
	Metric distance.Metric

	// Filter restricts candidates to vectors whose metadata matches.
	Filter *metadata.Filter
}

// SearchResult is one scored match. Higher scores are closer.
type SearchResult struct {
	ID       string            `json:"id"`
	Score    float32           `json:"score"`
	Text     string            `json:"text"`
	Metadata metadata.Document `json:"metadata"`
}

// Search scores every candidate vector against the query and returns the
// best K, highest score first. Equal scores keep cache row order.
//
// An empty collection yields no results without validating the query, as
// does a filter that matches nothing.
func (c *Collection) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	start := time.Now()
	results, err := c.search(ctx, req)
	err = translateError(err)
	c.opts.metricsCollector.RecordSearch(req.K, time.Since(start), err)
	c.log.LogSearch(ctx, req.K, len(results), err)
	return results, err
}

func (c *Collection) search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.rlockWithCache(); err != nil {
		return nil, err
	}
	defer c.mu.RUnlock()

	return c.searchLocked(req)
}

// searchLocked runs one query. The caller holds the read lock with a valid
// cache.
func (c *Collection) searchLocked(req SearchRequest) ([]SearchResult, error) {
	if len(c.entries) == 0 {
		return []SearchResult{}, nil
	}

	// Candidate rows; nil means every row.
	var rows []uint32
	if req.Filter != nil {
		mask, err := req.Filter.Mask(c.cache.Len(), func(row int) metadata.Document {
			return c.entries[c.cache.ID(row)].Metadata
		})
		if err != nil {
			return nil, err
		}
		if mask.IsEmpty() {
			return []SearchResult{}, nil
		}
		rows = mask.ToArray()
	}

	dim := c.cache.Dimension()
	if len(req.Vector) != dim {
		return nil, &ErrDimensionMismatch{Expected: dim, Actual: len(req.Vector)}
	}

	var scores []float32
	if rows == nil {
		scores = make([]float32, c.cache.Len())
		distance.Batch(req.Metric, req.Vector, c.cache.Matrix(), dim, scores)
	} else {
		scores = make([]float32, len(rows))
		distance.BatchRows(req.Metric, req.Vector, c.cache.Matrix(), dim, rows, scores)
	}

	if req.K <= 0 {
		return nil, ErrInvalidK
	}

	top := queue.TopK(scores, req.K)

	results := make([]SearchResult, len(top))
	for i, item := range top {
		row := item.Row
		if rows != nil {
			row = rows[item.Row]
		}
		e := c.entries[c.cache.ID(int(row))]
		results[i] = SearchResult{
			ID:       e.ID,
			Score:    item.Score,
			Text:     e.Text,
			Metadata: e.Metadata.Clone(),
		}
	}
	return results, nil
}

// SearchBatch runs several queries against one snapshot of the collection
// and returns their results in request order. Queries run concurrently on
// free worker slots and inline otherwise. The first failing query fails the
// whole batch.
func (c *Collection) SearchBatch(ctx context.Context, reqs []SearchRequest) ([][]SearchResult, error) {
	start := time.Now()
	results, err := c.searchBatch(ctx, reqs)
	err = translateError(err)
	elapsed := time.Since(start)
	for _, req := range reqs {
		c.opts.metricsCollector.RecordSearch(req.K, elapsed, err)
	}
	if err != nil {
		c.log.ErrorContext(ctx, "batch search failed", "queries", len(reqs), "error", err)
	} else {
		c.log.DebugContext(ctx, "batch search completed", "queries", len(reqs), "duration", elapsed)
	}
	return results, err
}

func (c *Collection) searchBatch(ctx context.Context, reqs []SearchRequest) ([][]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return [][]SearchResult{}, nil
	}

	if err := c.rlockWithCache(); err != nil {
		return nil, err
	}
	defer c.mu.RUnlock()

	results := make([][]SearchResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)

	rc := c.opts.resources
	for i, req := range reqs {
		run := func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := c.searchLocked(req)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			results[i] = res
			return nil
		}

		if rc.TryAcquireWorker() {
			g.Go(func() error {
				defer rc.ReleaseWorker()
				return run()
			})
			continue
		}
		if err := run(); err != nil {
			_ = g.Wait()
			return nil, err
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DuplicateRequest configures FindDuplicates.
type DuplicateRequest struct {
	// Metric selects the scoring function. The zero value is cosine.
	Metric distance.Metric

	// Threshold is the minimum score of a reported pair.
	Threshold float32

	// Limit caps the number of pairs; zero or less means no cap.
	Limit int
}

// DuplicatePair is two vectors scoring at or above the threshold. IDA sorts
// before IDB.
type DuplicatePair struct {
	IDA   string  `json:"id_a"`
	IDB   string  `json:"id_b"`
	Score float32 `json:"score"`
}

// FindDuplicates compares every pair of vectors and returns those scoring at
// least req.Threshold, highest score first. Ties are ordered by id.
func (c *Collection) FindDuplicates(ctx context.Context, req DuplicateRequest) ([]DuplicatePair, error) {
	start := time.Now()
	pairs, err := c.findDuplicates(ctx, req)
	err = translateError(err)
	if err != nil {
		c.log.ErrorContext(ctx, "duplicate scan failed", "error", err)
	} else {
		c.log.DebugContext(ctx, "duplicate scan completed",
			"metric", req.Metric.String(),
			"threshold", req.Threshold,
			"pairs", len(pairs),
			"duration", time.Since(start),
		)
	}
	return pairs, err
}

func (c *Collection) findDuplicates(ctx context.Context, req DuplicateRequest) ([]DuplicatePair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.rlockWithCache(); err != nil {
		return nil, err
	}
	defer c.mu.RUnlock()

	pairs := []DuplicatePair{}
	n := c.cache.Len()
	if n < 2 {
		return pairs, nil
	}

	dim := c.cache.Dimension()
	matrix := c.cache.Matrix()
	scores := make([]float32, n)

	for i := 0; i < n-1; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out := scores[:n-i-1]
		distance.Batch(req.Metric, matrix[i*dim:(i+1)*dim], matrix[(i+1)*dim:], dim, out)

		a := c.cache.ID(i)
		for j, score := range out {
			if score < req.Threshold {
				continue
			}
			b := c.cache.ID(i + 1 + j)
			if b < a {
				pairs = append(pairs, DuplicatePair{IDA: b, IDB: a, Score: score})
			} else {
				pairs = append(pairs, DuplicatePair{IDA: a, IDB: b, Score: score})
			}
		}
	}

	slices.SortFunc(pairs, func(x, y DuplicatePair) int {
		if x.Score != y.Score {
			if x.Score > y.Score {
				return -1
			}
			return 1
		}
		if o := cmp.Compare(x.IDA, y.IDA); o != 0 {
			return o
		}
		return cmp.Compare(x.IDB, y.IDB)
	})

	if req.Limit > 0 && len(pairs) > req.Limit {
		pairs = pairs[:req.Limit]
	}
	return pairs, nil
}

// rlockWithCache acquires the read lock with a valid cache. An invalid
// cache is rebuilt under the write lock; the state is re-checked after
// every lock switch since writers may interleave.
func (c *Collection) rlockWithCache() error {
	c.mu.RLock()
	for !c.cacheValid && len(c.entries) > 0 {
		c.mu.RUnlock()

		c.mu.Lock()
		if !c.cacheValid {
			if err := c.rebuildCacheLocked(); err != nil {
				c.mu.Unlock()
				return err
			}
		}
		c.mu.Unlock()

		c.mu.RLock()
	}
	return nil
}
