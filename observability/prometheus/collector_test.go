package prometheus

import (
	"context"
	"testing"

	"github.com/hupe1980/vecstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()

	mc, err := NewCollector(reg)
	require.NoError(t, err)

	c, err := vecstore.NewCollection("docs", vecstore.WithMetricsCollector(mc))
	require.NoError(t, err)

	_, err = c.Insert(ctx, []float32{1, 0}, "", nil)
	require.NoError(t, err)
	_, err = c.Insert(ctx, []float32{1}, "", nil)
	require.Error(t, err)
	_, err = c.InsertBatch(ctx, []vecstore.InsertRequest{{Vector: []float32{0, 1}}})
	require.NoError(t, err)
	_, err = c.Search(ctx, vecstore.SearchRequest{Vector: []float32{1, 0}, K: 5})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(mc.batchItems.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(mc.batchItems.WithLabelValues("error")))

	// insert/success, insert/error, batch_insert/success, search/success, persist/success
	assert.Equal(t, 5, testutil.CollectAndCount(mc.opLatency))
	assert.Equal(t, 1, testutil.CollectAndCount(mc.searchK))
}

func TestCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	var are prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &are)
}
