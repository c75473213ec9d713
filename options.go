package vecstore

import (
	"log/slog"

	"github.com/hupe1980/vecstore/blobstore"
	"github.com/hupe1980/vecstore/codec"
	"github.com/hupe1980/vecstore/persistence"
	"github.com/hupe1980/vecstore/resource"
)

type options struct {
	blobStore        blobstore.BlobStore
	format           persistence.Format
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
}

// Option configures a Manager or a standalone Collection.
type Option func(*options)

// WithBlobStore stores collection blobs in store instead of the local data
// directory.
//
// Example with S3:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("vectors/"))
//	mgr, _ := vecstore.NewManager("", vecstore.WithBlobStore(store))
func WithBlobStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.blobStore = store
	}
}

// WithCodec configures the codec used for collection documents.
//
// If nil is passed, codec.Default is used. The codec determines the blob
// extension, so LoadAll only discovers collections written with the same
// codec.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.format.Codec = c
	}
}

// WithCompression compresses collection documents after encoding.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.format.Compression = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &vecstore.BasicMetricsCollector{}
//	mgr, _ := vecstore.NewManager("./data", vecstore.WithMetricsCollector(metrics))
//	// ... use mgr ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Avg latency: %dns\n", stats.InsertCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vecstore.NewJSONLogger(slog.LevelInfo)
//	mgr, _ := vecstore.NewManager("./data", vecstore.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController bounds LoadAll/SaveAll and SearchBatch concurrency,
// throttles persistence IO and caps search cache memory. A cache that would
// grow past MemoryLimitBytes is dropped and rebuilt on the next search.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) *options {
	o := &options{
		format:           persistence.DefaultFormat(),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(o)
		}
	}
	return o
}
