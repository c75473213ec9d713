package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hupe1980/vecstore"
	"github.com/hupe1980/vecstore/blobstore"
	"github.com/hupe1980/vecstore/blobstore/badger"
	"github.com/hupe1980/vecstore/blobstore/minio"
	"github.com/hupe1980/vecstore/blobstore/s3"
	"github.com/hupe1980/vecstore/codec"
	"github.com/hupe1980/vecstore/persistence"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
)

// Config is the CLI configuration, read from vecstore.yaml, VECSTORE_*
// environment variables and flags.
type Config struct {
	DataDir     string `mapstructure:"data_dir"`
	Codec       string `mapstructure:"codec"`
	Compression string `mapstructure:"compression"`
	LogLevel    string `mapstructure:"log_level"`
	Backend     string `mapstructure:"backend"`
	Bucket      string `mapstructure:"bucket"`
	Prefix      string `mapstructure:"prefix"`
	Endpoint    string `mapstructure:"endpoint"`
	Region      string `mapstructure:"region"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	Secure      bool   `mapstructure:"secure"`
}

const (
	backendLocal  = "local"
	backendS3     = "s3"
	backendMinio  = "minio"
	backendBadger = "badger"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "./data")
	v.SetDefault("codec", "go-json")
	v.SetDefault("compression", "none")
	v.SetDefault("log_level", "warn")
	v.SetDefault("backend", backendLocal)
	v.SetDefault("secure", true)
}

func setupEnv(v *viper.Viper) {
	v.SetEnvPrefix("VECSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func loadConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Backend = strings.ToLower(cfg.Backend)
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// options translates cfg into manager options, store excluded.
func (cfg Config) options() ([]vecstore.Option, error) {
	c, ok := codec.ByName(cfg.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q (known: %s)", cfg.Codec, strings.Join(codec.Names(), ", "))
	}
	comp, err := persistence.ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return []vecstore.Option{
		vecstore.WithCodec(c),
		vecstore.WithCompression(comp),
		vecstore.WithLogger(vecstore.NewTextLogger(level)),
	}, nil
}

// openStore builds the configured blob store. close releases it.
func (cfg Config) openStore(ctx context.Context) (blobstore.BlobStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case backendLocal, "":
		s, err := blobstore.NewLocalStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case backendBadger:
		s, err := badger.Open(badger.Options{Dir: cfg.DataDir, Prefix: cfg.Prefix})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case backendS3:
		if cfg.Bucket == "" {
			return nil, nil, fmt.Errorf("backend %q requires a bucket", cfg.Backend)
		}
		var opts []s3.Option
		if cfg.Prefix != "" {
			opts = append(opts, s3.WithPrefix(cfg.Prefix))
		}
		if cfg.Region != "" {
			opts = append(opts, s3.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(cfg.Endpoint))
		}
		s, err := s3.New(ctx, cfg.Bucket, opts...)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case backendMinio:
		if cfg.Bucket == "" || cfg.Endpoint == "" {
			return nil, nil, fmt.Errorf("backend %q requires a bucket and an endpoint", cfg.Backend)
		}
		creds := credentials.NewEnvMinio()
		if cfg.AccessKey != "" {
			creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
		}
		client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
			Creds:  creds,
			Secure: cfg.Secure,
			Region: cfg.Region,
		})
		if err != nil {
			return nil, nil, err
		}
		return minio.NewStore(client, cfg.Bucket, cfg.Prefix), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// openManager opens the store and loads every collection in it.
func (cfg Config) openManager(ctx context.Context) (*vecstore.Manager, func() error, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := cfg.openStore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s store: %w", cfg.Backend, err)
	}

	mgr, err := vecstore.NewManager(cfg.DataDir, append(opts, vecstore.WithBlobStore(store))...)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	if err := mgr.LoadAll(ctx); err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	return mgr, closeStore, nil
}
