package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hupe1980/vecstore"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app carries the per-invocation viper instance to the subcommands.
type app struct {
	v *viper.Viper
}

// NewRootCmd creates the root vecstore command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "vecstore",
		Short:         "Inspect and query vecstore collections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initViper(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "path to config file")
	pf.String("data-dir", "", "data directory (local and badger backends)")
	pf.String("codec", "", "document codec: json, go-json or msgpack")
	pf.String("compression", "", "blob compression: none, zstd or lz4")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("backend", "", "blob store: local, s3, minio or badger")
	pf.String("bucket", "", "bucket name (s3 and minio backends)")
	pf.String("prefix", "", "key prefix inside the bucket or database")
	pf.String("endpoint", "", "custom S3 or MinIO endpoint")
	pf.String("region", "", "bucket region")

	root.AddCommand(
		a.newCollectionsCmd(),
		a.newInsertCmd(),
		a.newGetCmd(),
		a.newUpdateCmd(),
		a.newDeleteCmd(),
		a.newSearchCmd(),
	)

	return root
}

// initViper applies defaults, env, the optional config file and flag
// bindings, so precedence is flag > env > file > defaults.
func (a *app) initViper(cmd *cobra.Command) error {
	v := a.v

	setDefaults(v)
	setupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("vecstore")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/vecstore")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var bindErr error
	cmd.Root().PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		if err := v.BindPFlag(flagKey(f.Name), f); err != nil {
			bindErr = fmt.Errorf("binding %s flag: %w", f.Name, err)
		}
	})
	return bindErr
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// withManager opens the configured manager, runs fn and closes the store.
func (a *app) withManager(ctx context.Context, fn func(*vecstore.Manager) error) (err error) {
	cfg, err := loadConfig(a.v)
	if err != nil {
		return err
	}

	mgr, closeStore, err := cfg.openManager(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeStore())
	}()

	return fn(mgr)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
