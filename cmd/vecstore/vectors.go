package main

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hupe1980/vecstore"
	"github.com/hupe1980/vecstore/distance"
	"github.com/hupe1980/vecstore/metadata"
	"github.com/spf13/cobra"
)

// parseVector parses a comma separated list of numbers.
func parseVector(s string) ([]float32, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return nil, fmt.Errorf("%w: empty vector", vecstore.ErrInvalidArgument)
	}
	parts := strings.Split(s, ",")
	vec := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: vector component %d: %w", vecstore.ErrInvalidArgument, i, err)
		}
		vec[i] = float32(f)
	}
	return vec, nil
}

func parseMetadata(s string) (metadata.Document, error) {
	if s == "" {
		return nil, nil
	}
	var doc metadata.Document
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, fmt.Errorf("%w: metadata: %w", vecstore.ErrInvalidArgument, err)
	}
	return doc, nil
}

func parseFilter(s string) (*metadata.Filter, error) {
	if s == "" {
		return nil, nil
	}
	var f metadata.Filter
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return nil, fmt.Errorf("%w: filter: %w", vecstore.ErrInvalidArgument, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", vecstore.ErrInvalidArgument, err)
	}
	return &f, nil
}

func (a *app) newInsertCmd() *cobra.Command {
	var vector, text, meta string

	cmd := &cobra.Command{
		Use:   "insert <collection>",
		Short: "Insert a vector and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vec, err := parseVector(vector)
			if err != nil {
				return err
			}
			doc, err := parseMetadata(meta)
			if err != nil {
				return err
			}
			return a.withManager(cmd.Context(), func(mgr *vecstore.Manager) error {
				c, err := mgr.Collection(args[0])
				if err != nil {
					return err
				}
				id, err := c.Insert(cmd.Context(), vec, text, doc)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&vector, "vector", "", "comma separated vector components")
	cmd.Flags().StringVar(&text, "text", "", "text stored with the vector")
	cmd.Flags().StringVar(&meta, "metadata", "", "metadata as a JSON object")
	_ = cmd.MarkFlagRequired("vector")

	return cmd
}

func (a *app) newUpdateCmd() *cobra.Command {
	var vector, meta string

	cmd := &cobra.Command{
		Use:   "update <collection> <id>",
		Short: "Replace the vector or metadata of a stored vector",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req vecstore.UpdateRequest
			if cmd.Flags().Changed("vector") {
				vec, err := parseVector(vector)
				if err != nil {
					return err
				}
				req.Vector = vec
			}
			if cmd.Flags().Changed("metadata") {
				doc, err := parseMetadata(meta)
				if err != nil {
					return err
				}
				if doc == nil {
					doc = metadata.Document{}
				}
				req.Metadata = doc
			}
			if req.Vector == nil && req.Metadata == nil {
				return fmt.Errorf("%w: nothing to update, set --vector or --metadata", vecstore.ErrInvalidArgument)
			}

			return a.withManager(cmd.Context(), func(mgr *vecstore.Manager) error {
				c, err := mgr.Collection(args[0])
				if err != nil {
					return err
				}
				found, err := c.Update(cmd.Context(), args[1], req)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%w: vector %q in collection %q", vecstore.ErrNotFound, args[1], args[0])
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), args[1])
				return err
			})
		},
	}

	cmd.Flags().StringVar(&vector, "vector", "", "comma separated vector components")
	cmd.Flags().StringVar(&meta, "metadata", "", "metadata as a JSON object, replacing the stored one")

	return cmd
}

func (a *app) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Print a stored vector",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(cmd.Context(), func(mgr *vecstore.Manager) error {
				c, err := mgr.Collection(args[0])
				if err != nil {
					return err
				}
				e, err := c.Get(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd, e)
			})
		},
	}
}

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>...",
		Short: "Delete vectors and print how many were removed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withManager(cmd.Context(), func(mgr *vecstore.Manager) error {
				c, err := mgr.Collection(args[0])
				if err != nil {
					return err
				}
				n, err := c.DeleteBatch(cmd.Context(), args[1:])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			})
		},
	}
}

func (a *app) newSearchCmd() *cobra.Command {
	var (
		vector, metric, filter string
		k                      int
	)

	cmd := &cobra.Command{
		Use:   "search <collection>",
		Short: "Print the k nearest vectors to a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseVector(vector)
			if err != nil {
				return err
			}
			f, err := parseFilter(filter)
			if err != nil {
				return err
			}
			m, ok := distance.ParseMetric(metric)
			if !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "unknown metric %q, using %s\n", metric, m)
			}

			return a.withManager(cmd.Context(), func(mgr *vecstore.Manager) error {
				c, err := mgr.Collection(args[0])
				if err != nil {
					return err
				}
				results, err := c.Search(cmd.Context(), vecstore.SearchRequest{
					Vector: query,
					K:      k,
					Metric: m,
					Filter: f,
				})
				if err != nil {
					return err
				}
				return printJSON(cmd, results)
			})
		},
	}

	cmd.Flags().StringVar(&vector, "vector", "", "comma separated query components")
	cmd.Flags().IntVar(&k, "k", vecstore.DefaultK, "number of results")
	cmd.Flags().StringVar(&metric, "metric", "cosine", "cosine, euclidean or dot")
	cmd.Flags().StringVar(&filter, "filter", "", `metadata filter, e.g. {"field":"tag","operator":"eq","value":"x"}`)
	_ = cmd.MarkFlagRequired("vector")

	return cmd
}
