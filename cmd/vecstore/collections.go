package main

import (
	"fmt"

	"github.com/hupe1980/vecstore"
	"github.com/spf13/cobra"
)

func (a *app) newCollectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"col"},
		Short:   "Manage collections",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List collections with their size and dimension",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withManager(cmd.Context(), func(mgr *vecstore.Manager) error {
					return printJSON(cmd, mgr.ListCollections())
				})
			},
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create an empty collection",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := vecstore.ValidateName(args[0]); err != nil {
					return err
				}
				return a.withManager(cmd.Context(), func(mgr *vecstore.Manager) error {
					c, err := mgr.CreateCollection(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					return printJSON(cmd, c.Info())
				})
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete a collection and its stored blob",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withManager(cmd.Context(), func(mgr *vecstore.Manager) error {
					deleted, err := mgr.DeleteCollection(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					if !deleted {
						return fmt.Errorf("collection %q: %w", args[0], vecstore.ErrNotFound)
					}
					return nil
				})
			},
		},
	)
	return cmd
}
