package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dcl/internal/services"
	"dcl/internal/store"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show the cached Clockify identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := store.Kinds
			if kindFlag != "" {
				kind, err := store.ParseKind(kindFlag)
				if err != nil {
					return services.Wrap(services.ErrConfiguration, "cache", "", err)
				}
				kinds = []store.Kind{kind}
			}

			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				entities, err := listEntities(cmd.Context(), st, kinds)
				if err != nil {
					return err
				}
				if jsonOutput {
					if entities == nil {
						entities = []store.Entity{}
					}
					return writeJSON(cmd, entities)
				}
				return printCacheTable(cmd, st.Path(), entities)
			})
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "Only show one kind (workspace, user, project, task, tag)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func listEntities(ctx context.Context, st *store.Store, kinds []store.Kind) ([]store.Entity, error) {
	var entities []store.Entity
	for _, kind := range kinds {
		list, err := st.List(ctx, kind)
		if err != nil {
			return nil, err
		}
		entities = append(entities, list...)
	}
	return entities, nil
}

func printCacheTable(cmd *cobra.Command, path string, entities []store.Entity) error {
	out := cmd.OutOrStdout()
	if len(entities) == 0 {
		fmt.Fprintf(out, "Cache %s is empty\n", path)
		return nil
	}
	rows := make([][]string, 0, len(entities))
	for _, entity := range entities {
		cached := ""
		if !entity.CachedAt.IsZero() {
			cached = entity.CachedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{string(entity.Kind), entity.Name, entity.ID, entity.ParentID, cached})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Kind", "Name", "ID", "Parent", "Cached"},
		rows,
	))
	fmt.Fprintf(out, "%d entities in %s\n", len(entities), path)
	return nil
}
