package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dcl/internal/services"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "list [pattern]",
		Short: "List configured buckets",
		Long:  "List bucket names in alphabetical order. An optional glob pattern such as 'dev*' filters the list.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			names, err := cfg.BucketNames(pattern)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "list buckets", "", err)
			}

			out := cmd.OutOrStdout()
			if !long {
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			if len(names) == 0 {
				fmt.Fprintln(out, "No buckets configured")
				return nil
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				bucket, _ := cfg.Bucket(name)
				rows = append(rows, []string{name, bucket.Project, bucket.Task, strings.Join(bucket.Tags, ", "), bucket.Description})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Bucket", "Project", "Task", "Tags", "Description"},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show project, task, tags and description")
	return cmd
}
