package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dcl/internal/services"
	"dcl/internal/timer"
	"dcl/internal/workflow"
)

func runWorkOn(cmd *cobra.Command, ctx *commandContext, name, since string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	bucket, ok := cfg.Bucket(name)
	if !ok {
		return services.Wrap(services.ErrConfiguration, "select bucket", fmt.Sprintf("unknown bucket %q (see `dcl list`)", name), nil)
	}
	at, err := timer.ParseSince(since, ctx.now())
	if err != nil {
		return err
	}

	return ctx.withRunner(cmd.Context(), func(runner *workflow.Runner) error {
		result, err := runner.WorkOn(cmd.Context(), name, bucket, at)
		if err != nil {
			return err
		}
		printWorkResult(cmd.OutOrStdout(), result, shouldColorize(cmd.OutOrStdout()))
		return nil
	})
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := timer.ParseSince(since, ctx.now())
			if err != nil {
				return err
			}
			return ctx.withRunner(cmd.Context(), func(runner *workflow.Runner) error {
				result, err := runner.Stop(cmd.Context(), at)
				if err != nil {
					return err
				}
				printStopResult(cmd.OutOrStdout(), result, shouldColorize(cmd.OutOrStdout()))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Stop time today as HH:MM or HH:MM:SS (default now)")
	return cmd
}
