package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vishaltiwari230996/life-sorter/internal/app/diagnostic"
	"github.com/vishaltiwari230996/life-sorter/internal/observability"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Inspect persona documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List domains that have persona content",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := offlineService(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, d := range svc.ListDomains(ctx) {
			fmt.Fprintln(out, d)
		}
		return nil
	},
}

var docsTasksCmd = &cobra.Command{
	Use:   "tasks <domain>",
	Short: "List the tasks of a domain in document order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := offlineService(cmd)
		if err != nil {
			return err
		}
		tasks, err := svc.ListTasks(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, t := range tasks {
			fmt.Fprintf(out, "%2d. %s\n", i+1, t)
		}
		return nil
	},
}

var docsMatchCmd = &cobra.Command{
	Use:   "match <domain> <task>",
	Short: "Show which task block a query resolves to and its questions",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := offlineService(cmd)
		if err != nil {
			return err
		}
		query := strings.Join(args[1:], " ")
		diag := svc.Diagnose(ctx, args[0], query)
		out := cmd.OutOrStdout()
		if diag == nil {
			fmt.Fprintf(out, "no persona content for domain %q\n", args[0])
			return nil
		}

		fmt.Fprintf(out, "matched: %s (%s)\n", diag.MatchedTask, diag.Tier)
		if diag.Empty() {
			fmt.Fprintln(out, "no diagnostic sections; generic questions would be used")
			return nil
		}
		for _, sec := range diag.Sections {
			fmt.Fprintf(out, "\n%s\n", sec.Label)
			for _, item := range sec.Items {
				fmt.Fprintf(out, "  - %s\n", item)
			}
		}
		return nil
	},
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsTasksCmd)
	docsCmd.AddCommand(docsMatchCmd)
}

// offlineService builds a diagnostic service with no session traffic,
// enough to query the persona documents. Logs go to stderr so command
// output stays clean.
func offlineService(cmd *cobra.Command) (*diagnostic.Service, context.Context, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: observability.ParseLevel(cfg.LogLevel),
	}))
	ctx := observability.WithLogger(cmd.Context(), logger)

	cache, err := buildCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := diagnostic.NewService(cache, nil, nil, nil)
	svc.Preload(ctx)
	return svc, ctx, nil
}
