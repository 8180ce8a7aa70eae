package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/config"
	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
	All   bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently executed query documents",
		Long: `List documents executed with "woql exec", newest first.

By default only the configured database is shown. Documents are keyed by
content, so re-running a query moves it to the top instead of adding a row.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of documents (0 for all)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "include every database")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open store", err)
	}
	defer st.Close()

	baseURL := cfg.BaseURL()
	if opts.All {
		baseURL = ""
	}
	records, err := st.RecentQueries(commandContext(cmd), baseURL, opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read history", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No queries recorded")
		return nil
	}
	for _, rec := range records {
		kind := "read"
		if rec.ContainsUpdate {
			kind = "update"
		}
		doc, err := ir.MarshalCanonical(rec.Document)
		if err != nil {
			return fmt.Errorf("render %s: %w", rec.ID, err)
		}
		fmt.Fprintf(formatter.Writer, "%d\t%s\t%s\t%s\n", rec.Seq, shortID(rec.ID), rec.BaseURL, kind)
		fmt.Fprintf(formatter.Writer, "\t%s\n", doc)
	}
	return nil
}

// shortID abbreviates a document ID for display.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
