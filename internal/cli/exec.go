package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/vocab"
)

// ExecOptions holds flags for the exec command.
type ExecOptions struct {
	*RootOptions
	Page         int
	NoVocabulary bool
	Refresh      bool
}

// ExecResult is the JSON payload of the exec command.
type ExecResult struct {
	ID       string           `json:"id"`
	BaseURL  string           `json:"base_url"`
	Bindings []map[string]any `json:"bindings"`
	Inserts  int              `json:"inserts,omitempty"`
	Deletes  int              `json:"deletes,omitempty"`
}

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "exec <script>",
		Short: "Execute a query script against the configured database",
		Long: `Build the query described by a YAML script, submit it to the
configured database and print the bindings.

Short names in the script are resolved with the database vocabulary,
discovered on first use and kept in the local store. Every executed
document is recorded in the history.

Example:
  woql exec --config woql.yaml reports.yaml
  WOQL_SERVER=http://localhost:6363 WOQL_DATABASE=admin/reports woql exec --page 2 reports.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 0, "select this page of a paged query (1-based)")
	cmd.Flags().BoolVar(&opts.NoVocabulary, "no-vocab", false, "skip vocabulary discovery and use the built-in vocabulary")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh-vocab", false, "rediscover the vocabulary before building")

	return cmd
}

func runExec(opts *ExecOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := loadScript(path, formatter)
	if err != nil {
		return err
	}

	sess, err := openSession(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var v vocab.Vocabulary
	if !opts.NoVocabulary {
		discovered, err := sess.vocabulary(ctx, opts.Refresh)
		if err != nil {
			return failRequest(formatter, "failed to discover vocabulary", err)
		}
		v = withDefaults(discovered)
	}

	q, err := buildScript(s, v, opts.Page, formatter)
	if err != nil {
		return err
	}
	doc, err := q.Document()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBuild, "failed to build query", err)
	}

	slog.Info("executing query", "script", s.Name, "base_url", sess.client.BaseURL())
	res, err := q.Execute(ctx, sess.client)
	if err != nil {
		return failRequest(formatter, "query failed", err)
	}

	// The query has run; a history failure must not hide its result.
	rec, err := sess.store.RecordQuery(ctx, sess.client.BaseURL(), doc, q.ContainsUpdate())
	if err != nil {
		slog.Warn("failed to record query", "script", s.Name, "error", err)
	}

	result := ExecResult{
		ID:       rec.ID,
		BaseURL:  sess.client.BaseURL(),
		Bindings: res.Bindings,
		Inserts:  res.Inserts,
		Deletes:  res.Deletes,
	}
	if result.Bindings == nil {
		result.Bindings = []map[string]any{}
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return outputBindings(formatter, result)
}

func outputBindings(formatter *OutputFormatter, result ExecResult) error {
	for _, b := range result.Bindings {
		line, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode binding: %w", err)
		}
		fmt.Fprintln(formatter.Writer, string(line))
	}
	fmt.Fprintf(formatter.Writer, "%d result(s)", len(result.Bindings))
	if result.Inserts > 0 || result.Deletes > 0 {
		fmt.Fprintf(formatter.Writer, ", %d inserted, %d deleted", result.Inserts, result.Deletes)
	}
	fmt.Fprintln(formatter.Writer)
	return nil
}

// commandContext returns cmd's context, or Background when the command
// runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
