package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/config"
	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/script"
	"github.com/roach88/woql/internal/store"
	"github.com/roach88/woql/internal/vocab"
	"github.com/roach88/woql/internal/woql"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Page       int
	Context    bool
	Vocabulary bool
}

// RenderResult is the JSON payload of the render command.
type RenderResult struct {
	Name           string      `json:"name"`
	ID             string      `json:"id"`
	ContainsUpdate bool        `json:"contains_update"`
	Document       ir.IRObject `json:"document"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <script>",
		Short: "Print the query document a script builds",
		Long: `Build the query described by a YAML script and print its JSON
document without contacting a server.

Example:
  woql render reports.yaml
  woql render --page 3 reports.yaml
  woql render --context --config woql.yaml reports.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 0, "select this page of a paged query (1-based)")
	cmd.Flags().BoolVar(&opts.Context, "context", false, "add the default @context for the configured database")
	cmd.Flags().BoolVar(&opts.Vocabulary, "vocab", false, "resolve terms with the stored vocabulary of the configured database")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := loadScript(path, formatter)
	if err != nil {
		return err
	}

	var (
		cfg *config.Config
		v   vocab.Vocabulary
	)
	if opts.Context || opts.Vocabulary {
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
		}
	}
	if opts.Vocabulary {
		if v, err = storedVocabulary(cmd, cfg, formatter); err != nil {
			return err
		}
	}

	q, err := buildScript(s, v, opts.Page, formatter)
	if err != nil {
		return err
	}
	if opts.Context {
		q.Context(vocab.DefaultContext(cfg.BaseURL()))
	}

	doc, err := q.Document()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBuild, "failed to build query", err)
	}

	if formatter.Format == "json" {
		id, err := ir.DocumentID(doc)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeBuild, "failed to hash document", err)
		}
		return formatter.Success(RenderResult{
			Name:           s.Name,
			ID:             id,
			ContainsUpdate: q.ContainsUpdate(),
			Document:       doc,
		})
	}

	out, err := ir.MarshalIndent(doc)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeBuild, "failed to render document", err)
	}
	fmt.Fprintln(formatter.Writer, string(out))
	return nil
}

// buildScript builds s and selects page when it is positive.
func buildScript(s *script.Script, v vocab.Vocabulary, page int, f *OutputFormatter) (*woql.Query, error) {
	q, err := script.Build(s, v)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeBuild, "failed to build query", err)
	}
	if page > 0 {
		q = q.SetPage(page)
		if err := q.Err(); err != nil {
			return nil, f.Fail(ExitCommandError, ErrCodeBuild, fmt.Sprintf("cannot select page %d", page), err)
		}
	}
	f.VerboseLog("Built %s (%d steps)", s.Name, len(s.Steps))
	return q, nil
}

// storedVocabulary reads the vocabulary persisted for cfg's database.
// A database never discovered yields the default vocabulary.
func storedVocabulary(cmd *cobra.Command, cfg *config.Config, f *OutputFormatter) (vocab.Vocabulary, error) {
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, "failed to open store", err)
	}
	defer st.Close()

	v, found, err := st.LoadVocabulary(commandContext(cmd), cfg.BaseURL())
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, "failed to read vocabulary", err)
	}
	if !found {
		f.VerboseLog("No stored vocabulary for %s", cfg.BaseURL())
		return nil, nil
	}

	return withDefaults(v), nil
}

// withDefaults layers v over the built-in vocabulary.
func withDefaults(v vocab.Vocabulary) vocab.Vocabulary {
	merged := vocab.Default()
	merged.Merge(v)
	return merged
}
