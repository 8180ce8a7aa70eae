package cli

import (
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"
)

// VocabOptions holds flags for the vocab command.
type VocabOptions struct {
	*RootOptions
	Refresh bool
}

// VocabResult is the JSON payload of the vocab command.
type VocabResult struct {
	BaseURL string            `json:"base_url"`
	Terms   map[string]string `json:"terms"`
}

// NewVocabCommand creates the vocab command.
func NewVocabCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VocabOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Show the schema vocabulary of the configured database",
		Long: `List the short names the configured database's schema defines
and the prefixed identifiers they resolve to.

The vocabulary is discovered from the server the first time and then
served from the local store until --refresh is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVocab(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "discard the stored vocabulary and rediscover it")

	return cmd
}

func runVocab(opts *VocabOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	sess, err := openSession(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v, err := sess.vocabulary(ctx, opts.Refresh)
	if err != nil {
		return failRequest(formatter, "failed to discover vocabulary", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(VocabResult{BaseURL: sess.client.BaseURL(), Terms: v})
	}

	terms := make([]string, 0, len(v))
	for term := range v {
		terms = append(terms, term)
	}
	slices.Sort(terms)
	for _, term := range terms {
		fmt.Fprintf(formatter.Writer, "%s\t%s\n", term, v[term])
	}
	fmt.Fprintf(formatter.Writer, "%d term(s) for %s\n", len(terms), sess.client.BaseURL())
	return nil
}
