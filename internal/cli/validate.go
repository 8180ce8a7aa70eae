package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/internal/woql"
)

// DocumentReport is the validation outcome for one document.
type DocumentReport struct {
	Path     string   `json:"path"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool             `json:"valid"`
	Documents []DocumentReport `json:"documents"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document.json>...",
		Short: "Check the structure of query documents",
		Long: `Check JSON query documents for structural problems without
contacting a server.

Errors: nodes with several operator keys, operator arguments that are not
lists, paging and scoping operators without a continuation.
Warnings: unknown operators and empty continuations.

Use "-" to read a document from stdin.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	result := ValidationResult{Valid: true}
	for _, path := range paths {
		doc, err := readDocument(path, cmd.InOrStdin())
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("document not found: %s", path), err)
			}
			return formatter.Fail(ExitCommandError, ErrCodeInvalidDoc, fmt.Sprintf("cannot read %s", path), err)
		}

		formatter.VerboseLog("Validating %s", path)
		vr := woql.Validate(doc)
		result.Documents = append(result.Documents, DocumentReport{
			Path:     path,
			Valid:    vr.Valid,
			Errors:   vr.Errors,
			Warnings: vr.Warnings,
		})
		if !vr.Valid {
			result.Valid = false
		}
	}

	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationErrors(formatter, result)
}

// readDocument decodes a JSON query document from path, or from stdin
// when path is "-".
func readDocument(path string, stdin io.Reader) (ir.IRObject, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	v, err := ir.UnmarshalIRValue(data)
	if err != nil {
		return nil, err
	}
	doc, ok := v.(ir.IRObject)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %T", v)
	}
	return doc, nil
}

// outputValidateSuccess outputs successful validation results.
// Warnings are still listed in text mode.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, d := range result.Documents {
		for _, w := range d.Warnings {
			fmt.Fprintf(formatter.Writer, "warning: %s: %s\n", d.Path, w)
		}
	}
	if len(result.Documents) == 1 {
		fmt.Fprintln(formatter.Writer, "✓ Document valid")
	} else {
		fmt.Fprintf(formatter.Writer, "✓ All %d documents valid\n", len(result.Documents))
	}
	return nil
}

// outputValidationErrors outputs every failing document.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	count := 0
	var first string
	for _, d := range result.Documents {
		if first == "" && len(d.Errors) > 0 {
			first = d.Errors[0]
		}
		count += len(d.Errors)
	}
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", count))

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeInvalidDoc,
				Message: first,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, d := range result.Documents {
		if d.Valid {
			continue
		}
		fmt.Fprintln(formatter.Writer, d.Path)
		for _, e := range d.Errors {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", ErrCodeInvalidDoc, e)
		}
		for _, w := range d.Warnings {
			fmt.Fprintf(formatter.Writer, "  warning: %s\n", w)
		}
		fmt.Fprintln(formatter.Writer)
	}

	return exitErr
}
