package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/woql/internal/client"
	"github.com/roach88/woql/internal/config"
	"github.com/roach88/woql/internal/script"
	"github.com/roach88/woql/internal/store"
	"github.com/roach88/woql/internal/vocab"
	"github.com/roach88/woql/internal/woql"
)

// Error codes reported in CLI responses.
const (
	ErrCodeGeneric    = "E001"
	ErrCodeNotFound   = "E002"
	ErrCodeConfig     = "E003"
	ErrCodeScript     = "E004"
	ErrCodeBuild      = "E005"
	ErrCodeInvalidDoc = "E006"
	ErrCodeStore      = "E007"
	ErrCodeServer     = "E008"
	ErrCodeRequest    = "E009"
	ErrCodeVocabulary = "E010"
)

// session holds what commands that talk to a server need.
type session struct {
	cfg    *config.Config
	store  *store.Store
	client *client.Client
	cache  *vocab.Cache
}

// openSession loads the configuration and opens the store and client.
// Failures are reported through f.
func openSession(opts *RootOptions, f *OutputFormatter) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	f.VerboseLog("Using database %s", cfg.BaseURL())

	if err := os.MkdirAll(filepath.Dir(cfg.Store), 0o755); err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, "failed to create store directory", err)
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, "failed to open store", err)
	}

	c, err := client.New(client.Options{
		Server:   cfg.Server,
		Database: cfg.Database,
		Key:      cfg.Key,
		Timeout:  cfg.RequestTimeout(),
		Logger:   slog.Default(),
	})
	if err != nil {
		st.Close()
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "failed to create client", err)
	}

	cache, err := vocab.NewCache(cfg.VocabCacheSize, st)
	if err != nil {
		st.Close()
		return nil, f.Fail(ExitCommandError, ErrCodeGeneric, "failed to create vocabulary cache", err)
	}

	return &session{cfg: cfg, store: st, client: c, cache: cache}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// vocabulary returns the database vocabulary, discovering it from the
// server on first use. refresh forgets both cached copies first.
func (s *session) vocabulary(ctx context.Context, refresh bool) (vocab.Vocabulary, error) {
	baseURL := s.client.BaseURL()
	if refresh {
		s.cache.Invalidate(baseURL)
		if err := s.store.DeleteVocabulary(ctx, baseURL); err != nil {
			return nil, err
		}
	}
	return s.cache.Get(ctx, baseURL, func(ctx context.Context) (vocab.Vocabulary, error) {
		return woql.DiscoverVocabulary(ctx, s.client)
	})
}

// loadScript reads a query script, reporting failures through f.
func loadScript(path string, f *OutputFormatter) (*script.Script, error) {
	s, err := script.Load(path)
	if err == nil {
		return s, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("script not found: %s", path), err)
	}
	return nil, f.Fail(ExitCommandError, ErrCodeScript, "invalid script", err)
}

// failRequest classifies an execution error: server rejections are
// failures, everything else is a command error.
func failRequest(f *OutputFormatter, message string, err error) error {
	if apiErr, ok := client.IsAPIError(err); ok {
		return f.Fail(ExitFailure, ErrCodeServer, message, apiErr)
	}
	var buildErr *woql.BuildError
	if errors.As(err, &buildErr) {
		return f.Fail(ExitCommandError, ErrCodeBuild, message, err)
	}
	return f.Fail(ExitCommandError, ErrCodeRequest, message, err)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
