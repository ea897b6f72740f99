package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tracker-spend/spendtrack/internal/categorize"
	"github.com/tracker-spend/spendtrack/internal/config"
	"github.com/tracker-spend/spendtrack/internal/gitops"
	"github.com/tracker-spend/spendtrack/internal/logger"
)

// project is a loaded spendtrack directory.
type project struct {
	root string
	cfg  *config.Config
	log  zerolog.Logger
	ctx  context.Context
}

// loadProject resolves --repo, reads spendtrack.yaml and builds the logger.
// A missing config file means defaults.
func loadProject(cmd *cobra.Command, opts *globalOptions) (*project, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	missing := errors.Is(err, fs.ErrNotExist)
	switch {
	case missing:
		cfg = config.Default("")
		cfg.ApplyEnv()
	case err != nil:
		return nil, err
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	if opts.logFormat != "" {
		format = opts.logFormat
	}
	log := logger.New(logger.Options{Level: level, Format: format, Writer: cmd.ErrOrStderr()})
	if missing {
		log.Debug().Str("repo", root).Msg("no " + config.FileName + ", using defaults")
	}

	return &project{
		root: root,
		cfg:  cfg,
		log:  log,
		ctx:  logger.WithContext(cmd.Context(), log),
	}, nil
}

func (p *project) categorizer() (*categorize.Categorizer, error) {
	return categorize.Load(p.root)
}

// commit records the working tree when auto-commit is on and something
// changed. Returns "" when nothing was committed.
func (p *project) commit(message string) (string, error) {
	if !p.cfg.Git.AutoCommit || !gitops.IsRepo(p.root) {
		return "", nil
	}
	changed, err := gitops.HasChanges(p.root)
	if err != nil {
		return "", err
	}
	if !changed {
		return "", nil
	}
	hash, err := gitops.CommitAll(p.root, message, p.cfg.Git.AuthorName, p.cfg.Git.AuthorEmail)
	if err != nil {
		return "", err
	}
	p.log.Info().Str("commit", hash).Msg("committed")
	return hash, nil
}
