package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dshills/notebookconcat/internal/concatview"
	"github.com/dshills/notebookconcat/internal/config"
	"github.com/dshills/notebookconcat/internal/logger"
	"github.com/dshills/notebookconcat/internal/notebook"
)

// cli holds state shared by all subcommands.
type cli struct {
	configPath string
	logLevel   string

	cfg    config.Config
	log    *slog.Logger
	closer io.Closer
	views  *concatview.Registry
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "nbconcat",
		Short: "Work with a notebook as one concatenated text document",
		Long: `nbconcat joins the cells of a Jupyter notebook into a single virtual
document and maps positions between that document and individual cells.`,
		Version:           fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			c.views.CloseAll()
			if c.closer != nil {
				return c.closer.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", config.DefaultPath(), "path to configuration file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newTextCmd(c),
		newLocateCmd(c),
		newOutgoingCmd(c),
		newInfoCmd(c),
		newEditCmd(c),
		newWatchCmd(c),
	)
	return root
}

// setup loads configuration and builds the logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}

	log, closer, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Format: cfg.Log.Format,
	}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	c.cfg, c.log, c.closer = cfg, log, closer
	c.views = concatview.NewRegistry(concatview.DefaultAccess,
		concatview.WithFilenameTemplate(cfg.Concat.FilenameTemplate),
		concatview.WithLogger(log),
	)
	return nil
}

// open loads the notebook at path and wraps it in a concatenated view.
func (c *cli) open(path string) (*notebook.Notebook, *concatview.Adapter, error) {
	nb, err := notebook.Open(path, notebook.WithLogger(c.log))
	if err != nil {
		return nil, nil, err
	}

	view, err := c.views.Open(nb, c.cfg.Selector())
	if err != nil {
		return nil, nil, err
	}
	c.log.Debug("notebook opened", "path", path, "cells", nb.CellCount(), "view", view.FileName())
	return nb, view, nil
}
