package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/notebookconcat/internal/concatview"
	"github.com/dshills/notebookconcat/internal/notebook"
	"github.com/dshills/notebookconcat/internal/watcher"
)

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <notebook.ipynb>",
		Short: "Reload a notebook when it changes and print concatenated edits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			nb, view, err := c.open(path)
			if err != nil {
				return err
			}
			defer c.views.Close(view.NotebookURI())

			w, err := watcher.New(
				watcher.WithDebounce(time.Duration(c.cfg.Watch.Debounce)),
				watcher.WithLogger(c.log),
			)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := w.Watch(path); err != nil {
				return fmt.Errorf("watching %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			r := &reloader{nb: nb, view: view, out: out, log: c.log}
			sub := nb.OnDidChange(r.report)
			defer sub.Unsubscribe()

			fmt.Fprintf(out, "watching %s as %s (version %d)\n", path, view.FileName(), view.Version())

			ctx := cmd.Context()
			for {
				select {
				case <-ctx.Done():
					return nil

				case ev, ok := <-w.Events():
					if !ok {
						return nil
					}
					if !ev.Exists() {
						c.log.Warn("notebook removed", "path", ev.Path, "op", ev.Op)
						continue
					}
					if err := r.reload(path); err != nil {
						c.log.Error("reload failed", "path", path, "error", err)
						continue
					}
					fmt.Fprintf(out, "version %d: %d lines\n", view.Version(), view.LineCount())

				case err, ok := <-w.Errors():
					if !ok {
						return nil
					}
					c.log.Warn("watcher error", "error", err)
				}
			}
		},
	}
}

// reloader re-reads a notebook file and prints the resulting edits in
// concatenated coordinates.
type reloader struct {
	nb   *notebook.Notebook
	view *concatview.Adapter
	out  io.Writer
	log  *slog.Logger
}

func (r *reloader) reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	contents, err := notebook.Decode(path, data)
	if err != nil {
		return err
	}
	return r.nb.Reload(contents)
}

func (r *reloader) report(c notebook.Change) {
	r.log.Debug("notebook changed", "kind", c.Kind,
		"added", len(c.Added), "removed", len(c.Removed), "edited", len(c.Edited))

	for _, ev := range c.Content {
		if !r.view.IsCellOfDocument(ev.Document.URI()) {
			continue
		}
		out := r.view.ToOutgoingChangeEvent(ev)
		for _, ch := range out.ContentChanges {
			fmt.Fprintf(r.out, "  edit %s @%d -%d %q\n",
				formatRange(ch.Range), ch.RangeOffset, ch.RangeLength, ch.Text)
		}
	}
}
