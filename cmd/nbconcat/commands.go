package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/notebookconcat/internal/lsp"
	"github.com/dshills/notebookconcat/internal/notebook"
)

func newTextCmd(c *cli) *cobra.Command {
	var rangeFlag string

	cmd := &cobra.Command{
		Use:   "text <notebook.ipynb>",
		Short: "Print the concatenated text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, view, err := c.open(args[0])
			if err != nil {
				return err
			}
			defer c.views.Close(view.NotebookURI())

			var rng *lsp.Range
			if rangeFlag != "" {
				r, err := parseRange(rangeFlag)
				if err != nil {
					return err
				}
				rng = &r
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.GetText(rng))
			return nil
		},
	}
	cmd.Flags().StringVarP(&rangeFlag, "range", "r", "", "only print line:char-line:char")
	return cmd
}

func newLocateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "locate <notebook.ipynb> <line:char>",
		Short: "Show the cell owning a concatenated position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			nb, view, err := c.open(args[0])
			if err != nil {
				return err
			}
			defer c.views.Close(view.NotebookURI())

			if view.LineCount() == 0 {
				return fmt.Errorf("%s has no cells in view", args[0])
			}

			pos = view.ValidatePosition(pos)
			local := view.ToIncomingRange(lsp.Range{Start: pos, End: pos})
			loc := view.Engine().LocationAt(pos)
			cell, ok := nb.CellByURI(loc.URI)
			if !ok {
				return fmt.Errorf("no cell owns %s", formatPosition(pos))
			}
			line := view.LineAtPosition(pos)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "position: %s\n", formatPosition(pos))
			fmt.Fprintf(out, "offset:   %d\n", view.OffsetAt(pos))
			fmt.Fprintf(out, "cell:     %d (%s, %s)\n", cell.Index(), cell.Kind(), cell.Language())
			fmt.Fprintf(out, "uri:      %s\n", cell.URI())
			fmt.Fprintf(out, "local:    %s\n", formatPosition(local.Start))
			fmt.Fprintf(out, "line:     %s\n", line.Text)
			if word, ok := view.WordRangeAtPosition(pos, nil); ok {
				fmt.Fprintf(out, "word:     %s [%s]\n", cell.Document().GetText(&word), formatRange(word))
			}
			return nil
		},
	}
}

func newOutgoingCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "outgoing <notebook.ipynb> <cell-index> <line:char>",
		Short: "Map a cell-local position to the concatenated document",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid cell index %q", args[1])
			}
			local, err := parsePosition(args[2])
			if err != nil {
				return err
			}
			nb, view, err := c.open(args[0])
			if err != nil {
				return err
			}
			defer c.views.Close(view.NotebookURI())

			cell, err := nb.CellAt(index)
			if err != nil {
				return fmt.Errorf("cell %d: %w", index, err)
			}
			if !view.IsCellOfDocument(cell.URI()) {
				return fmt.Errorf("cell %d is not part of the concatenated view", index)
			}

			doc := cell.Document()
			pos := view.ToOutgoingPosition(doc, doc.ValidatePosition(local))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "position: %s\n", formatPosition(pos))
			fmt.Fprintf(out, "offset:   %d\n", view.ToOutgoingOffset(doc, doc.OffsetAt(local)))
			return nil
		},
	}
}

func newInfoCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "info <notebook.ipynb>",
		Short: "Describe the concatenated view of a notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nb, view, err := c.open(args[0])
			if err != nil {
				return err
			}
			defer c.views.Close(view.NotebookURI())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "notebook: %s\n", view.NotebookURI())
			fmt.Fprintf(out, "view:     %s\n", view.FileName())
			fmt.Fprintf(out, "language: %s\n", view.LanguageID())
			fmt.Fprintf(out, "lines:    %d\n", view.LineCount())
			fmt.Fprintf(out, "version:  %d\n", view.Version())
			fmt.Fprintln(out)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CELL\tKIND\tLANGUAGE\tLINES\tSTART\tIN VIEW")
			for _, cell := range nb.Cells() {
				doc := cell.Document()
				start := "-"
				inView := view.IsCellOfDocument(cell.URI())
				if inView {
					start = strconv.Itoa(view.ToOutgoingPosition(doc, lsp.Position{}).Line)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%t\n",
					cell.Index(), cell.Kind(), cell.Language(), doc.LineCount(), start, inView)
			}
			return tw.Flush()
		},
	}
}

func newEditCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <notebook.ipynb> <line:char-line:char> <text>",
		Short: "Replace a concatenated range and save the notebook",
		Long: `edit maps a range of the concatenated document back to its cell,
replaces it with text and writes the notebook. The range must lie within a
single cell.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := parseRange(args[1])
			if err != nil {
				return err
			}
			nb, view, err := c.open(args[0])
			if err != nil {
				return err
			}
			defer c.views.Close(view.NotebookURI())

			if view.LineCount() == 0 {
				return fmt.Errorf("%s has no cells in view", args[0])
			}

			rng = view.ValidateRange(rng)
			start := view.Engine().LocationAt(rng.Start)
			end := view.Engine().LocationAt(rng.End)
			if start.URI != end.URI {
				return fmt.Errorf("range %s spans more than one cell", formatRange(rng))
			}
			cell, ok := nb.CellByURI(start.URI)
			if !ok {
				return fmt.Errorf("no cell owns %s", formatRange(rng))
			}

			local := view.ToIncomingRange(rng)
			change, err := nb.EditCell(cell.Index(), local, args[2])
			if err != nil {
				return err
			}
			if err := notebook.Save(nb, args[0]); err != nil {
				return err
			}
			c.log.Info("notebook edited", "path", args[0], "cell", cell.Index(), "range", formatRange(local))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cell:    %d\n", cell.Index())
			fmt.Fprintf(out, "local:   %s\n", formatRange(change.Range))
			fmt.Fprintf(out, "range:   %s\n", formatRange(view.ToOutgoingRange(cell.Document(), change.Range)))
			fmt.Fprintf(out, "version: %d\n", view.Version())
			return nil
		},
	}
}
