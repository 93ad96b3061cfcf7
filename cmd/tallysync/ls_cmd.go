package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tallysync/tallysync/internal/browser"
	"github.com/tallysync/tallysync/internal/diag"
	"github.com/tallysync/tallysync/internal/fsport"
	"github.com/tallysync/tallysync/internal/utils"
)

func init() {
	rootCmd.AddCommand(newLsCmd())
}

func newLsCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "List the immediate children of a directory",
		Long:  "List the immediate children of a directory. Defaults to the configured source.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := configFromViper()
			if err != nil {
				return err
			}

			dir := cfg.Source
			if len(args) == 1 {
				if dir, err = utils.ResolvePath(args[0]); err != nil {
					return err
				}
			}

			lister := browser.NewLister(fsport.NewOS(), diag.NewSlogSink(nil))
			entries := browser.Filter(lister.List(dir), filter)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderListing(dir, entries))
			return err
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show names starting with this prefix (case-insensitive)")
	return cmd
}

func renderListing(dir string, entries []browser.Entry) string {
	if len(entries) == 0 {
		return cyan.Render(dir) + "\n" + gray.Render("(empty)")
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name
		if e.Directory {
			name = cyan.Render(name + "/")
		}
		size := "-"
		if e.Size != nil {
			size = *e.Size
		}
		modified := ""
		if !e.ModTime.IsZero() {
			modified = humanize.Time(e.ModTime)
		}
		rows = append(rows, []string{name, size, modified})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("NAME", "SIZE", "MODIFIED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingRight(2)
			switch {
			case row == table.HeaderRow:
				return style.Bold(true)
			case col == 2:
				return style.Inherit(gray)
			}
			return style
		})

	return cyan.Render(dir) + "\n" + t.String()
}
