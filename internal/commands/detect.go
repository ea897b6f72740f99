package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tracker-spend/spendtrack/internal/importer"
)

func newDetectCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Show how a statement file would be read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd, opts)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			pipe := importer.NewPipeline(nil, p.log)
			pipe.ScanRows = p.cfg.Import.ScanRows
			res, err := pipe.Detect(filepath.Base(args[0]), data)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "File:     %s\n", res.File)
			fmt.Fprintf(w, "Kind:     %s\n", res.Kind)
			fmt.Fprintf(w, "Encoding: %s\n", res.Encoding)
			if !res.Header.Found() {
				fmt.Fprintln(w, "Header:   not found")
				return nil
			}
			fmt.Fprintf(w, "Format:   %s\n", res.Format)
			fmt.Fprintf(w, "Header:   row %d (%s)\n", res.Header.Row+1, strings.Join(res.Header.Labels, " | "))
			fmt.Fprintf(w, "Rows:     %d\n", res.Rows)

			t := table.NewWriter()
			t.SetOutputMirror(w)
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"Field", "Column", "Label"})
			for f := importer.FieldDate; f <= importer.FieldCurrency; f++ {
				i := res.Columns.Index(f)
				if i < 0 {
					t.AppendRow(table.Row{f, "-", ""})
					continue
				}
				t.AppendRow(table.Row{f, i + 1, res.Header.Labels[i]})
			}
			t.Render()
			return nil
		},
	}
}
