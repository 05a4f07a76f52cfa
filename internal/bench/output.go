package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/kroncalc/internal/format"
	"github.com/agbru/kroncalc/internal/ui"
)

// Output formats accepted by Write.
const (
	FormatTable   = "table"
	FormatGnuplot = "gnuplot"
	FormatJSON    = "json"
)

// Write renders series in the named format.
func Write(w io.Writer, fmtName string, series []Series) error {
	switch fmtName {
	case FormatTable, "":
		return WriteTable(w, series)
	case FormatGnuplot:
		return WriteGnuplot(w, series)
	case FormatJSON:
		return WriteJSON(w, series)
	}
	return fmt.Errorf("bench: unknown output format %q", fmtName)
}

// WriteTable prints one aligned table per series, with the fastest cell of
// each row highlighted.
func WriteTable(w io.Writer, series []Series) error {
	for i, s := range series {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s%s%s\n", ui.ColorBold(), s.Op, ui.ColorReset())
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(tw, "bits\t%s\t\n", strings.Join(s.Columns, "\t"))
		for ri, row := range s.Rows {
			fastest := s.Fastest(ri)
			var b strings.Builder
			fmt.Fprintf(&b, "%s\t", format.FormatNumberString(fmt.Sprint(row.Bits)))
			for j, ns := range row.NsPerOp {
				cell := format.FormatNsPerOp(ns)
				if j == fastest {
					cell = ui.ColorGreen() + cell + ui.ColorReset()
				}
				b.WriteString(cell)
				b.WriteByte('\t')
			}
			fmt.Fprintln(tw, b.String())
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// WriteGnuplot prints the series as gnuplot data blocks separated by blank
// lines. Each block starts with a comment naming the operation and its
// columns, so that "plot ... index N" selects one operation.
func WriteGnuplot(w io.Writer, series []Series) error {
	for i, s := range series {
		if i > 0 {
			if _, err := fmt.Fprint(w, "\n\n"); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "# %s\n", s.Op)
		fmt.Fprintf(w, "# len %s\n", strings.Join(s.Columns, " "))
		for _, row := range s.Rows {
			var b strings.Builder
			fmt.Fprintf(&b, "%d", row.Bits)
			for _, ns := range row.NsPerOp {
				fmt.Fprintf(&b, " %15.2f", ns)
			}
			b.WriteByte('\n')
			if _, err := io.WriteString(w, b.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteJSON encodes series as an indented JSON array.
func WriteJSON(w io.Writer, series []Series) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if series == nil {
		series = []Series{}
	}
	return enc.Encode(series)
}
