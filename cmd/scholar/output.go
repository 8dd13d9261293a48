package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/scholar/engine"
	"github.com/spektr-org/scholar/helpers"
)

// ============================================================================
// OUTPUT -- one report, five formats
// ============================================================================

// report is what a command produces. Text is optional: when empty, the text
// format renders Tables instead.
type report struct {
	Text   string
	Value  any
	Tables []*engine.TableData
	Result *engine.Result // set for Execute results
}

// emit writes r in the configured format to --out or stdout.
func (a *app) emit(cmd *cobra.Command, r report) error {
	return a.write(cmd, func(w io.Writer) error {
		return writeReport(w, a.format, r)
	})
}

// write hands fn the --out file, or stdout when --out is not set.
func (a *app) write(cmd *cobra.Command, fn func(io.Writer) error) error {
	if a.out == "" {
		return fn(cmd.OutOrStdout())
	}

	f, err := os.Create(a.out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return err
	}
	a.log.Info("output written", zap.String("path", a.out))
	return nil
}

func writeReport(w io.Writer, format string, r report) error {
	switch format {
	case "json", "pretty":
		return writeJSON(w, r.Value, format == "pretty")
	case "csv":
		if r.Result != nil {
			return helpers.WriteResultCSV(w, r.Result)
		}
		for i, t := range r.Tables {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := helpers.WriteTableCSV(w, t); err != nil {
				return err
			}
		}
		return nil
	case "xlsx":
		return helpers.WriteXLSX(w, r.Tables...)
	case "text", "":
		text := r.Text
		if text == "" {
			text = renderTables(r.Tables)
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(text, "\n"))
		return err
	default:
		return fmt.Errorf("unsupported format %q (want text, json, pretty, csv or xlsx)", format)
	}
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	var out []byte
	var err error
	if pretty {
		out, err = sonic.MarshalIndent(v, "", "  ")
	} else {
		out, err = sonic.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// renderTables lays tables out as aligned columns, separated by blank lines.
func renderTables(tables []*engine.TableData) string {
	var b strings.Builder
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n")
		}
		if t.Title != "" {
			b.WriteString(t.Title + "\n")
		}
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(t.Headers(), "\t"))
		for _, row := range t.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		tw.Flush()
		if t.Summary != nil && t.Summary.Label != "" {
			b.WriteString(t.Summary.Label + "\n")
		}
	}
	return b.String()
}

// resultReport renders an Execute result: summary first, then its table.
func resultReport(result *engine.Result) report {
	table := helpers.ResultTable(result)
	text := result.Summary
	if result.Type == "table" || result.Type == "chart" {
		text = result.Summary + "\n\n" + renderTables([]*engine.TableData{table})
	}
	return report{Text: text, Value: result, Tables: []*engine.TableData{table}, Result: result}
}
