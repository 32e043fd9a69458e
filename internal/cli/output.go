package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rovshanmuradov/cryptocalc/internal/export"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats of the result printed to stdout.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// exportFlags are shared by every calculator command.
type exportFlags struct {
	path   string
	format string
	output string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "export", "", "also write the result to this file")
	cmd.Flags().StringVar(&f.format, "format", "csv", "export file format (csv, json)")
	cmd.Flags().StringVarP(&f.output, "output", "o", OutputTable, "output format (table, json, yaml)")
}

// validate checks the format flags before any work is done.
func (f *exportFlags) validate() error {
	if _, err := export.ParseFormat(f.format); err != nil {
		return err
	}
	switch f.output {
	case OutputTable, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output: %s", f.output)
	}
}

// emit prints the report and writes the export file when requested.
func (f *exportFlags) emit(cmd *cobra.Command, exporter *export.ResultExporter, report export.Report) error {
	if err := printReport(cmd.OutOrStdout(), f.output, report); err != nil {
		return err
	}
	if f.path == "" {
		return nil
	}

	format, _ := export.ParseFormat(f.format)
	path, err := exporter.Save(report, export.ExportOptions{Format: format, Path: f.path})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", path)
	return nil
}

type reportDocument struct {
	Report string       `json:"report" yaml:"report"`
	Rows   []export.Row `json:"rows" yaml:"rows"`
}

func printReport(w io.Writer, output string, report export.Report) error {
	switch output {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reportDocument{Report: report.Name, Rows: report.Rows})
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reportDocument{Report: report.Name, Rows: report.Rows}); err != nil {
			return err
		}
		return enc.Close()
	default:
		rows := make([][]string, len(report.Rows))
		for i, r := range report.Rows {
			rows[i] = []string{r.Parameter, r.Value}
		}
		_, err := fmt.Fprintln(w, renderTable([]string{"Parameter", "Value"}, rows))
		return err
	}
}

// renderTable draws rows with a header. Columns after the first are right
// aligned.
func renderTable(headers []string, rows [][]string) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col > 0 {
				return cell.Align(lipgloss.Right)
			}
			return cell
		}).
		String()
}

// quoteLabel renders a quote currency for column headers, e.g. "USD".
func quoteLabel(quote string) string {
	return strings.ToUpper(quote)
}
