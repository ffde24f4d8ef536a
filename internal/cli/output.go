package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/rshade/lcacost/internal/config"
)

// tabPadding is the minimum gap between plain table columns.
const tabPadding = 2

// tableData is a rendered view: a title, a header row, body rows and
// optional notes printed under the table.
type tableData struct {
	Title   string
	Headers []string
	Rows    [][]string
	Notes   []string
}

// headerColor returns the Lip Gloss color used for table headers.
func headerColor() lipgloss.Color { return lipgloss.Color("39") }

// borderColor returns the Lip Gloss color used for table borders.
func borderColor() lipgloss.Color { return lipgloss.Color("240") }

// isWriterTerminal reports whether w is a terminal.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// outputFormat returns --output or the configured default.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString(flagOutput)
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case config.FormatTable, config.FormatJSON, config.FormatCSV:
		return format, nil
	default:
		return "", fmt.Errorf("%w, got %q", config.ErrInvalidOutputFormat, format)
	}
}

// render writes td as a table or CSV, or payload as JSON.
func render(cmd *cobra.Command, td tableData, payload any) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	switch format {
	case config.FormatJSON:
		return renderJSON(w, payload)
	case config.FormatCSV:
		return renderCSV(w, td)
	default:
		if isWriterTerminal(w) {
			return renderStyledTable(w, td)
		}
		return renderPlainTable(w, td)
	}
}

func renderJSON(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func renderCSV(w io.Writer, td tableData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(td.Headers); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if err := cw.WriteAll(td.Rows); err != nil {
		return fmt.Errorf("writing CSV rows: %w", err)
	}
	return nil
}

func renderPlainTable(w io.Writer, td tableData) error {
	if td.Title != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", td.Title); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(td.Headers, "\t")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	sep := make([]string, len(td.Headers))
	for i, h := range td.Headers {
		sep[i] = strings.Repeat("-", len([]rune(h)))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(sep, "\t")); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, row := range td.Rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writeNotes(w, td.Notes)
}

func renderStyledTable(w io.Writer, td tableData) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(headerColor()).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor())).
		Headers(td.Headers...).
		Rows(td.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if td.Title != "" {
		title := lipgloss.NewStyle().Bold(true).Foreground(headerColor()).Render(td.Title)
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	return writeNotes(w, td.Notes)
}

func writeNotes(w io.Writer, notes []string) error {
	if len(notes) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, n := range notes {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}
