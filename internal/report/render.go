// Package report renders load and validation reports for the terminal or as
// JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text or json): %w", s, nbaetl.ErrInvalidConfig)
	}
}

// WriteLoadSummary prints the per-table counts of a load run.
func WriteLoadSummary(w io.Writer, r *nbaetl.LoadReport, styled bool) error {
	st := NewStyles(styled)

	rows := make([][]string, 0, len(r.Tables)+1)
	for _, t := range r.Tables {
		rows = append(rows, []string{
			t.Table,
			strconv.FormatInt(t.Deleted, 10),
			strconv.FormatInt(t.Inserted, 10),
			strconv.Itoa(t.Statements),
		})
	}
	statements := 0
	for _, t := range r.Tables {
		statements += t.Statements
	}
	rows = append(rows, []string{
		"total",
		strconv.FormatInt(r.TotalDeleted(), 10),
		strconv.FormatInt(r.TotalInserted(), 10),
		strconv.Itoa(statements),
	})

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers("TABLE", "DELETED", "INSERTED", "STATEMENTS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			if row == table.HeaderRow {
				return st.Header.Padding(0, 1)
			}
			return s
		})

	title := fmt.Sprintf("%s %s load committed in %s", SymbolCheck, r.Mode, r.Duration().Round(time.Millisecond))
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n",
		st.Success.Render(title),
		st.Muted.Render("run "+r.RunID.String()),
		tbl.String())
	return err
}

// WriteValidation prints every rule result grouped by category, followed by
// the totals and the verdict.
func WriteValidation(w io.Writer, r *nbaetl.ValidationReport, styled bool) error {
	st := NewStyles(styled)
	var sb strings.Builder

	sb.WriteString(st.Title.Render("NBA star schema validation"))
	sb.WriteString(st.Muted.Render(" (" + r.CheckedAt.UTC().Format("2006-01-02 15:04:05 MST") + ")"))
	sb.WriteString("\n")

	width := 0
	for _, res := range r.Results {
		width = max(width, len(res.Name))
	}

	for _, cat := range nbaetl.Categories {
		var results []nbaetl.RuleResult
		for _, res := range r.Results {
			if res.Category == cat {
				results = append(results, res)
			}
		}
		if len(results) == 0 {
			continue
		}

		sb.WriteString("\n" + st.Category.Render(cat.String()) + "\n")
		for _, res := range results {
			glyph, style := symbolFor(res.Outcome, st)
			fmt.Fprintf(&sb, "  %s %-*s  %-7s  %s\n",
				style.Render(glyph), width, res.Name, res.Severity, res.Message)
			for _, ex := range res.Examples {
				sb.WriteString(st.Muted.Render("      "+SymbolArrowRight+" "+formatExample(res.Columns, ex)) + "\n")
			}
			if hidden := res.Offending - len(res.Examples); hidden > 0 && len(res.Examples) > 0 {
				sb.WriteString(st.Muted.Render(fmt.Sprintf("      ... and %d more", hidden)) + "\n")
			}
		}
	}

	fmt.Fprintf(&sb, "\nSummary: %d checks, %d passed, %d warnings, %d errors\n",
		r.Total, r.Passed, r.Warnings, r.Errors)

	verdict := r.Verdict.String()
	switch r.Verdict {
	case nbaetl.VerdictPass:
		verdict = st.Success.Render(SymbolCheck + " " + verdict)
	case nbaetl.VerdictPassWithWarnings:
		verdict = st.Warning.Render(SymbolBullet + " " + verdict)
	default:
		verdict = st.Error.Render(SymbolCross + " " + verdict)
	}
	sb.WriteString("Verdict: " + verdict + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func symbolFor(o nbaetl.Outcome, st Styles) (string, lipgloss.Style) {
	switch o {
	case nbaetl.OutcomePass:
		return SymbolCheck, st.Success
	case nbaetl.OutcomeWarning:
		return SymbolBullet, st.Warning
	default:
		return SymbolCross, st.Error
	}
}

func formatExample(columns []string, values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		name := fmt.Sprintf("col%d", i+1)
		if i < len(columns) {
			name = columns[i]
		}
		parts[i] = name + "=" + formatValue(v)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		return x.UTC().Format("2006-01-02 15:04:05")
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

// WriteJSON encodes v with two-space indentation.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
