package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Icons and symbols for different log types
const (
	IconSuccess = "✅"
	IconError   = "❌"
	IconWarning = "⚠️"
	IconInfo    = "ℹ️"
	IconRocket  = "🚀"
	IconNetwork = "🌐"
	IconChart   = "📈"
	IconFile    = "📄"
	IconRefresh = "🔄"
	IconDot     = "•"
	IconArrow   = "→"
)

// Success logs a success message with a green checkmark
func Success(args ...interface{}) {
	defaultLogger.Info(IconSuccess + " " + fmt.Sprint(args...))
}

// Successf logs a formatted success message
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Progress logs a progress message with a refresh icon
func Progress(args ...interface{}) {
	defaultLogger.Info(IconRefresh + " " + fmt.Sprint(args...))
}

// Progressf logs a formatted progress message
func Progressf(format string, args ...interface{}) {
	Progress(fmt.Sprintf(format, args...))
}

// Network logs a network-related message
func Network(args ...interface{}) {
	defaultLogger.Debug(IconNetwork + " " + fmt.Sprint(args...))
}

// Networkf logs a formatted network message
func Networkf(format string, args ...interface{}) {
	Network(fmt.Sprintf(format, args...))
}

// LogSection creates a visual section separator
func LogSection(title string) {
	printRule(output(), "=", 50, headerColorize(title), ruleColorize)
}

// LogSubSection creates a visual subsection separator
func LogSubSection(title string) {
	sub := func(s string) string {
		if colorEnabled() {
			return subColor.Sprint(s)
		}
		return s
	}
	printRule(output(), "-", 40, sub(title), sub)
}

func printRule(w io.Writer, ch string, width int, title string, paint func(string) string) {
	line := paint(strings.Repeat(ch, width))
	_, _ = fmt.Fprintln(w, line)
	_, _ = fmt.Fprintln(w, title)
	_, _ = fmt.Fprintln(w, line)
}

func headerColorize(s string) string {
	if colorEnabled() {
		return headerColor.Sprint(s)
	}
	return s
}

func ruleColorize(s string) string {
	if colorEnabled() {
		return ruleColor.Sprint(s)
	}
	return s
}

// LogList logs a list of items with bullets
func LogList(title string, items []string) {
	Info(title)
	w := output()
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "  %s %s\n", IconDot, item)
	}
}

// LogKeyValue logs a key-value pair with nice formatting
func LogKeyValue(key string, value interface{}) {
	w := output()
	if colorEnabled() {
		_, _ = fmt.Fprintf(w, "%s %v\n", prefixColor.Sprint(key+":"), value)
		return
	}
	_, _ = fmt.Fprintf(w, "%s: %v\n", key, value)
}

// Table collects rows and renders them with lipgloss.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a new table
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Render returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	bold := lipgloss.NewStyle().Bold(colorEnabled()).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return bold
			}
			return cell
		})
	return tbl.String()
}

// Print writes the table to w.
func (t *Table) Print(w io.Writer) {
	out := t.Render()
	if out == "" {
		return
	}
	_, _ = fmt.Fprintln(w, out)
}
