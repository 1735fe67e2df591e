package dashboard

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

var historyHeaders = []string{"TIME", "TYPE", "DETAIL", "AMOUNT", "STATUS", "OPERATOR"}

// HistoryTable draws event log entries in the order given.
func HistoryTable(entries []domain.HistoryEntry) string {
	s := newStyles()
	if len(entries) == 0 {
		return s.empty.Render("No events recorded.")
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Timestamp,
			entry.Type,
			entry.Subtype,
			entry.Amount,
			entry.Status,
			entry.Operator,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.barBracket).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.title.Padding(0, 1)
			}
			return s.detail.Padding(0, 1)
		}).
		Headers(historyHeaders...).
		Rows(rows...).
		String()
}
