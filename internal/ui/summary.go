package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/productdevbook/serial-logger/internal/pipeline"
	"github.com/productdevbook/serial-logger/internal/record"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var columns = []string{"PORT", "DESCRIPTION", "VID", "PID", "SERIAL", "MANUFACTURER"}

func displayRow(r record.PortRecord) []string {
	return []string{r.Port, r.Description, orDash(r.VID), orDash(r.PID), r.SerialNumber, r.Manufacturer}
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// Table renders records as a bordered table.
func Table(records []record.PortRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, displayRow(r))
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// Summary renders the outcome of a collection run.
func Summary(res *pipeline.Result) string {
	var b strings.Builder

	fmt.Fprintln(&b, titleStyle.Render("Serial ports on "+res.Hostname))
	fmt.Fprintln(&b, Table(res.Records))
	fmt.Fprintln(&b, dimStyle.Render("Report: ")+res.ReportPath)

	switch res.Notify {
	case pipeline.NotifySucceeded:
		fmt.Fprintln(&b, okStyle.Render("Uploaded to Slack"))
	case pipeline.NotifyFailed:
		fmt.Fprintln(&b, warnStyle.Render("Slack upload failed, see the log"))
	default:
		fmt.Fprintln(&b, dimStyle.Render("Slack upload skipped (no token or channel)"))
	}

	return b.String()
}
