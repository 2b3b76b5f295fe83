package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/productdevbook/serial-logger/internal/record"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Browser is an interactive, filterable table of port records.
type Browser struct {
	records []record.PortRecord
	visible []record.PortRecord
	table   table.Model
	filter  textinput.Model
}

func NewBrowser(records []record.PortRecord, query string) Browser {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter by port, description, manufacturer, vid:pid"
	ti.SetValue(query)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: columns[0], Width: 22},
			{Title: columns[1], Width: 36},
			{Title: columns[2], Width: 6},
			{Title: columns[3], Width: 6},
			{Title: columns[4], Width: 22},
			{Title: columns[5], Width: 24},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	b := Browser{records: records, table: t, filter: ti}
	b.applyFilter()

	return b
}

// Visible returns the records currently shown.
func (b Browser) Visible() []record.PortRecord {
	return b.visible
}

func (b *Browser) applyFilter() {
	b.visible = Filter(b.records, b.filter.Value())

	rows := make([]table.Row, 0, len(b.visible))
	for _, r := range b.visible {
		rows = append(rows, displayRow(r))
	}
	b.table.SetRows(rows)
	b.table.SetCursor(0)
}

func (b Browser) Init() tea.Cmd {
	return nil
}

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.table.SetHeight(max(msg.Height-6, 3))
		return b, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return b, tea.Quit
		}

		if b.filter.Focused() {
			switch msg.String() {
			case "enter", "esc":
				b.filter.Blur()
				b.table.Focus()
				return b, nil
			}

			var cmd tea.Cmd
			b.filter, cmd = b.filter.Update(msg)
			b.applyFilter()
			return b, cmd
		}

		switch msg.String() {
		case "q":
			return b, tea.Quit
		case "/":
			b.table.Blur()
			return b, b.filter.Focus()
		case "esc":
			b.filter.SetValue("")
			b.applyFilter()
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return b, cmd
}

func (b Browser) View() string {
	help := fmt.Sprintf("%d/%d ports • / filter • esc clear • q quit", len(b.visible), len(b.records))

	return titleStyle.Render("Serial ports") + "\n" +
		b.filter.View() + "\n" +
		b.table.View() + "\n" +
		helpStyle.Render(help) + "\n"
}

// RunBrowser shows records interactively until the user quits.
func RunBrowser(records []record.PortRecord, query string, out io.Writer) error {
	_, err := tea.NewProgram(NewBrowser(records, query), tea.WithOutput(out)).Run()
	return err
}
