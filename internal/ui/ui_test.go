package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productdevbook/serial-logger/internal/pipeline"
	"github.com/productdevbook/serial-logger/internal/record"
)

func str(s string) *string { return &s }

var sample = []record.PortRecord{
	{Hostname: "lab", Port: "/dev/ttyS4", Description: "ttyS4"},
	{Hostname: "lab", Port: "/dev/ttyACM0", Description: "Arduino Uno", VID: str("2341"), PID: str("0043"), Manufacturer: "Arduino (www.arduino.cc)"},
	{Hostname: "lab", Port: "/dev/ttyUSB0", Description: "CP2102 USB to UART Bridge Controller", VID: str("10C4"), PID: str("EA60"), Manufacturer: "Silicon Labs"},
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFilter(t *testing.T) {
	assert.Equal(t, sample, Filter(sample, ""))
	assert.Equal(t, sample, Filter(sample, "   "))

	got := Filter(sample, "arduino")
	require.Len(t, got, 1)
	assert.Equal(t, "/dev/ttyACM0", got[0].Port)

	got = Filter(sample, "10C4:EA60")
	require.Len(t, got, 1)
	assert.Equal(t, "/dev/ttyUSB0", got[0].Port)

	assert.Empty(t, Filter(sample, "zzzz"))
}

func TestBrowser_InitialQuery(t *testing.T) {
	b := NewBrowser(sample, "silicon")

	require.Len(t, b.Visible(), 1)
	assert.Equal(t, "/dev/ttyUSB0", b.Visible()[0].Port)
	assert.Contains(t, b.View(), "1/3 ports")
}

func TestBrowser_TypingFilters(t *testing.T) {
	var m tea.Model = NewBrowser(sample, "")

	m, _ = m.Update(keys("/"))
	for _, r := range "arduino" {
		m, _ = m.Update(keys(string(r)))
	}

	b := m.(Browser)
	require.Len(t, b.Visible(), 1)
	assert.Equal(t, "/dev/ttyACM0", b.Visible()[0].Port)

	// leave the filter, then clear it
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.(Browser).Visible(), 3)
}

func TestBrowser_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{keys("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := NewBrowser(sample, "").Update(msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestBrowser_QWhileFilteringIsText(t *testing.T) {
	var m tea.Model = NewBrowser(sample, "")

	m, _ = m.Update(keys("/"))
	m, _ = m.Update(keys("q"))

	assert.Equal(t, "q", m.(Browser).filter.Value())
}

func TestSummary(t *testing.T) {
	out := Summary(&pipeline.Result{
		Hostname:   "lab",
		Records:    sample,
		ReportPath: "csv_logs/serial_ports_lab_20250304_090507.csv",
		Notify:     pipeline.NotifySkipped,
	})

	assert.Contains(t, out, "Serial ports on lab")
	assert.Contains(t, out, "/dev/ttyACM0")
	assert.Contains(t, out, "2341")
	assert.Contains(t, out, "csv_logs/serial_ports_lab_20250304_090507.csv")
	assert.Contains(t, out, "skipped")
}

func TestTable_PlaceholderRecord(t *testing.T) {
	out := Table(record.Normalize(nil, "lab"))

	assert.Contains(t, out, record.NoDevicesDescription)
	assert.Contains(t, out, "PORT")
}
