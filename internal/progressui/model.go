package progressui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/surge-downloader/fastdl/internal/engine/transfer"
)

const barWidth = 30

type progressMsg transfer.ProgressEvent
type doneMsg struct{}

type row struct {
	url        string
	downloaded int64
	total      int64
	speedMBps  float64
	percent    float64
	bar        progress.Model
}

// model is the bubbletea model for the headless progress view: one
// scrolling bar per in-flight URL, updated as ProgressEvents arrive.
type model struct {
	rows  map[string]*row
	order []string
}

func newModel() model {
	return model{rows: make(map[string]*row)}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch ev := msg.(type) {
	case progressMsg:
		r, ok := m.rows[ev.URL]
		if !ok {
			r = &row{url: ev.URL, bar: progress.New(progress.WithGradient(string(colorNeonPink), string(colorNeonCyan)))}
			m.rows[ev.URL] = r
			m.order = append(m.order, ev.URL)
		}
		r.downloaded = ev.Downloaded
		r.total = ev.Total
		r.speedMBps = ev.SpeedMBps
		r.percent = ev.PercentComplete
		return m, nil
	case doneMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	for _, url := range m.order {
		b.WriteString(renderRow(m.rows[url]))
		b.WriteString("\n")
	}
	return b.String()
}

var (
	labelStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	doneStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
)

func renderRow(r *row) string {
	r.bar.Width = barWidth
	bar := r.bar.ViewAs(r.percent / 100)

	label := labelStyle.Render(truncateName(r.url, 24))
	if r.percent >= 100 {
		label = doneStyle.Render(truncateName(r.url, 24))
	}

	return fmt.Sprintf("%s %s %5.1f%%  %.2f MB/s", label, bar, r.percent, r.speedMBps)
}

func truncateName(rawURL string, n int) string {
	name := filepath.Base(rawURL)
	if len(name) <= n {
		return name
	}
	return name[:n-1] + "…"
}
