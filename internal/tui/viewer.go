// Package tui is the terminal front-end over a session. It is a consumer
// of the engine, not part of it: all data access goes through the
// session's view, and long computations arrive as messages from the
// session's result channel rather than blocking the event loop.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/gridline-labs/gridline/internal/export"
	"github.com/gridline-labs/gridline/internal/filter"
	"github.com/gridline-labs/gridline/internal/session"
	"github.com/gridline-labs/gridline/internal/sorter"
)

// maxVisibleRows caps how many rows the widget materializes; the engine
// view itself is unbounded.
const maxVisibleRows = 1000

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

type resultMsg struct{ res session.Result }

// Model is the bubbletea model for the viewer.
type Model struct {
	sess *session.Session
	path string

	tbl    table.Model
	width  int
	height int

	selCol    int
	filtering bool
	filterBuf string
	status    string
	errText   string
}

// New builds a viewer over an already-loaded session.
func New(sess *session.Session, path string) Model {
	m := Model{sess: sess, path: path}
	m.width, m.height = 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.width, m.height = w, h
	}
	m.tbl = table.New(table.WithFocused(true), table.WithHeight(m.tableHeight()))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	m.tbl.SetStyles(styles)
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Update handles key and result messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.tbl.SetHeight(m.tableHeight())
		m.refresh()
		return m, nil

	case resultMsg:
		installed, err := m.sess.Install(msg.res)
		if err != nil {
			m.errText = err.Error()
			return m, nil
		}
		if installed {
			m.errText = ""
			m.refresh()
			m.status = m.describeView()
		}
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilterInput(msg)
		}
		return m.updateNormal(msg)
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		if m.selCol > 0 {
			m.selCol--
			m.refresh()
		}
		return m, nil
	case "right", "l":
		if t := m.sess.Table(); t != nil && m.selCol < t.ColumnCount()-1 {
			m.selCol++
			m.refresh()
		}
		return m, nil
	case "s":
		return m, m.startSort(sorter.Ascending)
	case "S":
		return m, m.startSort(sorter.Descending)
	case "/":
		m.filtering = true
		m.filterBuf = ""
		return m, nil
	case "c":
		m.sess.ClearFilter()
		m.refresh()
		m.status = m.describeView()
		return m, nil
	case "u":
		if err := m.sess.Undo(); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.errText = ""
		m.refresh()
		return m, m.refreshFilter()
	case "r":
		if err := m.sess.Redo(); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.errText = ""
		m.refresh()
		return m, m.refreshFilter()
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m Model) updateFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterBuf = ""
		return m, nil
	case "enter":
		m.filtering = false
		expr := strings.TrimSpace(m.filterBuf)
		m.filterBuf = ""
		if expr == "" {
			return m, nil
		}
		set, err := m.parseFilter(expr)
		if err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.errText = ""
		return m, m.startFilter(set)
	case "backspace":
		if len(m.filterBuf) > 0 {
			m.filterBuf = m.filterBuf[:len(m.filterBuf)-1]
		}
		return m, nil
	default:
		if len(msg.String()) == 1 || msg.String() == "space" {
			s := msg.String()
			if s == "space" {
				s = " "
			}
			m.filterBuf += s
		}
		return m, nil
	}
}

// parseFilter turns an "op value" expression into a single-condition set
// on the selected column.
func (m Model) parseFilter(expr string) (filter.Set, error) {
	fields := strings.SplitN(expr, " ", 2)
	op, err := filter.ParseOperator(fields[0])
	if err != nil {
		return filter.Set{}, err
	}
	value := ""
	if len(fields) > 1 {
		value = strings.TrimSpace(fields[1])
	}
	return filter.Set{Conditions: []filter.Condition{{Column: m.selCol, Operator: op, Value: value}}}, nil
}

// startSort issues an async sort request; awaitResult delivers whatever
// lands next on the session channel, and Install decides whether it is
// still current.
func (m Model) startSort(dir sorter.Direction) tea.Cmd {
	m.sess.StartSort(m.selCol, dir)
	return m.awaitResult()
}

func (m Model) startFilter(set filter.Set) tea.Cmd {
	m.sess.StartFilter(set)
	return m.awaitResult()
}

func (m Model) refreshFilter() tea.Cmd {
	if !m.sess.ViewStale() {
		return nil
	}
	m.sess.StartFilter(m.sess.FilterSet())
	return m.awaitResult()
}

func (m Model) awaitResult() tea.Cmd {
	results := m.sess.Results()
	return func() tea.Msg {
		return resultMsg{res: <-results}
	}
}

// refresh rebuilds the widget columns and rows from the session view.
func (m *Model) refresh() {
	t := m.sess.Table()
	if t == nil {
		return
	}
	headers := export.Headers(t)
	colWidth := max(8, (m.width-4)/max(1, len(headers))-2)

	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		title := h
		if i == m.selCol {
			title = selectedStyle.Render("[" + h + "]")
		}
		cols[i] = table.Column{Title: title, Width: colWidth}
	}

	var rows []table.Row
	for row := range export.VisibleRows(t, m.sess.View()) {
		if len(rows) == maxVisibleRows {
			break
		}
		rows = append(rows, table.Row(row))
	}
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}

func (m Model) describeView() string {
	var parts []string
	if ss := m.sess.SortState(); ss != nil {
		parts = append(parts, fmt.Sprintf("sorted by column %d %s", ss.Column+1, ss.Direction))
	}
	if set := m.sess.FilterSet(); !set.Empty() {
		parts = append(parts, fmt.Sprintf("%d filter condition(s)", len(set.Conditions)))
	}
	if len(parts) == 0 {
		return "unsorted, unfiltered"
	}
	return strings.Join(parts, ", ")
}

func (m Model) tableHeight() int {
	return max(5, m.height-6)
}

// View renders the viewer.
func (m Model) View() string {
	t := m.sess.Table()
	if t == nil {
		return "no table loaded"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("gridline — %s", m.path)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d rows × %d columns (%d visible)",
		t.RowCount(), t.ColumnCount(), m.sess.View().VisibleCount(t.RowCount()))))
	b.WriteString("\n")
	b.WriteString(m.tbl.View())
	b.WriteString("\n")

	switch {
	case m.filtering:
		b.WriteString(statusStyle.Render("filter (op value): " + m.filterBuf + "█"))
	case m.errText != "":
		b.WriteString(errorStyle.Render(m.errText))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("←/→ column · s/S sort · / filter · c clear · u undo · r redo · q quit"))
	return b.String()
}

// Run opens the viewer and blocks until the user quits.
func Run(sess *session.Session, path string) error {
	p := tea.NewProgram(New(sess, path), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
