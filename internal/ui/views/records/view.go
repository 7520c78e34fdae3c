package records

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	exercisedto "exlog/internal/modules/exercise/dto"
	"exlog/internal/ui/theme"
)

// SelectMsg asks the app to select the record with ID.
type SelectMsg struct {
	ID string
}

type recordItem struct {
	record exercisedto.RecordOutput
}

func (i recordItem) Title() string { return i.record.Label }

func (i recordItem) Description() string {
	r := i.record
	extra := "cadence " + formatNumber(r.CadenceSpm) + " spm"
	if r.Kind == "swimming" {
		extra = "rest " + formatNumber(r.RestTimeMin) + " min"
	}
	return fmt.Sprintf("%s km · %s min · %.1f km/h · %s", formatNumber(r.DistanceKm), formatNumber(r.DurationMin), r.SpeedKmH, extra)
}

func (i recordItem) FilterValue() string { return i.record.Label }

type Model struct {
	list   list.Model
	width  int
	height int
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Exercises"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{list: l}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() {
			if id, ok := m.SelectedID(); ok {
				return m, func() tea.Msg { return SelectMsg{ID: id} }
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Upsert adds a record, or refreshes it when the ID is already listed.
// New records go to the top, matching the original list order on screen.
func (m *Model) Upsert(record exercisedto.RecordOutput) tea.Cmd {
	for idx, it := range m.list.Items() {
		if item, ok := it.(recordItem); ok && item.record.ID == record.ID {
			return m.list.SetItem(idx, recordItem{record: record})
		}
	}
	return m.list.InsertItem(0, recordItem{record: record})
}

func (m *Model) Reset() tea.Cmd {
	return m.list.SetItems(nil)
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) SelectedID() (string, bool) {
	if item, ok := m.list.SelectedItem().(recordItem); ok {
		return item.record.ID, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) View() string {
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(m.list.View())
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
