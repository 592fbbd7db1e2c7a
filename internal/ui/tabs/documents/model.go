// Package documents provides the top documents tab.
package documents

import (
	"encoding/json"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/app"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/logger"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the documents tab.
type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "next document"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "prev document"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last"),
		),
	}
}

// Model represents the documents tab state.
type Model struct {
	state         *app.State
	spinner       components.LoadingSpinner
	keys          keyMap
	width         int
	height        int
	selectedIndex int

	docs []models.DocumentEntry
}

// New creates a new documents model.
func New(state *app.State) *Model {
	return &Model{
		state:   state,
		spinner: components.NewSpinner("Loading documents..."),
		keys:    defaultKeyMap(),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.decode()
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.MetricUpdatedMsg:
		if msg.Result.Metric == models.MetricTopDocuments {
			m.decode()
		}

	case app.SyncFinishedMsg, app.TimeRangeChangedMsg:
		m.decode()

	case tea.KeyMsg:
		m.handleKey(msg)

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Next):
		if m.selectedIndex < len(m.docs)-1 {
			m.selectedIndex++
		}
	case key.Matches(msg, m.keys.Prev):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(msg, m.keys.First):
		m.selectedIndex = 0
	case key.Matches(msg, m.keys.Last):
		if len(m.docs) > 0 {
			m.selectedIndex = len(m.docs) - 1
		}
	}
}

func (m *Model) decode() {
	st := m.state.Metric(models.MetricTopDocuments)
	if len(st.Data) == 0 {
		return
	}

	var payload struct {
		Documents []models.DocumentEntry `json:"documents"`
	}
	if err := json.Unmarshal(st.Data, &payload); err != nil {
		logger.Warn("failed to decode top documents", "error", err)
		m.docs = nil
		return
	}
	m.docs = payload.Documents

	if m.selectedIndex >= len(m.docs) {
		m.selectedIndex = max(0, len(m.docs)-1)
	}
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Next, m.keys.Prev}
}
