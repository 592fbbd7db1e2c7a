// Package analytics provides the analytics tab: usage summary, credit
// consumption trend, and query distribution.
package analytics

import (
	"encoding/json"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/app"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/logger"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the analytics tab.
type keyMap struct {
	Up   key.Binding
	Down key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the analytics tab state.
type Model struct {
	state    *app.State
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int

	// Decoded payloads, refreshed when the underlying state changes.
	usage        *models.UsageStats
	credits      []models.CreditPoint
	distribution []models.QueryBucket
}

// New creates a new analytics model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Loading analytics..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.decodeAll()
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.MetricUpdatedMsg:
		m.decodeMetric(msg.Result.Metric)

	case app.SyncFinishedMsg, app.TimeRangeChangedMsg:
		m.decodeAll()

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) decodeAll() {
	m.decodeMetric(models.MetricUsageStats)
	m.decodeMetric(models.MetricCreditConsumption)
	m.decodeMetric(models.MetricQueryDistribution)
}

// decodeMetric unpacks one metric's raw payload into the typed form
// this tab renders. A payload that fails to decode is dropped and the
// widget falls back to its placeholder.
func (m *Model) decodeMetric(metric models.Metric) {
	st := m.state.Metric(metric)
	if len(st.Data) == 0 {
		return
	}

	switch metric {
	case models.MetricUsageStats:
		var usage models.UsageStats
		if err := json.Unmarshal(st.Data, &usage); err != nil {
			logger.Warn("failed to decode usage stats", "error", err)
			m.usage = nil
			return
		}
		m.usage = &usage

	case models.MetricCreditConsumption:
		var payload struct {
			Points []models.CreditPoint `json:"points"`
		}
		if err := json.Unmarshal(st.Data, &payload); err != nil {
			logger.Warn("failed to decode credit consumption", "error", err)
			m.credits = nil
			return
		}
		m.credits = payload.Points

	case models.MetricQueryDistribution:
		var payload struct {
			Buckets []models.QueryBucket `json:"buckets"`
		}
		if err := json.Unmarshal(st.Data, &payload); err != nil {
			logger.Warn("failed to decode query distribution", "error", err)
			m.distribution = nil
			return
		}
		m.distribution = payload.Buckets
	}
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down}
}
