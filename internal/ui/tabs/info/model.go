// Package info provides the info tab: configuration, session,
// connectivity, and cache diagnostics.
package info

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/app"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/config"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/services"
)

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Probe key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Probe: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "probe connectivity"),
		),
	}
}

// cacheInfoMsg carries a cache snapshot for display.
type cacheInfoMsg struct {
	keys []string
	size int
	err  error
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	services *services.Manager
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	cacheKeys []string
	cacheSize int
	cacheErr  error
}

// New creates a new info model.
func New(state *app.State, cfg *config.Config, mgr *services.Manager) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		services: mgr,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return m.loadCacheInfoCmd()
}

// loadCacheInfoCmd reads the cache snapshot off the UI goroutine.
func (m *Model) loadCacheInfoCmd() tea.Cmd {
	if m.services == nil {
		return nil
	}
	store := m.services.Cache()
	return func() tea.Msg {
		ctx := context.Background()
		keys, err := store.Keys(ctx)
		if err != nil {
			return cacheInfoMsg{err: err}
		}
		n, err := store.Len(ctx)
		if err != nil {
			return cacheInfoMsg{err: err}
		}
		return cacheInfoMsg{keys: keys, size: n}
	}
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case cacheInfoMsg:
		m.cacheKeys = msg.keys
		m.cacheSize = msg.size
		m.cacheErr = msg.err

	case app.SyncFinishedMsg:
		// The sync just rewrote cache rows; refresh the snapshot.
		cmds = append(cmds, m.loadCacheInfoCmd())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Probe):
			if m.services != nil {
				m.services.CheckConnectivityNow()
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Probe}
}
