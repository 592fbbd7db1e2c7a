package info

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/styles"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderConfigCard())
	sections = append(sections, m.renderSessionCard())
	sections = append(sections, m.renderCacheCard())
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	w := m.width - 6
	if w < 50 {
		w = 50
	}
	if w > 80 {
		w = 80
	}
	return w
}

// renderConfigCard renders the configuration paths card.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config != nil {
		rows = append(rows, m.renderRow("API Base URL", m.config.APIBaseURL))
		rows = append(rows, m.renderRow("Session File", m.config.SessionPath))
		rows = append(rows, m.renderRow("Cache Database", m.config.CacheDBPath))
		rows = append(rows, m.renderRow("Log File", m.config.LogPath))
		rows = append(rows, m.renderRow("Refresh Interval", m.config.RefreshInterval.String()))
		rows = append(rows, m.renderRow("Probe Interval", m.config.ProbeInterval.String()))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(strings.Join(rows, "\n"))
}

// renderSessionCard renders the login session and connectivity card.
func (m *Model) renderSessionCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Session & Connectivity"))
	rows = append(rows, "")

	if m.services != nil {
		sess := m.services.Session()
		if sess.Authenticated() {
			rows = append(rows, m.renderRow("Signed in as", sess.Email()))
		} else {
			rows = append(rows, m.renderRow("Session", styles.WarningTextStyle.Render("not signed in")))
		}
	}

	if m.state.IsOnline() {
		rows = append(rows, m.renderRow("Backend", styles.SuccessTextStyle.Render("online")))
	} else {
		rows = append(rows, m.renderRow("Backend", styles.ErrorTextStyle.Render("offline")))
	}

	if last := m.state.LastUpdated(); !last.IsZero() {
		rows = append(rows, m.renderRow("Last update", last.Format(time.RFC1123)))
	}

	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render("Press 'p' to probe connectivity now"))

	return styles.CardStyle.Width(m.cardWidth()).Render(strings.Join(rows, "\n"))
}

// renderCacheCard renders the offline cache diagnostics card.
func (m *Model) renderCacheCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Offline Cache"))
	rows = append(rows, "")

	switch {
	case m.cacheErr != nil:
		rows = append(rows, styles.ErrorTextStyle.Render("⚠ "+m.cacheErr.Error()))
	case m.cacheSize == 0:
		rows = append(rows, styles.HelpStyle.Render("Cache is empty"))
	default:
		rows = append(rows, m.renderRow("Entries", fmt.Sprintf("%d", m.cacheSize)))
		rows = append(rows, "")
		for _, k := range m.cacheKeys {
			rows = append(rows, styles.ListItemStyle.Render(k))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(strings.Join(rows, "\n"))
}

// renderAboutCard renders the version card.
func (m *Model) renderAboutCard() string {
	ver, commit, date := version.Details()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About"))
	rows = append(rows, "")
	rows = append(rows, m.renderRow("Version", ver))
	rows = append(rows, m.renderRow("Commit", commit))
	rows = append(rows, m.renderRow("Built", date))
	rows = append(rows, m.renderRow("Runtime", fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)))

	return styles.CardStyle.Width(m.cardWidth()).Render(strings.Join(rows, "\n"))
}

func (m *Model) renderRow(label, value string) string {
	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(18).
		Render(label)
	return labelStr + " " + value
}
