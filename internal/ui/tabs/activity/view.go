package activity

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/app"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/components"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/styles"
)

// View renders the activity tab.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	st := m.state.Metric(models.MetricActivityLog)
	badge := components.DataBadge(st.FromCache, st.CachedAt)
	header := styles.CardTitleStyle.Render("Activity Log") + "  " + badge

	var body string
	switch {
	case st.Status == app.StatusError:
		body = styles.ErrorTextStyle.Render("⚠ " + st.Error)
	case len(st.Data) == 0 && (st.Status == app.StatusIdle || st.Status == app.StatusLoading):
		body = m.spinner.ViewWithLabel()
	case len(m.entries) == 0:
		body = styles.HelpStyle.Render("No activity in this time range")
	default:
		body = m.renderLog()
	}

	m.viewport.SetContent(header + "\n\n" + body)
	return styles.DocStyle.Render(m.viewport.View())
}

func (m *Model) renderLog() string {
	actorWidth := 20
	actionWidth := 24

	var rows []string
	for _, e := range m.entries {
		ts := styles.HelpStyle.Render(e.Timestamp.Format("Jan 02 15:04"))
		actor := lipgloss.NewStyle().
			Foreground(styles.Secondary).
			Render(truncate(e.Actor, actorWidth))
		action := actionStyle(e.Action).Render(truncate(e.Action, actionWidth))

		line := fmt.Sprintf("%s  %-*s %-*s", ts, actorWidth, actor, actionWidth, action)
		if e.Target != "" {
			line += " " + styles.HelpDescStyle.Render(truncate(e.Target, m.width-actorWidth-actionWidth-20))
		}
		rows = append(rows, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// actionStyle color-codes actions by their broad category.
func actionStyle(action string) lipgloss.Style {
	switch action {
	case "document.deleted", "user.removed":
		return styles.ErrorTextStyle
	case "document.uploaded", "user.invited":
		return styles.SuccessTextStyle
	default:
		return styles.InfoTextStyle
	}
}

func truncate(s string, n int) string {
	if n < 1 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
