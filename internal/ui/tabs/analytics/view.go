package analytics

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/app"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/components"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/styles"
)

// View renders the analytics tab.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderUsageCard())
	sections = append(sections, m.renderCreditsCard())
	sections = append(sections, m.renderDistributionCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)
	return styles.DocStyle.Render(m.viewport.View())
}

// cardHeader builds a card title line with the freshness badge.
func (m *Model) cardHeader(title string, metric models.Metric) string {
	st := m.state.Metric(metric)
	badge := components.DataBadge(st.FromCache, st.CachedAt)
	return styles.CardTitleStyle.Render(title) + "  " + badge
}

// widgetBody resolves the shared loading/error states for one metric.
// It returns the placeholder to show, or "" when the caller should
// render the decoded data.
func (m *Model) widgetBody(metric models.Metric) string {
	st := m.state.Metric(metric)
	switch st.Status {
	case app.StatusIdle, app.StatusLoading:
		if len(st.Data) == 0 {
			return m.spinner.ViewWithLabel()
		}
	case app.StatusError:
		return styles.ErrorTextStyle.Render("⚠ " + st.Error)
	}
	return ""
}

func (m *Model) renderUsageCard() string {
	header := m.cardHeader("Usage Summary", models.MetricUsageStats)

	if placeholder := m.widgetBody(models.MetricUsageStats); placeholder != "" {
		return styles.CardStyle.Width(m.cardWidth()).Render(header + "\n\n" + placeholder)
	}
	if m.usage == nil {
		return styles.CardStyle.Width(m.cardWidth()).Render(header + "\n\n" + styles.HelpStyle.Render("No data available"))
	}

	u := m.usage
	barWidth := m.cardWidth() - 8

	var lines []string
	lines = append(lines, fmt.Sprintf("Queries: %d    Documents: %d    Active users: %d",
		u.TotalQueries, u.TotalDocuments, u.ActiveUsers))
	lines = append(lines, "")

	if u.CreditsLimit > 0 {
		pct := u.CreditsUsed / u.CreditsLimit * 100
		lines = append(lines, components.UsageBar(pct, "Credits", barWidth))
	} else {
		lines = append(lines, fmt.Sprintf("Credits used: %.1f", u.CreditsUsed))
	}

	if u.StorageLimitMB > 0 {
		pct := u.StorageUsedMB / u.StorageLimitMB * 100
		lines = append(lines, components.UsageBar(pct, "Storage", barWidth))
	} else {
		lines = append(lines, fmt.Sprintf("Storage used: %.1f MB", u.StorageUsedMB))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(header + "\n\n" + strings.Join(lines, "\n"))
}

func (m *Model) renderCreditsCard() string {
	header := m.cardHeader("Credit Consumption", models.MetricCreditConsumption)

	if placeholder := m.widgetBody(models.MetricCreditConsumption); placeholder != "" {
		return styles.CardStyle.Width(m.cardWidth()).Render(header + "\n\n" + placeholder)
	}

	series := make([]float64, 0, len(m.credits))
	for _, p := range m.credits {
		series = append(series, p.Credits)
	}

	caption := "credits over " + m.state.TimeRange().String()
	chart := components.RenderLineChart(series, m.cardWidth()-12, 8, caption)

	return styles.CardStyle.Width(m.cardWidth()).Render(header + "\n\n" + chart)
}

func (m *Model) renderDistributionCard() string {
	header := m.cardHeader("Query Distribution", models.MetricQueryDistribution)

	if placeholder := m.widgetBody(models.MetricQueryDistribution); placeholder != "" {
		return styles.CardStyle.Width(m.cardWidth()).Render(header + "\n\n" + placeholder)
	}
	if len(m.distribution) == 0 {
		return styles.CardStyle.Width(m.cardWidth()).Render(header + "\n\n" + styles.HelpStyle.Render("No data available"))
	}

	values := make([]float64, 0, len(m.distribution))
	labels := make([]string, 0, len(m.distribution))
	for _, b := range m.distribution {
		values = append(values, float64(b.Count))
		labels = append(labels, b.Category)
	}

	chart := components.RenderBarChart(values, labels, m.cardWidth()-8)

	return styles.CardStyle.Width(m.cardWidth()).Render(header + "\n\n" + chart)
}

func (m *Model) cardWidth() int {
	w := m.width - 6
	if w < 30 {
		w = 30
	}
	return w
}
