package documents

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/app"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/components"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/styles"
)

// View renders the documents tab.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	st := m.state.Metric(models.MetricTopDocuments)
	badge := components.DataBadge(st.FromCache, st.CachedAt)
	header := styles.CardTitleStyle.Render("Top Documents") + "  " + badge

	var body string
	switch {
	case st.Status == app.StatusError:
		body = styles.ErrorTextStyle.Render("⚠ " + st.Error)
	case len(st.Data) == 0 && (st.Status == app.StatusIdle || st.Status == app.StatusLoading):
		body = m.spinner.ViewWithLabel()
	case len(m.docs) == 0:
		body = styles.HelpStyle.Render("No documents queried in this time range")
	default:
		body = m.renderTable()
	}

	card := styles.CardStyle.Width(m.cardWidth()).Render(header + "\n\n" + body)
	return styles.DocStyle.Render(card)
}

func (m *Model) renderTable() string {
	maxCount := float64(0)
	for _, d := range m.docs {
		if float64(d.QueryCount) > maxCount {
			maxCount = float64(d.QueryCount)
		}
	}

	nameWidth := m.cardWidth() / 3
	if nameWidth < 12 {
		nameWidth = 12
	}

	headerRow := styles.TableHeaderStyle.Render(
		fmt.Sprintf("  %-*s %8s %10s %12s", nameWidth, "Document", "Queries", "Size", "Uploaded"))

	var rows []string
	rows = append(rows, headerRow)

	for i, d := range m.docs {
		name := d.Name
		if len(name) > nameWidth {
			name = name[:nameWidth-1] + "…"
		}

		row := fmt.Sprintf("%-*s %8d %10s %12s",
			nameWidth, name,
			d.QueryCount,
			formatBytes(d.SizeBytes),
			d.UploadedAt.Format("2006-01-02"))

		if i == m.selectedIndex {
			rows = append(rows, styles.TableSelectedStyle.Render("> "+row))
		} else {
			rows = append(rows, styles.TableCellStyle.Render("  "+row))
		}
	}

	// Query share bar for the highlighted document.
	if m.selectedIndex < len(m.docs) {
		sel := m.docs[m.selectedIndex]
		rows = append(rows, "")
		rows = append(rows, components.CountBar(
			float64(sel.QueryCount), maxCount, "Query share", m.cardWidth()-8))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func (m *Model) cardWidth() int {
	w := m.width - 6
	if w < 40 {
		w = 40
	}
	return w
}
