package documents

import (
	"encoding/json"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/app"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
	syncsvc "github.com/ATAiriam/advancedrag-dashboard-tui/internal/services/sync"
)

func newModelWithDocs(t *testing.T, payload string) *Model {
	t.Helper()
	state := app.NewState(models.TimeRangeWeek)
	state.ApplyResult(syncsvc.Result{
		Metric:     models.MetricTopDocuments,
		TimeRange:  models.TimeRangeWeek,
		Generation: 1,
		Data:       json.RawMessage(payload),
		Source:     syncsvc.SourceLive,
	})

	m := New(state)
	m.SetSize(100, 40)
	m.Init()
	return m
}

const threeDocs = `{"documents":[
	{"id":"a","name":"handbook.pdf","queryCount":40,"sizeBytes":1048576,"uploadedAt":"2026-08-01T00:00:00Z"},
	{"id":"b","name":"api-reference.md","queryCount":25,"sizeBytes":2048,"uploadedAt":"2026-08-10T00:00:00Z"},
	{"id":"c","name":"onboarding.docx","queryCount":5,"sizeBytes":524288,"uploadedAt":"2026-08-15T00:00:00Z"}
]}`

func TestDecodeDocuments(t *testing.T) {
	m := newModelWithDocs(t, threeDocs)

	if len(m.docs) != 3 {
		t.Fatalf("decoded %d documents, want 3", len(m.docs))
	}

	view := m.View()
	for _, name := range []string{"handbook.pdf", "api-reference.md", "onboarding.docx"} {
		if !strings.Contains(view, name) {
			t.Errorf("view missing document %q", name)
		}
	}
}

func TestSelectionNavigation(t *testing.T) {
	m := newModelWithDocs(t, threeDocs)

	press := func(r rune) {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	press('j')
	press('j')
	if m.selectedIndex != 2 {
		t.Errorf("after jj selectedIndex = %d, want 2", m.selectedIndex)
	}

	// Moving past the end stays clamped.
	press('j')
	if m.selectedIndex != 2 {
		t.Errorf("selection ran past end: %d", m.selectedIndex)
	}

	press('g')
	if m.selectedIndex != 0 {
		t.Errorf("after g selectedIndex = %d, want 0", m.selectedIndex)
	}

	press('G')
	if m.selectedIndex != 2 {
		t.Errorf("after G selectedIndex = %d, want 2", m.selectedIndex)
	}
}

func TestSelectionClampedOnShrink(t *testing.T) {
	m := newModelWithDocs(t, threeDocs)
	m.selectedIndex = 2

	// A re-sync that returns fewer documents must pull the selection in.
	m.state.ApplyResult(syncsvc.Result{
		Metric:     models.MetricTopDocuments,
		TimeRange:  models.TimeRangeWeek,
		Generation: 2,
		Data:       json.RawMessage(`{"documents":[{"id":"a","name":"handbook.pdf","queryCount":40,"sizeBytes":1,"uploadedAt":"2026-08-01T00:00:00Z"}]}`),
		Source:     syncsvc.SourceLive,
	})
	m.decode()

	if m.selectedIndex != 0 {
		t.Errorf("selectedIndex = %d after shrink, want 0", m.selectedIndex)
	}
}

func TestEmptyDocuments(t *testing.T) {
	m := newModelWithDocs(t, `{"documents":[]}`)

	if !strings.Contains(m.View(), "No documents") {
		t.Error("empty list should show placeholder")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{1048576, "1.0 MiB"},
		{1 << 31, "2.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
