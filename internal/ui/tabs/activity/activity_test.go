package activity

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/app"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/models"
	syncsvc "github.com/ATAiriam/advancedrag-dashboard-tui/internal/services/sync"
)

func newModelWithLog(t *testing.T, payload string) *Model {
	t.Helper()
	state := app.NewState(models.TimeRangeWeek)
	state.ApplyResult(syncsvc.Result{
		Metric:     models.MetricActivityLog,
		TimeRange:  models.TimeRangeWeek,
		Generation: 1,
		Data:       json.RawMessage(payload),
		Source:     syncsvc.SourceLive,
	})

	m := New(state)
	m.SetSize(120, 40)
	m.Init()
	return m
}

func TestDecodeActivityLog(t *testing.T) {
	m := newModelWithLog(t, `{"entries":[
		{"id":"1","timestamp":"2026-08-20T10:00:00Z","actor":"maya@example.com","action":"document.uploaded","target":"handbook.pdf"},
		{"id":"2","timestamp":"2026-08-20T11:30:00Z","actor":"liu@example.com","action":"query.executed"}
	]}`)

	if len(m.entries) != 2 {
		t.Fatalf("decoded %d entries, want 2", len(m.entries))
	}

	view := m.View()
	if !strings.Contains(view, "maya@example.com") {
		t.Error("view missing actor")
	}
	if !strings.Contains(view, "handbook.pdf") {
		t.Error("view missing target")
	}
}

func TestEmptyActivityLog(t *testing.T) {
	m := newModelWithLog(t, `{"entries":[]}`)

	if !strings.Contains(m.View(), "No activity") {
		t.Error("empty log should show placeholder")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"much too long for this", 8, "much to…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
