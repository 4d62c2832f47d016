package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/pthm-cable/savanna/config"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("expected no error for disabled output, got %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// Methods are nil-safe so callers need not branch.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("expected nil-safe write, got %v", err)
	}
	if om.RunID() != "" || om.Dir() != "" {
		t.Error("expected empty run id and dir for disabled output")
	}
	if err := om.Close(); err != nil {
		t.Errorf("expected nil-safe close, got %v", err)
	}
}

func TestOutputManager_WritesRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if _, err := uuid.Parse(om.RunID()); err != nil {
		t.Errorf("expected a UUID run id, got %q", om.RunID())
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), PreyCount: 40 + i, PredCount: 6}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkPreyCrash, Tick: 1800, Description: "crash"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.WriteEvents([]Event{NewHitEvent(5, 1, 2), NewKillEvent(5, 1, 2)}); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("open telemetry.csv: %v", err)
	}
	defer f.Close()

	var rows []WindowStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("unmarshal telemetry.csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows under a single header, got %d", len(rows))
	}
	if rows[2].PreyCount != 43 || rows[2].WindowEndTick != 1800 {
		t.Errorf("expected last row prey=43 window_end=1800, got %+v", rows[2])
	}
	if rows[0].RunID != om.RunID() {
		t.Errorf("expected run id %q on every row, got %q", om.RunID(), rows[0].RunID)
	}

	events, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatalf("read events.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(events)), "\n")
	if len(lines) != 3 || lines[0] != "type,tick,entity,target" || !strings.HasPrefix(lines[2], "kill,") {
		t.Errorf("unexpected events.csv contents:\n%s", events)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config.yaml snapshot, got %v", err)
	}
}
