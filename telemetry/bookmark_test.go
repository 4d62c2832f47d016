package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HuntBreakthrough(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Steady history at a low kill rate
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: int32(i * 600),
			Hits:          10,
			Kills:         2,
			KillRate:      0.2,
		})
	}

	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 3000,
		Hits:          10,
		Kills:         8,
		KillRate:      0.8, // 4x the 0.2 average
	})
	if !hasBookmark(bookmarks, BookmarkHuntBreakthrough) {
		t.Error("expected hunt_breakthrough bookmark")
	}
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), PreyCount: 100, PredCount: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, PreyCount: 50, PredCount: 10})
	if !hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("expected prey_crash bookmark")
	}

	// Peak resets after a crash, so holding at 50 does not re-trigger.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 3600, PreyCount: 50, PredCount: 10})
	if hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("expected prey_crash to fire once per crash")
	}
}

func TestBookmarkDetector_StarvationWave(t *testing.T) {
	tests := []struct {
		name      string
		survivors int
		starved   int
		want      bool
	}{
		{"single starvation", 7, 1, false},
		{"small fraction", 10, 2, false},
		{"quarter of pack", 6, 2, true},
		{"whole pack", 0, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := NewBookmarkDetector(10)
			bd.Check(WindowStats{WindowEndTick: 600, PreyCount: 50, PredCount: tt.survivors + tt.starved})

			bookmarks := bd.Check(WindowStats{
				WindowEndTick: 1200,
				PreyCount:     50,
				PredCount:     tt.survivors,
				PredStarved:   tt.starved,
			})
			if got := hasBookmark(bookmarks, BookmarkStarvationWave); got != tt.want {
				t.Errorf("expected starvation_wave=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestBookmarkDetector_PackCollapse(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), PreyCount: 80, PredCount: 12})
	}

	if bookmarks := bd.Check(WindowStats{WindowEndTick: 1800, PreyCount: 80, PredCount: 8}); hasBookmark(bookmarks, BookmarkPackCollapse) {
		t.Error("expected no pack_collapse for a one-third drop")
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 2400, PreyCount: 80, PredCount: 5})
	if !hasBookmark(bookmarks, BookmarkPackCollapse) {
		t.Error("expected pack_collapse bookmark")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: int32(i * 600),
			PreyCount:     100,
			PredCount:     20,
		})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			fired++
		}
	}

	if fired != 1 {
		t.Errorf("expected stable_ecosystem exactly once, got %d", fired)
	}
}
