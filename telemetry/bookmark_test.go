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

func TestBookmarkDetector_LifespanBreakthrough(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: uint64(i * 600),
			Population:    15,
			DeathsStarved: 5,
			MeanLifespan:  400,
		})
	}

	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 3000,
		Population:    15,
		DeathsStarved: 4,
		MeanLifespan:  1200,
	})
	if !hasBookmark(bookmarks, BookmarkLifespanBreakthrough) {
		t.Error("expected lifespan_breakthrough bookmark")
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 600), Population: 15})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Population: 4, RunID: "run"})
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Fatal("expected population_crash bookmark")
	}
	if bookmarks[0].RunID != "run" {
		t.Errorf("run id = %q, want run", bookmarks[0].RunID)
	}

	// The peak resets after a crash.
	if bookmarks := bd.Check(WindowStats{WindowEndTick: 3600, Population: 4}); hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("crash reported twice")
	}
}

func TestBookmarkDetector_GenerationMilestone(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if bookmarks := bd.Check(WindowStats{MaxGeneration: 9}); hasBookmark(bookmarks, BookmarkGenerationMilestone) {
		t.Error("generation 9 is not a milestone")
	}
	if bookmarks := bd.Check(WindowStats{MaxGeneration: 12}); !hasBookmark(bookmarks, BookmarkGenerationMilestone) {
		t.Error("expected milestone at generation 12")
	}
	if bookmarks := bd.Check(WindowStats{MaxGeneration: 19}); hasBookmark(bookmarks, BookmarkGenerationMilestone) {
		t.Error("milestone 10 reported twice")
	}
	if bookmarks := bd.Check(WindowStats{MaxGeneration: 20}); !hasBookmark(bookmarks, BookmarkGenerationMilestone) {
		t.Error("expected milestone at generation 20")
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: uint64(i * 600),
			Population:    14,
			Births:        3,
		})
		if hasBookmark(bookmarks, BookmarkStablePopulation) {
			triggered++
		}
	}
	if triggered != 1 {
		t.Errorf("stable_population triggered %d times, want 1", triggered)
	}
}

func TestBookmarkDetector_FreshSpawnsAreNotStable(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{
			WindowEndTick: uint64(i * 600),
			Population:    14,
			Births:        3,
			FreshSpawns:   3,
		})
		if hasBookmark(bookmarks, BookmarkStablePopulation) {
			t.Fatal("population sustained only by fresh spawns reported stable")
		}
	}
}
