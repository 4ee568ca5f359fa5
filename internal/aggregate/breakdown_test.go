package aggregate

import (
	"testing"

	"github.com/blackwell-systems/codepulse/internal/event"
)

func TestBreakdownBy_Language(t *testing.T) {
	groups := BreakdownBy(twoDayFixture(), ByLanguage)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	js := groups[0]
	if js.Key != "javascript" || js.Count != 3 {
		t.Errorf("first group should be javascript count=3, got %s count=%d", js.Key, js.Count)
	}
	if js.Percentage != 75 {
		t.Errorf("javascript percentage = %d, want 75", js.Percentage)
	}
	if js.ChangeSize != 60 {
		t.Errorf("javascript changeSize = %d, want 60", js.ChangeSize)
	}
	if js.FileCount != 1 {
		t.Errorf("javascript fileCount = %d, want 1", js.FileCount)
	}
	if js.TimeSpent != 45 { // round(3/4*60)
		t.Errorf("javascript timeSpent = %d, want 45", js.TimeSpent)
	}

	py := groups[1]
	if py.Key != "python" || py.Count != 1 || py.Percentage != 25 {
		t.Errorf("second group should be python count=1 pct=25, got %+v", py)
	}
}

func TestBreakdownBy_SkipsAbsentKeys(t *testing.T) {
	activities := []event.Activity{
		mkActivity(event.TypeEdit, day1(10), "a.go", "go", 1),
		mkActivity(event.TypeEdit, day1(11), "notes.txt", "", 1),
	}

	groups := BreakdownBy(activities, ByLanguage)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group (empty language skipped), got %d", len(groups))
	}
	// The skipped event must not dilute the percentage of the rest.
	if groups[0].Percentage != 100 {
		t.Errorf("percentage = %d, want 100", groups[0].Percentage)
	}
}

func TestBreakdownBy_Empty(t *testing.T) {
	if groups := BreakdownBy(nil, ByProject); len(groups) != 0 {
		t.Errorf("expected no groups for empty input, got %d", len(groups))
	}
}

func TestBreakdownBy_PercentagesSumNear100(t *testing.T) {
	// Three groups with counts that do not divide evenly.
	var activities []event.Activity
	langs := []struct {
		name string
		n    int
	}{{"go", 3}, {"rust", 3}, {"zig", 1}}
	for _, l := range langs {
		for i := 0; i < l.n; i++ {
			activities = append(activities, mkActivity(event.TypeEdit, day1(10), l.name+".x", l.name, 1))
		}
	}

	groups := BreakdownBy(activities, ByLanguage)
	sum := 0
	for _, g := range groups {
		sum += g.Percentage
	}
	// Independent rounding may drift by up to one point per group.
	if sum < 100-len(groups) || sum > 100+len(groups) {
		t.Errorf("percentages sum to %d, want within %d of 100", sum, len(groups))
	}
}

func TestBreakdownBy_DeterministicOrder(t *testing.T) {
	activities := []event.Activity{
		mkActivity(event.TypeEdit, day1(10), "a.go", "go", 1),
		mkActivity(event.TypeEdit, day1(11), "b.rs", "rust", 1),
	}

	first := BreakdownBy(activities, ByLanguage)
	second := BreakdownBy(activities, ByLanguage)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("tied groups not deterministically ordered: %+v vs %+v", first, second)
		}
	}
}

func TestFiles(t *testing.T) {
	files := Files(twoDayFixture(), 0)

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	first := files[0]
	if first.FileName != "a.js" || first.Count != 3 || first.EditCount != 3 {
		t.Errorf("first file should be a.js with 3 edits, got %+v", first)
	}
	if first.ChangeSize != 60 {
		t.Errorf("a.js changeSize = %d, want 60", first.ChangeSize)
	}
	if first.LastModified != "2024-01-01T12:00:00Z" {
		t.Errorf("a.js lastModified = %q", first.LastModified)
	}
	if files[1].Language != "python" || files[1].Project != "Unknown" {
		t.Errorf("b.py should report python/Unknown, got %+v", files[1])
	}
}

func TestFiles_Limit(t *testing.T) {
	var activities []event.Activity
	for i := 0; i < 60; i++ {
		name := string(rune('a'+i%26)) + string(rune('a'+i/26)) + ".go"
		activities = append(activities, mkActivity(event.TypeEdit, day1(10), name, "go", 1))
	}

	if got := len(Files(activities, 0)); got != FileActivityLimit {
		t.Errorf("default limit: got %d files, want %d", got, FileActivityLimit)
	}
	if got := len(Files(activities, 5)); got != 5 {
		t.Errorf("explicit limit: got %d files, want 5", got)
	}
}

func TestBreakdownKindValid(t *testing.T) {
	for _, k := range []BreakdownKind{ByLanguage, ByProject, ByFile} {
		if !k.Valid() {
			t.Errorf("%s should be valid", k)
		}
	}
	if BreakdownKind("workspace").Valid() {
		t.Error("workspace should not be a valid breakdown kind")
	}
}
