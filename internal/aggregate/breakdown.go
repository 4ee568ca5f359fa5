package aggregate

import (
	"sort"

	"github.com/blackwell-systems/codepulse/internal/event"
)

// BreakdownKind selects the grouping dimension of a breakdown.
type BreakdownKind string

// The supported breakdown dimensions.
const (
	ByLanguage BreakdownKind = "language"
	ByProject  BreakdownKind = "project"
	ByFile     BreakdownKind = "file"
)

// Valid reports whether k is a recognized breakdown dimension.
func (k BreakdownKind) Valid() bool {
	switch k {
	case ByLanguage, ByProject, ByFile:
		return true
	}
	return false
}

// BreakdownBy groups activities by the given dimension, summing counts and
// change sizes and collecting distinct file names per group. Events whose
// grouping key is absent are skipped (file grouping never skips, since
// fileName is required). Groups are sorted by count descending.
//
// Percentage and TimeSpent normalize each group's count against the total
// across all groups; TimeSpent spreads a fixed 60-minute window, so the
// values are relative weights, not measured minutes.
func BreakdownBy(activities []event.Activity, kind BreakdownKind) []Breakdown {
	type group struct {
		count      int
		changeSize int64
		files      map[string]struct{}
	}

	groups := make(map[string]*group)
	total := 0

	for i := range activities {
		a := &activities[i]
		key := breakdownKey(a, kind)
		if key == "" {
			continue
		}

		g, ok := groups[key]
		if !ok {
			g = &group{files: make(map[string]struct{})}
			groups[key] = g
		}
		g.count++
		g.changeSize += a.ChangeSizeOrZero()
		g.files[a.FileName] = struct{}{}
		total++
	}

	result := make([]Breakdown, 0, len(groups))
	for key, g := range groups {
		b := Breakdown{
			Key:        key,
			Count:      g.count,
			ChangeSize: g.changeSize,
			FileCount:  len(g.files),
		}
		if total > 0 {
			b.Percentage = round(float64(g.count) / float64(total) * 100)
			b.TimeSpent = round(float64(g.count) / float64(total) * 60)
		}
		result = append(result, b)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Key < result[j].Key
	})

	return result
}

func breakdownKey(a *event.Activity, kind BreakdownKind) string {
	switch kind {
	case ByLanguage:
		return a.Language
	case ByProject:
		return a.ProjectFolder
	case ByFile:
		return a.FileName
	}
	return ""
}

// FileActivityLimit is the default cap on file activity results.
const FileActivityLimit = 50

// Files groups activities per file (keyed by name, path, language, and
// project together), sorted by total activity descending and capped at
// limit entries. A limit <= 0 applies FileActivityLimit.
func Files(activities []event.Activity, limit int) []FileActivity {
	if limit <= 0 {
		limit = FileActivityLimit
	}

	type fileKey struct {
		name, path, language, project string
	}

	groups := make(map[fileKey]*FileActivity)
	order := make([]fileKey, 0)
	total := 0

	for i := range activities {
		a := &activities[i]
		k := fileKey{a.FileName, a.FilePath, a.Language, a.ProjectFolder}

		f, ok := groups[k]
		if !ok {
			f = &FileActivity{
				FileName: a.FileName,
				FilePath: a.FilePath,
				Language: orUnknown(a.Language),
				Project:  orUnknown(a.ProjectFolder),
			}
			groups[k] = f
			order = append(order, k)
		}
		f.Count++
		if a.Type == event.TypeEdit {
			f.EditCount++
		}
		f.ChangeSize += a.ChangeSizeOrZero()
		if ts := a.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"); ts > f.LastModified {
			f.LastModified = ts
		}
		total++
	}

	result := make([]FileActivity, 0, len(groups))
	for _, k := range order {
		f := groups[k]
		if total > 0 {
			f.TimeSpent = round(float64(f.Count) / float64(total) * 60)
		}
		result = append(result, *f)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].FileName < result[j].FileName
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
