package ingest

import (
	"encoding/json"

	"github.com/univsched/timetable/internal/entities"
	"github.com/univsched/timetable/internal/schederr"
	"github.com/univsched/timetable/internal/timegrid"
)

// parseCalendarMatrix parses a stringified 5xN nested list of
// non-negative integers (spec.md §6, §9) into the canonical 5x8
// representation used by entities.Teacher. N must be 7 or 8; the
// source is never evaluated as a language literal (spec.md §9),
// only strict JSON.
func parseCalendarMatrix(who, raw string) (out [5][entities.CalendarWidth]int, err error) {
	var rows [][]int
	if jsonErr := json.Unmarshal([]byte(raw), &rows); jsonErr != nil {
		return out, schederr.InputParseError("%s: calendar matrix is not valid JSON: %v", who, jsonErr)
	}

	if len(rows) != 5 {
		return out, schederr.CalendarShapeMismatch(who, len(rows), 0)
	}

	width := -1
	for _, row := range rows {
		if width == -1 {
			width = len(row)
		} else if len(row) != width {
			return out, schederr.CalendarShapeMismatch(who, len(rows), len(row))
		}
	}
	if width != 7 && width != 8 {
		return out, schederr.CalendarShapeMismatch(who, len(rows), width)
	}

	for d, row := range rows {
		for pos, v := range row {
			if v < 0 {
				return out, schederr.InputParseError("%s: negative value %d at day %d position %d", who, v, d, pos)
			}
			canonical, ok := canonicalColumn(width, pos)
			if !ok {
				continue // width==8, pos==noon index: never read
			}
			out[d][canonical] = v
		}
	}
	return out, nil
}

// canonicalColumn maps a raw matrix column (0-based, width 7 or 8)
// onto the canonical hour_index=hour-9 column (width 8, index 3
// reserved for the unread noon hour). ok is false only for the
// width==8 noon column itself, which callers must skip.
func canonicalColumn(width, pos int) (int, bool) {
	if width == entities.CalendarWidth {
		if pos == timegrid.NoonIndex {
			return 0, false
		}
		return pos, true
	}
	// width == 7: columns correspond 1:1 to timegrid.Hours, which
	// already excludes the noon hour.
	if pos < 0 || pos >= len(timegrid.Hours) {
		return 0, false
	}
	return timegrid.HourIndex(timegrid.Hours[pos]), true
}
