package extractor

import (
	"sort"
	"strings"
)

// minCellGap is the horizontal gap in points between two text runs on the
// same row for them to count as separate table cells. Smaller gaps are
// word spacing and the runs are merged.
const minCellGap = 10.0

// segment is one positioned text run from the PDF page, in page points.
// The page origin is bottom-left, so larger top values are higher up.
type segment struct {
	text   string
	left   float64
	top    float64
	right  float64
	bottom float64
}

func (s segment) centerY() float64 {
	return (s.top + s.bottom) / 2
}

func (s segment) height() float64 {
	h := s.top - s.bottom
	if h < 0 {
		return -h
	}
	return h
}

// visualRow is a group of segments sharing a baseline, left to right.
type visualRow struct {
	segments []segment
}

// groupRows clusters segments into visual rows, ordered top of page
// first. Two segments share a row when their vertical centers are within
// half the smaller segment's height.
func groupRows(segments []segment) []visualRow {
	if len(segments) == 0 {
		return nil
	}

	sorted := make([]segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].centerY() > sorted[j].centerY()
	})

	var rows []visualRow
	for _, seg := range sorted {
		if len(rows) > 0 {
			last := &rows[len(rows)-1]
			ref := last.segments[0]
			tolerance := ref.height()
			if seg.height() < tolerance {
				tolerance = seg.height()
			}
			tolerance /= 2
			if diff := ref.centerY() - seg.centerY(); diff <= tolerance {
				last.segments = append(last.segments, seg)
				continue
			}
		}
		rows = append(rows, visualRow{segments: []segment{seg}})
	}

	for i := range rows {
		sort.SliceStable(rows[i].segments, func(a, b int) bool {
			return rows[i].segments[a].left < rows[i].segments[b].left
		})
	}
	return rows
}

// cells merges the row's segments into cell strings. Runs separated by
// less than minCellGap belong to the same cell.
func (r visualRow) cells() []string {
	var cells []string
	var current strings.Builder
	var prevRight float64

	for _, seg := range r.segments {
		text := strings.TrimSpace(seg.text)
		if text == "" {
			continue
		}
		if current.Len() > 0 {
			if seg.left-prevRight >= minCellGap {
				cells = append(cells, current.String())
				current.Reset()
			} else {
				current.WriteByte(' ')
			}
		}
		current.WriteString(text)
		prevRight = seg.right
	}
	if current.Len() > 0 {
		cells = append(cells, current.String())
	}
	return cells
}

// tableSeparators are the in-text separators checked by the duplicate
// heuristic, widest first.
var tableSeparators = []string{"\t", "    ", "   ", "  "}

// looksLikeTableRow reports whether a plain text line appears to be the
// raw rendering of a table row: it splits into at least three non-empty
// fields on any of the separator patterns.
func looksLikeTableRow(line string) bool {
	for _, sep := range tableSeparators {
		fields := 0
		for _, part := range strings.Split(line, sep) {
			if strings.TrimSpace(part) != "" {
				fields++
			}
		}
		if fields >= 3 {
			return true
		}
	}
	return false
}

// pageLines converts one page's segments into candidate lines in reading
// order. Rows with two or more cells become merged table rows. When the
// page contains tables, plain rows that look like raw table renderings
// are suppressed to avoid indexing the same content twice.
func pageLines(segments []segment, page int) []candidate {
	rows := groupRows(segments)

	type classified struct {
		content string
		table   bool
	}

	out := make([]classified, 0, len(rows))
	pageHasTables := false
	for _, row := range rows {
		cells := row.cells()
		if len(cells) == 0 {
			continue
		}
		if len(cells) >= 2 {
			out = append(out, classified{content: tableContent(cells), table: true})
			pageHasTables = true
			continue
		}
		out = append(out, classified{content: cells[0]})
	}

	candidates := make([]candidate, 0, len(out))
	for _, line := range out {
		if !line.table && pageHasTables && looksLikeTableRow(line.content) {
			continue
		}
		candidates = append(candidates, candidate{content: line.content, page: page, table: line.table})
	}
	return candidates
}
