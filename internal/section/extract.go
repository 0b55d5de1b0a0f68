package section

import (
	"strings"

	"bladesplit/internal/logging"
)

// Section is one delimiter-bounded block of a document. Offsets index the
// original document: Start/End cover both markers, BodyStart/BodyEnd the
// raw text between them.
type Section struct {
	Name      string
	Start     int
	BodyStart int
	BodyEnd   int
	End       int
	Body      string // raw body, whitespace-trimmed
}

// Overlaps reports whether the two sections' marker spans intersect.
func (s Section) Overlaps(o Section) bool {
	return s.Start < o.End && o.Start < s.End
}

// Extraction is the outcome of a strict all-sections pass.
type Extraction struct {
	Sections  []Section
	Wrapper   string   // document minus everything from the first start to the last end marker
	Unmatched []string // start markers with no matching end marker
}

// ExtractAll finds every strict Start/End pair in document order. The
// next end marker carrying the same name closes a start; a start with no
// such end is recorded in Unmatched and skipped.
func ExtractAll(doc string, c Convention) Extraction {
	startRe := c.pattern(MarkerStart)
	var out Extraction

	pos := 0
	for _, m := range startRe.FindAllStringSubmatchIndex(doc, -1) {
		if m[0] < pos {
			continue
		}
		name := doc[m[2]:m[3]]
		endMarker := c.Marker(MarkerEnd, name)
		idx := strings.Index(doc[m[1]:], endMarker)
		if idx < 0 {
			logging.ExtractDebug("strict start %q has no matching end", name)
			out.Unmatched = append(out.Unmatched, name)
			continue
		}
		s := Section{
			Name:      name,
			Start:     m[0],
			BodyStart: m[1],
			BodyEnd:   m[1] + idx,
			End:       m[1] + idx + len(endMarker),
		}
		s.Body = strings.TrimSpace(doc[s.BodyStart:s.BodyEnd])
		out.Sections = append(out.Sections, s)
		pos = s.End
	}

	out.Wrapper = strictWrapper(doc, c)
	logging.Extract("strict pass found %d sections (%d unmatched)", len(out.Sections), len(out.Unmatched))
	return out
}

// strictWrapper keeps the text before the first strict start marker and
// after the last strict end marker, whatever their names.
func strictWrapper(doc string, c Convention) string {
	prefix := doc
	if loc := c.pattern(MarkerStart).FindStringIndex(doc); loc != nil {
		prefix = doc[:loc[0]]
	}
	suffix := ""
	if ends := c.pattern(MarkerEnd).FindAllStringIndex(doc, -1); len(ends) > 0 {
		suffix = doc[ends[len(ends)-1][1]:]
	}
	return strings.TrimSpace(prefix + suffix)
}

// Wrapper removes everything from the first section's start marker to
// the last section's end marker. Sections must be in document order.
func Wrapper(doc string, sections []Section) string {
	if len(sections) == 0 {
		return strings.TrimSpace(doc)
	}
	return strings.TrimSpace(doc[:sections[0].Start] + doc[sections[len(sections)-1].End:])
}
