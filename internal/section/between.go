package section

import (
	"strings"

	"bladesplit/internal/logging"
)

// Gap is the text between the end of one section and the start of the
// next. Nested markers inside it are not interpreted.
type Gap struct {
	After  string
	Before string
	Start  int
	End    int
	Body   string
}

// ExtractBetween returns the trimmed text between the End marker of
// after and the Start marker of before. Both are searched with the
// tolerant grammar from the top of the document. When a marker is
// absent the MarkerError names each missing one.
func ExtractBetween(doc, after, before string) (Gap, error) {
	endLoc := tolerantPattern(MarkerEnd, after).FindStringIndex(doc)
	startLoc := tolerantPattern(MarkerStart, before).FindStringIndex(doc)

	var absent []Marker
	if endLoc == nil {
		absent = append(absent, Marker{MarkerEnd, after})
	}
	if startLoc == nil {
		absent = append(absent, Marker{MarkerStart, before})
	}
	if len(absent) > 0 {
		return Gap{}, missing(absent...)
	}

	g := Gap{After: after, Before: before, Start: endLoc[1], End: startLoc[0]}
	if g.End <= g.Start {
		logging.ExtractDebug("'Start %s' precedes 'End %s'", before, after)
		return g, ErrEmptyGap
	}
	g.Body = strings.TrimSpace(doc[g.Start:g.End])
	if g.Body == "" {
		return g, ErrEmptyGap
	}
	logging.Extract("recovered %d bytes between %q and %q", len(g.Body), after, before)
	return g, nil
}
