// Package section locates delimiter-bounded sections in a flat text
// document. A section is opened by an HTML comment marker such as
//
//	<!--------------------- Start Dashboard ----------------------------------->
//
// and closed by the matching End marker with the same name. Two grammars
// are supported: a strict one with fixed dash runs (used to extract every
// section in one pass) and a tolerant one that accepts any dash count,
// surrounding whitespace and any letter case (used for single, named
// sections whose markers drifted from the convention).
package section

import (
	"fmt"
	"regexp"
	"strings"
)

// MarkerKind distinguishes opening from closing markers.
type MarkerKind string

const (
	MarkerStart MarkerKind = "Start"
	MarkerEnd   MarkerKind = "End"
)

// Marker identifies one delimiter by kind and section name.
type Marker struct {
	Kind MarkerKind
	Name string
}

func (m Marker) String() string {
	return fmt.Sprintf("%s %s", m.Kind, m.Name)
}

// Convention is the dash layout of strict markers: "<!" followed by
// LeadDashes dashes, a space, the keyword and name, a space, TrailDashes
// dashes and ">".
type Convention struct {
	LeadDashes  int `yaml:"lead_dashes"`
	TrailDashes int `yaml:"trail_dashes"`
}

// DefaultConvention matches the admin menu template.
var DefaultConvention = Convention{LeadDashes: 21, TrailDashes: 35}

// Valid reports whether both dash runs are positive.
func (c Convention) Valid() bool {
	return c.LeadDashes > 0 && c.TrailDashes > 0
}

// Marker renders the exact strict marker text for kind and name.
func (c Convention) Marker(kind MarkerKind, name string) string {
	return "<!" + strings.Repeat("-", c.LeadDashes) + " " + string(kind) + " " + name + " " +
		strings.Repeat("-", c.TrailDashes) + ">"
}

// pattern matches any strict marker of the given kind and captures the
// name. Names never span a line or contain angle brackets, so a marker
// whose dash run drifted simply does not match.
func (c Convention) pattern(kind MarkerKind) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`<!-{%d} %s ([^<>\n]*?) -{%d}>`,
		c.LeadDashes, string(kind), c.TrailDashes))
}

// tolerantPattern matches a marker for one specific name with any dash
// count, optional whitespace and any letter case.
func tolerantPattern(kind MarkerKind, name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)<!-+\s*` + string(kind) + `\s+` + regexp.QuoteMeta(name) + `\s*-+>`)
}

// anyMarker is the tolerant grammar for any name; used by Scan.
var anyMarker = regexp.MustCompile(`(?i)<!(-+)\s*(Start|End)\s+([^<>\n]*?)\s*(-+)>`)
