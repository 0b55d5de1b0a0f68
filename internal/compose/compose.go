// Package compose splices include reference lines into the empty
// insertion point of a wrapper document.
package compose

import (
	"errors"
	"fmt"
	"strings"

	"bladesplit/internal/logging"
	"bladesplit/internal/section"
)

var (
	// ErrInsertionPointNotFound means no strategy located an empty target.
	ErrInsertionPointNotFound = errors.New("empty insertion point not found")
	// ErrOverwritesWrapper guards against writing the final document over its wrapper.
	ErrOverwritesWrapper = errors.New("final path must differ from wrapper path")
)

// Options describes the insertion point and the reference line format.
type Options struct {
	OpenTag   string // e.g. <ul class="dash-navbar">
	CloseTag  string // e.g. </ul>
	Indent    string // whitespace before the closing tag and each reference line
	Namespace string // e.g. partials.admin.menu
	Extension string // stripped from partial names
}

// DefaultOptions matches the admin menu wrapper.
func DefaultOptions() Options {
	return Options{
		OpenTag:   `<ul class="dash-navbar">`,
		CloseTag:  "</ul>",
		Indent:    strings.Repeat(" ", 16),
		Namespace: "partials.admin.menu",
		Extension: section.DefaultExtension,
	}
}

// Reference renders the include line for one partial.
func (o Options) Reference(partial string) string {
	return fmt.Sprintf("@include('%s.%s')", o.Namespace, section.BaseName(partial, o.Extension))
}

// Result is a composed document and how its insertion point was found.
type Result struct {
	Document string
	Strategy string
	Included []string
}

// Strategy locates the insertion point and splices references into it.
// ok is false when the strategy does not apply to the wrapper.
type Strategy struct {
	Name   string
	Splice func(wrapper string, refs []string, o Options) (doc string, ok bool)
}

// Strategies returns the default ordered strategy list.
func Strategies() []Strategy {
	return []Strategy{
		{Name: "exact", Splice: spliceExact},
		{Name: "line", Splice: spliceLines},
	}
}

// Compose inserts one reference line per partial, in order, into the
// first empty insertion point of wrapper. Strategies are tried in order
// until one applies.
func Compose(wrapper string, partials []string, o Options, strategies ...Strategy) (Result, error) {
	if len(strategies) == 0 {
		strategies = Strategies()
	}
	refs := make([]string, len(partials))
	for i, p := range partials {
		refs[i] = o.Reference(p)
	}

	for _, st := range strategies {
		doc, ok := st.Splice(wrapper, refs, o)
		if !ok {
			logging.ComposeDebug("strategy %s did not find an empty %s", st.Name, o.OpenTag)
			continue
		}
		logging.Compose("spliced %d includes using the %s strategy", len(refs), st.Name)
		return Result{Document: doc, Strategy: st.Name, Included: append([]string(nil), partials...)}, nil
	}
	return Result{}, fmt.Errorf("%w: %s ... %s", ErrInsertionPointNotFound, o.OpenTag, o.CloseTag)
}

// spliceExact matches the opening tag followed by a newline and the
// configured indent, where only whitespace lies between it and the next
// closing tag. References go right after the opening line, so whatever
// whitespace preceded the closing tag is kept below them. The first empty
// target wins.
func spliceExact(wrapper string, refs []string, o Options) (string, bool) {
	head := o.OpenTag + "\n" + o.Indent
	from := 0
	for {
		idx := strings.Index(wrapper[from:], head)
		if idx < 0 {
			return "", false
		}
		idx += from
		after := idx + len(head)
		closeAt := strings.Index(wrapper[after:], o.CloseTag)
		if closeAt >= 0 && strings.TrimSpace(wrapper[after:after+closeAt]) == "" {
			insert := idx + len(o.OpenTag) + 1
			var sb strings.Builder
			sb.WriteString(wrapper[:insert])
			writeRefs(&sb, refs, o.Indent)
			sb.WriteString(wrapper[insert:])
			return sb.String(), true
		}
		from = after
	}
}

// spliceLines finds the first line containing the opening tag whose next
// line is only the closing tag, and inserts references between them at
// the closing line's indentation.
func spliceLines(wrapper string, refs []string, o Options) (string, bool) {
	lines := strings.Split(wrapper, "\n")
	for i := 0; i+1 < len(lines); i++ {
		if !strings.Contains(lines[i], o.OpenTag) {
			continue
		}
		next := lines[i+1]
		if strings.TrimSpace(next) != o.CloseTag {
			continue
		}
		indent := next[:len(next)-len(strings.TrimLeft(next, " \t"))]

		var sb strings.Builder
		sb.WriteString(strings.Join(lines[:i+1], "\n"))
		sb.WriteString("\n")
		writeRefs(&sb, refs, indent)
		sb.WriteString(strings.Join(lines[i+1:], "\n"))
		return sb.String(), true
	}
	return "", false
}

func writeRefs(sb *strings.Builder, refs []string, indent string) {
	for _, r := range refs {
		sb.WriteString(indent)
		sb.WriteString(r)
		sb.WriteString("\n")
	}
}
