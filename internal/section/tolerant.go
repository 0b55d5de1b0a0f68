package section

import (
	"errors"
	"fmt"
	"strings"

	"bladesplit/internal/logging"
)

// ExtractSection finds the named section with the tolerant grammar. The
// end marker is searched only after the start marker. A missing marker
// is an error; no partial body is ever returned.
func ExtractSection(doc, name string) (Section, error) {
	loc := tolerantPattern(MarkerStart, name).FindStringIndex(doc)
	if loc == nil {
		logging.ExtractDebug("start marker for %q not found", name)
		return Section{}, missing(Marker{MarkerStart, name})
	}

	rest := doc[loc[1]:]
	endLoc := tolerantPattern(MarkerEnd, name).FindStringIndex(rest)
	if endLoc == nil {
		logging.ExtractDebug("end marker for %q not found", name)
		return Section{}, missing(Marker{MarkerEnd, name})
	}

	s := Section{
		Name:      name,
		Start:     loc[0],
		BodyStart: loc[1],
		BodyEnd:   loc[1] + endLoc[0],
		End:       loc[1] + endLoc[1],
	}
	s.Body = strings.TrimSpace(doc[s.BodyStart:s.BodyEnd])
	return s, nil
}

// Strategy is one attempt at locating a section.
type Strategy struct {
	Name string
	Find func(doc string) (Section, error)
}

// ByName is the tolerant lookup of one spelling.
func ByName(name string) Strategy {
	return Strategy{
		Name: name,
		Find: func(doc string) (Section, error) { return ExtractSection(doc, name) },
	}
}

// ByNames builds one strategy per spelling, in order.
func ByNames(names ...string) []Strategy {
	out := make([]Strategy, 0, len(names))
	for _, n := range names {
		out = append(out, ByName(n))
	}
	return out
}

// Chain tries strategies in order and returns the first success along
// with the strategy that produced it. Later strategies are not run.
func Chain(doc string, strategies ...Strategy) (Section, Strategy, error) {
	if len(strategies) == 0 {
		return Section{}, Strategy{}, fmt.Errorf("%w: no strategies given", ErrNoAlternateMatched)
	}
	errs := make([]error, 0, len(strategies))
	for _, st := range strategies {
		s, err := st.Find(doc)
		if err == nil {
			logging.Extract("located section via %q", st.Name)
			return s, st, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", st.Name, err))
	}
	return Section{}, Strategy{}, fmt.Errorf("%w: %w", ErrNoAlternateMatched, errors.Join(errs...))
}

// ExtractFirst returns the section for the first spelling that matches.
func ExtractFirst(doc string, names ...string) (Section, error) {
	s, _, err := Chain(doc, ByNames(names...)...)
	return s, err
}
