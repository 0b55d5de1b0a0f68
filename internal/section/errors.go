package section

import (
	"errors"
	"strings"
)

var (
	// ErrMarkerNotFound is wrapped by every MarkerError.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrNoAlternateMatched means every spelling in a fallback list failed.
	ErrNoAlternateMatched = errors.New("no alternate spelling matched")
	// ErrEmptyGap means both gap markers exist but nothing lies between them.
	ErrEmptyGap = errors.New("no content between markers")
)

// MarkerError lists the delimiters that could not be located.
type MarkerError struct {
	Missing []Marker
}

func (e *MarkerError) Error() string {
	names := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		names[i] = "'" + m.String() + "'"
	}
	return ErrMarkerNotFound.Error() + ": " + strings.Join(names, ", ")
}

func (e *MarkerError) Unwrap() error { return ErrMarkerNotFound }

func missing(markers ...Marker) error {
	return &MarkerError{Missing: markers}
}
