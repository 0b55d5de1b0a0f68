package section

import (
	"fmt"
	"strings"

	"bladesplit/internal/logging"
)

// Token is one marker comment found by Scan.
type Token struct {
	Kind        MarkerKind
	Name        string
	Start       int
	End         int
	Line        int
	LeadDashes  int
	TrailDashes int
	Strict      bool // byte-identical to the strict convention
}

// Scan tokenizes every Start/End marker in doc using the tolerant
// grammar, in document order.
func Scan(doc string, c Convention) []Token {
	matches := anyMarker.FindAllStringSubmatchIndex(doc, -1)
	tokens := make([]Token, 0, len(matches))
	line, lineAt := 1, 0
	for _, m := range matches {
		line += strings.Count(doc[lineAt:m[0]], "\n")
		lineAt = m[0]

		kind := MarkerStart
		if strings.EqualFold(doc[m[4]:m[5]], string(MarkerEnd)) {
			kind = MarkerEnd
		}
		tok := Token{
			Kind:        kind,
			Name:        doc[m[6]:m[7]],
			Start:       m[0],
			End:         m[1],
			Line:        line,
			LeadDashes:  m[3] - m[2],
			TrailDashes: m[9] - m[8],
		}
		tok.Strict = doc[m[0]:m[1]] == c.Marker(kind, tok.Name)
		tokens = append(tokens, tok)
	}
	return tokens
}

// Severity of a lint finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding codes.
const (
	CodeOrphanEnd     = "orphan-end"
	CodeUnclosedStart = "unclosed-start"
	CodeNameMismatch  = "name-mismatch"
	CodeNestedStart   = "nested-start"
	CodeDashDrift     = "dash-drift"
	CodeUncapturedGap = "uncaptured-gap"
)

// Finding is one lint diagnostic.
type Finding struct {
	Severity Severity
	Code     string
	Line     int
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%d: %s: %s: %s", f.Line, f.Severity, f.Code, f.Message)
}

// Pair is a balanced Start/End token pair.
type Pair struct {
	Open  Token
	Close Token
}

// LintReport is the outcome of Lint.
type LintReport struct {
	Tokens   []Token
	Pairs    []Pair
	Findings []Finding
}

// Errors counts error-severity findings.
func (r LintReport) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings counts warning-severity findings.
func (r LintReport) Warnings() int {
	return len(r.Findings) - r.Errors()
}

// Lint checks marker balance with an explicit open/close stack. Names
// compare case-insensitively. A Start while another is open is reported
// as nesting; an End whose name differs from the innermost open Start is
// a mismatch that still closes it, so one bad marker yields one finding.
func Lint(doc string, c Convention) LintReport {
	report := LintReport{Tokens: Scan(doc, c)}
	add := func(sev Severity, code string, line int, format string, args ...interface{}) {
		report.Findings = append(report.Findings, Finding{
			Severity: sev, Code: code, Line: line, Message: fmt.Sprintf(format, args...),
		})
	}

	var stack []Token
	for _, tok := range report.Tokens {
		if !tok.Strict {
			add(SeverityWarning, CodeDashDrift, tok.Line,
				"'%s %s' does not follow the strict marker layout (%d/%d dashes); only extract-section can read it",
				tok.Kind, tok.Name, tok.LeadDashes, tok.TrailDashes)
		}

		switch tok.Kind {
		case MarkerStart:
			if len(stack) > 0 {
				open := stack[len(stack)-1]
				add(SeverityError, CodeNestedStart, tok.Line,
					"'Start %s' opened inside '%s' (line %d)", tok.Name, open.Name, open.Line)
			}
			stack = append(stack, tok)
		case MarkerEnd:
			if len(stack) == 0 {
				add(SeverityError, CodeOrphanEnd, tok.Line, "'End %s' has no open start", tok.Name)
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !strings.EqualFold(strings.TrimSpace(open.Name), strings.TrimSpace(tok.Name)) {
				add(SeverityError, CodeNameMismatch, tok.Line,
					"'End %s' closes 'Start %s' (line %d)", tok.Name, open.Name, open.Line)
				continue
			}
			if len(stack) == 0 {
				report.Pairs = append(report.Pairs, Pair{Open: open, Close: tok})
			}
		}
	}
	for _, open := range stack {
		add(SeverityError, CodeUnclosedStart, open.Line, "'Start %s' is never closed", open.Name)
	}

	for i := 1; i < len(report.Pairs); i++ {
		prev, next := report.Pairs[i-1], report.Pairs[i]
		gap := strings.TrimSpace(doc[prev.Close.End:next.Open.Start])
		if gap != "" {
			add(SeverityWarning, CodeUncapturedGap, prev.Close.Line,
				"%d bytes between 'End %s' and 'Start %s' belong to no section; recover them with extract-between",
				len(gap), prev.Close.Name, next.Open.Name)
		}
	}

	logging.Lint("scanned %d markers: %d pairs, %d errors, %d warnings",
		len(report.Tokens), len(report.Pairs), report.Errors(), report.Warnings())
	return report
}
