package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(r LintReport) []string {
	out := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		out[i] = f.Code
	}
	return out
}

func TestScan(t *testing.T) {
	doc := "head\n" + strict(MarkerStart, "Dashboard") + "\nbody\n<!---- end Dashboard -->\n"
	tokens := Scan(doc, DefaultConvention)
	require.Len(t, tokens, 2)

	assert.Equal(t, MarkerStart, tokens[0].Kind)
	assert.Equal(t, "Dashboard", tokens[0].Name)
	assert.Equal(t, 2, tokens[0].Line)
	assert.Equal(t, 21, tokens[0].LeadDashes)
	assert.Equal(t, 35, tokens[0].TrailDashes)
	assert.True(t, tokens[0].Strict)

	assert.Equal(t, MarkerEnd, tokens[1].Kind)
	assert.Equal(t, 4, tokens[1].Line)
	assert.Equal(t, 4, tokens[1].LeadDashes)
	assert.Equal(t, 2, tokens[1].TrailDashes)
	assert.False(t, tokens[1].Strict)
}

func TestLint_CleanMenu(t *testing.T) {
	doc := strict(MarkerStart, "A") + "a" + strict(MarkerEnd, "A") + "\n" +
		strict(MarkerStart, "B") + "b" + strict(MarkerEnd, "B")
	r := Lint(doc, DefaultConvention)
	assert.Empty(t, r.Findings)
	assert.Len(t, r.Pairs, 2)
	assert.Zero(t, r.Errors())
}

func TestLint_Findings(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		want   []string
		errors int
	}{
		{
			name:   "orphan end",
			doc:    strict(MarkerEnd, "A"),
			want:   []string{CodeOrphanEnd},
			errors: 1,
		},
		{
			name:   "unclosed start",
			doc:    strict(MarkerStart, "A") + "text",
			want:   []string{CodeUnclosedStart},
			errors: 1,
		},
		{
			name:   "misnamed end",
			doc:    strict(MarkerStart, "User Managaement System") + "x" + strict(MarkerEnd, "User Management System"),
			want:   []string{CodeNameMismatch},
			errors: 1,
		},
		{
			name: "nested start",
			doc: strict(MarkerStart, "Outer") + strict(MarkerStart, "Inner") + "x" +
				strict(MarkerEnd, "Inner") + strict(MarkerEnd, "Outer"),
			want:   []string{CodeNestedStart},
			errors: 1,
		},
		{
			name:   "dash drift",
			doc:    "<!-- Start A -->x<!-- End A -->",
			want:   []string{CodeDashDrift, CodeDashDrift},
			errors: 0,
		},
		{
			name: "gap content",
			doc: strict(MarkerStart, "POs System") + "p" + strict(MarkerEnd, "POs System") +
				"\n<li>other</li>\n" + strict(MarkerStart, "System Setup") + "s" + strict(MarkerEnd, "System Setup"),
			want:   []string{CodeUncapturedGap},
			errors: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Lint(tt.doc, DefaultConvention)
			assert.Equal(t, tt.want, codes(r))
			assert.Equal(t, tt.errors, r.Errors())
			assert.Equal(t, len(tt.want)-tt.errors, r.Warnings())
		})
	}
}

func TestLint_CaseInsensitiveNames(t *testing.T) {
	r := Lint("<!-- Start Foo -->x<!-- END foo -->", DefaultConvention)
	assert.Zero(t, r.Errors())
	assert.Len(t, r.Pairs, 1)
}

func TestFindingString(t *testing.T) {
	f := Finding{Severity: SeverityError, Code: CodeOrphanEnd, Line: 7, Message: "'End A' has no open start"}
	assert.Equal(t, "7: error: orphan-end: 'End A' has no open start", f.String())
}
