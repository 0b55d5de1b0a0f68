package section

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strict(kind MarkerKind, name string) string {
	return DefaultConvention.Marker(kind, name)
}

// menuDoc builds a document shaped like the admin menu: a header, three
// strict sections, a loose gap, and a footer.
func menuDoc() string {
	return strings.Join([]string{
		"<nav>",
		"    <ul class=\"dash-navbar\">",
		strict(MarkerStart, "Dashboard"),
		"<li>dashboard</li>",
		strict(MarkerEnd, "Dashboard"),
		strict(MarkerStart, "CRM & Sales"),
		"<li>crm</li>",
		strict(MarkerEnd, "CRM & Sales"),
		strict(MarkerStart, "POs System"),
		"<li>pos</li>",
		strict(MarkerEnd, "POs System"),
		"<li>other features</li>",
		strict(MarkerStart, "System Setup"),
		"<li>setup</li>",
		strict(MarkerEnd, "System Setup"),
		"    </ul>",
		"</nav>",
	}, "\n")
}

func TestMarkerLayout(t *testing.T) {
	got := strict(MarkerStart, "Dashboard")
	want := "<!--------------------- Start Dashboard ----------------------------------->"
	assert.Equal(t, want, got)
}

func TestExtractAll(t *testing.T) {
	doc := menuDoc()
	res := ExtractAll(doc, DefaultConvention)

	names := make([]string, len(res.Sections))
	bodies := make([]string, len(res.Sections))
	for i, s := range res.Sections {
		names[i] = s.Name
		bodies[i] = s.Body
	}
	if diff := cmp.Diff([]string{"Dashboard", "CRM & Sales", "POs System", "System Setup"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"<li>dashboard</li>", "<li>crm</li>", "<li>pos</li>", "<li>setup</li>"}, bodies); diff != "" {
		t.Errorf("bodies mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, res.Unmatched)
	assert.Equal(t, "<nav>\n    <ul class=\"dash-navbar\">\n\n    </ul>\n</nav>", res.Wrapper)
}

func TestExtractAll_NoMarkers(t *testing.T) {
	res := ExtractAll("  <ul></ul>\n", DefaultConvention)
	assert.Empty(t, res.Sections)
	assert.Equal(t, "<ul></ul>", res.Wrapper)
}

func TestExtractAll_IgnoresDashDrift(t *testing.T) {
	drifted := "<!---------------------- Start User Management -------------------------------->\n<li>users</li>\n" +
		"<!---------------------- End User Management -------------------------------->"
	doc := strict(MarkerStart, "A") + "a" + strict(MarkerEnd, "A") + "\n" + drifted

	res := ExtractAll(doc, DefaultConvention)
	require.Len(t, res.Sections, 1)
	assert.Equal(t, "A", res.Sections[0].Name)
}

func TestExtractAll_UnmatchedStartIsSkipped(t *testing.T) {
	doc := strict(MarkerStart, "Lost") + "x\n" +
		strict(MarkerStart, "Kept") + "y" + strict(MarkerEnd, "Kept")

	res := ExtractAll(doc, DefaultConvention)
	require.Len(t, res.Sections, 1)
	assert.Equal(t, "Kept", res.Sections[0].Name)
	assert.Equal(t, []string{"Lost"}, res.Unmatched)
}

func TestExtractAll_EndMustCarrySameName(t *testing.T) {
	doc := strict(MarkerStart, "A") + "one" + strict(MarkerEnd, "B") + "two" + strict(MarkerEnd, "A")
	res := ExtractAll(doc, DefaultConvention)
	require.Len(t, res.Sections, 1)
	assert.Equal(t, "one"+strict(MarkerEnd, "B")+"two", res.Sections[0].Body)
}

func TestSectionsNeverOverlap(t *testing.T) {
	res := ExtractAll(menuDoc(), DefaultConvention)
	for i := range res.Sections {
		for j := i + 1; j < len(res.Sections); j++ {
			assert.False(t, res.Sections[i].Overlaps(res.Sections[j]),
				"%q overlaps %q", res.Sections[i].Name, res.Sections[j].Name)
		}
	}
}

// normalizeLines trims every line and drops blank ones and marker lines.
func normalizeLines(doc string) []string {
	doc = DefaultConvention.pattern(MarkerStart).ReplaceAllString(doc, "\n")
	doc = DefaultConvention.pattern(MarkerEnd).ReplaceAllString(doc, "\n")
	var out []string
	for _, l := range strings.Split(doc, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	// Contiguous sections: nothing between one end marker and the next start.
	doc := strings.Replace(menuDoc(), "<li>other features</li>\n", "", 1)
	res := ExtractAll(doc, DefaultConvention)
	require.Len(t, res.Sections, 4)

	first, last := res.Sections[0], res.Sections[len(res.Sections)-1]
	prefix := strings.TrimSpace(doc[:first.Start])
	suffix := strings.TrimSpace(doc[last.End:])
	require.True(t, strings.HasPrefix(res.Wrapper, prefix), "wrapper %q", res.Wrapper)
	assert.Equal(t, suffix, strings.TrimSpace(res.Wrapper[len(prefix):]))

	parts := []string{res.Wrapper[:len(prefix)]}
	for _, s := range res.Sections {
		parts = append(parts, s.Body)
	}
	parts = append(parts, strings.TrimSpace(res.Wrapper[len(prefix):]))
	rebuilt := strings.Join(parts, "\n")

	if diff := cmp.Diff(normalizeLines(doc), normalizeLines(rebuilt)); diff != "" {
		t.Errorf("round trip mismatch (-doc +rebuilt):\n%s", diff)
	}

	// A gap between sections is not part of any body or of the wrapper.
	gapped := ExtractAll(menuDoc(), DefaultConvention)
	assert.Equal(t, res.Wrapper, gapped.Wrapper)
	assert.NotContains(t, gapped.Wrapper, "other features")
}

func TestExtractSection_Scenario(t *testing.T) {
	doc := "<!-- Start Foo ---> body text <!-- End Foo -->"
	s, err := ExtractSection(doc, "Foo")
	require.NoError(t, err)
	assert.Equal(t, "body text", s.Body)
	assert.Equal(t, "", Wrapper(doc, []Section{s}))
}

func TestExtractSection_Tolerance(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"many dashes", "<!------------ Start Foo ------------->x<!---- End Foo ->", "x"},
		{"no spaces before dashes", "<!--Start Foo-->x<!--End Foo-->", "x"},
		{"lowercase keywords", "<!-- start Foo -->x<!-- end Foo -->", "x"},
		{"name case differs", "<!-- Start FOO -->x<!-- End foo -->", "x"},
		{"newline inside marker", "<!--\nStart Foo\n-->\n  x  \n<!-- End Foo -->", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ExtractSection(tt.doc, "Foo")
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Body)
		})
	}
}

func TestExtractSection_RegexMetaInName(t *testing.T) {
	doc := "<!-- Start Sales (Q1) + More -->x<!-- End Sales (Q1) + More -->"
	s, err := ExtractSection(doc, "Sales (Q1) + More")
	require.NoError(t, err)
	assert.Equal(t, "x", s.Body)
}

func TestExtractSection_MissingMarkers(t *testing.T) {
	_, err := ExtractSection("<!-- End Foo -->", "Foo")
	var me *MarkerError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, []Marker{{MarkerStart, "Foo"}}, me.Missing)
	assert.ErrorIs(t, err, ErrMarkerNotFound)

	// The only End precedes the Start, so it must not be used.
	_, err = ExtractSection("<!-- End Foo --><!-- Start Foo -->tail", "Foo")
	require.ErrorAs(t, err, &me)
	assert.Equal(t, []Marker{{MarkerEnd, "Foo"}}, me.Missing)
}

func TestExtractFirst_ExactNamePriority(t *testing.T) {
	doc := "<!-- Start User Management -->second<!-- End User Management -->" +
		"<!-- Start User Managaement System -->first<!-- End User Managaement System -->"

	s, err := ExtractFirst(doc, "User Managaement System", "User Management")
	require.NoError(t, err)
	assert.Equal(t, "first", s.Body)
	assert.Equal(t, "User Managaement System", s.Name)

	s, err = ExtractFirst(doc, "Nope", "User Management", "User Managaement System")
	require.NoError(t, err)
	assert.Equal(t, "second", s.Body)
}

func TestChain_StopsAtFirstSuccess(t *testing.T) {
	calls := 0
	counting := func(name string, ok bool) Strategy {
		return Strategy{Name: name, Find: func(string) (Section, error) {
			calls++
			if ok {
				return Section{Name: name}, nil
			}
			return Section{}, errors.New("miss")
		}}
	}
	s, used, err := Chain("", counting("a", false), counting("b", true), counting("c", true))
	require.NoError(t, err)
	assert.Equal(t, "b", s.Name)
	assert.Equal(t, "b", used.Name)
	assert.Equal(t, 2, calls)
}

func TestExtractFirst_AllFail(t *testing.T) {
	_, err := ExtractFirst("nothing here", "A", "B")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAlternateMatched)
	assert.ErrorIs(t, err, ErrMarkerNotFound)
	assert.Contains(t, err.Error(), "Start A")
	assert.Contains(t, err.Error(), "Start B")

	_, _, err = Chain("doc")
	assert.ErrorIs(t, err, ErrNoAlternateMatched)
}

func TestExtractBetween(t *testing.T) {
	g, err := ExtractBetween(menuDoc(), "POs System", "System Setup")
	require.NoError(t, err)
	assert.Equal(t, "<li>other features</li>", g.Body)
}

func TestExtractBetween_KeepsInnerMarkers(t *testing.T) {
	doc := "<!-- End A --> x <!-- Start Inner --> y <!-- End Inner --> <!-- Start B -->"
	g, err := ExtractBetween(doc, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, "x <!-- Start Inner --> y <!-- End Inner -->", g.Body)
}

func TestExtractBetween_Failures(t *testing.T) {
	var me *MarkerError

	_, err := ExtractBetween("nothing", "A", "B")
	require.ErrorAs(t, err, &me)
	assert.Equal(t, []Marker{{MarkerEnd, "A"}, {MarkerStart, "B"}}, me.Missing)

	_, err = ExtractBetween("<!-- End A -->", "A", "B")
	require.ErrorAs(t, err, &me)
	assert.Equal(t, []Marker{{MarkerStart, "B"}}, me.Missing)

	_, err = ExtractBetween("<!-- End A -->\n   \n<!-- Start B -->", "A", "B")
	assert.ErrorIs(t, err, ErrEmptyGap)

	_, err = ExtractBetween("<!-- Start B --> text <!-- End A -->", "A", "B")
	assert.ErrorIs(t, err, ErrEmptyGap)
}

func TestPartialName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Dashboard", "dashboard.blade.php"},
		{"POs System", "pos-system.blade.php"},
		{"CRM & Sales", "crm-and-sales.blade.php"},
		{"User Managaement System", "user-managaement-system.blade.php"},
	}
	for _, tt := range tests {
		got := PartialName(tt.in, DefaultExtension)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, got, PartialName(tt.in, DefaultExtension), "naming must be pure")
	}
	assert.Equal(t, "pos-system", BaseName("pos-system.blade.php", DefaultExtension))
	assert.Equal(t, "pos-system", BaseName("pos-system", DefaultExtension))
	assert.Equal(t, "x.txt", BaseName("x.txt", ""))
}

func TestMarkerErrorMessage(t *testing.T) {
	err := &MarkerError{Missing: []Marker{{MarkerEnd, "POs System"}, {MarkerStart, "System Setup"}}}
	assert.Equal(t, "marker not found: 'End POs System', 'Start System Setup'", err.Error())
}
