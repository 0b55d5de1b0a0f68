package compose

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indent = "                "

func TestCompose_Scenario(t *testing.T) {
	wrapper := "<ul class=\"dash-navbar\">\n" + indent + "</ul>"
	want := "<ul class=\"dash-navbar\">\n" +
		indent + "@include('partials.admin.menu.a')\n" +
		indent + "@include('partials.admin.menu.b')\n" +
		indent + "</ul>"

	res, err := Compose(wrapper, []string{"a", "b"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, want, res.Document)
	assert.Equal(t, "exact", res.Strategy)
	assert.Equal(t, []string{"a", "b"}, res.Included)
}

func TestCompose_StripsExtension(t *testing.T) {
	wrapper := "<ul class=\"dash-navbar\">\n" + indent + "</ul>"
	res, err := Compose(wrapper, []string{"pos-system.blade.php"}, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, res.Document, "@include('partials.admin.menu.pos-system')")
}

func TestCompose_OnlyFirstEmptyTarget(t *testing.T) {
	empty := "<ul class=\"dash-navbar\">\n" + indent + "</ul>"
	wrapper := empty + "\n" + empty
	res, err := Compose(wrapper, []string{"a"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(res.Document, "@include"))
	assert.True(t, strings.HasSuffix(res.Document, "\n"+empty))
}

func TestCompose_SkipsNonEmptyTargets(t *testing.T) {
	wrapper := strings.Join([]string{
		"@if (client)",
		"            <ul class=\"dash-navbar\">",
		indent + "<li>client</li>",
		"            </ul>",
		"@endif",
	}, "\n")
	_, err := Compose(wrapper, []string{"a"}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInsertionPointNotFound)
}

func TestCompose_BlankLineBeforeClose(t *testing.T) {
	// Shape left behind when indented section markers are cut out.
	wrapper := "            <ul class=\"dash-navbar\">\n" + indent + "\n            </ul>"
	want := "            <ul class=\"dash-navbar\">\n" +
		indent + "@include('partials.admin.menu.dashboard')\n" +
		indent + "\n            </ul>"

	res, err := Compose(wrapper, []string{"dashboard"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "exact", res.Strategy)
	assert.Equal(t, want, res.Document)
}

func TestCompose_FirstEmptyTargetAfterNonEmpty(t *testing.T) {
	filled := "<ul class=\"dash-navbar\">\n" + indent + "<li>client</li>\n</ul>"
	empty := "<ul class=\"dash-navbar\">\n" + indent + "</ul>"
	res, err := Compose(filled+"\n"+empty, []string{"a"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "exact", res.Strategy)
	assert.True(t, strings.HasPrefix(res.Document, filled+"\n"), "non-empty list must be left alone")
	assert.Contains(t, res.Document, "<ul class=\"dash-navbar\">\n"+indent+"@include('partials.admin.menu.a')\n"+indent+"</ul>")
}

func TestCompose_LineFallback(t *testing.T) {
	// Closing tag indented differently from the configured indent.
	wrapper := strings.Join([]string{
		"<nav>",
		"    <ul class=\"dash-navbar\">",
		"        </ul>",
		"</nav>",
	}, "\n")
	want := strings.Join([]string{
		"<nav>",
		"    <ul class=\"dash-navbar\">",
		"        @include('partials.admin.menu.a')",
		"        @include('partials.admin.menu.b')",
		"        </ul>",
		"</nav>",
	}, "\n")

	res, err := Compose(wrapper, []string{"a", "b"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "line", res.Strategy)
	assert.Equal(t, want, res.Document)
}

func TestCompose_FallbackSkipsNonEmptyList(t *testing.T) {
	wrapper := strings.Join([]string{
		"<ul class=\"dash-navbar\">",
		"  <li>x</li>",
		"</ul>",
		"<ul class=\"dash-navbar\">",
		"\t</ul>",
	}, "\n")
	res, err := Compose(wrapper, []string{"a"}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "line", res.Strategy)
	assert.True(t, strings.HasSuffix(res.Document, "<ul class=\"dash-navbar\">\n\t@include('partials.admin.menu.a')\n\t</ul>"))
}

func TestCompose_NoTarget(t *testing.T) {
	_, err := Compose("<div></div>", []string{"a"}, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsertionPointNotFound))
}

func TestCompose_CustomStrategies(t *testing.T) {
	never := Strategy{Name: "never", Splice: func(string, []string, Options) (string, bool) { return "", false }}
	always := Strategy{Name: "always", Splice: func(w string, refs []string, _ Options) (string, bool) {
		return w + strings.Join(refs, ","), true
	}}
	res, err := Compose("x:", []string{"a"}, DefaultOptions(), never, always)
	require.NoError(t, err)
	assert.Equal(t, "always", res.Strategy)
	assert.Equal(t, "x:@include('partials.admin.menu.a')", res.Document)
}

func TestCompose_NoPartials(t *testing.T) {
	wrapper := "<ul class=\"dash-navbar\">\n" + indent + "</ul>"
	res, err := Compose(wrapper, nil, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, wrapper, res.Document)
}
