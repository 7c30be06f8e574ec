package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView() *View {
	added := CommitRecord{
		LongHash:  strings.Repeat("a", 40),
		ShortHash: "aaaaaaa",
		Date:      "2024-03-01",
		Semver:    Minor,
		Category:  CategoryAdded,
		Summary:   "Add retry logic",
		Trailers:  []Trailer{{Key: "Refs", Value: "#12"}},
	}
	fixed := CommitRecord{
		LongHash:  strings.Repeat("b", 40),
		ShortHash: "bbbbbbb",
		Date:      "2024-02-28",
		Semver:    Patch,
		Category:  CategoryFixed,
		Summary:   "Fix off-by-one",
	}
	return &View{
		Repo:        RepoRef{Owner: "acme", Name: "widgets"},
		Current:     &added,
		PreviousTag: "v1.2.3",
		Tag:         "v1.3.0",
		Rank:        RankMinor | RankPatch,
		Categories: []Category{
			{Title: CategoryAdded, Commits: []CommitRecord{added}},
			{Title: CategoryFixed, Commits: []CommitRecord{fixed}},
		},
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer("")
	require.NoError(t, err)

	got, err := r.Render(sampleView())
	require.NoError(t, err)

	base := "https://github.com/acme/widgets"
	want := "## [v1.3.0](" + base + "/releases/tag/v1.3.0) - 2024-03-01\n" +
		"\n" +
		"[Compare changes](" + base + "/compare/v1.2.3...v1.3.0) | Commit [`aaaaaaa`](" + base + "/commit/" + strings.Repeat("a", 40) + ")\n" +
		"\n" +
		"### Added\n" +
		"\n" +
		"- *Minor* Add retry logic ([`aaaaaaa`](" + base + "/commit/" + strings.Repeat("a", 40) + "))\n" +
		"  - Refs: #12\n" +
		"\n" +
		"### Fixed\n" +
		"\n" +
		"- *Patch* Fix off-by-one ([`bbbbbbb`](" + base + "/commit/" + strings.Repeat("b", 40) + "))\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestRenderer_RenderWithoutBump(t *testing.T) {
	t.Parallel()

	v := sampleView()
	v.Tag = v.PreviousTag
	v.Rank = 0

	r, err := NewRenderer("")
	require.NoError(t, err)

	got, err := r.Render(v)
	require.NoError(t, err)
	assert.NotContains(t, got, "Compare changes")
	assert.True(t, strings.HasPrefix(got, "## [v1.2.3]"))
}

func TestRenderer_RenderEmpty(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer("")
	require.NoError(t, err)

	tests := map[string]*View{
		"nil view":      nil,
		"no categories": {Tag: "v1.0.0", PreviousTag: "v1.0.0"},
		"current only":  {Current: &CommitRecord{ShortHash: "abc1234"}},
	}
	for name, v := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := r.Render(v)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func writeTemplates(t *testing.T, dir string, names ...string) {
	t.Helper()
	sources := map[string]string{
		TemplateRelease:  "# {{.Tag}}{{range .Categories}}\n{{template \"category\" (scope $.Repo .)}}{{end}}\n",
		TemplateCategory: "{{.Item.Title}}:{{range .Item.Commits}} {{template \"commit\" (scope $.Repo .)}}{{end}}",
		TemplateCommit:   "{{.Item.ShortHash}}@{{.Repo}}",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".tmpl"), []byte(sources[name]), 0o644))
	}
}

func TestNewRenderer_TemplateDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTemplates(t, dir, TemplateNames()...)

	r, err := NewRenderer(dir)
	require.NoError(t, err)

	got, err := r.Render(sampleView())
	require.NoError(t, err)
	assert.Equal(t, "# v1.3.0\nAdded: aaaaaaa@acme/widgets\nFixed: bbbbbbb@acme/widgets\n\n", got)
}

func TestNewRenderer_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		present  []string
		broken   string
		wantName string
	}{
		"missing release":  {present: []string{TemplateCategory, TemplateCommit}, wantName: TemplateRelease},
		"missing category": {present: []string{TemplateRelease, TemplateCommit}, wantName: TemplateCategory},
		"missing commit":   {present: []string{TemplateRelease, TemplateCategory}, wantName: TemplateCommit},
		"parse failure":    {present: TemplateNames(), broken: TemplateCommit, wantName: TemplateCommit},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeTemplates(t, dir, tt.present...)
			if tt.broken != "" {
				path := filepath.Join(dir, tt.broken+".tmpl")
				require.NoError(t, os.WriteFile(path, []byte("{{.Unclosed"), 0o644))
			}

			_, err := NewRenderer(dir)
			var tmplErr *TemplateError
			require.ErrorAs(t, err, &tmplErr)
			assert.Equal(t, tt.wantName, tmplErr.Name)
			assert.Equal(t, dir, tmplErr.Dir)
		})
	}
}

func TestFormatPreview(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		view     *View
		contains []string
	}{
		"bumped release": {
			view: sampleView(),
			contains: []string{
				"## v1.2.3 → v1.3.0 (minor, 2 commits, 2024-03-01)",
				"### Added",
				"  - aaaaaaa [minor] Add retry logic",
				"### Fixed",
				"  - bbbbbbb [patch] Fix off-by-one",
			},
		},
		"empty release": {
			view:     &View{Tag: "v1.0.0", PreviousTag: "v1.0.0"},
			contains: []string{"## v1.0.0 (no version change, 0 commits)", "No changes to release."},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var b strings.Builder
			require.NoError(t, FormatPreview(tt.view, &b, FormatOptions{Plain: true, MaxWidth: 80}))
			for _, s := range tt.contains {
				assert.Contains(t, b.String(), s)
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text   string
		width  int
		indent string
		want   string
	}{
		"short text unchanged": {text: "hello world", width: 20, indent: "  ", want: "hello world"},
		"wraps at last space":  {text: "hello brave new world", width: 12, indent: "  ", want: "hello brave\n  new world"},
		"zero width":           {text: "anything goes", width: 0, indent: "", want: "anything goes"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width, tt.indent))
		})
	}
}
