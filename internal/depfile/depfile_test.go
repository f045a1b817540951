// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package depfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/texdeps/internal/extract"
	"github.com/pdiddy/texdeps/pkg/types"
)

func graphic(path string) types.Reference {
	return types.Reference{Path: path, Kind: types.KindGraphic}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		docPath string
		refs    []types.Reference
		want    []string
	}{
		{
			name:    "relative to document directory",
			docPath: "figs/report.tex",
			refs:    []types.Reference{{Path: "intro.tex", Kind: types.KindSubDocument}},
			want:    []string{"figs/intro.tex"},
		},
		{
			name:    "document in current directory",
			docPath: "paper.tex",
			refs:    []types.Reference{graphic("fig1.pdf")},
			want:    []string{"fig1.pdf"},
		},
		{
			name:    "parent segments collapsed",
			docPath: "Manuscript/paper.tex",
			refs:    []types.Reference{graphic("../Datafiles/fit.pdf")},
			want:    []string{"Datafiles/fit.pdf"},
		},
		{
			name:    "duplicates removed",
			docPath: "paper.tex",
			refs:    []types.Reference{graphic("fig1.pdf"), graphic("fig1.pdf")},
			want:    []string{"fig1.pdf"},
		},
		{
			name:    "sorted lexicographically",
			docPath: "paper.tex",
			refs:    []types.Reference{graphic("z.pdf"), graphic("a.pdf"), graphic("m.pdf")},
			want:    []string{"a.pdf", "m.pdf", "z.pdf"},
		},
		{
			name:    "absolute reference left rooted",
			docPath: "figs/report.tex",
			refs:    []types.Reference{graphic("/shared/logo.pdf")},
			want:    []string{"/shared/logo.pdf"},
		},
		{
			name:    "no references",
			docPath: "paper.tex",
			refs:    nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.docPath, tt.refs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOrderInvariance(t *testing.T) {
	refs := []types.Reference{graphic("fig1.pdf"), graphic("refs.bib"), graphic("intro.tex")}
	shuffled := []types.Reference{graphic("intro.tex"), graphic("fig1.pdf"), graphic("refs.bib")}

	assert.Equal(t, Resolve("paper.tex", refs), Resolve("paper.tex", shuffled))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		decl types.Declaration
		want string
	}{
		{
			name: "target with dependencies",
			decl: types.Declaration{Target: "paper.pdf", Deps: []string{"fig1.pdf", "refs.bib"}},
			want: "paper.pdf: fig1.pdf refs.bib\n",
		},
		{
			name: "no dependencies",
			decl: types.Declaration{Target: "paper.pdf"},
			want: "paper.pdf:\n",
		},
		{
			name: "single dependency",
			decl: types.Declaration{Target: "figs/report.pdf", Deps: []string{"figs/intro.tex"}},
			want: "figs/report.pdf: figs/intro.tex\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.decl))
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := types.ScanConfig{}
	assert.Equal(t, "paper.pdf", DefaultTarget("paper.tex", cfg))
	assert.Equal(t, "figs/report.pdf", DefaultTarget("figs/report.tex", cfg))
	assert.Equal(t, "notes.html", DefaultTarget("notes.md", types.ScanConfig{OutputExtension: ".html"}))
	assert.Equal(t, "paper.dep", DefaultOutput("paper.tex"))
	assert.Equal(t, "figs/report.dep", DefaultOutput("figs/report.tex"))
}

func TestWriteReplacesInFull(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.dep")

	require.NoError(t, os.WriteFile(path, []byte("stale.pdf: old.pdf leftovers.bib\n"), 0o644))

	decl := types.Declaration{Target: "paper.pdf", Deps: []string{"fig1.pdf"}}
	require.NoError(t, Write(path, decl))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "paper.pdf: fig1.pdf\n", string(data))

	// The temporary file must not survive a successful write.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateEndToEnd(t *testing.T) {
	dir := t.TempDir()
	content := "\\documentclass{article}\n" +
		"\\includegraphics[width=0.5\\textwidth]{fig1}\n" +
		"\\bibliography{refs}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paper.tex"), []byte(content), 0o644))
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	sc := extract.NewScanner(types.ScanConfig{})
	decl, err := Generate(sc, "paper.tex", "paper.dep", "", types.ScanConfig{})
	require.NoError(t, err)

	assert.Equal(t, "paper.pdf", decl.Target)
	assert.Equal(t, []string{"fig1.pdf", "refs.bib"}, decl.Deps)

	data, err := os.ReadFile("paper.dep")
	require.NoError(t, err)
	assert.Equal(t, "paper.pdf: fig1.pdf refs.bib\n", string(data))
}

func TestGenerateIdempotent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.tex")
	out := filepath.Join(dir, "report.dep")
	content := "\\input{intro}\n\\includegraphics{fig2}\n\\includegraphics{fig1}\n"
	require.NoError(t, os.WriteFile(src, []byte(content), 0o644))

	sc := extract.NewScanner(types.ScanConfig{})

	_, err := Generate(sc, src, out, "", types.ScanConfig{})
	require.NoError(t, err)
	first, err := os.ReadFile(out)
	require.NoError(t, err)

	_, err = Generate(sc, src, out, "", types.ScanConfig{})
	require.NoError(t, err)
	second, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Equal(t, first, second, "repeated runs must be byte-identical")
}

func TestGenerateExplicitTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.md")
	out := filepath.Join(dir, "notes.dep")
	require.NoError(t, os.WriteFile(src, []byte("![](sketch.pdf)\n"), 0o644))

	sc := extract.NewScanner(types.ScanConfig{})
	decl, err := Generate(sc, src, out, "build/notes.pdf", types.ScanConfig{})
	require.NoError(t, err)
	assert.Equal(t, "build/notes.pdf", decl.Target)
}

func TestGenerateUnsupportedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.docx")
	out := filepath.Join(dir, "notes.dep")
	require.NoError(t, os.WriteFile(src, []byte("not a manuscript"), 0o644))

	sc := extract.NewScanner(types.ScanConfig{})
	_, err := Generate(sc, src, out, "", types.ScanConfig{})
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "failed run must not write a declaration")
}
