package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadenpxrk/prism/internal/config"
	"github.com/jadenpxrk/prism/internal/language"
	"github.com/jadenpxrk/prism/internal/model"
	"github.com/jadenpxrk/prism/internal/structure"
)

func testResult() *model.Result {
	selected := []*model.Candidate{
		{RelPath: "src/app.ts", Relevance: 0.9, Included: true,
			Content: "const x = 1 < 2 && true;\n"},
		{RelPath: "package.json", Relevance: 0.85, Included: true,
			Content: "{\"name\": \"demo\"}\n"},
	}
	res := &model.Result{
		Overview: model.Overview{
			Name:        "demo",
			Type:        "node",
			TechStack:   []string{"json", "typescript"},
			EntryPoints: []string{"src/app.ts"},
			ConfigFiles: []string{"package.json"},
			CoreFiles:   []string{"src/app.ts", "package.json"},
		},
		Selected: selected,
	}
	res.Tree = structure.Build(selected)
	return res
}

func newTestRenderer() *Renderer {
	return New(language.Default())
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := newTestRenderer().Render(testResult(), config.RenderConfig{Format: "csv"})
	assert.Error(t, err)
}

func TestStructured_EscapesReservedCharacters(t *testing.T) {
	out, err := newTestRenderer().Render(testResult(), config.RenderConfig{Format: config.FormatStructured})
	require.NoError(t, err)

	assert.Contains(t, out, "1 &lt; 2 &amp;&amp; true")
	assert.NotContains(t, out, "1 < 2 && true")
}

func TestStructured_SeparatesConfigFiles(t *testing.T) {
	out, err := newTestRenderer().Render(testResult(), config.RenderConfig{Format: config.FormatStructured})
	require.NoError(t, err)

	sources := out[strings.Index(out, "<sourceFiles>"):strings.Index(out, "</sourceFiles>")]
	configs := out[strings.Index(out, "<configuration>"):strings.Index(out, "</configuration>")]
	assert.Contains(t, sources, "src/app.ts")
	assert.NotContains(t, sources, "package.json")
	assert.Contains(t, configs, "package.json")
}

func TestStructured_EmptySelectionKeepsWrapper(t *testing.T) {
	res := &model.Result{Overview: model.Overview{Name: "empty", Type: "unknown"}}
	out, err := newTestRenderer().Render(res, config.RenderConfig{Format: config.FormatStructured})
	require.NoError(t, err)

	assert.Contains(t, out, "<project name=\"empty\"")
	assert.Contains(t, out, "<sourceFiles>")
	assert.NotContains(t, out, "<file ")
}

func TestOverview_ListsCoreFiles(t *testing.T) {
	structured, err := newTestRenderer().Render(testResult(), config.RenderConfig{Format: config.FormatStructured})
	require.NoError(t, err)
	overview := structured[strings.Index(structured, "<overview>"):strings.Index(structured, "</overview>")]
	assert.Contains(t, overview, "<coreFile>src/app.ts</coreFile>")
	assert.Contains(t, overview, "<coreFile>package.json</coreFile>")

	document, err := newTestRenderer().Render(testResult(), config.RenderConfig{Format: config.FormatDocument})
	require.NoError(t, err)
	assert.Contains(t, document, "**Core files:** src/app.ts, package.json")
}

func TestDocument_FenceTags(t *testing.T) {
	out, err := newTestRenderer().Render(testResult(), config.RenderConfig{Format: config.FormatDocument})
	require.NoError(t, err)

	assert.Contains(t, out, "### src/app.ts (relevance 90%)")
	assert.Contains(t, out, "```typescript\n")
	assert.Contains(t, out, "```json\n")
	// Markdown is not escaped.
	assert.Contains(t, out, "1 < 2 && true")
}

func TestDocument_UnrecognizedExtensionGetsNoTag(t *testing.T) {
	res := &model.Result{
		Overview: model.Overview{Name: "demo", Type: "unknown"},
		Selected: []*model.Candidate{
			{RelPath: "data.unknownext", Relevance: 0.5, Included: true, Content: "x\n"},
		},
	}
	res.Tree = structure.Build(res.Selected)

	out, err := newTestRenderer().Render(res, config.RenderConfig{Format: config.FormatDocument})
	require.NoError(t, err)
	assert.Contains(t, out, "```\nx\n```")
}

func TestPlain_LexicographicWithPathComments(t *testing.T) {
	out, err := newTestRenderer().Render(testResult(), config.RenderConfig{
		Format:            config.FormatPlain,
		PreserveStructure: true,
	})
	require.NoError(t, err)

	// package.json sorts before src/app.ts.
	pkgIdx := strings.Index(out, "// package.json")
	appIdx := strings.Index(out, "// src/app.ts")
	require.GreaterOrEqual(t, pkgIdx, 0)
	require.Greater(t, appIdx, pkgIdx)
	assert.Contains(t, out, "1 < 2 && true")
}

func TestPlain_NoCommentsWithoutPreserveStructure(t *testing.T) {
	out, err := newTestRenderer().Render(testResult(), config.RenderConfig{
		Format:            config.FormatPlain,
		PreserveStructure: false,
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "// src/app.ts")
	assert.Contains(t, out, "const x = 1")
}

func TestRender_Idempotent(t *testing.T) {
	for _, format := range []string{config.FormatStructured, config.FormatDocument, config.FormatPlain} {
		cfg := config.RenderConfig{Format: format, PreserveStructure: true}
		first, err := newTestRenderer().Render(testResult(), cfg)
		require.NoError(t, err)
		second, err := newTestRenderer().Render(testResult(), cfg)
		require.NoError(t, err)
		assert.Equal(t, first, second, "format %s", format)
	}
}

func TestRenderTree_UniformBranchMarker(t *testing.T) {
	forest := structure.Build([]*model.Candidate{
		{RelPath: "src/a.ts", Included: true, Content: "x"},
		{RelPath: "src/b.ts", Included: true, Content: "x"},
		{RelPath: "README.md", Included: true, Content: "x"},
	})
	tree := RenderTree(forest)

	lines := strings.Split(strings.TrimRight(tree, "\n"), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Contains(t, line, "├── ")
	}
	assert.Equal(t, "├── src/", lines[0])
	assert.Equal(t, "  ├── a.ts", lines[1])
	assert.Equal(t, "  ├── b.ts", lines[2])
	assert.Equal(t, "├── README.md", lines[3])
}
