package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadenpxrk/prism/internal/config"
	"github.com/jadenpxrk/prism/internal/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func defaultOpts() Options {
	return Options{
		Filter: config.DefaultFilter(),
		Render: config.DefaultRender(),
	}
}

func selectedPaths(res *model.Result) []string {
	out := make([]string, len(res.Selected))
	for i, c := range res.Selected {
		out[i] = c.RelPath
	}
	return out
}

const appTS = `import { greet } from "./greet";

export function app() {
  return greet("world");
}
`

func buildFixture(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, root, "README.md", strings.Repeat("# Demo project\n", 14))
	writeFile(t, root, "src/app.ts", appTS)
	writeFile(t, root, "node_modules/pkg/index.js", strings.Repeat("module.exports = {};\n", 24))
	return root
}

func TestProcess_DefaultScenario(t *testing.T) {
	root := buildFixture(t)

	res, err := Process(context.Background(), []string{root}, defaultOpts())
	require.NoError(t, err)

	paths := selectedPaths(res)
	assert.Contains(t, paths, "README.md")
	assert.Contains(t, paths, "src/app.ts")
	for _, p := range paths {
		assert.NotContains(t, p, "node_modules")
	}

	// Documentation base relevance holds; source with entry-point bonus
	// outranks it.
	var readme, app *model.Candidate
	for _, c := range res.Selected {
		switch c.RelPath {
		case "README.md":
			readme = c
		case "src/app.ts":
			app = c
		}
	}
	require.NotNil(t, readme)
	require.NotNil(t, app)
	assert.GreaterOrEqual(t, readme.Relevance, 0.3)
	assert.Greater(t, app.Relevance, readme.Relevance)

	assert.Greater(t, res.TokenCount, 0)
	assert.Equal(t, filepath.Base(root), res.Overview.Name)
	assert.Contains(t, res.Output, "src/app.ts")
}

func TestProcess_Idempotent(t *testing.T) {
	root := buildFixture(t)
	opts := defaultOpts()

	first, err := Process(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	second, err := Process(context.Background(), []string{root}, opts)
	require.NoError(t, err)

	assert.Equal(t, first.Output, second.Output)
	assert.Equal(t, first.TokenCount, second.TokenCount)
	assert.Equal(t, first.TotalBytes, second.TotalBytes)
}

func TestProcess_RespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "secret.md\n")
	writeFile(t, root, "secret.md", "do not pack\n")
	writeFile(t, root, "public.md", "fine to pack\n")

	res, err := Process(context.Background(), []string{root}, defaultOpts())
	require.NoError(t, err)

	paths := selectedPaths(res)
	assert.Contains(t, paths, "public.md")
	assert.NotContains(t, paths, "secret.md")
}

func TestProcess_NoIgnoreFlag(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "secret.md\n")
	writeFile(t, root, "secret.md", "contents\n")

	opts := defaultOpts()
	opts.Filter.RespectIgnoreFile = false

	res, err := Process(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	assert.Contains(t, selectedPaths(res), "secret.md")
}

func TestProcess_SelectionMode(t *testing.T) {
	root := buildFixture(t)

	res, err := Process(context.Background(), []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "src"),
	}, defaultOpts())
	require.NoError(t, err)

	paths := selectedPaths(res)
	assert.Contains(t, paths, "README.md")
	assert.Contains(t, paths, "app.ts")
	assert.Equal(t, "selection", res.Overview.Name)
}

func TestProcess_EmptyResultIsNotAnError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "image.png", "binary-ish")

	res, err := Process(context.Background(), []string{root}, defaultOpts())
	require.NoError(t, err)
	assert.Empty(t, res.Selected)

	// Exclusion stays explainable through the candidate list.
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "binary file", res.Candidates[0].ExclusionReason)
	assert.NotEmpty(t, res.Output)
}

func TestProcess_ConfigErrorsFailFast(t *testing.T) {
	opts := defaultOpts()
	opts.Render.Format = "sideways"
	_, err := Process(context.Background(), []string{"."}, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")

	opts = defaultOpts()
	opts.Filter.MaxTotalSize = 0
	_, err = Process(context.Background(), []string{"."}, opts)
	assert.Error(t, err)
}

func TestProcess_MissingRootIsDiagnostic(t *testing.T) {
	res, err := Process(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, defaultOpts())
	require.NoError(t, err)
	assert.Empty(t, res.Selected)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, "walk", res.Diagnostics[0].Stage)
}

func TestProcess_BudgetBoundsOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", strings.Repeat("alpha content\n", 20))
	writeFile(t, root, "b.md", strings.Repeat("bravo content\n", 20))

	opts := defaultOpts()
	opts.Filter.MaxTotalSize = 300

	res, err := Process(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.TotalBytes, int64(300))
	assert.Len(t, res.Selected, 1)
}
