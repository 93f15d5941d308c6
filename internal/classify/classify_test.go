package classify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadenpxrk/prism/internal/model"
)

func candidateFor(t *testing.T, dir, rel, content string) *model.Candidate {
	t.Helper()
	abs := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
	return &model.Candidate{
		AbsolutePath: abs,
		RelPath:      rel,
		Size:         int64(len(content)),
		Ext:          strings.ToLower(filepath.Ext(rel)),
		Included:     true,
	}
}

const appTS = `import { greet } from "./greet";

export function app() {
  return greet("world");
}
`

func TestClassify_SourceWithEntryPointBonus(t *testing.T) {
	dir := t.TempDir()
	cand := candidateFor(t, dir, "app.ts", appTS)

	Classify(cand)

	require.NoError(t, cand.ReadErr)
	assert.Equal(t, appTS, cand.Content)
	assert.Greater(t, cand.Relevance, 0.8)
	assert.Greater(t, cand.Density, 0.0)
}

func TestClassify_DocumentationBase(t *testing.T) {
	dir := t.TempDir()
	cand := candidateFor(t, dir, "README.md", "# Demo\n\nA small project.\n")

	Classify(cand)

	require.NoError(t, cand.ReadErr)
	// Documentation starts at relevance 0.6; content analysis never pushes a
	// plain readme above a scored entry-point source file.
	assert.GreaterOrEqual(t, cand.Relevance, 0.3)
	assert.LessOrEqual(t, cand.Relevance, 0.8)
}

func TestClassify_ManifestOutranksGenericText(t *testing.T) {
	dir := t.TempDir()
	manifest := candidateFor(t, dir, "package.json", "{\n  \"name\": \"demo\"\n}\n")
	notes := candidateFor(t, dir, "notes.txt", "some meeting notes\nmore notes\n")

	Classify(manifest)
	Classify(notes)

	assert.Greater(t, manifest.Relevance, notes.Relevance)
}

func TestClassify_ReadFailureKeepsBaseScores(t *testing.T) {
	cand := &model.Candidate{
		AbsolutePath: filepath.Join(t.TempDir(), "missing.ts"),
		RelPath:      "missing.ts",
		Ext:          ".ts",
		Included:     true,
	}

	Classify(cand)

	require.Error(t, cand.ReadErr)
	assert.Empty(t, cand.Content)
	// Base source scores survive without content adjustment.
	assert.InDelta(t, 0.7, cand.Density, 0.001)
	assert.InDelta(t, 0.8, cand.Relevance, 0.001)
}

func TestClassify_BinaryDespiteExtension(t *testing.T) {
	dir := t.TempDir()
	cand := candidateFor(t, dir, "data.ts", "hello\x00world")

	Classify(cand)

	require.Error(t, cand.ReadErr)
	assert.Empty(t, cand.Content)
}

func TestClassify_ExcludedIsNoOp(t *testing.T) {
	cand := &model.Candidate{RelPath: "skip.ts", Ext: ".ts", Included: false}
	Classify(cand)
	assert.Zero(t, cand.Relevance)
	assert.Empty(t, cand.Content)
}

func TestRun_PopulatesAllIncluded(t *testing.T) {
	dir := t.TempDir()
	var cands []*model.Candidate
	cands = append(cands, candidateFor(t, dir, "a.ts", appTS))
	cands = append(cands, candidateFor(t, dir, "b.ts", appTS))
	cands = append(cands, &model.Candidate{RelPath: "skip.png", Included: false})

	diags := Run(context.Background(), cands, 4)

	assert.Empty(t, diags)
	assert.NotEmpty(t, cands[0].Content)
	assert.NotEmpty(t, cands[1].Content)
	assert.Empty(t, cands[2].Content)
}

func TestRun_ReportsReadDiagnostics(t *testing.T) {
	cands := []*model.Candidate{{
		AbsolutePath: filepath.Join(t.TempDir(), "gone.ts"),
		RelPath:      "gone.ts",
		Ext:          ".ts",
		Included:     true,
	}}

	diags := Run(context.Background(), cands, 1)

	require.Len(t, diags, 1)
	assert.Equal(t, "read", diags[0].Stage)
	assert.Equal(t, "gone.ts", diags[0].Path)
}

func TestAnalyze_LineCategories(t *testing.T) {
	content := "// header comment\nimport \"fmt\"\n\nfunc main() {\n}\n"
	st := analyze(content, true)

	assert.Equal(t, 1, st.commentLines)
	assert.Equal(t, 1, st.importLines)
	assert.GreaterOrEqual(t, st.blankLines, 1)
	assert.Equal(t, 1, st.functionCount)
	// Categories are disjoint: the import line is not also a code line.
	assert.Equal(t, 2, st.codeLines)
	assert.Equal(t, 3, st.meaningfulLines())
}

func TestAnalyze_NonSourceCountsAllAsCode(t *testing.T) {
	st := analyze("# not a comment here\ntext\n\n", false)
	assert.Equal(t, 2, st.codeLines)
	assert.Equal(t, 0, st.commentLines)
}

func TestAnalyze_LongFilePenalty(t *testing.T) {
	long := strings.Repeat("line of text\n", 1200)
	st := analyze(long, true)
	assert.Less(t, st.relevanceMultiplier(), 1.0)
}
