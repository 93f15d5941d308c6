// Package classify reads included candidate files and scores them for
// information density and architectural relevance. Scoring starts from the
// file's category (source, manifest, documentation) and is adjusted by
// structural analysis of the content.
package classify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	"github.com/jadenpxrk/prism/internal/model"
)

// Category base scores. A file can belong to several categories; the bases
// add before multipliers apply, then clamp to 1.0.
const (
	sourceDensity     = 0.7
	sourceRelevance   = 0.8
	entryPointBonus   = 0.2
	manifestDensity   = 0.9
	manifestRelevance = 0.9
	docDensity        = 0.5
	docRelevance      = 0.6
)

var errBinaryContent = errors.New("binary content")

// Run classifies every included candidate using a bounded worker pool.
// Candidates are enriched in place; each one is written by exactly one
// worker, so no locking is needed. Run returns only after all workers have
// joined. Read failures come back as diagnostics; the affected candidates
// keep their base scores.
func Run(ctx context.Context, candidates []*model.Candidate, workers int) []model.Diagnostic {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan *model.Candidate, len(candidates))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cand := range jobs {
				if ctx.Err() != nil {
					continue // drain without reading
				}
				Classify(cand)
			}
		}()
	}

	for _, cand := range candidates {
		if cand.Included {
			jobs <- cand
		}
	}
	close(jobs)
	wg.Wait()

	var diags []model.Diagnostic
	for _, cand := range candidates {
		if cand.ReadErr != nil {
			diags = append(diags, model.Diagnostic{
				Path:  cand.RelPath,
				Stage: "read",
				Err:   cand.ReadErr.Error(),
			})
		}
	}
	return diags
}

// Classify populates Content, Density and Relevance on one candidate. It is
// a no-op for excluded candidates. When the content cannot be read the base
// category scores stand unadjusted and the candidate stays eligible for
// selection.
func Classify(cand *model.Candidate) {
	if !cand.Included {
		return
	}

	base := baseScores(cand)
	cand.Density = clamp01(base.density)
	cand.Relevance = clamp01(base.relevance)

	data, err := os.ReadFile(cand.AbsolutePath)
	if err != nil {
		cand.ReadErr = err
		return
	}
	if looksBinary(data) {
		cand.ReadErr = errBinaryContent
		return
	}
	cand.Content = string(data)

	stats := analyze(cand.Content, base.isSource)
	cand.Density = clamp01(base.density * stats.densityMultiplier())
	cand.Relevance = clamp01(base.relevance * stats.relevanceMultiplier())
}

type baseScore struct {
	density   float64
	relevance float64
	isSource  bool
}

func baseScores(cand *model.Candidate) baseScore {
	var b baseScore
	name := strings.ToLower(path.Base(cand.RelPath))

	if sourceExtensions[cand.Ext] {
		b.isSource = true
		b.density += sourceDensity
		b.relevance += sourceRelevance
		if isEntryPointName(name) {
			b.relevance += entryPointBonus
		}
	}
	if manifestNames[name] {
		b.density += manifestDensity
		b.relevance += manifestRelevance
	}
	if isDocumentation(name, cand.Ext) {
		b.density += docDensity
		b.relevance += docRelevance
	}
	return b
}

var sourceExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true, ".mjs": true,
	".cjs": true, ".go": true, ".py": true, ".rs": true, ".rb": true,
	".php": true, ".java": true, ".kt": true, ".swift": true,
	".c": true, ".h": true, ".cpp": true, ".hpp": true, ".cs": true,
	".vue": true, ".svelte": true, ".sh": true, ".sql": true,
}

var manifestNames = map[string]bool{
	"package.json":       true,
	"go.mod":             true,
	"cargo.toml":         true,
	"pyproject.toml":     true,
	"requirements.txt":   true,
	"tsconfig.json":      true,
	"makefile":           true,
	"dockerfile":         true,
	"docker-compose.yml": true,
	"webpack.config.js":  true,
	"vite.config.ts":     true,
	"gemfile":            true,
}

var entryPointStems = []string{"index", "main", "app", "server"}

func isEntryPointName(lowerName string) bool {
	stem := strings.TrimSuffix(lowerName, path.Ext(lowerName))
	for _, s := range entryPointStems {
		if stem == s {
			return true
		}
	}
	return false
}

func isDocumentation(lowerName, ext string) bool {
	if ext == ".md" {
		return true
	}
	for _, prefix := range []string{"readme", "changelog", "license", "contributing"} {
		if strings.HasPrefix(lowerName, prefix) {
			return true
		}
	}
	return false
}

// looksBinary sniffs for NUL bytes in the leading chunk, catching files that
// carry a text extension but binary content.
func looksBinary(data []byte) bool {
	probe := data
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
