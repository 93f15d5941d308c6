// Package pipeline wires the selection stages together: walk, classify,
// budget, structure, render, estimate. Process is the single entry point
// consumed by host collaborators.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/jadenpxrk/prism/internal/budget"
	"github.com/jadenpxrk/prism/internal/classify"
	"github.com/jadenpxrk/prism/internal/config"
	"github.com/jadenpxrk/prism/internal/filter"
	"github.com/jadenpxrk/prism/internal/language"
	"github.com/jadenpxrk/prism/internal/model"
	"github.com/jadenpxrk/prism/internal/render"
	"github.com/jadenpxrk/prism/internal/structure"
	"github.com/jadenpxrk/prism/internal/token"
	"github.com/jadenpxrk/prism/internal/walker"
)

// Options configures one Process invocation.
type Options struct {
	Filter config.FilterConfig
	Render config.RenderConfig

	// Workers bounds the classification pool; <=0 means one per CPU.
	Workers int

	// Counter estimates tokens for the rendered output. Nil falls back to
	// the character heuristic.
	Counter token.Counter

	// Languages resolves fence tags and tech-stack names. Nil uses the
	// built-in table.
	Languages *language.Table
}

// Process runs the whole pipeline over the given roots. A single directory
// root is whole-project mode; any other mix of files and directories is
// selection mode, filtered through the same rules. Only configuration
// problems produce an error; everything else accumulates as diagnostics on
// the result.
func Process(ctx context.Context, roots []string, opts Options) (*model.Result, error) {
	if err := opts.Filter.Validate(); err != nil {
		return nil, err
	}
	if err := config.ValidateFormat(opts.Render.Format); err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no input paths given")
	}

	langs := opts.Languages
	if langs == nil {
		langs = language.Default()
	}

	res := &model.Result{}
	var candidates []*model.Candidate

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, model.Diagnostic{
				Path: root, Stage: "walk", Err: err.Error(),
			})
			continue
		}

		if info.IsDir() {
			decider := filter.NewDecider(opts.Filter, loadIgnoreFile(opts.Filter, root))
			w := walker.New(opts.Filter, decider)
			cands, diags := w.Walk(ctx, root)
			candidates = append(candidates, cands...)
			res.Diagnostics = append(res.Diagnostics, diags...)
			continue
		}

		// Explicit file: same decision pipeline, path relative to its parent.
		decider := filter.NewDecider(opts.Filter, nil)
		w := walker.New(opts.Filter, decider)
		candidates = append(candidates, w.AddFile(root, filepath.Base(root), info.Size()))
	}

	// Re-number across roots so tie-breaks follow global discovery order.
	for i, cand := range candidates {
		cand.Order = i
	}

	res.Diagnostics = append(res.Diagnostics,
		classify.Run(ctx, candidates, opts.Workers)...)

	selected, total := budget.Select(candidates, opts.Filter.MaxTotalSize)
	res.Candidates = candidates
	res.Selected = selected
	res.TotalBytes = total
	res.Tree = structure.Build(selected)
	res.Overview = structure.BuildOverview(projectName(roots), selected, langs)

	out, err := render.New(langs).Render(res, opts.Render)
	if err != nil {
		return nil, err
	}
	res.Output = out

	counter := opts.Counter
	if counter == nil {
		counter = token.Heuristic{}
	}
	res.TokenCount = counter.Count(out)

	return res, nil
}

// rootedMatcher re-anchors project-relative paths before handing them to the
// underlying matcher, which expects paths relative to the ignore file's
// directory.
type rootedMatcher struct {
	root string
	m    gitignore.IgnoreMatcher
}

func (r rootedMatcher) Match(path string, isDir bool) bool {
	return r.m.Match(filepath.Join(r.root, path), isDir)
}

// loadIgnoreFile parses the root-level ignore file when the configuration
// says to respect it. A missing or unparseable file simply means no matcher.
func loadIgnoreFile(cfg config.FilterConfig, root string) gitignore.IgnoreMatcher {
	if !cfg.RespectIgnoreFile {
		return nil
	}
	matcher, err := gitignore.NewGitIgnore(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return rootedMatcher{root: root, m: matcher}
}

// projectName infers a display name from the inputs: the base of a single
// directory root, otherwise "selection".
func projectName(roots []string) string {
	if len(roots) == 1 {
		abs, err := filepath.Abs(roots[0])
		if err == nil {
			if info, statErr := os.Stat(roots[0]); statErr == nil && info.IsDir() {
				return filepath.Base(strings.TrimSuffix(abs, string(filepath.Separator)))
			}
		}
	}
	return "selection"
}
