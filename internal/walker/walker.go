// Package walker enumerates a project directory depth-first, pruning
// excluded subtrees before descending into them so dependency directories
// are never scanned.
package walker

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jadenpxrk/prism/internal/config"
	"github.com/jadenpxrk/prism/internal/filter"
	"github.com/jadenpxrk/prism/internal/model"
)

// Walker turns a root directory into a flat candidate list. Unreadable
// directories are recorded as diagnostics and skipped; the walk never aborts
// over a single bad subtree.
type Walker struct {
	cfg     config.FilterConfig
	decider *filter.Decider

	order       int
	candidates  []*model.Candidate
	diagnostics []model.Diagnostic
}

// New builds a walker for one invocation.
func New(cfg config.FilterConfig, decider *filter.Decider) *Walker {
	return &Walker{cfg: cfg, decider: decider}
}

// Walk enumerates root and returns every file found, each already carrying
// its inclusion decision. The walk checks ctx between directory entries and
// returns the partial result on cancellation.
func (w *Walker) Walk(ctx context.Context, root string) ([]*model.Candidate, []model.Diagnostic) {
	if w.cfg.MaxDepth == 0 {
		return nil, nil
	}
	w.visit(ctx, root, "", 0)
	return w.candidates, w.diagnostics
}

// AddFile evaluates a single explicitly-selected file, outside any walk.
func (w *Walker) AddFile(absPath string, relPath string, size int64) *model.Candidate {
	cand := w.newCandidate(absPath, relPath, size)
	w.candidates = append(w.candidates, cand)
	return cand
}

// Diagnostics returns everything accumulated so far.
func (w *Walker) Diagnostics() []model.Diagnostic {
	return w.diagnostics
}

// visit processes one directory. dirRel is "" for the root; depth counts
// path components of dirRel.
func (w *Walker) visit(ctx context.Context, dirAbs, dirRel string, depth int) {
	entries, err := os.ReadDir(dirAbs)
	if err != nil {
		w.diagnostics = append(w.diagnostics, model.Diagnostic{
			Path:  dirAbs,
			Stage: "walk",
			Err:   err.Error(),
		})
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}

		rel := entry.Name()
		if dirRel != "" {
			rel = dirRel + "/" + entry.Name()
		}
		entryDepth := depth + 1

		if entry.IsDir() {
			if w.decider.PruneDir(rel) {
				continue
			}
			// Descending would place files beyond the depth cap.
			if w.cfg.MaxDepth >= 0 && entryDepth >= w.cfg.MaxDepth {
				continue
			}
			w.visit(ctx, filepath.Join(dirAbs, entry.Name()), rel, entryDepth)
			continue
		}

		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		if w.cfg.MaxDepth >= 0 && entryDepth > w.cfg.MaxDepth {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			w.diagnostics = append(w.diagnostics, model.Diagnostic{
				Path:  filepath.Join(dirAbs, entry.Name()),
				Stage: "walk",
				Err:   err.Error(),
			})
			continue
		}

		w.candidates = append(w.candidates,
			w.newCandidate(filepath.Join(dirAbs, entry.Name()), rel, info.Size()))
	}
}

func (w *Walker) newCandidate(absPath, relPath string, size int64) *model.Candidate {
	rel := strings.ReplaceAll(relPath, "\\", "/")
	cand := &model.Candidate{
		AbsolutePath: absPath,
		RelPath:      rel,
		Size:         size,
		Ext:          strings.ToLower(path.Ext(rel)),
		Order:        w.order,
	}
	w.order++

	decision := w.decider.Decide(rel, size)
	cand.Included = decision.Include
	cand.Priority = decision.Priority
	if !decision.Include {
		cand.ExclusionReason = decision.Reason
	}
	return cand
}
