// Package render serializes a selection plus its structural metadata into
// one of three textual output formats: structured (tagged markup), document
// (markdown) and plain (bare concatenation).
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jadenpxrk/prism/internal/config"
	"github.com/jadenpxrk/prism/internal/language"
	"github.com/jadenpxrk/prism/internal/model"
)

// Renderer serializes pipeline results.
type Renderer struct {
	langs *language.Table
}

// New builds a renderer backed by the given language table.
func New(langs *language.Table) *Renderer {
	return &Renderer{langs: langs}
}

// Render produces the final output string for the configured format.
func (r *Renderer) Render(res *model.Result, cfg config.RenderConfig) (string, error) {
	switch cfg.Format {
	case config.FormatStructured:
		return r.renderStructured(res), nil
	case config.FormatDocument:
		return r.renderDocument(res), nil
	case config.FormatPlain:
		return r.renderPlain(res, cfg.PreserveStructure), nil
	}
	return "", fmt.Errorf("unknown output format %q", cfg.Format)
}

// relevancePercent formats a 0..1 relevance as a whole percentage.
func relevancePercent(v float64) string {
	return fmt.Sprintf("%d%%", int(v*100+0.5))
}

// sortedByPath returns the selection in relative-path lexicographic order,
// leaving the caller's slice untouched.
func sortedByPath(selected []*model.Candidate) []*model.Candidate {
	out := append([]*model.Candidate(nil), selected...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].RelPath < out[j].RelPath
	})
	return out
}

// renderPlain concatenates file contents in path order. When preserveStructure
// is set, each file is preceded by a single-line path comment. No metadata,
// no escaping, no tree.
func (r *Renderer) renderPlain(res *model.Result, preserveStructure bool) string {
	var b strings.Builder
	for _, cand := range sortedByPath(res.Selected) {
		if preserveStructure {
			fmt.Fprintf(&b, "// %s\n", cand.RelPath)
		}
		b.WriteString(cand.Content)
		if !strings.HasSuffix(cand.Content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
