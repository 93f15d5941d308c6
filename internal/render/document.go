package render

import (
	"fmt"
	"strings"

	"github.com/jadenpxrk/prism/internal/model"
)

// renderDocument emits a markdown document: project heading, fenced
// directory tree, then one subsection per selected file with a fenced code
// block tagged by language.
func (r *Renderer) renderDocument(res *model.Result) string {
	var b strings.Builder
	ov := res.Overview

	fmt.Fprintf(&b, "# Project: %s\n\n", ov.Name)
	fmt.Fprintf(&b, "**Type:** %s\n", ov.Type)
	if len(ov.TechStack) > 0 {
		fmt.Fprintf(&b, "**Tech stack:** %s\n", strings.Join(ov.TechStack, ", "))
	}
	if len(ov.EntryPoints) > 0 {
		fmt.Fprintf(&b, "**Entry points:** %s\n", strings.Join(ov.EntryPoints, ", "))
	}
	if len(ov.CoreFiles) > 0 {
		fmt.Fprintf(&b, "**Core files:** %s\n", strings.Join(ov.CoreFiles, ", "))
	}
	b.WriteString("\n## Structure\n\n```\n")
	b.WriteString(RenderTree(res.Tree))
	b.WriteString("```\n\n## Files\n")

	for _, cand := range sortedByPath(res.Selected) {
		fmt.Fprintf(&b, "\n### %s (relevance %s)\n\n", cand.RelPath, relevancePercent(cand.Relevance))
		fmt.Fprintf(&b, "```%s\n", r.fenceTagFor(cand.RelPath))
		b.WriteString(cand.Content)
		if !strings.HasSuffix(cand.Content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("```\n")
	}
	return b.String()
}
