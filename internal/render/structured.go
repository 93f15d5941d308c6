package render

import (
	"fmt"
	"strings"

	"github.com/jadenpxrk/prism/internal/model"
)

// escaper covers the five reserved markup characters. This is the only
// escaping the pipeline performs.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escape(s string) string {
	return escaper.Replace(s)
}

// renderStructured emits a single root element wrapping the project
// overview, the directory tree and the tagged source files. Config files are
// repeated in their own block after the sources.
func (r *Renderer) renderStructured(res *model.Result) string {
	var b strings.Builder
	ov := res.Overview

	fmt.Fprintf(&b, "<project name=%q type=%q>\n", escape(ov.Name), escape(ov.Type))

	b.WriteString("  <overview>\n")
	if len(ov.TechStack) > 0 {
		fmt.Fprintf(&b, "    <techStack>%s</techStack>\n", escape(strings.Join(ov.TechStack, ", ")))
	}
	for _, ep := range ov.EntryPoints {
		fmt.Fprintf(&b, "    <entryPoint>%s</entryPoint>\n", escape(ep))
	}
	for _, cf := range ov.CoreFiles {
		fmt.Fprintf(&b, "    <coreFile>%s</coreFile>\n", escape(cf))
	}
	b.WriteString("  </overview>\n")

	b.WriteString("  <architecture>\n")
	tree := RenderTree(res.Tree)
	if tree != "" {
		b.WriteString(escape(tree))
	}
	b.WriteString("  </architecture>\n")

	configSet := make(map[string]bool, len(ov.ConfigFiles))
	for _, cf := range ov.ConfigFiles {
		configSet[cf] = true
	}

	b.WriteString("  <sourceFiles>\n")
	for _, cand := range sortedByPath(res.Selected) {
		if configSet[cand.RelPath] {
			continue
		}
		writeFileElement(&b, cand)
	}
	b.WriteString("  </sourceFiles>\n")

	b.WriteString("  <configuration>\n")
	for _, cand := range sortedByPath(res.Selected) {
		if !configSet[cand.RelPath] {
			continue
		}
		writeFileElement(&b, cand)
	}
	b.WriteString("  </configuration>\n")

	b.WriteString("</project>\n")
	return b.String()
}

func writeFileElement(b *strings.Builder, cand *model.Candidate) {
	fmt.Fprintf(b, "    <file path=%q relevance=%q>\n",
		escape(cand.RelPath), relevancePercent(cand.Relevance))
	b.WriteString(escape(cand.Content))
	if !strings.HasSuffix(cand.Content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("    </file>\n")
}

// RenderTree renders the forest with indentation by depth. Every node uses
// the same branch marker regardless of sibling position; directories come
// first, each level alphabetical.
func RenderTree(forest []*model.DirectoryNode) string {
	var b strings.Builder
	var walk func(nodes []*model.DirectoryNode, depth int)
	walk = func(nodes []*model.DirectoryNode, depth int) {
		for _, node := range nodes {
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString("├── ")
			b.WriteString(node.Name)
			if node.Type == model.NodeTypeDirectory {
				b.WriteString("/")
			}
			b.WriteString("\n")
			walk(node.Children, depth+1)
		}
	}
	walk(forest, 0)
	return b.String()
}

// fenceTagFor picks the language tag for a markdown fence; "" when the file
// is not in the table.
func (r *Renderer) fenceTagFor(relPath string) string {
	if r.langs == nil {
		return ""
	}
	return r.langs.FenceTag(relPath)
}
