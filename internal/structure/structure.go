// Package structure assembles the selected files into a directory-tree
// forest and derives the project overview shown at the top of rendered
// output.
package structure

import (
	"path"
	"sort"
	"strings"

	"github.com/jadenpxrk/prism/internal/language"
	"github.com/jadenpxrk/prism/internal/model"
)

// Build groups selected files by path segments into a DirectoryNode forest.
// Nodes are created in an arena keyed by relative path and attached by
// parent-path lookup. Directories with no included descendants never appear;
// children sort directories-before-files, then lexicographically.
func Build(selected []*model.Candidate) []*model.DirectoryNode {
	arena := make(map[string]*model.DirectoryNode)
	var roots []*model.DirectoryNode

	attach := func(node *model.DirectoryNode, parentPath string) {
		if parentPath == "" || parentPath == "." {
			roots = append(roots, node)
			return
		}
		arena[parentPath].Children = append(arena[parentPath].Children, node)
	}

	// ensureDir creates the directory chain for a path, top-down.
	var ensureDir func(dirPath string)
	ensureDir = func(dirPath string) {
		if dirPath == "" || dirPath == "." {
			return
		}
		if _, ok := arena[dirPath]; ok {
			return
		}
		parent := path.Dir(dirPath)
		ensureDir(parent)
		node := &model.DirectoryNode{
			Name: path.Base(dirPath),
			Path: dirPath,
			Type: model.NodeTypeDirectory,
		}
		arena[dirPath] = node
		attach(node, parent)
	}

	for _, cand := range selected {
		dir := path.Dir(cand.RelPath)
		ensureDir(dir)
		node := &model.DirectoryNode{
			Name: path.Base(cand.RelPath),
			Path: cand.RelPath,
			Type: model.NodeTypeFile,
			File: cand,
		}
		attach(node, dir)
	}

	sortForest(roots)
	return roots
}

func sortForest(nodes []*model.DirectoryNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Type != nodes[j].Type {
			return nodes[i].Type == model.NodeTypeDirectory
		}
		return nodes[i].Name < nodes[j].Name
	})
	for _, n := range nodes {
		if len(n.Children) > 0 {
			sortForest(n.Children)
		}
	}
}

// maxCoreFiles caps the "core files" list in the overview.
const maxCoreFiles = 10

// BuildOverview derives the project overview from the selection: inferred
// project type, tech stack, entry points, config files and the
// highest-relevance core files.
func BuildOverview(name string, selected []*model.Candidate, langs *language.Table) model.Overview {
	ov := model.Overview{Name: name, Type: "unknown"}

	seenLang := make(map[string]bool)
	for _, cand := range selected {
		base := strings.ToLower(path.Base(cand.RelPath))

		switch base {
		case "package.json":
			ov.Type = "node"
		case "go.mod":
			ov.Type = "go"
		case "cargo.toml":
			ov.Type = "rust"
		case "pyproject.toml", "requirements.txt":
			ov.Type = "python"
		}

		if isManifestName(base) {
			ov.ConfigFiles = append(ov.ConfigFiles, cand.RelPath)
		}
		if isEntryPoint(base) {
			ov.EntryPoints = append(ov.EntryPoints, cand.RelPath)
		}
		if lang, ok := langs.ForFile(cand.RelPath); ok && !seenLang[lang] {
			seenLang[lang] = true
			ov.TechStack = append(ov.TechStack, lang)
		}
	}
	sort.Strings(ov.TechStack)

	ranked := append([]*model.Candidate(nil), selected...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})
	for i, cand := range ranked {
		if i == maxCoreFiles {
			break
		}
		ov.CoreFiles = append(ov.CoreFiles, cand.RelPath)
	}
	return ov
}

var manifestBaseNames = map[string]bool{
	"package.json": true, "go.mod": true, "cargo.toml": true,
	"pyproject.toml": true, "requirements.txt": true, "tsconfig.json": true,
	"makefile": true, "dockerfile": true, "docker-compose.yml": true,
	"webpack.config.js": true, "vite.config.ts": true, "gemfile": true,
}

func isManifestName(lowerBase string) bool {
	return manifestBaseNames[lowerBase]
}

var entryPointStems = map[string]bool{
	"index": true, "main": true, "app": true, "server": true,
}

func isEntryPoint(lowerBase string) bool {
	stem := strings.TrimSuffix(lowerBase, path.Ext(lowerBase))
	return entryPointStems[stem]
}
