package filter

import "strings"

// Path-derived priority weights. These are a ranking policy, not a contract;
// only the relative ordering matters.
const (
	basePriority         = 50
	highSignalBonus      = 30
	canonicalFileBonus   = 40
	sourceRootBonus      = 20
	structuredDataBonus  = 15
	dynamicLanguageBonus = 25
	documentationBonus   = 10
	maxPriority          = 100
)

var highSignalExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".go": true, ".rs": true, ".java": true,
	".kt": true, ".swift": true, ".c": true, ".cpp": true, ".cs": true,
	".html": true, ".css": true,
}

var structuredDataExtensions = map[string]bool{
	".json": true, ".yaml": true, ".yml": true, ".toml": true, ".xml": true,
}

var dynamicLanguageExtensions = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".py": true, ".rb": true, ".php": true,
}

var documentationExtensions = map[string]bool{
	".md": true, ".rst": true, ".txt": true, ".adoc": true,
}

var canonicalFiles = map[string]bool{
	"package.json":   true,
	"go.mod":         true,
	"cargo.toml":     true,
	"pyproject.toml": true,
	"tsconfig.json":  true,
	"makefile":       true,
	"dockerfile":     true,
}

var sourceRoots = []string{"src/", "lib/", "app/", "internal/", "cmd/", "pkg/"}

// priority computes the path-based score for an included file. It is
// independent of content and computed before classification.
func (d *Decider) priority(rel, base, ext string) int {
	score := basePriority

	if highSignalExtensions[ext] {
		score += highSignalBonus
	}
	lowerBase := strings.ToLower(base)
	if canonicalFiles[lowerBase] || strings.HasPrefix(lowerBase, "readme") {
		score += canonicalFileBonus
	}
	for _, root := range sourceRoots {
		if strings.HasPrefix(rel, root) {
			score += sourceRootBonus
			break
		}
	}
	if structuredDataExtensions[ext] {
		score += structuredDataBonus
	}
	if dynamicLanguageExtensions[ext] {
		score += dynamicLanguageBonus
	}
	if documentationExtensions[ext] {
		score += documentationBonus
	}

	if score > maxPriority {
		score = maxPriority
	}
	return score
}
