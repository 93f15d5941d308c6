// Package language maps file extensions and well-known filenames to language
// identifiers, used for fenced-block tags and tech-stack inference. A static
// table covers the common cases; a user languages.yml can extend it.
package language

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table resolves languages for files.
type Table struct {
	byExtension map[string]string
	byFilename  map[string]string
}

// defaultExtensions is the built-in extension to language-identifier table.
// Identifiers double as markdown fence tags.
var defaultExtensions = map[string]string{
	".ts": "typescript", ".tsx": "tsx", ".js": "javascript", ".jsx": "jsx",
	".mjs": "javascript", ".cjs": "javascript",
	".go": "go", ".py": "python", ".rs": "rust", ".rb": "ruby",
	".php": "php", ".java": "java", ".kt": "kotlin", ".swift": "swift",
	".c": "c", ".h": "c", ".cpp": "cpp", ".hpp": "cpp", ".cs": "csharp",
	".html": "html", ".css": "css", ".scss": "scss",
	".vue": "vue", ".svelte": "svelte",
	".json": "json", ".yaml": "yaml", ".yml": "yaml", ".toml": "toml",
	".xml": "xml", ".md": "markdown", ".sh": "bash", ".sql": "sql",
	".graphql": "graphql", ".proto": "protobuf",
}

var defaultFilenames = map[string]string{
	"Makefile":   "makefile",
	"Dockerfile": "dockerfile",
	"go.mod":     "go-module",
}

// Default returns the built-in table.
func Default() *Table {
	t := &Table{
		byExtension: make(map[string]string, len(defaultExtensions)),
		byFilename:  make(map[string]string, len(defaultFilenames)),
	}
	for ext, lang := range defaultExtensions {
		t.byExtension[ext] = lang
	}
	for name, lang := range defaultFilenames {
		t.byFilename[name] = lang
	}
	return t
}

// definition is one entry of a user languages.yml, keyed by language name.
type definition struct {
	Extensions []string `yaml:"extensions"`
	Filenames  []string `yaml:"filenames"`
}

// Load returns the default table extended by the first languages.yml found in
// the given directories. A missing file is not an error; a malformed one is.
func Load(searchDirs []string) (*Table, error) {
	t := Default()
	for _, dir := range searchDirs {
		p := filepath.Join(dir, "languages.yml")
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		var defs map[string]definition
		if err := yaml.Unmarshal(data, &defs); err != nil {
			return nil, err
		}
		for name, def := range defs {
			ident := strings.ToLower(name)
			for _, ext := range def.Extensions {
				t.byExtension[strings.ToLower(ext)] = ident
			}
			for _, fname := range def.Filenames {
				t.byFilename[fname] = ident
			}
		}
		break
	}
	return t, nil
}

// ForFile resolves a language identifier for a path. Filename matches take
// precedence over extension matches. ok is false for unrecognized files.
func (t *Table) ForFile(relPath string) (lang string, ok bool) {
	base := filepath.Base(relPath)
	if lang, ok := t.byFilename[base]; ok {
		return lang, true
	}
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return "", false
	}
	lang, ok = t.byExtension[ext]
	return lang, ok
}

// FenceTag returns the fenced-code-block tag for a path, or "" when the
// extension is not recognized.
func (t *Table) FenceTag(relPath string) string {
	lang, ok := t.ForFile(relPath)
	if !ok {
		return ""
	}
	return lang
}
