// Package filter implements the inclusion decision for candidate files:
// ordered glob rule sets evaluated first-match-wins, plus a path-derived
// priority score for files that survive.
package filter

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/jadenpxrk/prism/internal/config"
)

// Decision is the outcome of evaluating one file.
type Decision struct {
	Include  bool
	Reason   string
	Priority int // 0-100, meaningful only when Include is true
}

// Decider evaluates relative paths against the configured rule sets. It is
// stateless per path; the same inputs always produce the same decision.
type Decider struct {
	cfg    config.FilterConfig
	ignore gitignore.IgnoreMatcher // nil when no ignore file applies
}

// NewDecider builds a decider. ignoreMatcher may be nil; it is consulted only
// when the configuration says to respect the ignore file.
func NewDecider(cfg config.FilterConfig, ignoreMatcher gitignore.IgnoreMatcher) *Decider {
	return &Decider{cfg: cfg, ignore: ignoreMatcher}
}

// binaryExtensions is the hard block-list: these are never useful as model
// context regardless of any other rule.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".svgz": true,
	".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".bz2": true,
	".7z": true, ".rar": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".o": true, ".obj": true, ".a": true, ".class": true, ".jar": true,
	".war": true, ".wasm": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wav": true,
	".flac": true, ".mkv": true,
	".db": true, ".sqlite": true, ".sqlite3": true,
}

// defaultExclusions are applied before any user-supplied rule. Ordered so the
// reason string names the class of rule that fired.
var defaultExclusions = []string{
	// version control
	".git/**", ".svn/**", ".hg/**",
	// dependency directories
	"**/node_modules/**", "**/vendor/**", "**/bower_components/**",
	"**/.venv/**", "**/venv/**", "**/__pycache__/**",
	// build output
	"**/dist/**", "**/build/**", "**/out/**", "**/target/**",
	"**/.next/**", "**/.nuxt/**", "**/coverage/**",
	// lock files
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "Cargo.lock",
	"poetry.lock", "Gemfile.lock", "composer.lock", "go.sum",
	// OS and editor artifacts
	".DS_Store", "Thumbs.db", "*.swp", "*.swo",
	"**/.idea/**", "**/.vscode/**",
	// minified and generated files
	"*.min.js", "*.min.css", "*.map", "*.bundle.js", "*.generated.*",
	// tests
	"*.test.*", "*.spec.*", "**/__tests__/**", "**/__mocks__/**",
}

// Decide evaluates a project-relative path plus its size. Earlier rule
// classes win: ignore rules can never be re-included by include rules, and
// high-priority matches bypass the size ceiling.
func (d *Decider) Decide(relPath string, size int64) Decision {
	rel := path.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	base := path.Base(rel)
	ext := strings.ToLower(path.Ext(base))

	if binaryExtensions[ext] {
		return Decision{Include: false, Reason: "binary file"}
	}

	if pat, ok := matchAny(rel, base, defaultExclusions); ok {
		return Decision{Include: false, Reason: fmt.Sprintf("matches default exclusion %q", pat)}
	}

	if d.cfg.RespectIgnoreFile && d.ignore != nil && d.ignore.Match(rel, false) {
		return Decision{Include: false, Reason: "matches ignore file rule"}
	}

	if pat, ok := matchAny(rel, base, d.cfg.IgnorePatterns); ok {
		return Decision{Include: false, Reason: fmt.Sprintf("matches ignore pattern %q", pat)}
	}

	if pat, ok := matchAny(rel, base, d.cfg.HighPriorityPatterns); ok {
		return Decision{
			Include:  true,
			Reason:   fmt.Sprintf("matches high-priority pattern %q", pat),
			Priority: d.priority(rel, base, ext),
		}
	}

	if size > d.cfg.MaxFileSize {
		return Decision{
			Include: false,
			Reason:  fmt.Sprintf("file size %d bytes exceeds limit of %d bytes", size, d.cfg.MaxFileSize),
		}
	}

	if pat, ok := matchAny(rel, base, d.cfg.IncludePatterns); ok {
		return Decision{
			Include:  true,
			Reason:   fmt.Sprintf("matches include pattern %q", pat),
			Priority: d.priority(rel, base, ext),
		}
	}

	for _, allowed := range d.cfg.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return Decision{
				Include:  true,
				Reason:   fmt.Sprintf("extension %s is allowed", ext),
				Priority: d.priority(rel, base, ext),
			}
		}
	}

	return Decision{
		Include: false,
		Reason: fmt.Sprintf(
			"no rule matched (checked %d ignore, %d include, %d high-priority patterns, %d allowed extensions)",
			len(d.cfg.IgnorePatterns), len(d.cfg.IncludePatterns),
			len(d.cfg.HighPriorityPatterns), len(d.cfg.AllowedExtensions)),
	}
}

// PruneDir reports whether a directory should be skipped entirely, before
// descending into it. Only default and user ignore rules apply here; include
// rules never resurrect a pruned subtree.
func (d *Decider) PruneDir(relPath string) bool {
	rel := path.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	base := path.Base(rel)

	// Directory patterns like "**/node_modules/**" must fire on the
	// directory itself, not only on files beneath it.
	probe := rel + "/"
	for _, pat := range defaultExclusions {
		if ok, _ := doublestar.Match(pat, probe+"x"); ok {
			return true
		}
	}
	if _, ok := matchAny(rel, base, d.cfg.IgnorePatterns); ok {
		return true
	}
	if probeMatch(d.cfg.IgnorePatterns, probe) {
		return true
	}
	if d.cfg.RespectIgnoreFile && d.ignore != nil && d.ignore.Match(rel, true) {
		return true
	}
	return false
}

func probeMatch(patterns []string, probe string) bool {
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, probe+"x"); ok {
			return true
		}
	}
	return false
}

// matchAny matches a path against a pattern list. Patterns containing a
// slash match the full relative path; bare patterns match the base name,
// mirroring gitignore conventions.
func matchAny(rel, base string, patterns []string) (string, bool) {
	for _, pat := range patterns {
		target := base
		if strings.Contains(pat, "/") {
			target = rel
		}
		if ok, err := doublestar.Match(pat, target); err == nil && ok {
			return pat, true
		}
	}
	return "", false
}
