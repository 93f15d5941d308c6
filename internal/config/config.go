// Package config holds the per-invocation configuration for the selection
// pipeline. A Config is built once by the caller and never mutated during a
// run; anything malformed fails fast here, before any traversal begins.
package config

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Output formats understood by the renderer.
const (
	FormatStructured = "structured"
	FormatDocument   = "document"
	FormatPlain      = "plain"
)

// FilterConfig controls which files are considered and how large the result
// may grow. Pattern lists are ordered; earlier rule classes take precedence
// (see filter.Decider).
type FilterConfig struct {
	IgnorePatterns       []string
	IncludePatterns      []string
	HighPriorityPatterns []string
	AllowedExtensions    []string // lower-cased, with leading dot

	MaxFileSize  int64
	MaxTotalSize int64

	// MaxDepth caps traversal depth in path components. Negative means
	// unlimited; zero yields nothing.
	MaxDepth int

	RespectIgnoreFile bool
}

// RenderConfig controls how the selection is serialized.
type RenderConfig struct {
	Format            string
	PreserveStructure bool
}

// Default limits, matching the sizes a typical model context tolerates.
const (
	DefaultMaxFileSize  = 100 * 1000      // "100kb"
	DefaultMaxTotalSize = 2 * 1000 * 1000 // "2mb"
)

// DefaultHighPriorityPatterns are files considered unconditionally valuable
// context; they bypass the size ceiling.
var DefaultHighPriorityPatterns = []string{
	"README*",
	"readme*",
	"package.json",
	"go.mod",
	"Cargo.toml",
	"pyproject.toml",
	"tsconfig.json",
}

// DefaultAllowedExtensions is the extension allow-list applied when a file
// matches no earlier rule.
var DefaultAllowedExtensions = []string{
	".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs",
	".go", ".py", ".rs", ".rb", ".php", ".java", ".kt", ".swift",
	".c", ".h", ".cpp", ".hpp", ".cs",
	".html", ".css", ".scss", ".vue", ".svelte",
	".json", ".yaml", ".yml", ".toml", ".xml",
	".md", ".rst", ".txt",
	".sh", ".sql", ".graphql", ".proto",
}

// DefaultFilter returns the filter configuration used when the caller
// supplies no overrides.
func DefaultFilter() FilterConfig {
	return FilterConfig{
		HighPriorityPatterns: append([]string(nil), DefaultHighPriorityPatterns...),
		AllowedExtensions:    append([]string(nil), DefaultAllowedExtensions...),
		MaxFileSize:          DefaultMaxFileSize,
		MaxTotalSize:         DefaultMaxTotalSize,
		MaxDepth:             -1,
		RespectIgnoreFile:    true,
	}
}

// DefaultRender returns the render configuration used when the caller
// supplies no overrides.
func DefaultRender() RenderConfig {
	return RenderConfig{
		Format:            FormatStructured,
		PreserveStructure: true,
	}
}

// ParseSize parses a size string of the form `<number>(b|kb|mb|gb)?`,
// case-insensitively, defaulting to bytes when no unit is given.
func ParseSize(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty size string")
	}
	n, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return int64(n), nil
}

// ValidateFormat checks that the requested output format is one the renderer
// understands.
func ValidateFormat(format string) error {
	switch format {
	case FormatStructured, FormatDocument, FormatPlain:
		return nil
	}
	return fmt.Errorf("unknown output format %q (expected %s, %s or %s)",
		format, FormatStructured, FormatDocument, FormatPlain)
}

// Validate checks the filter configuration for values the pipeline cannot
// work with.
func (c FilterConfig) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.MaxFileSize)
	}
	if c.MaxTotalSize <= 0 {
		return fmt.Errorf("max total size must be positive, got %d", c.MaxTotalSize)
	}
	return nil
}
