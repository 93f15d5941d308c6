// Package model defines the cross-package data structures shared by the
// selection pipeline.
package model

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
)

// Candidate holds information about one filesystem file considered for
// inclusion in the rendered context.
type Candidate struct {
	AbsolutePath string
	RelPath      string // relative to the project root, forward slashes
	Size         int64
	Ext          string // lower-cased, including the leading dot

	Included        bool
	ExclusionReason string
	Priority        int // 0-100, path-derived, set at decision time

	Content string // populated by classification if the read succeeded
	ReadErr error  // set when content could not be read

	// Content-derived scores, populated by classification.
	Density   float64 // 0.0-1.0
	Relevance float64 // 0.0-1.0

	// Order is the walker discovery index, used for stable tie-breaks.
	Order int
}

// Diagnostic records a non-fatal problem encountered during a run.
type Diagnostic struct {
	Path  string
	Stage string // "walk" or "read"
	Err   string
}

// DirectoryNode is one node of the selected-file tree.
type DirectoryNode struct {
	Name     string
	Path     string // relative, forward slashes
	Type     string // NodeTypeFile or NodeTypeDirectory
	Children []*DirectoryNode
	File     *Candidate // back-reference, files only
}

// Overview summarizes the project for rendering.
type Overview struct {
	Name        string
	Type        string // inferred project type, e.g. "node", "go"
	TechStack   []string
	EntryPoints []string
	ConfigFiles []string
	CoreFiles   []string // up to 10 relative paths, highest relevance first
}

// Result is the pipeline output for one invocation.
type Result struct {
	Overview Overview
	Tree     []*DirectoryNode

	// Candidates is every file considered, including excluded ones with
	// their reasons, so an empty selection stays explainable.
	Candidates  []*Candidate
	Selected    []*Candidate
	TotalBytes  int64
	TokenCount  int
	Output      string
	Diagnostics []Diagnostic
}
