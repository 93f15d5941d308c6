package classify

import (
	"math"
	"strings"
)

// contentStats is the structural line analysis backing the score multipliers.
type contentStats struct {
	totalLines    int
	codeLines     int
	commentLines  int
	importLines   int
	blankLines    int
	functionCount int
	classCount    int
}

var commentPrefixes = []string{"//", "#", "/*", "*", "--", "<!--", "'''", "\"\"\""}

var importPrefixes = []string{
	"import ", "from ", "require(", "const ", "#include", "use ", "using ",
}

var functionMarkers = []string{
	"func ", "function ", "def ", "fn ", "sub ", "=> {", ") => ",
}

var classMarkers = []string{
	"class ", "interface ", "struct ", "trait ", "enum ", "type ",
}

// analyze classifies each line of content. For non-source files every
// non-blank line counts as code; structural counts apply to source only.
func analyze(content string, isSource bool) contentStats {
	var st contentStats
	lines := strings.Split(content, "\n")
	st.totalLines = len(lines)

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			st.blankLines++
			continue
		}
		if !isSource {
			st.codeLines++
			continue
		}
		switch {
		case hasAnyPrefix(trimmed, commentPrefixes):
			st.commentLines++
		case isImportLine(trimmed):
			st.importLines++
		default:
			st.codeLines++
		}
		if containsAny(trimmed, functionMarkers) {
			st.functionCount++
		}
		if containsAny(trimmed, classMarkers) {
			st.classCount++
		}
	}
	return st
}

func (st contentStats) meaningfulLines() int {
	return st.codeLines + st.commentLines
}

func (st contentStats) densityRatio() float64 {
	if st.totalLines == 0 {
		return 0
	}
	return float64(st.meaningfulLines()) / float64(st.totalLines)
}

// complexityScore estimates structural density per hundred meaningful lines.
func (st contentStats) complexityScore() float64 {
	denom := math.Max(1, float64(st.meaningfulLines())/100)
	return (float64(st.functionCount) + 2*float64(st.classCount)) / denom
}

func (st contentStats) densityMultiplier() float64 {
	m := st.densityRatio()
	if st.complexityScore() > 0.5 {
		m *= 1.2
	}
	return clampRange(m, 0.1, 1.5)
}

func (st contentStats) relevanceMultiplier() float64 {
	m := 1.0
	if st.importLines > 5 {
		m *= 1.1
	}
	if st.functionCount > 3 || st.classCount > 0 {
		m *= 1.2
	}
	if st.totalLines > 1000 {
		m *= 0.8 // likely generated or bulk content
	}
	if meaningful := st.meaningfulLines(); meaningful > 0 {
		if float64(st.commentLines)/float64(meaningful) > 0.3 {
			m *= 1.1
		}
	}
	return clampRange(m, 0.1, 1.5)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isImportLine(s string) bool {
	for _, p := range importPrefixes {
		if strings.HasPrefix(s, p) {
			// "const " only counts as an import for require-style lines.
			if p == "const " && !strings.Contains(s, "require(") {
				return false
			}
			return true
		}
	}
	return false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
