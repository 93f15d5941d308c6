// Package pdf exports a pipeline result as a syntax-highlighted PDF, an
// alternative destination for the same selection the text renderers cover.
package pdf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jung-kurt/gofpdf"

	"github.com/jadenpxrk/prism/internal/language"
	"github.com/jadenpxrk/prism/internal/model"
	"github.com/jadenpxrk/prism/internal/render"
)

const (
	pageWidth  = 210 // A4, mm
	margin     = 10
	lineHeight = 5
	fontSize   = 9
	tabWidth   = 4
)

// Export writes the selection to a PDF file: project tree first, then one
// page per file with chroma-highlighted content.
func Export(res *model.Result, langs *language.Table, outputPath string) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.AddPage()

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	doc.SetFont("Helvetica", "B", fontSize+2)
	doc.SetTextColor(0, 0, 0)
	doc.MultiCell(pageWidth-2*margin, lineHeight, fmt.Sprintf("Project: %s", res.Overview.Name), "", "L", false)
	doc.Ln(lineHeight / 2)

	doc.SetFont("Courier", "", fontSize)
	doc.MultiCell(pageWidth-2*margin, lineHeight, render.RenderTree(res.Tree), "", "L", false)
	doc.Ln(lineHeight)

	files := append([]*model.Candidate(nil), res.Selected...)
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })

	for _, cand := range files {
		doc.AddPage()
		doc.SetFont("Helvetica", "B", fontSize+1)
		doc.SetTextColor(0, 0, 0)
		doc.MultiCell(pageWidth-2*margin, lineHeight,
			fmt.Sprintf("File: %s (relevance %d%%)", cand.RelPath, int(cand.Relevance*100+0.5)), "", "L", false)
		doc.Ln(lineHeight / 2)

		if err := writeHighlighted(doc, style, cand.Content, cand.RelPath, langs); err != nil {
			doc.SetFont("Courier", "", fontSize)
			doc.SetTextColor(0, 0, 0)
			doc.MultiCell(pageWidth-2*margin, lineHeight, cand.Content, "", "L", false)
		}
	}

	doc.AddPage()
	doc.SetFont("Helvetica", "B", fontSize+1)
	doc.MultiCell(pageWidth-2*margin, lineHeight, "Summary", "", "L", false)
	doc.SetFont("Helvetica", "", fontSize)
	doc.MultiCell(pageWidth-2*margin, lineHeight,
		fmt.Sprintf("Files: %d\nTotal size: %d bytes\nEstimated tokens: %d",
			len(res.Selected), res.TotalBytes, res.TokenCount), "", "L", false)

	if err := doc.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("saving PDF to %s: %w", outputPath, err)
	}
	return nil
}

// writeHighlighted tokenizes content with chroma and writes styled runs.
func writeHighlighted(doc *gofpdf.Fpdf, style *chroma.Style, content, relPath string, langs *language.Table) error {
	lexer := lexers.Analyse(content)
	if lexer == nil && langs != nil {
		if lang, ok := langs.ForFile(relPath); ok {
			lexer = lexers.Get(lang)
		}
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	doc.SetFont("Courier", "", fontSize)
	for tok := iterator(); tok != chroma.EOF; tok = iterator() {
		entry := style.Get(tok.Type)
		fontStyle := ""
		if entry.Bold == chroma.Yes {
			fontStyle += "B"
		}
		if entry.Italic == chroma.Yes {
			fontStyle += "I"
		}
		doc.SetFontStyle(fontStyle)

		if entry.Colour.IsSet() {
			doc.SetTextColor(int(entry.Colour.Red()), int(entry.Colour.Green()), int(entry.Colour.Blue()))
		} else if fg := style.Get(chroma.Text).Colour; fg.IsSet() {
			doc.SetTextColor(int(fg.Red()), int(fg.Green()), int(fg.Blue()))
		} else {
			doc.SetTextColor(0, 0, 0)
		}

		doc.Write(lineHeight, strings.ReplaceAll(tok.Value, "\t", strings.Repeat(" ", tabWidth)))
	}
	doc.Ln(-1)
	return nil
}
