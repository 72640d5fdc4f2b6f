package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"bookforge/internal/book"
)

// Run sizes are OOXML half-points: "48" renders as 24pt.
const (
	docxTitleSize   = "48"
	docxHeadingSize = "36"
	docxSubheadSize = "28"
	docxBodySize    = "24"
)

// renderDOCX writes the word-processor edition: a centered title page, a
// table of contents page, then one chapter per page with centered headings
// and justified body paragraphs.
func renderDOCX(outline *book.Outline, w io.Writer) error {
	doc := docx.New().WithDefaultTheme()

	title := doc.AddParagraph()
	title.Justification("center")
	title.AddText(outline.Title).Size(docxTitleSize).Bold()
	doc.AddParagraph().AddPageBreaks()

	toc := doc.AddParagraph()
	toc.Justification("center")
	toc.AddText("Table of Contents").Size(docxHeadingSize).Bold()
	doc.AddParagraph()
	for _, ch := range outline.Chapters {
		entry := doc.AddParagraph()
		entry.AddText(fmt.Sprintf("Chapter %d: %s", ch.Number, ch.Title)).Size(docxBodySize)
	}
	doc.AddParagraph().AddPageBreaks()

	for i, ch := range outline.Chapters {
		number := doc.AddParagraph()
		number.Justification("center")
		number.AddText(fmt.Sprintf("CHAPTER %d", ch.Number)).Size(docxHeadingSize).Bold()

		heading := doc.AddParagraph()
		heading.Justification("center")
		heading.AddText(ch.Title).Size(docxSubheadSize)
		doc.AddParagraph()

		for _, para := range strings.Split(ch.Content, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			switch {
			case strings.HasPrefix(para, "###"):
				p := doc.AddParagraph()
				p.AddText(strings.TrimSpace(strings.ReplaceAll(para, "###", ""))).Size(docxBodySize).Bold()
			case strings.HasPrefix(para, "##"):
				p := doc.AddParagraph()
				p.AddText(strings.TrimSpace(strings.ReplaceAll(para, "##", ""))).Size(docxSubheadSize).Bold()
			default:
				p := doc.AddParagraph()
				p.Justification("both")
				p.AddText(para).Size(docxBodySize)
			}
		}

		if i < len(outline.Chapters)-1 {
			doc.AddParagraph().AddPageBreaks()
		}
	}

	_, err := doc.WriteTo(w)
	return err
}
