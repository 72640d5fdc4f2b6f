package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"bookforge/internal/book"
)

var smartPunctReplacer = strings.NewReplacer(
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "--",
)

// latinText maps smart punctuation to ASCII equivalents and drops anything
// outside latin-1, which is all the built-in PDF fonts can encode. The
// returned string carries latin-1 bytes, not UTF-8.
func latinText(text string) string {
	text = smartPunctReplacer.Replace(text)
	b := make([]byte, 0, len(text))
	for _, r := range text {
		if r <= 0xFF {
			b = append(b, byte(r))
		}
	}
	return string(b)
}

// renderPDF writes the paginated edition: a centered title page, a table of
// contents, then one chapter per page with centered headings and flowing
// body text.
func renderPDF(outline *book.Outline, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Times", "B", 24)
	pdf.MultiCell(0, 12, latinText(outline.Title), "", "C", false)
	pdf.Ln(20)

	pdf.SetFont("Times", "B", 18)
	pdf.CellFormat(0, 10, "Table of Contents", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Times", "", 12)
	for _, ch := range outline.Chapters {
		line := fmt.Sprintf("Chapter %d: %s", ch.Number, ch.Title)
		pdf.CellFormat(0, 10, latinText(line), "", 1, "L", false, 0, "")
	}
	pdf.AddPage()

	for i, ch := range outline.Chapters {
		pdf.SetFont("Times", "B", 16)
		pdf.CellFormat(0, 10, fmt.Sprintf("CHAPTER %d", ch.Number), "", 1, "C", false, 0, "")

		pdf.SetFont("Times", "B", 14)
		pdf.CellFormat(0, 10, latinText(ch.Title), "", 1, "C", false, 0, "")
		pdf.Ln(5)

		pdf.SetFont("Times", "", 12)
		for _, para := range strings.Split(ch.Content, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			cleaned := latinText(para)
			if strings.HasPrefix(cleaned, "##") {
				header := strings.TrimSpace(strings.ReplaceAll(cleaned, "#", ""))
				pdf.SetFont("Times", "B", 12)
				pdf.MultiCell(0, 10, header, "", "", false)
				pdf.SetFont("Times", "", 12)
				pdf.Ln(3)
			} else {
				pdf.MultiCell(0, 10, cleaned, "", "", false)
				pdf.Ln(5)
			}
		}

		if i < len(outline.Chapters)-1 {
			pdf.AddPage()
		}
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}
