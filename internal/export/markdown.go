package export

import (
	"fmt"
	"io"
	"strings"

	"bookforge/internal/book"
)

// renderMarkdown writes the markdown edition: title, table of contents,
// then each chapter under its own top-level heading. Unlike the compiled
// document it carries no creation stamp.
func renderMarkdown(outline *book.Outline, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", outline.Title)
	b.WriteString("## Table of Contents\n\n")
	for _, ch := range outline.Chapters {
		fmt.Fprintf(&b, "- Chapter %d: %s\n", ch.Number, ch.Title)
	}
	b.WriteString("\n")

	for _, ch := range outline.Chapters {
		fmt.Fprintf(&b, "\n# Chapter %d: %s\n\n", ch.Number, ch.Title)
		b.WriteString(ch.Content)
		b.WriteString("\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
