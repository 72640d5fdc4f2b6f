package export

import (
	"fmt"
	"strings"
	"time"

	"bookforge/internal/book"
)

// compiledDateLayout is the creation stamp format embedded in the compiled
// document header.
const compiledDateLayout = "2006-01-02 15:04:05"

// Compile collapses an outline and its drafted chapters into one markdown
// document: title, creation stamp, table of contents, then every chapter in
// order. The output depends only on the outline and the timestamp, so
// recompiling a finished run reproduces the same text.
func Compile(outline *book.Outline, createdAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", outline.Title)
	fmt.Fprintf(&b, "*Created: %s*\n\n", createdAt.UTC().Format(compiledDateLayout))

	b.WriteString("## Table of Contents\n\n")
	for _, ch := range outline.Chapters {
		fmt.Fprintf(&b, "- Chapter %d: %s\n", ch.Number, ch.Title)
	}
	b.WriteString("\n\n")

	for _, ch := range outline.Chapters {
		fmt.Fprintf(&b, "## Chapter %d: %s\n\n", ch.Number, ch.Title)
		if ch.Content != "" {
			b.WriteString(ch.Content)
			b.WriteString("\n\n")
		} else {
			b.WriteString("*Content not generated*\n\n")
		}
	}

	return b.String()
}
