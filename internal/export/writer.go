// Package export turns a finished book into its deliverable file. It
// compiles the drafted chapters into one document, renders the requested
// format and writes the artifact under the output directory.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bookforge/internal/book"
)

// ExportError reports an artifact that could not be written even after the
// fallback location was tried.
type ExportError struct {
	Format book.OutputFormat
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("exporting %s to %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Writer renders compiled books into their final file format.
type Writer struct {
	// OutputDir receives every artifact. Created on demand.
	OutputDir string

	// FallbackName is the base name used when the primary write fails and
	// the artifact is retried in the working directory.
	FallbackName string
}

func NewWriter(outputDir, fallbackName string) *Writer {
	if outputDir == "" {
		outputDir = "./output"
	}
	if fallbackName == "" {
		fallbackName = "ebook"
	}
	return &Writer{OutputDir: outputDir, FallbackName: fallbackName}
}

// Export renders the outline in the requested format and writes it as
// <OutputDir>/<sanitized title><ext>, returning the absolute path of the
// file written. A failed write is retried once as <FallbackName><ext> in
// the working directory before giving up. Formats without a renderer fall
// back to writing the raw compiled text as markdown.
func (w *Writer) Export(outline *book.Outline, compiled string, format book.OutputFormat) (string, error) {
	if outline == nil {
		return "", fmt.Errorf("no outline to export")
	}

	ext := format.Extension()
	var render func(io.Writer) error
	switch format {
	case book.FormatMarkdown:
		render = func(out io.Writer) error { return renderMarkdown(outline, out) }
	case book.FormatDoc:
		render = func(out io.Writer) error { return renderDOCX(outline, out) }
	case book.FormatPDF:
		render = func(out io.Writer) error { return renderPDF(outline, out) }
	default:
		render = func(out io.Writer) error {
			_, err := io.WriteString(out, compiled)
			return err
		}
	}

	name := SanitizeFilename(outline.Title) + ext
	path, err := writeArtifact(w.OutputDir, name, render)
	if err == nil {
		return path, nil
	}

	if fbPath, fbErr := writeArtifact("", w.FallbackName+ext, render); fbErr == nil {
		return fbPath, nil
	}
	return "", &ExportError{Format: format, Path: filepath.Join(w.OutputDir, name), Err: err}
}

// writeArtifact renders into dir/name and returns the absolute path. An
// empty dir targets the working directory and skips directory creation.
func writeArtifact(dir, name string, render func(io.Writer) error) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
