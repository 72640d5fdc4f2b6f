package export

import (
	"regexp"
	"strings"
)

// maxFilenameLength keeps derived names well under common path limits.
const maxFilenameLength = 100

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	filenameRuns         = regexp.MustCompile(`[_\s]+`)
)

// SanitizeFilename derives a filesystem-safe base name from a book title.
// Characters that are illegal on common filesystems become underscores,
// runs of whitespace and underscores collapse to a single underscore, and
// the result is trimmed and capped. An empty result falls back to
// "untitled".
func SanitizeFilename(title string) string {
	name := invalidFilenameChars.ReplaceAllString(title, "_")
	name = filenameRuns.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_ ")

	if name == "" {
		return "untitled"
	}
	if runes := []rune(name); len(runes) > maxFilenameLength {
		name = string(runes[:maxFilenameLength])
	}
	return name
}
