// Package splice replaces the marker-delimited region of a template document.
package splice

import (
	"strings"

	"github.com/starford/notionsite/internal/apperr"
)

// Markers delimit the rewritable region of a document.
type Markers struct {
	Start string
	End   string
}

// DefaultMarkers are the comments the site template carries.
var DefaultMarkers = Markers{
	Start: "<!-- ARTICLES_START -->",
	End:   "<!-- ARTICLES_END -->",
}

// Splice returns doc with the text between the first start marker and the
// first end marker replaced by a newline followed by block. Both markers
// are kept. Content outside the region is returned unchanged. A block that
// itself contains either marker is rejected, since the next splice would
// find the wrong region.
func Splice(doc, block string, m Markers) (string, error) {
	if strings.Contains(block, m.Start) || strings.Contains(block, m.End) {
		return "", &apperr.TemplateError{Err: apperr.ErrMarkerInBlock}
	}

	start := strings.Index(doc, m.Start)
	end := strings.Index(doc, m.End)

	var missing []string
	if start < 0 {
		missing = append(missing, m.Start)
	}
	if end < 0 {
		missing = append(missing, m.End)
	}
	if len(missing) > 0 {
		return "", &apperr.TemplateError{Missing: missing, Err: apperr.ErrMarkersMissing}
	}

	head := start + len(m.Start)
	if end < head {
		return "", &apperr.TemplateError{Err: apperr.ErrMarkerOrder}
	}

	var b strings.Builder
	b.Grow(head + 1 + len(block) + len(doc) - end)
	b.WriteString(doc[:head])
	b.WriteByte('\n')
	b.WriteString(block)
	b.WriteString(doc[end:])
	return b.String(), nil
}

// Occurrences counts the start and end markers in doc. Anything above one
// means only the first pair is rewritten.
func Occurrences(doc string, m Markers) (start, end int) {
	return strings.Count(doc, m.Start), strings.Count(doc, m.End)
}
