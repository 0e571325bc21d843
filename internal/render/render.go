// Package render turns entries into the HTML block injected into the site.
package render

import (
	"strings"

	"github.com/starford/notionsite/internal/models"
)

const (
	// EmptyPlaceholder is rendered instead of the list container when there
	// are no entries.
	EmptyPlaceholder = `<p style="color: #666; font-style: italic;">No published articles found.</p>` + "\n"

	containerOpen  = `<div class="group-5-2" id="article-list">` + "\n"
	containerClose = "</div>\n"
)

// Item renders one entry as a single list line. Title and link are
// written verbatim.
func Item(e models.Entry) string {
	var b strings.Builder
	writeItem(&b, e)
	return b.String()
}

func writeItem(b *strings.Builder, e models.Entry) {
	b.WriteString(`  <div class="article-item"><div class="article-bullet"></div><a href="`)
	b.WriteString(e.Link)
	b.WriteString(`" target="_blank" rel="noopener noreferrer" class="article-link"><span class="text-rgb-0-0-255">`)
	b.WriteString(e.Title)
	b.WriteString("</span></a></div>\n")
}

// Articles renders the container holding one item per entry, in order,
// or EmptyPlaceholder when entries is empty.
func Articles(entries []models.Entry) string {
	if len(entries) == 0 {
		return EmptyPlaceholder
	}
	var b strings.Builder
	b.WriteString(containerOpen)
	for _, e := range entries {
		writeItem(&b, e)
	}
	b.WriteString(containerClose)
	return b.String()
}
