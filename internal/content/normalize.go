package content

import (
	"strings"

	"github.com/starford/notionsite/internal/models"
	"github.com/starford/notionsite/internal/notion"
)

const (
	// Untitled is used when a record has no title property at all.
	Untitled = "Untitled"

	DefaultTitleProperty = "Name"
	DefaultLinkBase      = "https://www.notion.so/"
	DefaultLinkQuery     = "pvs=4"
)

// LinkOptions controls canonical link construction.
type LinkOptions struct {
	Base  string // prefix for links built from a record id
	Query string // appended after "?" to every link
}

// Title derives a record's title: the title-typed property named
// titleProperty, else the first title-typed property in declared order,
// else Untitled. An existing but empty title yields "".
func Title(p *notion.Page, titleProperty string) string {
	if v, ok := p.Property(titleProperty); ok {
		if t, ok := v.(*notion.TitleProperty); ok {
			return t.Text()
		}
	}
	if _, v, ok := p.FirstOfType(notion.TypeTitle); ok {
		return v.(*notion.TitleProperty).Text()
	}
	return Untitled
}

// Link derives a record's canonical link from its direct URL, or from its
// id with hyphens stripped when the URL is empty.
func Link(p *notion.Page, opts LinkOptions) string {
	base := p.URL
	if base == "" {
		base = opts.Base + strings.ReplaceAll(p.ID, "-", "")
	}
	if opts.Query == "" {
		return base
	}
	return base + "?" + opts.Query
}

// Normalize turns a raw page into an Entry.
func Normalize(p *notion.Page, opts Options) models.Entry {
	e := models.Entry{
		ID:    p.ID,
		Title: Title(p, opts.TitleProperty),
		Link:  Link(p, opts.Link),
	}
	if v, ok := p.Property(opts.DateProperty); ok {
		if d, ok := v.(*notion.DateProperty); ok {
			if start, err := d.Date.StartTime(); err == nil {
				e.Date = start
			}
		}
	}
	return e
}
