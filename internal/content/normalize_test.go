package content

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/notionsite/internal/notion"
)

func page(t *testing.T, raw string) *notion.Page {
	t.Helper()
	var p notion.Page
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return &p
}

var defaultLink = LinkOptions{Base: DefaultLinkBase, Query: DefaultLinkQuery}

func TestTitle(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "named title property",
			raw:  `{"properties": {"Name": {"type": "title", "title": [{"plain_text": "Hello"}, {"plain_text": " World"}]}}}`,
			want: "Hello World",
		},
		{
			name: "first title-typed property",
			raw: `{"properties": {
				"State": {"type": "select", "select": {"name": "Published"}},
				"Headline": {"type": "title", "title": [{"plain_text": "First"}]},
				"Other": {"type": "title", "title": [{"plain_text": "Second"}]}
			}}`,
			want: "First",
		},
		{
			name: "Name exists but is not a title",
			raw: `{"properties": {
				"Name": {"type": "rich_text", "rich_text": [{"plain_text": "nope"}]},
				"Title": {"type": "title", "title": [{"plain_text": "yes"}]}
			}}`,
			want: "yes",
		},
		{
			name: "no title property",
			raw:  `{"properties": {"State": {"type": "select", "select": null}}}`,
			want: Untitled,
		},
		{
			name: "no properties",
			raw:  `{}`,
			want: Untitled,
		},
		{
			name: "empty title keeps empty",
			raw:  `{"properties": {"Name": {"type": "title", "title": []}}}`,
			want: "",
		},
		{
			name: "casing preserved",
			raw:  `{"properties": {"Name": {"type": "title", "title": [{"plain_text": "lowercase Title"}]}}}`,
			want: "lowercase Title",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Title(page(t, tc.raw), DefaultTitleProperty))
		})
	}
}

func TestLink_DirectURL(t *testing.T) {
	p := page(t, `{"id": "2b20-3c18-4d6e", "url": "https://x.so/abc"}`)
	assert.Equal(t, "https://x.so/abc?pvs=4", Link(p, defaultLink))
}

func TestLink_FromID(t *testing.T) {
	p := page(t, `{"id": "2b20-3c18-4d6e"}`)
	assert.Equal(t, "https://www.notion.so/2b203c184d6e?pvs=4", Link(p, defaultLink))
}

func TestLink_NoQuery(t *testing.T) {
	p := page(t, `{"id": "ab-cd"}`)
	assert.Equal(t, "https://site.test/abcd", Link(p, LinkOptions{Base: "https://site.test/"}))
}

func TestNormalize(t *testing.T) {
	p := page(t, `{
		"id": "aa-bb",
		"url": "",
		"properties": {
			"Name": {"type": "title", "title": [{"plain_text": "Post"}]},
			"Date": {"type": "date", "date": {"start": "2023-12-31"}}
		}
	}`)
	e := Normalize(p, Options{TitleProperty: "Name", DateProperty: "Date", Link: defaultLink})
	assert.Equal(t, "aa-bb", e.ID)
	assert.Equal(t, "Post", e.Title)
	assert.Equal(t, "https://www.notion.so/aabb?pvs=4", e.Link)
	assert.True(t, e.HasDate())
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), e.Date)
}

func TestNormalize_BadDateIgnored(t *testing.T) {
	p := page(t, `{"id": "x", "properties": {"Date": {"type": "date", "date": null}}}`)
	e := Normalize(p, Options{TitleProperty: "Name", DateProperty: "Date", Link: defaultLink})
	assert.False(t, e.HasDate())
	assert.Equal(t, Untitled, e.Title)
}
