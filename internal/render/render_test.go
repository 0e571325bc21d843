package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starford/notionsite/internal/models"
)

func TestArticles_Empty(t *testing.T) {
	assert.Equal(t, EmptyPlaceholder, Articles(nil))
	assert.Equal(t, EmptyPlaceholder, Articles([]models.Entry{}))
	assert.NotContains(t, Articles(nil), "article-list")
}

func TestArticles_OneItemPerEntryInOrder(t *testing.T) {
	var entries []models.Entry
	for i := 0; i < 5; i++ {
		entries = append(entries, models.Entry{
			Title: fmt.Sprintf("title-%d", i),
			Link:  fmt.Sprintf("https://x.so/%d?pvs=4", i),
		})
	}

	out := Articles(entries)
	assert.True(t, strings.HasPrefix(out, `<div class="group-5-2" id="article-list">`+"\n"))
	assert.True(t, strings.HasSuffix(out, "</div>\n"))
	assert.Equal(t, len(entries), strings.Count(out, `class="article-item"`))

	last := -1
	for _, e := range entries {
		idx := strings.Index(out, ">"+e.Title+"<")
		assert.Greater(t, idx, last, "entry %q out of order", e.Title)
		last = idx
	}
}

func TestItem_Format(t *testing.T) {
	got := Item(models.Entry{Title: "Hello World", Link: "https://x.so/abc?pvs=4"})
	want := `  <div class="article-item"><div class="article-bullet"></div><a href="https://x.so/abc?pvs=4" target="_blank" rel="noopener noreferrer" class="article-link"><span class="text-rgb-0-0-255">Hello World</span></a></div>` + "\n"
	assert.Equal(t, want, got)
}

func TestArticles_TitleVerbatim(t *testing.T) {
	out := Articles([]models.Entry{{Title: "mIxEd case & more", Link: "l"}})
	assert.Contains(t, out, ">mIxEd case & more<")
}

func TestArticles_Exact(t *testing.T) {
	out := Articles([]models.Entry{{Title: "a", Link: "A"}, {Title: "b", Link: "B"}})
	want := `<div class="group-5-2" id="article-list">` + "\n" +
		Item(models.Entry{Title: "a", Link: "A"}) +
		Item(models.Entry{Title: "b", Link: "B"}) +
		"</div>\n"
	assert.Equal(t, want, out)
}
