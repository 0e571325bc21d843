// Package testutil provides shared test helpers for setting up site directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/notionsite/internal/storage"
)

// TemplateName is the file name TestSite writes the template under.
const TemplateName = "index.html"

// MarkedTemplate is a small page carrying both default markers on adjacent lines.
const MarkedTemplate = "<html>\n<body>\n<h1>Articles</h1>\n<!-- ARTICLES_START -->\n<!-- ARTICLES_END -->\n</body>\n</html>\n"

// TestSite creates a temporary site directory holding template as index.html
// and returns the directory and a storage.Provider rooted at it.
func TestSite(t *testing.T, template string) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, TemplateName), []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// ReadTemplate returns the current content of the site's index.html.
func ReadTemplate(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, TemplateName))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
