package splice

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/notionsite/internal/apperr"
	"github.com/starford/notionsite/internal/storage"
)

// Result describes one splice of a template document.
type Result struct {
	Path      string
	Before    string // checksum of the document as read
	After     string // checksum of the spliced document
	Size      int
	Written   bool
	Unchanged bool
}

// digest is the hex SHA-256 of a document, reported in build logs so
// unchanged rebuilds are easy to spot.
func digest(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Splicer applies rendered blocks to template documents held in a storage
// provider.
type Splicer struct {
	store   storage.Provider
	markers Markers
	logger  *slog.Logger
}

// NewSplicer creates a Splicer. A nil logger falls back to slog.Default.
func NewSplicer(store storage.Provider, markers Markers, logger *slog.Logger) *Splicer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splicer{store: store, markers: markers, logger: logger}
}

// render reads path and builds the spliced document in memory.
func (s *Splicer) render(path, block string) (string, *Result, error) {
	data, err := s.store.Read(path)
	if err != nil {
		return "", nil, &apperr.TemplateError{Path: path, Err: err}
	}
	doc := string(data)

	out, err := Splice(doc, block, s.markers)
	if err != nil {
		var templateErr *apperr.TemplateError
		if errors.As(err, &templateErr) {
			templateErr.Path = path
		}
		return "", nil, err
	}

	if starts, ends := Occurrences(doc, s.markers); starts > 1 || ends > 1 {
		s.logger.Warn("template has repeated markers; only the first pair is rewritten",
			slog.String("path", path),
			slog.Int("start_markers", starts),
			slog.Int("end_markers", ends))
	}

	res := &Result{
		Path:      path,
		Before:    digest(data),
		After:     digest([]byte(out)),
		Size:      len(out),
		Unchanged: out == doc,
	}
	return out, res, nil
}

// Apply splices block into the document at path and overwrites it. On any
// error the document is left untouched.
func (s *Splicer) Apply(path, block string) (*Result, error) {
	out, res, err := s.render(path, block)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(path, []byte(out)); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	res.Written = true
	return res, nil
}

// Preview splices block into the document at path and writes the result to
// w instead of the document.
func (s *Splicer) Preview(path, block string, w io.Writer) (*Result, error) {
	out, res, err := s.render(path, block)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return nil, fmt.Errorf("write preview: %w", err)
	}
	return res, nil
}
