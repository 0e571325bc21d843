// Package models defines the domain types for notionsite.
package models

import "time"

// Entry is one published record, normalized for rendering.
type Entry struct {
	ID    string
	Title string
	Link  string
	Date  time.Time // zero when the record has no usable date
}

// HasDate reports whether the record carried a usable date.
func (e Entry) HasDate() bool {
	return !e.Date.IsZero()
}
