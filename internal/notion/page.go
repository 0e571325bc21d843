package notion

import (
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Page is one database row as returned by a query. Properties keep the
// order in which the service listed them.
type Page struct {
	Object         string                                   `json:"object"`
	ID             string                                   `json:"id"`
	URL            string                                   `json:"url"`
	PublicURL      string                                   `json:"public_url,omitempty"`
	CreatedTime    time.Time                                `json:"created_time"`
	LastEditedTime time.Time                                `json:"last_edited_time"`
	Archived       bool                                     `json:"archived"`
	Properties     *orderedmap.OrderedMap[string, Property] `json:"properties"`
}

// Property returns the named property, if present.
func (p *Page) Property(name string) (PropertyValue, bool) {
	if p.Properties == nil {
		return nil, false
	}
	prop, ok := p.Properties.Get(name)
	if !ok || prop.Value == nil {
		return nil, false
	}
	return prop.Value, true
}

// EachProperty calls fn for every property in declared order until fn
// returns false.
func (p *Page) EachProperty(fn func(name string, v PropertyValue) bool) {
	if p.Properties == nil {
		return
	}
	for pair := p.Properties.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Value == nil {
			continue
		}
		if !fn(pair.Key, pair.Value.Value) {
			return
		}
	}
}

// FirstOfType returns the first property, in declared order, whose type is t.
func (p *Page) FirstOfType(t PropertyType) (string, PropertyValue, bool) {
	var (
		name  string
		found PropertyValue
	)
	p.EachProperty(func(n string, v PropertyValue) bool {
		if v.Type() == t {
			name, found = n, v
			return false
		}
		return true
	})
	return name, found, found != nil
}
