package notion

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PropertyType is the declared "type" discriminator of a page property.
type PropertyType string

const (
	TypeTitle       PropertyType = "title"
	TypeRichText    PropertyType = "rich_text"
	TypeSelect      PropertyType = "select"
	TypeStatus      PropertyType = "status"
	TypeMultiSelect PropertyType = "multi_select"
	TypeDate        PropertyType = "date"
	TypeURL         PropertyType = "url"
	TypeCheckbox    PropertyType = "checkbox"
	TypeNumber      PropertyType = "number"
)

// RichText is one formatted text segment.
type RichText struct {
	Type      string `json:"type"`
	PlainText string `json:"plain_text"`
	Href      string `json:"href,omitempty"`
}

// PlainText concatenates the plain-text of segments in order, without a separator.
func PlainText(segments []RichText) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.PlainText)
	}
	return b.String()
}

// SelectOption is a select, status or multi-select choice.
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// PropertyValue is implemented by every known property variant.
type PropertyValue interface {
	PropertyID() string
	Type() PropertyType
}

type propertyBase struct {
	ID string `json:"id"`
}

func (p propertyBase) PropertyID() string { return p.ID }

type TitleProperty struct {
	propertyBase
	Title []RichText `json:"title"`
}

func (*TitleProperty) Type() PropertyType { return TypeTitle }

// Text returns the concatenated plain text of the title.
func (p *TitleProperty) Text() string { return PlainText(p.Title) }

type RichTextProperty struct {
	propertyBase
	RichText []RichText `json:"rich_text"`
}

func (*RichTextProperty) Type() PropertyType { return TypeRichText }

func (p *RichTextProperty) Text() string { return PlainText(p.RichText) }

type SelectProperty struct {
	propertyBase
	Select *SelectOption `json:"select"`
}

func (*SelectProperty) Type() PropertyType { return TypeSelect }

type StatusProperty struct {
	propertyBase
	Status *SelectOption `json:"status"`
}

func (*StatusProperty) Type() PropertyType { return TypeStatus }

type MultiSelectProperty struct {
	propertyBase
	MultiSelect []SelectOption `json:"multi_select"`
}

func (*MultiSelectProperty) Type() PropertyType { return TypeMultiSelect }

// DateValue is the payload of a date property. Start and End keep the
// service's string form; use StartTime to parse.
type DateValue struct {
	Start    string  `json:"start"`
	End      *string `json:"end"`
	TimeZone *string `json:"time_zone"`
}

// StartTime parses Start as either a calendar date or an RFC 3339 timestamp.
func (d *DateValue) StartTime() (time.Time, error) {
	if d == nil || d.Start == "" {
		return time.Time{}, fmt.Errorf("notion: empty date")
	}
	if t, err := time.Parse(time.DateOnly, d.Start); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, d.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("notion: parse date %q: %w", d.Start, err)
	}
	return t, nil
}

type DateProperty struct {
	propertyBase
	Date *DateValue `json:"date"`
}

func (*DateProperty) Type() PropertyType { return TypeDate }

type URLProperty struct {
	propertyBase
	URL *string `json:"url"`
}

func (*URLProperty) Type() PropertyType { return TypeURL }

type CheckboxProperty struct {
	propertyBase
	Checkbox bool `json:"checkbox"`
}

func (*CheckboxProperty) Type() PropertyType { return TypeCheckbox }

type NumberProperty struct {
	propertyBase
	Number *float64 `json:"number"`
}

func (*NumberProperty) Type() PropertyType { return TypeNumber }

// UnknownProperty keeps any variant this package does not model.
type UnknownProperty struct {
	propertyBase
	Kind PropertyType    `json:"-"`
	Raw  json.RawMessage `json:"-"`
}

func (p *UnknownProperty) Type() PropertyType { return p.Kind }

// Property wraps one decoded variant, selected by the "type" field.
type Property struct {
	Value PropertyValue
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Property) UnmarshalJSON(data []byte) error {
	var head struct {
		ID   string       `json:"id"`
		Type PropertyType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("notion: decode property: %w", err)
	}

	var v PropertyValue
	switch head.Type {
	case TypeTitle:
		v = &TitleProperty{}
	case TypeRichText:
		v = &RichTextProperty{}
	case TypeSelect:
		v = &SelectProperty{}
	case TypeStatus:
		v = &StatusProperty{}
	case TypeMultiSelect:
		v = &MultiSelectProperty{}
	case TypeDate:
		v = &DateProperty{}
	case TypeURL:
		v = &URLProperty{}
	case TypeCheckbox:
		v = &CheckboxProperty{}
	case TypeNumber:
		v = &NumberProperty{}
	default:
		p.Value = &UnknownProperty{
			propertyBase: propertyBase{ID: head.ID},
			Kind:         head.Type,
			Raw:          append(json.RawMessage(nil), data...),
		}
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("notion: decode %s property: %w", head.Type, err)
	}
	p.Value = v
	return nil
}
