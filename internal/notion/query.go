package notion

// SortDirection orders query results.
type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

// QueryRequest is the body of a database query.
type QueryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	Sorts       []Sort  `json:"sorts,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

// Filter is a single-property filter. Exactly one condition is set.
type Filter struct {
	Property string           `json:"property"`
	Select   *EqualsCondition `json:"select,omitempty"`
	Status   *EqualsCondition `json:"status,omitempty"`
}

// EqualsCondition matches an option by name.
type EqualsCondition struct {
	Equals string `json:"equals"`
}

// Sort orders by one property.
type Sort struct {
	Property  string        `json:"property"`
	Direction SortDirection `json:"direction"`
}

// QueryResponse is a page of query results.
type QueryResponse struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// PublishedQuery selects rows whose select property statusProp equals
// statusValue, newest first by dateProp.
func PublishedQuery(statusProp, statusValue, dateProp string) QueryRequest {
	return QueryRequest{
		Filter: &Filter{
			Property: statusProp,
			Select:   &EqualsCondition{Equals: statusValue},
		},
		Sorts: []Sort{
			{Property: dateProp, Direction: Descending},
		},
	}
}
