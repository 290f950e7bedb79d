// Package model defines the core catalog data types.
package model

// Record is one upstream catalog entry. Its shape is not fixed: field names
// vary between sources and even between records on the same page.
type Record = map[string]any

// CanonicalView holds the attributes derived from a Record.
type CanonicalView struct {
	ID            string   `json:"id"                   yaml:"id"`
	Title         string   `json:"title"                yaml:"title"`
	PosterURL     string   `json:"poster_url,omitempty" yaml:"poster_url,omitempty"`
	Popularity    *float64 `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	Subtitle      string   `json:"subtitle,omitempty"   yaml:"subtitle,omitempty"`
	CharacterText string   `json:"character,omitempty"  yaml:"character,omitempty"`
}

// Page is one page of records plus the pagination metadata reported by the
// upstream source.
type Page struct {
	CurrentPage int      `json:"current_page"`
	TotalPages  int      `json:"total_pages"`
	Records     []Record `json:"data"`
}
