package dashboard

import (
	"encoding/json"
	"strconv"

	"github.com/rcliao/movie-dashboard/internal/model"
	"github.com/rcliao/movie-dashboard/internal/resolve"
)

const (
	untitledDetails = "Movie Details"
	noPopularity    = "N/A"
)

// Details is the expanded view of a single record.
type Details struct {
	ID         string `json:"id"         yaml:"id"`
	Title      string `json:"title"      yaml:"title"`
	Subtitle   string `json:"subtitle,omitempty"   yaml:"subtitle,omitempty"`
	Popularity string `json:"popularity" yaml:"popularity"`
	Characters string `json:"characters,omitempty" yaml:"characters,omitempty"`
	PosterURL  string `json:"poster_url,omitempty" yaml:"poster_url,omitempty"`
	Favorite   bool   `json:"favorite"   yaml:"favorite"`
	Raw        string `json:"raw"        yaml:"raw"`
}

// DetailsOf builds the details view of r.
func DetailsOf(r model.Record, favorite bool) Details {
	v := resolve.View(r)
	d := Details{
		ID:         v.ID,
		Title:      v.Title,
		Subtitle:   v.Subtitle,
		Popularity: noPopularity,
		Characters: v.CharacterText,
		PosterURL:  v.PosterURL,
		Favorite:   favorite,
	}
	if d.Title == "" {
		d.Title = untitledDetails
	}
	if v.Popularity != nil {
		d.Popularity = strconv.FormatFloat(*v.Popularity, 'f', 1, 64)
	}
	if raw, err := json.MarshalIndent(r, "", "  "); err == nil {
		d.Raw = string(raw)
	}
	return d
}

// Find returns the record in records with identity id.
func Find(records []model.Record, id string) (model.Record, bool) {
	if id == "" {
		return nil, false
	}
	for _, r := range records {
		if resolve.ID(r) == id {
			return r, true
		}
	}
	return nil, false
}
