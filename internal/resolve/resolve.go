// Package resolve derives a canonical view from schema-less catalog records.
//
// Every attribute is an ordered fallback chain: candidate field names are
// scanned in order and the first value accepted by the attribute's extractor
// wins. Field order inside the record never matters.
package resolve

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rcliao/movie-dashboard/internal/model"
)

// Candidate field names, in priority order.
var (
	IDFields         = []string{"id", "_id", "imdbID", "imdbId", "slug", "title", "name"}
	TitleFields      = []string{"title", "name", "movie_title"}
	PosterFields     = []string{"poster", "poster_url", "posterUrl", "image", "img", "thumbnail", "thumbnailUrl"}
	PopularityFields = []string{"popularity", "popularity_score", "popularityScore", "rating", "vote_average", "voteAverage"}
	YearFields       = []string{"year", "release_year", "releaseYear"}
	GenreFields      = []string{"genre", "genres"}
	CharacterFields  = []string{"character", "character_name", "characterName"}
)

// SubtitleSeparator joins the year and genre parts of a subtitle.
const SubtitleSeparator = " • "

// Extractor converts a raw field value into T, reporting whether the value
// satisfies the attribute's type predicate.
type Extractor[T any] func(v any) (T, bool)

// First scans fields in order and returns the first value accepted by ext.
func First[T any](r model.Record, fields []string, ext Extractor[T]) (T, bool) {
	for _, f := range fields {
		v, ok := r[f]
		if !ok {
			continue
		}
		if out, ok := ext(v); ok {
			return out, true
		}
	}
	var zero T
	return zero, false
}

// String accepts any string, including the empty one.
func String(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// NonEmptyString accepts strings with at least one byte.
func NonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

// Number accepts any numeric value, NaN and infinities included.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// FiniteNumber accepts numbers that are neither NaN nor infinite.
func FiniteNumber(v any) (float64, bool) {
	f, ok := Number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// StringOrNumber accepts strings as-is and renders numbers in their shortest
// decimal form (42, not 42.000000).
func StringOrNumber(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if f, ok := Number(v); ok {
		return formatNumber(f), true
	}
	return "", false
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ID returns the resolved identity, or "" when the record has none.
//
// Records without an explicit id field fall back to title and then name, so
// two distinct records sharing a title resolve to the same identity.
func ID(r model.Record) string {
	id, _ := First(r, IDFields, StringOrNumber)
	return id
}

// Title returns the first non-empty title-like field.
func Title(r model.Record) string {
	t, _ := First(r, TitleFields, NonEmptyString)
	return t
}

// PosterURL returns the first non-empty poster-like field.
func PosterURL(r model.Record) string {
	p, _ := First(r, PosterFields, NonEmptyString)
	return p
}

// Popularity returns the first finite popularity-like number.
func Popularity(r model.Record) (float64, bool) {
	return First(r, PopularityFields, FiniteNumber)
}

// Subtitle joins the numeric year and the genre string, omitting empty parts.
func Subtitle(r model.Record) string {
	var parts []string
	if y, ok := First(r, YearFields, Number); ok {
		parts = append(parts, formatNumber(y))
	}
	if g, ok := First(r, GenreFields, NonEmptyString); ok {
		parts = append(parts, g)
	}
	return strings.Join(parts, SubtitleSeparator)
}

// CharacterText returns the direct character field when present, otherwise
// the names collected from a "characters" list joined with ", ".
func CharacterText(r model.Record) string {
	if c, ok := First(r, CharacterFields, NonEmptyString); ok {
		return c
	}
	var list []any
	switch cs := r["characters"].(type) {
	case []any:
		list = cs
	case []string:
		for _, c := range cs {
			list = append(list, c)
		}
	case []map[string]any:
		for _, c := range cs {
			list = append(list, c)
		}
	default:
		return ""
	}
	var names []string
	for _, entry := range list {
		if name := characterName(entry); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func characterName(entry any) string {
	switch e := entry.(type) {
	case string:
		return e
	case map[string]any:
		if n, ok := e["name"].(string); ok {
			return n
		}
		if n, ok := e["character"].(string); ok {
			return n
		}
	}
	return ""
}

// View resolves every canonical attribute of r.
func View(r model.Record) model.CanonicalView {
	v := model.CanonicalView{
		ID:            ID(r),
		Title:         Title(r),
		PosterURL:     PosterURL(r),
		Subtitle:      Subtitle(r),
		CharacterText: CharacterText(r),
	}
	if p, ok := Popularity(r); ok {
		v.Popularity = &p
	}
	return v
}

// MatchesSearch reports whether the trimmed, lower-cased query is a substring
// of the record's lower-cased title or character text. An empty query matches
// every record.
func MatchesSearch(r model.Record, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(Title(r)), q) ||
		strings.Contains(strings.ToLower(CharacterText(r)), q)
}
