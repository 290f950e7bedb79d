package dashboard

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rcliao/movie-dashboard/internal/model"
	"github.com/rcliao/movie-dashboard/internal/resolve"
)

// sortable caches the resolved sort keys of one record.
type sortable struct {
	rec        model.Record
	title      string
	popularity float64
	hasPop     bool
}

// Filter keeps the records matching query, preserving order.
func Filter(records []model.Record, query string) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if resolve.MatchesSearch(r, query) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a stably sorted copy of records. Titles compare
// case-insensitively under the root collation; records without a popularity
// always sort after those with one, in both directions. Unknown keys leave
// the order unchanged.
func Sort(records []model.Record, key model.SortKey) []model.Record {
	items := make([]sortable, len(records))
	for i, r := range records {
		p, ok := resolve.Popularity(r)
		items[i] = sortable{rec: r, title: resolve.Title(r), popularity: p, hasPop: ok}
	}

	switch key {
	case model.SortTitleAsc, model.SortTitleDesc:
		col := collate.New(language.Und, collate.Loose)
		sign := direction(key == model.SortTitleDesc)
		slices.SortStableFunc(items, func(a, b sortable) int {
			return sign * col.CompareString(a.title, b.title)
		})
	case model.SortPopAsc, model.SortPopDesc:
		sign := direction(key == model.SortPopDesc)
		slices.SortStableFunc(items, func(a, b sortable) int {
			switch {
			case !a.hasPop && !b.hasPop:
				return 0
			case !a.hasPop:
				return 1
			case !b.hasPop:
				return -1
			}
			return sign * cmp.Compare(a.popularity, b.popularity)
		})
	}

	out := make([]model.Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}

func direction(desc bool) int {
	if desc {
		return -1
	}
	return 1
}

// Visible filters records by query and sorts the result by key.
func Visible(records []model.Record, query string, key model.SortKey) []model.Record {
	return Sort(Filter(records, query), key)
}
