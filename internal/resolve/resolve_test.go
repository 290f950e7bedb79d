package resolve

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/movie-dashboard/internal/model"
)

func decode(t *testing.T, raw string) model.Record {
	t.Helper()
	var r model.Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func TestID(t *testing.T) {
	tests := []struct {
		name string
		rec  model.Record
		want string
	}{
		{"id string", model.Record{"id": "tt1", "_id": "x"}, "tt1"},
		{"numeric id", model.Record{"id": float64(42)}, "42"},
		{"fractional id", model.Record{"id": 1.5}, "1.5"},
		{"empty string id wins", model.Record{"id": "", "slug": "s"}, ""},
		{"bool id skipped", model.Record{"id": true, "_id": "mongo"}, "mongo"},
		{"imdbID", model.Record{"imdbID": "tt0443706"}, "tt0443706"},
		{"imdbId", model.Record{"imdbId": "tt2"}, "tt2"},
		{"slug", model.Record{"slug": "zodiac-2007", "title": "Zodiac"}, "zodiac-2007"},
		{"title fallback", model.Record{"title": "Zodiac"}, "Zodiac"},
		{"name fallback", model.Record{"name": "Heat"}, "Heat"},
		{"nothing", model.Record{"rating": 5.0}, ""},
		{"nil record", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ID(tt.rec))
		})
	}
}

func TestTitleAndPoster(t *testing.T) {
	r := model.Record{"title": "", "name": 7, "movie_title": "Alien", "poster": "", "img": "a.jpg", "thumbnail": "t.jpg"}
	assert.Equal(t, "Alien", Title(r))
	assert.Equal(t, "a.jpg", PosterURL(r))

	assert.Equal(t, "", Title(model.Record{}))
	assert.Equal(t, "", PosterURL(model.Record{"poster": 3}))
}

func TestPopularity(t *testing.T) {
	p, ok := Popularity(model.Record{"popularity": "high", "rating": 7.5, "vote_average": 9.0})
	require.True(t, ok)
	assert.Equal(t, 7.5, p)

	_, ok = Popularity(model.Record{"popularity": math.NaN(), "voteAverage": math.Inf(1)})
	assert.False(t, ok)

	p, ok = Popularity(model.Record{"popularityScore": 3})
	require.True(t, ok)
	assert.Equal(t, 3.0, p)
}

func TestSubtitle(t *testing.T) {
	assert.Equal(t, "2007 • Thriller", Subtitle(model.Record{"year": float64(2007), "genre": "Thriller"}))
	assert.Equal(t, "1999", Subtitle(model.Record{"year": "1998", "release_year": 1999}))
	assert.Equal(t, "Drama", Subtitle(model.Record{"genre": "", "genres": "Drama"}))
	assert.Equal(t, "", Subtitle(model.Record{"genres": []any{"a", "b"}}))
}

func TestCharacterText(t *testing.T) {
	assert.Equal(t, "Ripley", CharacterText(model.Record{"character": "Ripley", "characters": []any{"x"}}))
	assert.Equal(t, "Neo", CharacterText(model.Record{"character": "", "characterName": "Neo"}))

	r := decode(t, `{"characters":["Robert Graysmith",{"name":"Dave Toschi"},{"character":"Paul Avery"},{"name":3},42,""]}`)
	assert.Equal(t, "Robert Graysmith, Dave Toschi, Paul Avery", CharacterText(r))

	assert.Equal(t, "", CharacterText(model.Record{"characters": []any{map[string]any{}}}))
	assert.Equal(t, "", CharacterText(model.Record{"characters": "not a list"}))
}

func TestFirstCandidateIndependentOfUnrelatedFields(t *testing.T) {
	base := model.Record{"name": "Heat", "image": "heat.jpg", "vote_average": 8.3}
	noisy := model.Record{"name": "Heat", "image": "heat.jpg", "vote_average": 8.3, "foo": "bar", "cast": []any{1, 2}}
	assert.Equal(t, View(base), View(noisy))
}

func TestViewDeterministic(t *testing.T) {
	a := decode(t, `{"title":"Zodiac","id":7,"poster_url":"z.jpg","rating":7.7,"year":2007,"genre":"Crime","characters":[{"name":"Graysmith"}]}`)
	b := decode(t, `{"characters":[{"name":"Graysmith"}],"genre":"Crime","year":2007,"rating":7.7,"poster_url":"z.jpg","id":7,"title":"Zodiac"}`)

	first := View(a)
	assert.Equal(t, first, View(a))
	assert.Equal(t, first, View(b))

	require.NotNil(t, first.Popularity)
	assert.Equal(t, 7.7, *first.Popularity)
	assert.Equal(t, "7", first.ID)
	assert.Equal(t, "2007 • Crime", first.Subtitle)
	assert.Equal(t, "Graysmith", first.CharacterText)
}

func TestMatchesSearch(t *testing.T) {
	zodiac := model.Record{"title": "zodiac"}
	assert.True(t, MatchesSearch(zodiac, ""))
	assert.True(t, MatchesSearch(model.Record{}, "   "))
	assert.True(t, MatchesSearch(zodiac, "ZOD"))
	assert.True(t, MatchesSearch(zodiac, "  diac "))
	assert.False(t, MatchesSearch(zodiac, "alien"))

	withChar := model.Record{"name": "Alien", "characters": []any{map[string]any{"name": "Ellen Ripley"}}}
	assert.True(t, MatchesSearch(withChar, "ripley"))
	assert.False(t, MatchesSearch(model.Record{}, "x"))
}
