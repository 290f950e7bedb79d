package uistate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/movie-dashboard/internal/model"
	"github.com/rcliao/movie-dashboard/internal/store"
)

func TestLoadDefaults(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		raw  string
		want model.UIState
	}{
		{
			name: "absent",
			want: model.DefaultUIState(),
		},
		{
			name: "corrupt",
			raw:  `{"tab":`,
			want: model.DefaultUIState(),
		},
		{
			name: "not an object",
			raw:  `[1,2]`,
			want: model.DefaultUIState(),
		},
		{
			name: "all valid",
			raw:  `{"tab":"favorites","page":4,"query":"zod","sort":"title_desc"}`,
			want: model.UIState{Tab: model.TabFavorites, Page: 4, Query: "zod", Sort: model.SortTitleDesc},
		},
		{
			name: "each field defaulted independently",
			raw:  `{"tab":"settings","page":-2,"query":"heat","sort":"rating"}`,
			want: model.UIState{Tab: model.TabMovies, Page: 1, Query: "heat", Sort: model.SortPopDesc},
		},
		{
			name: "wrong types",
			raw:  `{"tab":1,"page":"3","query":false,"sort":null}`,
			want: model.DefaultUIState(),
		},
		{
			name: "fractional page",
			raw:  `{"page":2.5,"sort":"pop_asc"}`,
			want: model.UIState{Tab: model.TabMovies, Page: 1, Sort: model.SortPopAsc},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemoryStore()
			if tt.raw != "" {
				require.NoError(t, kv.Set(ctx, store.KeyUIState, []byte(tt.raw)))
			}
			assert.Equal(t, tt.want, Load(ctx, kv).State())
		})
	}
}

func TestSettersPersistWholeState(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	s := Load(ctx, kv)

	require.NoError(t, s.SetTab(ctx, model.TabFavorites))
	require.NoError(t, s.SetPage(ctx, 3))
	require.NoError(t, s.SetQuery(ctx, "  ripley "))
	require.NoError(t, s.SetSort(ctx, model.SortTitleAsc))

	want := model.UIState{Tab: model.TabFavorites, Page: 3, Query: "  ripley ", Sort: model.SortTitleAsc}
	assert.Equal(t, want, s.State())
	assert.Equal(t, want, Load(ctx, kv).State(), "reloaded state should match")
}

func TestSettersRejectInvalid(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	s := Load(ctx, kv)

	assert.Error(t, s.SetPage(ctx, 0))
	assert.Error(t, s.SetSort(ctx, "rating_desc"))
	assert.Error(t, s.SetTab(ctx, "settings"))
	assert.Equal(t, model.DefaultUIState(), s.State())

	_, err := kv.Get(ctx, store.KeyUIState)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResetFilters(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, store.NewMemoryStore())
	require.NoError(t, s.SetQuery(ctx, "alien"))
	require.NoError(t, s.SetSort(ctx, model.SortTitleAsc))
	require.NoError(t, s.SetPage(ctx, 5))

	require.NoError(t, s.ResetFilters(ctx))
	st := s.State()
	assert.Equal(t, "", st.Query)
	assert.Equal(t, model.SortPopDesc, st.Sort)
	assert.Equal(t, 5, st.Page)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, store.NewMemoryStore())

	var seen []model.UIState
	unsubscribe := s.Subscribe(func(st model.UIState) { seen = append(seen, st) })
	require.NoError(t, s.SetPage(ctx, 2))
	unsubscribe()
	require.NoError(t, s.SetPage(ctx, 3))

	require.Len(t, seen, 1)
	assert.Equal(t, 2, seen[0].Page)
}
