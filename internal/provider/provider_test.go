package provider

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	p := NewHTTPProvider("https://api.example.com/movies?page={{page}}&again={{page}}", 0)
	u, err := p.URL(7)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/movies?page=7&again=7", u)
}

func TestMissingTemplateIsConfigError(t *testing.T) {
	p := NewHTTPProvider("   ", time.Second)
	_, err := p.FetchPage(context.Background(), 1)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, ErrMissingTemplate)
	assert.Equal(t, "missing MOVIE_DASHBOARD_API_URL_TEMPLATE", err.Error())
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		requested   int
		wantCurrent int
		wantTotal   int
		wantRecords int
	}{
		{"snake case", `{"current_page":2,"total_pages":9,"data":[{"id":1},{"id":2}]}`, 2, 2, 9, 2},
		{"camel case", `{"currentPage":3,"totalPages":4,"results":[{"id":1}]}`, 1, 3, 4, 1},
		{"short keys", `{"page":5,"pages":6,"data":[]}`, 5, 5, 6, 0},
		{"priority order", `{"page":1,"current_page":8,"pages":2,"total_pages":10,"results":[{}],"data":[{},{}]}`, 1, 8, 10, 2},
		{"defaults", `{}`, 4, 4, 1, 0},
		{"wrong types fall through", `{"current_page":"2","currentPage":6,"total_pages":null,"totalPages":"x","pages":3,"data":{"a":1},"results":[{"id":9}]}`, 1, 6, 3, 1},
		{"non-object records dropped", `{"data":[{"id":1},2,"three",null,[4]]}`, 1, 1, 1, 1},
		{"zero total clamps to one", `{"total_pages":0,"current_page":0}`, 1, 1, 1, 0},
		{"huge total capped", `{"total_pages":1e19,"current_page":2}`, 2, 2, math.MaxInt32, 0},
		{"huge negative clamps to one", `{"total_pages":-1e19,"current_page":-1e19}`, 3, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			require.NoError(t, json.Unmarshal([]byte(tt.body), &body))
			page := ParsePage(body, tt.requested)
			assert.Equal(t, tt.wantCurrent, page.CurrentPage)
			assert.Equal(t, tt.wantTotal, page.TotalPages)
			assert.Len(t, page.Records, tt.wantRecords)
		})
	}
}

func TestFetchPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current_page":3,"total_pages":12,"data":[{"title":"Zodiac","rating":7.7}]}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL+"/movies?page={{page}}", time.Second)
	page, err := p.FetchPage(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Equal(t, 12, page.TotalPages)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "Zodiac", page.Records[0]["title"])
	assert.Equal(t, 7.7, page.Records[0]["rating"])
}

func TestFetchPageNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL+"?p={{page}}", time.Second).FetchPage(context.Background(), 1)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.Status)
	assert.Equal(t, "movies API failed (503)", err.Error())
}

func TestFetchPageMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2,3]`))
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL+"?p={{page}}", time.Second).FetchPage(context.Background(), 1)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "decode response")
}

func TestFetchPageTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPProvider(url+"?p={{page}}", time.Second).FetchPage(context.Background(), 1)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.Status)
}

func TestFetchPageCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		page, err := NewHTTPProvider(srv.URL+"?p={{page}}", 5*time.Second).FetchPage(ctx, 1)
		if page != nil {
			err = errors.New("cancelled fetch returned a page")
		}
		done <- err
	}()
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
}
