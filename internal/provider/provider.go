// Package provider fetches one page of catalog records from the upstream
// movies API.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rcliao/movie-dashboard/internal/model"
	"github.com/rcliao/movie-dashboard/internal/resolve"
)

// PagePlaceholder is replaced with the page number in the URL template.
const PagePlaceholder = "{{page}}"

// TemplateEnv names the environment variable holding the URL template.
const TemplateEnv = "MOVIE_DASHBOARD_API_URL_TEMPLATE"

// ErrMissingTemplate is wrapped by the ConfigError returned when no URL
// template is configured.
var ErrMissingTemplate = errors.New("missing " + TemplateEnv)

// ConfigError reports a configuration problem that blocks every fetch until fixed.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// FetchError reports a non-success response or a transport failure.
// Status is 0 for transport failures.
type FetchError struct {
	Status      int
	Description string
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return "movies API failed: " + e.Description
	}
	return fmt.Sprintf("movies API failed (%d)", e.Status)
}

// PageProvider supplies one page of records. A cancelled ctx must never
// yield a usable Page.
type PageProvider interface {
	FetchPage(ctx context.Context, page int) (*model.Page, error)
}

// Option configures an HTTPProvider.
type Option func(*HTTPProvider)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *HTTPProvider) { p.client = c }
}

// WithLogger sets the provider's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *HTTPProvider) {
		p.log = l.With().Str("component", "provider").Logger()
	}
}

// HTTPProvider fetches pages from a URL built from a template.
type HTTPProvider struct {
	template string
	client   *http.Client
	log      zerolog.Logger
}

// NewHTTPProvider creates a provider for the given template. An empty
// template is accepted here and reported as a ConfigError on first fetch.
func NewHTTPProvider(template string, timeout time.Duration, opts ...Option) *HTTPProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	p := &HTTPProvider{
		template: strings.TrimSpace(template),
		client:   &http.Client{Timeout: timeout},
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// URL returns the request address for page.
func (p *HTTPProvider) URL(page int) (string, error) {
	if p.template == "" {
		return "", &ConfigError{Err: ErrMissingTemplate}
	}
	return strings.ReplaceAll(p.template, PagePlaceholder, strconv.Itoa(page)), nil
}

// FetchPage retrieves and decodes one page.
func (p *HTTPProvider) FetchPage(ctx context.Context, page int) (*model.Page, error) {
	url, err := p.URL(page)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Description: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &FetchError{Description: err.Error()}
	}
	defer resp.Body.Close()

	p.log.Debug().Int("page", page).Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).Msg("movies API response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Status: resp.StatusCode, Description: http.StatusText(resp.StatusCode)}
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &FetchError{Description: fmt.Sprintf("decode response: %v", err)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return ParsePage(body, page), nil
}

// ParsePage reads pagination metadata and records from a decoded response.
// The first present key wins: current_page, currentPage, page (default:
// requested); total_pages, totalPages, pages (default 1); data, results
// (default empty). Non-object entries in the record list are dropped.
func ParsePage(body map[string]any, requested int) *model.Page {
	current := firstNumber(body, requested, "current_page", "currentPage", "page")
	total := firstNumber(body, 1, "total_pages", "totalPages", "pages")

	var list []any
	for _, k := range []string{"data", "results"} {
		if l, ok := body[k].([]any); ok {
			list = l
			break
		}
	}

	out := &model.Page{
		CurrentPage: max(current, 1),
		TotalPages:  max(total, 1),
		Records:     make([]model.Record, 0, len(list)),
	}
	for _, entry := range list {
		if rec, ok := entry.(map[string]any); ok {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}

func firstNumber(body map[string]any, def int, keys ...string) int {
	for _, k := range keys {
		if f, ok := resolve.FiniteNumber(body[k]); ok {
			return int(math.Floor(max(min(f, math.MaxInt32), -math.MaxInt32)))
		}
	}
	return def
}
