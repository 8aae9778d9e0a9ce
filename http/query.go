package http

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fwojciec/wenyan"
)

// Endpoint paths.
const (
	flashPath          = "/api/query/flash"
	thinkingPath       = "/api/query/thinking"
	freqInfoPath       = "/api/query/freq-info"
	searchOriginalPath = "/api/search-original"
	extractPath        = "/api/extract-model-test"
	loginPath          = "/api/auth/login"
	registerPath       = "/api/auth/register"
	userPath           = "/api/user"
	balanceDetailsPath = "/api/balance-details"
	adoptAnswerPath    = "/api/adopt-answer"
)

// Flash streams the quick answer for q.
func (c *Client) Flash(ctx context.Context, id string, q wenyan.Query, h wenyan.Handler) error {
	query := url.Values{"q": {q.Word}, "context": {q.Context}}
	_, err := c.doStream(ctx, "flash", id, http.MethodGet, flashPath, query, nil, h, nil)
	return err
}

// Thinking streams the deep-thought answer for q.
func (c *Client) Thinking(ctx context.Context, id string, q wenyan.Query, h wenyan.Handler) error {
	query := url.Values{
		"q":       {q.Word},
		"context": {q.Context},
		"deep":    {strconv.FormatBool(q.Deep)},
	}
	_, err := c.doStream(ctx, "thinking", id, http.MethodGet, thinkingPath, query, nil, h, nil)
	return err
}

// FrequencyInfo streams one page of corpus frequency info for word. A word
// the corpus has never seen yields the empty frequency info.
func (c *Client) FrequencyInfo(ctx context.Context, id string, word string, page int, h wenyan.Handler) error {
	query := url.Values{"q": {word}, "page": {strconv.Itoa(page)}}
	notFound := wenyan.EventFrequency{Info: wenyan.EmptyFrequencyInfo(word)}
	_, err := c.doStream(ctx, "freq-info", id, http.MethodGet, freqInfoPath, query, nil, h,
		map[int]wenyan.Event{http.StatusNotFound: notFound})
	return err
}

// SearchOriginal streams the original text that excerpt was taken from.
func (c *Client) SearchOriginal(ctx context.Context, id string, excerpt string, target wenyan.SearchTarget, h wenyan.Handler) error {
	query := url.Values{"excerpt": {excerpt}, "target": {string(target)}}
	_, err := c.doStream(ctx, "search-original", id, http.MethodGet, searchOriginalPath, query, nil, h, nil)
	return err
}

// ExtractModelTest streams the model-test extraction for prompt.
func (c *Client) ExtractModelTest(ctx context.Context, id string, prompt string, h wenyan.Handler) error {
	body := extractRequest{Prompt: prompt}
	_, err := c.doStream(ctx, "extract", id, http.MethodPost, extractPath, nil, body, h, nil)
	return err
}
