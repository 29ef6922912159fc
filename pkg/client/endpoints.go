package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rubiojr/letterpress/pkg/filter"
)

// Search posts the criteria to the letter search endpoint. Page 0 asks for
// a fresh search including pagination markup.
func (c *Client) Search(ctx context.Context, criteria filter.Criteria, pageNumber int) (*SearchResult, error) {
	var result SearchResult
	if err := c.ajax(ctx, http.MethodPost, c.endpoints.Search, criteria.SearchValues(pageNumber), &result); err != nil {
		return nil, fmt.Errorf("searching letters: %w", err)
	}
	return &result, nil
}

func (c *Client) SearchPlaces(ctx context.Context, criteria filter.Criteria) (*PlacesResult, error) {
	var result PlacesResult
	if err := c.ajax(ctx, http.MethodPost, c.endpoints.Places, criteria.PlacesValues(), &result); err != nil {
		return nil, fmt.Errorf("searching places: %w", err)
	}
	return &result, nil
}

func (c *Client) TextSentiment(ctx context.Context, text string, sentiments []string) (*SentimentResult, error) {
	values := url.Values{}
	values.Set("text", text)
	for _, s := range sentiments {
		values.Add("sentiments[]", s)
	}

	var result SentimentResult
	if err := c.ajax(ctx, http.MethodPost, c.endpoints.Sentiment, values, &result); err != nil {
		return nil, fmt.Errorf("analyzing text sentiment: %w", err)
	}
	return &result, nil
}

func (c *Client) Stats(ctx context.Context, criteria filter.Criteria) (*StatsResult, error) {
	var result StatsResult
	if err := c.ajax(ctx, http.MethodPost, c.endpoints.Stats, criteria.StatsValues(), &result); err != nil {
		return nil, fmt.Errorf("getting stats: %w", err)
	}
	return &result, nil
}

func (c *Client) WordCloud(ctx context.Context, criteria filter.Criteria) (*WordCloudResult, error) {
	var result WordCloudResult
	if err := c.ajax(ctx, http.MethodGet, c.endpoints.WordCloud, criteria.WordCloudValues(), &result); err != nil {
		return nil, fmt.Errorf("getting word cloud: %w", err)
	}
	return &result, nil
}

// Export posts the criteria as a regular form submission and copies the
// plain text export to w.
func (c *Client) Export(ctx context.Context, criteria filter.Criteria, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.endpoints.Export, nil),
		strings.NewReader(criteria.ExportValues().Encode()))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", formContentType)

	body, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("exporting letters: %w", err)
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("writing export: %w", err)
	}
	return n, nil
}
