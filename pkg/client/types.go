package client

import "encoding/json"

// SearchResult is the letter search response. Pagination is only rendered
// for a fresh search (page 0); page navigation responses carry an empty
// string, which is treated the same as an absent field.
type SearchResult struct {
	Letters     string `json:"letters"`
	Pagination  string `json:"pagination,omitempty"`
	Pages       int    `json:"pages,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// HasPagination reports whether the result carries new pagination markup.
func (r *SearchResult) HasPagination() bool {
	return r.Pagination != ""
}

type PlacesResult struct {
	Map         string `json:"map"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// SentimentResult holds the annotated text. Older servers answer with
// "sentiment_highlights", newer ones with "sentiments".
type SentimentResult struct {
	HTML        string
	RedirectURL string
}

func (r *SentimentResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Sentiments  string `json:"sentiments"`
		Highlights  string `json:"sentiment_highlights"`
		RedirectURL string `json:"redirect_url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.HTML = raw.Sentiments
	if r.HTML == "" {
		r.HTML = raw.Highlights
	}
	r.RedirectURL = raw.RedirectURL
	return nil
}

type StatsResult struct {
	Chart       string `json:"chart"`
	Stats       string `json:"stats"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// WordCloudResult carries the base64 encoded image, empty when no words
// matched the filters.
type WordCloudResult struct {
	Image       string `json:"wc"`
	RedirectURL string `json:"redirect_url,omitempty"`
}
