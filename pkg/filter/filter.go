// Package filter reads the letter filter controls of a page into a Criteria
// snapshot and encodes that snapshot for the archive's ajax endpoints.
package filter

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Control identifiers as rendered by the archive's filter form.
const (
	SearchTextID = "search_text"
	SourcesID    = "sources"
	WritersID    = "writers"
	SentimentsID = "sentiments"
	StartDateID  = "start_date"
	EndDateID    = "end_date"
	Word1ID      = "word1"
	Word2ID      = "word2"
	SortByID     = "sort_by"
)

// Criteria is the state of the filter controls at the moment a search was
// requested. Checkbox groups keep document order.
type Criteria struct {
	SearchText string   `toml:"search_text" json:"search_text"`
	Sources    []string `toml:"sources" json:"sources"`
	Writers    []string `toml:"writers" json:"writers"`
	Sentiments []string `toml:"sentiments" json:"sentiments"`
	StartDate  string   `toml:"start_date" json:"start_date"`
	EndDate    string   `toml:"end_date" json:"end_date"`
	ExtraWords []string `toml:"words" json:"words"`
	SortBy     string   `toml:"sort_by" json:"sort_by"`
}

// Controls gives read access to form controls by element id.
type Controls interface {
	// Value returns the current value of a text input, textarea or select.
	Value(id string) (string, bool)
	// Checked returns the values of the checked inputs inside the element
	// with the given id, in document order.
	Checked(group string) []string
	// Selected returns the value of the selected option of a select.
	Selected(id string) (string, bool)
}

// Reader builds Criteria from a set of controls.
type Reader struct {
	controls Controls
}

func NewReader(controls Controls) *Reader {
	return &Reader{controls: controls}
}

// Get snapshots the current control state. Missing controls produce empty
// values; dates and text are passed through untouched.
func (r *Reader) Get() Criteria {
	c := Criteria{
		SearchText: value(r.controls, SearchTextID),
		Sources:    nonNil(r.controls.Checked(SourcesID)),
		Writers:    nonNil(r.controls.Checked(WritersID)),
		Sentiments: nonNil(r.controls.Checked(SentimentsID)),
		StartDate:  value(r.controls, StartDateID),
		EndDate:    value(r.controls, EndDateID),
		ExtraWords: []string{},
	}

	for _, id := range []string{Word1ID, Word2ID} {
		if w := strings.TrimSpace(value(r.controls, id)); w != "" {
			c.ExtraWords = append(c.ExtraWords, w)
		}
	}

	if sort, ok := r.controls.Selected(SortByID); ok {
		c.SortBy = sort
	}

	return c
}

func value(c Controls, id string) string {
	v, _ := c.Value(id)
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// SearchValues encodes the criteria for the letter search endpoint.
func (c Criteria) SearchValues(pageNumber int) url.Values {
	v := url.Values{}
	v.Set("search_text", c.SearchText)
	addArray(v, "sources", c.Sources)
	addArray(v, "writers", c.Writers)
	v.Set("start_date", c.StartDate)
	v.Set("end_date", c.EndDate)
	addArray(v, "sentiments", c.Sentiments)
	v.Set("sort_by", c.SortBy)
	v.Set("page_number", strconv.Itoa(pageNumber))
	return v
}

// PlacesValues encodes the criteria for the place search. Place searches
// always start from the first page.
func (c Criteria) PlacesValues() url.Values {
	v := url.Values{}
	v.Set("search_text", c.SearchText)
	addArray(v, "sources", c.Sources)
	addArray(v, "writers", c.Writers)
	v.Set("start_date", c.StartDate)
	v.Set("end_date", c.EndDate)
	v.Set("page_number", "0")
	return v
}

// StatsValues encodes the criteria for the word statistics endpoint.
func (c Criteria) StatsValues() url.Values {
	v := url.Values{}
	addArray(v, "sources", c.Sources)
	addArray(v, "writers", c.Writers)
	v.Set("start_date", c.StartDate)
	v.Set("end_date", c.EndDate)
	addArray(v, "words", c.ExtraWords)
	return v
}

// WordCloudValues encodes the criteria as the word cloud query string.
func (c Criteria) WordCloudValues() url.Values {
	v := url.Values{}
	addArray(v, "sources", c.Sources)
	addArray(v, "writers", c.Writers)
	v.Set("start_date", c.StartDate)
	v.Set("end_date", c.EndDate)
	v.Set("search_text", c.SearchText)
	return v
}

// ExportValues encodes the criteria as a plain (non ajax) form post, which
// the server reads with singular keys.
func (c Criteria) ExportValues() url.Values {
	v := url.Values{}
	v.Set("search_text", c.SearchText)
	for _, s := range c.Sources {
		v.Add("source", s)
	}
	for _, w := range c.Writers {
		v.Add("writer", w)
	}
	v.Set("start_date", c.StartDate)
	v.Set("end_date", c.EndDate)
	v.Set("sort_by", c.SortBy)
	return v
}

// addArray follows jQuery's $.param: arrays get a "[]" suffix and empty
// arrays are left out.
func addArray(v url.Values, key string, values []string) {
	for _, s := range values {
		v.Add(key+"[]", s)
	}
}

// LoadFile reads criteria from a TOML filter file.
func LoadFile(path string) (Criteria, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Criteria{}, fmt.Errorf("reading filter file: %w", err)
	}
	var c Criteria
	if err := toml.Unmarshal(data, &c); err != nil {
		return Criteria{}, fmt.Errorf("unmarshaling filter file %s: %w", path, err)
	}
	if len(c.ExtraWords) > 2 {
		return Criteria{}, fmt.Errorf("filter file %s: at most 2 words allowed, got %d", path, len(c.ExtraWords))
	}
	return c, nil
}
