package search

import (
	"strconv"

	"github.com/rubiojr/letterpress/pkg/client"
	"github.com/rubiojr/letterpress/pkg/filter"
)

// Snapshot is the view state stored in a history entry.
type Snapshot struct {
	Result     client.SearchResult `json:"result"`
	Pagination string              `json:"pagination"`
	LastPage   int                 `json:"last_page"`
	Page       int                 `json:"page"`
	Criteria   filter.Criteria     `json:"criteria"`
}

// PageURL is the history URL of a rendered page.
func PageURL(pageNumber int) string {
	return "?page=" + strconv.Itoa(pageNumber)
}
