// Package panels holds the page widgets around the letter search: the place
// map, text sentiment, word statistics, the word cloud and the plain text
// export. Each one reads the filters, calls its endpoint and splices the
// answer into its region, following a redirect_url when the server sends
// one.
package panels

import (
	"context"
	"io"

	"github.com/rubiojr/letterpress/pkg/client"
	"github.com/rubiojr/letterpress/pkg/filter"
	"github.com/rubiojr/letterpress/pkg/log"
	"github.com/rubiojr/letterpress/pkg/search"
)

var logger = log.ForService("panels")

// View is the part of the page the panels write to. *dom.Page implements it.
type View interface {
	SetHTML(region, fragment string) error
	SetText(region, text string) error
	SetAttr(region, attr, value string) error
}

// Archive is the set of endpoints used by the panels. *client.Client
// implements it.
type Archive interface {
	SearchPlaces(ctx context.Context, criteria filter.Criteria) (*client.PlacesResult, error)
	TextSentiment(ctx context.Context, text string, sentiments []string) (*client.SentimentResult, error)
	Stats(ctx context.Context, criteria filter.Criteria) (*client.StatsResult, error)
	WordCloud(ctx context.Context, criteria filter.Criteria) (*client.WordCloudResult, error)
	Export(ctx context.Context, criteria filter.Criteria, w io.Writer) (int64, error)
}

// redirect follows a server redirect. It reports whether there was one.
func redirect(nav search.Navigator, url string) bool {
	if url == "" {
		return false
	}
	logger.Infof("server redirected to %s", url)
	if nav != nil {
		nav.Navigate(url)
	}
	return true
}

var _ Archive = (*client.Client)(nil)
