package panels

import (
	"context"
	"fmt"

	"github.com/rubiojr/letterpress/pkg/dom"
	"github.com/rubiojr/letterpress/pkg/search"
)

// SentimentAnalyzer highlights the sentiments found in a free text.
type SentimentAnalyzer struct {
	archive Archive
	view    View
	nav     search.Navigator
}

func NewSentimentAnalyzer(archive Archive, view View, nav search.Navigator) *SentimentAnalyzer {
	return &SentimentAnalyzer{archive: archive, view: view, nav: nav}
}

// Analyze renders the annotated text and returns its markup.
func (s *SentimentAnalyzer) Analyze(ctx context.Context, text string, sentiments []string) (search.Outcome, string, error) {
	res, err := s.archive.TextSentiment(ctx, text, sentiments)
	if err != nil {
		return search.Failed, "", err
	}
	if redirect(s.nav, res.RedirectURL) {
		return search.Redirected, "", nil
	}

	if err := s.view.SetHTML(dom.SentimentRegion, res.HTML); err != nil {
		return search.Failed, "", fmt.Errorf("rendering sentiment: %w", err)
	}
	return search.Rendered, res.HTML, nil
}
