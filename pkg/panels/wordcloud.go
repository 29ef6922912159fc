package panels

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rubiojr/letterpress/pkg/dom"
	"github.com/rubiojr/letterpress/pkg/search"
)

// NoWordsMessage is shown when no word matched the filters.
const NoWordsMessage = "No words found"

const imageDataPrefix = "data:image/jpg;base64,"

// WordCloud shows the word cloud image of the letters matching the filters.
type WordCloud struct {
	archive  Archive
	view     View
	criteria search.CriteriaSource
	nav      search.Navigator
}

func NewWordCloud(archive Archive, view View, criteria search.CriteriaSource, nav search.Navigator) *WordCloud {
	return &WordCloud{archive: archive, view: view, criteria: criteria, nav: nav}
}

// Show clears the previous cloud, fetches a new one and returns the decoded
// image. An empty answer shows NoWordsMessage and returns a nil image.
func (w *WordCloud) Show(ctx context.Context) (search.Outcome, []byte, error) {
	if err := w.view.SetText(dom.MessageRegion, ""); err != nil {
		return search.Failed, nil, fmt.Errorf("clearing message: %w", err)
	}
	if err := w.view.SetAttr(dom.WordCloudRegion, "src", ""); err != nil {
		return search.Failed, nil, fmt.Errorf("clearing word cloud: %w", err)
	}

	res, err := w.archive.WordCloud(ctx, w.criteria.Get())
	if err != nil {
		return search.Failed, nil, err
	}
	if redirect(w.nav, res.RedirectURL) {
		return search.Redirected, nil, nil
	}

	if res.Image == "" {
		if err := w.view.SetText(dom.MessageRegion, NoWordsMessage); err != nil {
			return search.Failed, nil, fmt.Errorf("rendering message: %w", err)
		}
		return search.Rendered, nil, nil
	}

	img, err := base64.StdEncoding.DecodeString(res.Image)
	if err != nil {
		return search.Failed, nil, fmt.Errorf("decoding word cloud image: %w", err)
	}
	if err := w.view.SetAttr(dom.WordCloudRegion, "src", imageDataPrefix+res.Image); err != nil {
		return search.Failed, nil, fmt.Errorf("rendering word cloud: %w", err)
	}
	return search.Rendered, img, nil
}
