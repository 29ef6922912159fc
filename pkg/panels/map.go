package panels

import (
	"context"
	"fmt"

	"github.com/rubiojr/letterpress/pkg/dom"
	"github.com/rubiojr/letterpress/pkg/geo"
	"github.com/rubiojr/letterpress/pkg/search"
)

// MapSearch shows the places mentioned by the letters matching the filters.
type MapSearch struct {
	archive  Archive
	view     View
	criteria search.CriteriaSource
	nav      search.Navigator
}

func NewMapSearch(archive Archive, view View, criteria search.CriteriaSource, nav search.Navigator) *MapSearch {
	return &MapSearch{archive: archive, view: view, criteria: criteria, nav: nav}
}

// Search renders the map fragment and returns the places it shows.
func (m *MapSearch) Search(ctx context.Context) (search.Outcome, []geo.Feature, error) {
	res, err := m.archive.SearchPlaces(ctx, m.criteria.Get())
	if err != nil {
		return search.Failed, nil, err
	}
	if redirect(m.nav, res.RedirectURL) {
		return search.Redirected, nil, nil
	}

	if err := m.view.SetHTML(dom.MapRegion, res.Map); err != nil {
		return search.Failed, nil, fmt.Errorf("rendering map: %w", err)
	}
	features := geo.ParseFeatures(res.Map)
	logger.Debugf("map shows %d places", len(features))
	return search.Rendered, features, nil
}
