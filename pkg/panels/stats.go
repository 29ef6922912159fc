package panels

import (
	"context"
	"fmt"

	"github.com/rubiojr/letterpress/pkg/client"
	"github.com/rubiojr/letterpress/pkg/dom"
	"github.com/rubiojr/letterpress/pkg/search"
)

// StatsPanel shows word frequency charts and statistics.
type StatsPanel struct {
	archive  Archive
	view     View
	criteria search.CriteriaSource
	nav      search.Navigator
}

func NewStatsPanel(archive Archive, view View, criteria search.CriteriaSource, nav search.Navigator) *StatsPanel {
	return &StatsPanel{archive: archive, view: view, criteria: criteria, nav: nav}
}

func (p *StatsPanel) Show(ctx context.Context) (search.Outcome, *client.StatsResult, error) {
	res, err := p.archive.Stats(ctx, p.criteria.Get())
	if err != nil {
		return search.Failed, nil, err
	}
	if redirect(p.nav, res.RedirectURL) {
		return search.Redirected, nil, nil
	}

	if err := p.view.SetHTML(dom.ChartRegion, res.Chart); err != nil {
		return search.Failed, nil, fmt.Errorf("rendering chart: %w", err)
	}
	if err := p.view.SetHTML(dom.StatsRegion, res.Stats); err != nil {
		return search.Failed, nil, fmt.Errorf("rendering stats: %w", err)
	}
	return search.Rendered, res, nil
}
