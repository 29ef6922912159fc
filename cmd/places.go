package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rubiojr/letterpress/pkg/dom"
	"github.com/rubiojr/letterpress/pkg/geo"
	"github.com/rubiojr/letterpress/pkg/panels"
	"github.com/rubiojr/letterpress/pkg/search"
	"github.com/urfave/cli/v3"
)

// PlacesCommand creates the places command
func PlacesCommand() *cli.Command {
	flags := append(filterFlags(),
		&cli.IntFlag{
			Name:  "width",
			Usage: "Map width in pixels",
			Value: 800,
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "Map height in pixels",
			Value: 600,
		},
		&cli.StringFlag{
			Name:  "click",
			Usage: "Pixel to click on the map as x,y, shows the place popup",
		},
		&cli.StringFlag{
			Name:  "marker-image",
			Usage: "Icon for single places",
			Value: "images/marker.png",
		},
		&cli.StringFlag{
			Name:  "plain-marker-image",
			Usage: "Icon for clusters of places",
			Value: "images/plain_marker.png",
		},
	)
	return &cli.Command{
		Name:  "places",
		Usage: "Show the places the matching letters were written from",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return showPlaces(ctx, c)
		},
	}
}

func showPlaces(ctx context.Context, c *cli.Command) error {
	a, err := loadApp(c.String("config"))
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.loadPage(ctx, a.cfg.Pages.Places, dom.MapRegion)
	if err != nil {
		return err
	}
	reader, err := applyCriteria(page, c)
	if err != nil {
		return err
	}

	nav := &navigator{}
	outcome, features, err := panels.NewMapSearch(a.client, page, reader, nav).Search(ctx)
	switch outcome {
	case search.Redirected:
		return a.redirectError(nav)
	case search.Failed:
		return fmt.Errorf("searching places: %w", err)
	}

	if len(features) == 0 {
		fmt.Println(noDataStyle.Render("No places found"))
		return nil
	}

	m, err := geo.NewMap(features, c.Int("width"), c.Int("height"))
	if err != nil {
		return err
	}
	styler := geo.NewStyler(c.String("marker-image"), c.String("plain-marker-image"))

	fmt.Println(titleStyle.Render(fmt.Sprintf("%d places, zoom %d", len(features), m.View.Zoom)))
	for _, cl := range m.Clusters {
		px, py := m.View.ToPixel(cl.Center)
		lon, lat := geo.Unproject(cl.Center)
		style := styler.StyleFor(cl.Size())

		names := make([]string, 0, cl.Size())
		for _, f := range cl.Features {
			names = append(names, title.String(f.Name))
		}
		label := strings.Join(names, ", ")
		if style.Text != "" {
			label = fmt.Sprintf("[%s] %s", style.Text, label)
		}
		fmt.Printf("%s  %s\n", label, metaStyle.Render(fmt.Sprintf("%.4f,%.4f at %.0f,%.0f px (%s)", lat, lon, px, py, style.Image)))
	}

	if click := c.String("click"); click != "" {
		x, y, err := parsePixel(click)
		if err != nil {
			return err
		}
		popup, ok := m.PopupAt(x, y)
		if !ok {
			fmt.Println(noDataStyle.Render("Nothing to show at that point"))
			return nil
		}
		fmt.Println(summaryStyle.Render(popup.Name))
	}
	return nil
}

func parsePixel(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid pixel %q, want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid pixel x %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid pixel y %q: %w", ys, err)
	}
	return x, y, nil
}
