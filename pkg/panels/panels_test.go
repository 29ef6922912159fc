package panels

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rubiojr/letterpress/pkg/client"
	"github.com/rubiojr/letterpress/pkg/dom"
	"github.com/rubiojr/letterpress/pkg/filter"
	"github.com/rubiojr/letterpress/pkg/search"
)

const panelsPage = `<html><body>
<div id="mapdiv"></div>
<div id="sentiment-results"></div>
<div id="chart"></div><div id="stats"></div>
<p id="message">old message</p>
<img id="wordcloud" src="data:image/jpg;base64,b2xk">
</body></html>`

type fakeArchive struct {
	places    *client.PlacesResult
	sentiment *client.SentimentResult
	stats     *client.StatsResult
	wordcloud *client.WordCloudResult
	export    string
	err       error

	criteria   filter.Criteria
	text       string
	sentiments []string
}

func (f *fakeArchive) SearchPlaces(_ context.Context, c filter.Criteria) (*client.PlacesResult, error) {
	f.criteria = c
	return f.places, f.err
}

func (f *fakeArchive) TextSentiment(_ context.Context, text string, sentiments []string) (*client.SentimentResult, error) {
	f.text, f.sentiments = text, sentiments
	return f.sentiment, f.err
}

func (f *fakeArchive) Stats(_ context.Context, c filter.Criteria) (*client.StatsResult, error) {
	f.criteria = c
	return f.stats, f.err
}

func (f *fakeArchive) WordCloud(_ context.Context, c filter.Criteria) (*client.WordCloudResult, error) {
	f.criteria = c
	return f.wordcloud, f.err
}

func (f *fakeArchive) Export(_ context.Context, c filter.Criteria, w io.Writer) (int64, error) {
	f.criteria = c
	if f.err != nil {
		return 0, f.err
	}
	n, err := io.WriteString(w, f.export)
	return int64(n), err
}

type staticCriteria filter.Criteria

func (s staticCriteria) Get() filter.Criteria { return filter.Criteria(s) }

func newPage(t *testing.T) *dom.Page {
	t.Helper()
	p, err := dom.ParseString(panelsPage)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func region(t *testing.T, p *dom.Page, id string) string {
	t.Helper()
	s, err := p.HTML(id)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func recordNav(urls *[]string) search.NavigatorFunc {
	return func(url string) { *urls = append(*urls, url) }
}

func TestMapSearch(t *testing.T) {
	page := newPage(t)
	fragment := `<script>features.push(create_feature(create_point(-77.4753, 38.7509), "Manassas"));</script>`
	archive := &fakeArchive{places: &client.PlacesResult{Map: fragment}}
	criteria := staticCriteria{SearchText: "battle"}

	outcome, features, err := NewMapSearch(archive, page, criteria, nil).Search(context.Background())
	if err != nil || outcome != search.Rendered {
		t.Fatalf("Search = %v, %v", outcome, err)
	}
	if got := region(t, page, dom.MapRegion); !strings.Contains(got, "create_feature") {
		t.Fatalf("map region = %q", got)
	}
	if len(features) != 1 || features[0].Name != "Manassas" {
		t.Fatalf("features = %+v", features)
	}
	if archive.criteria.SearchText != "battle" {
		t.Fatalf("criteria = %+v", archive.criteria)
	}
}

func TestRedirectConvention(t *testing.T) {
	redirect := "/accounts/login/?next=/letters/"
	archive := &fakeArchive{
		places:    &client.PlacesResult{Map: "<p>x</p>", RedirectURL: redirect},
		sentiment: &client.SentimentResult{HTML: "<p>x</p>", RedirectURL: redirect},
		stats:     &client.StatsResult{Chart: "<p>x</p>", RedirectURL: redirect},
		wordcloud: &client.WordCloudResult{Image: "eA==", RedirectURL: redirect},
	}
	ctx := context.Background()
	var navs []string
	nav := recordNav(&navs)
	page := newPage(t)
	criteria := staticCriteria{}

	outcomes := []search.Outcome{}
	o, _, _ := NewMapSearch(archive, page, criteria, nav).Search(ctx)
	outcomes = append(outcomes, o)
	o, _, _ = NewSentimentAnalyzer(archive, page, nav).Analyze(ctx, "text", nil)
	outcomes = append(outcomes, o)
	o, _, _ = NewStatsPanel(archive, page, criteria, nav).Show(ctx)
	outcomes = append(outcomes, o)
	o, _, _ = NewWordCloud(archive, page, criteria, nav).Show(ctx)
	outcomes = append(outcomes, o)

	for i, o := range outcomes {
		if o != search.Redirected {
			t.Errorf("panel %d outcome = %v", i, o)
		}
	}
	if len(navs) != 4 {
		t.Fatalf("navigations = %v", navs)
	}
	for _, id := range []string{dom.MapRegion, dom.SentimentRegion, dom.ChartRegion} {
		if got := region(t, page, id); got != "" {
			t.Errorf("region %s rendered on redirect: %q", id, got)
		}
	}
}

func TestSentimentAnalyzer(t *testing.T) {
	page := newPage(t)
	archive := &fakeArchive{sentiment: &client.SentimentResult{HTML: `<span class="joy">glad</span>`}}

	outcome, html, err := NewSentimentAnalyzer(archive, page, nil).Analyze(context.Background(), "I am glad", []string{"2"})
	if err != nil || outcome != search.Rendered {
		t.Fatalf("Analyze = %v, %v", outcome, err)
	}
	if html != `<span class="joy">glad</span>` || region(t, page, dom.SentimentRegion) != html {
		t.Fatalf("sentiment region = %q", region(t, page, dom.SentimentRegion))
	}
	if archive.text != "I am glad" || len(archive.sentiments) != 1 {
		t.Fatalf("request = %q %v", archive.text, archive.sentiments)
	}
}

func TestStatsPanel(t *testing.T) {
	page := newPage(t)
	archive := &fakeArchive{stats: &client.StatsResult{Chart: "<svg></svg>", Stats: "<table><tr><td>and</td><td>12</td></tr></table>"}}

	outcome, res, err := NewStatsPanel(archive, page, staticCriteria{ExtraWords: []string{"and"}}, nil).Show(context.Background())
	if err != nil || outcome != search.Rendered || res == nil {
		t.Fatalf("Show = %v, %v", outcome, err)
	}
	if region(t, page, dom.ChartRegion) != "<svg></svg>" {
		t.Errorf("chart = %q", region(t, page, dom.ChartRegion))
	}
	if !strings.Contains(region(t, page, dom.StatsRegion), "<td>12</td>") {
		t.Errorf("stats = %q", region(t, page, dom.StatsRegion))
	}
}

func TestWordCloudImage(t *testing.T) {
	page := newPage(t)
	img := []byte{0xff, 0xd8, 0xff, 0xe0}
	encoded := base64.StdEncoding.EncodeToString(img)
	archive := &fakeArchive{wordcloud: &client.WordCloudResult{Image: encoded}}

	outcome, got, err := NewWordCloud(archive, page, staticCriteria{}, nil).Show(context.Background())
	if err != nil || outcome != search.Rendered {
		t.Fatalf("Show = %v, %v", outcome, err)
	}
	if !bytes.Equal(got, img) {
		t.Fatalf("image = %x", got)
	}
	if src, _ := page.Attr(dom.WordCloudRegion, "src"); src != "data:image/jpg;base64,"+encoded {
		t.Fatalf("src = %q", src)
	}
	if region(t, page, dom.MessageRegion) != "" {
		t.Fatal("message not cleared")
	}
}

func TestWordCloudNoWords(t *testing.T) {
	page := newPage(t)
	archive := &fakeArchive{wordcloud: &client.WordCloudResult{}}

	outcome, img, err := NewWordCloud(archive, page, staticCriteria{}, nil).Show(context.Background())
	if err != nil || outcome != search.Rendered {
		t.Fatalf("Show = %v, %v", outcome, err)
	}
	if img != nil {
		t.Fatalf("image = %x, want nil", img)
	}
	if got := region(t, page, dom.MessageRegion); got != NoWordsMessage {
		t.Fatalf("message = %q", got)
	}
	if src, _ := page.Attr(dom.WordCloudRegion, "src"); src != "" {
		t.Fatalf("previous image left: %q", src)
	}
}

func TestWordCloudFailureClearsOldImage(t *testing.T) {
	page := newPage(t)
	boom := errors.New("timeout")
	archive := &fakeArchive{err: boom}

	outcome, _, err := NewWordCloud(archive, page, staticCriteria{}, nil).Show(context.Background())
	if !errors.Is(err, boom) || outcome != search.Failed {
		t.Fatalf("Show = %v, %v", outcome, err)
	}
	if src, _ := page.Attr(dom.WordCloudRegion, "src"); src != "" {
		t.Fatalf("src = %q", src)
	}
}

func TestExporter(t *testing.T) {
	archive := &fakeArchive{export: "Letter 1\n"}
	var buf bytes.Buffer

	n, err := NewExporter(archive, staticCriteria{Writers: []string{"4"}}).Export(context.Background(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 9 || buf.String() != "Letter 1\n" {
		t.Fatalf("export = %q (%d)", buf.String(), n)
	}
	if len(archive.criteria.Writers) != 1 {
		t.Fatalf("criteria = %+v", archive.criteria)
	}
}
