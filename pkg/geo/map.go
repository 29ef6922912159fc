package geo

// Marker icon size in pixels, used to hit-test clicks.
const (
	iconWidth  = 32
	iconHeight = iconAnchorY
)

// Map is a laid out set of place markers.
type Map struct {
	View     View
	Clusters []Cluster
}

// NewMap fits a width x height view to features and clusters them at the
// view's resolution.
func NewMap(features []Feature, width, height int) (*Map, error) {
	view, err := Fit(features, width, height)
	if err != nil {
		return nil, err
	}
	return &Map{
		View:     view,
		Clusters: ClusterFeatures(features, view.Resolution(), ClusterDistance),
	}, nil
}

// Popup is the information bubble shown for a clicked place.
type Popup struct {
	Name     string
	Position Point
}

// PopupAt returns the popup for a click at the given view pixel. Only a
// marker standing for a single place opens a popup; a click on a cluster or
// on empty map gives none.
func (m *Map) PopupAt(px, py float64) (Popup, bool) {
	c, ok := m.clusterAt(px, py)
	if !ok || c.Size() != 1 {
		return Popup{}, false
	}
	f := c.Features[0]
	return Popup{Name: f.Name, Position: f.Point}, true
}

// clusterAt returns the topmost marker under the pixel. Markers drawn later
// are on top.
func (m *Map) clusterAt(px, py float64) (Cluster, bool) {
	for i := len(m.Clusters) - 1; i >= 0; i-- {
		c := m.Clusters[i]
		x, y := m.View.ToPixel(c.Center)
		left := x - iconWidth/2
		top := y - iconHeight
		if px >= left && px <= left+iconWidth && py >= top && py <= y {
			return c, true
		}
	}
	return Cluster{}, false
}
