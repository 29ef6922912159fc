package geo

import (
	"strconv"
	"sync"
)

// Style describes how a cluster marker is drawn.
type Style struct {
	Image string
	// AnchorX is a fraction of the icon width, AnchorY is in pixels from
	// the top: the marker tip sits on the point.
	AnchorX float64
	AnchorY float64
	// Text is the cluster size, empty for single places.
	Text        string
	TextOffsetY float64
	TextColor   string
}

const (
	iconAnchorY = 42
	textOffsetY = -25
	textColor   = "#fff"
)

// Styler hands out one Style per cluster size and reuses it.
type Styler struct {
	plainImage string

	mu    sync.Mutex
	cache map[int]*Style
}

// NewStyler uses markerImage for single places and plainImage, labelled
// with the size, for clusters.
func NewStyler(markerImage, plainImage string) *Styler {
	return &Styler{
		plainImage: plainImage,
		cache:      map[int]*Style{1: iconStyle(markerImage, "")},
	}
}

func (s *Styler) StyleFor(size int) *Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.cache[size]; ok {
		return st
	}
	st := iconStyle(s.plainImage, strconv.Itoa(size))
	s.cache[size] = st
	return st
}

func iconStyle(image, text string) *Style {
	st := &Style{Image: image, AnchorX: 0.5, AnchorY: iconAnchorY}
	if text != "" {
		st.Text = text
		st.TextOffsetY = textOffsetY
		st.TextColor = textColor
	}
	return st
}
