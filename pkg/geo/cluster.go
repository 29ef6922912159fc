package geo

import "math"

// Cluster groups features shown as a single marker.
type Cluster struct {
	Center   Point
	Features []Feature
}

func (c Cluster) Size() int {
	return len(c.Features)
}

// ClusterFeatures groups features lying within distance pixels of each
// other at the given resolution. Features are visited in order; each one
// not yet clustered collects every free feature inside the square of
// half-side distance*resolution around it. The cluster sits at the mean of
// its members.
func ClusterFeatures(features []Feature, resolution, distance float64) []Cluster {
	radius := distance * resolution
	clustered := make([]bool, len(features))

	var clusters []Cluster
	for i, f := range features {
		if clustered[i] {
			continue
		}

		var members []Feature
		for j := i; j < len(features); j++ {
			if clustered[j] {
				continue
			}
			g := features[j]
			if math.Abs(g.Point.X-f.Point.X) <= radius && math.Abs(g.Point.Y-f.Point.Y) <= radius {
				clustered[j] = true
				members = append(members, g)
			}
		}

		var sx, sy float64
		for _, m := range members {
			sx += m.Point.X
			sy += m.Point.Y
		}
		n := float64(len(members))
		clusters = append(clusters, Cluster{
			Center:   Point{X: sx / n, Y: sy / n},
			Features: members,
		})
	}
	return clusters
}
