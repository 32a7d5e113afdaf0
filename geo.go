package spotly

import "math"

const (
	// duplicateOffsetDeg is the radial step between co-located markers,
	// about 11 meters per increment.
	duplicateOffsetDeg = 0.0001

	// defaultZoom frames a single marker at a useful scale.
	defaultZoom = 13

	// fitMaxZoom caps how far a bounds fit may zoom in.
	fitMaxZoom = 15

	// fitPaddingPx is the margin requested around a bounds fit.
	fitPaddingPx = 50
)

// Marker pairs a post with a display-safe coordinate. When several
// posts share the exact same location, their display coordinates are
// spread into a small ring so every marker stays individually
// clickable.
type Marker struct {
	Post      Post
	Latitude  float64
	Longitude float64
}

// Bounds is the geographic box covering the markers' original
// (pre-offset) coordinates.
type Bounds struct {
	MinLatitude  float64
	MinLongitude float64
	MaxLatitude  float64
	MaxLongitude float64
}

// IsPoint reports whether the box has collapsed to a single coordinate.
func (b Bounds) IsPoint() bool {
	return b.MinLatitude == b.MaxLatitude && b.MinLongitude == b.MaxLongitude
}

// Viewport tells a map widget how to frame the marker set: fit Bounds
// with PaddingPx up to MaxZoom, or fall back to Center at Zoom when
// the bounds collapse to a point.
type Viewport struct {
	Bounds          Bounds
	CenterLatitude  float64
	CenterLongitude float64
	Zoom            int
	MaxZoom         int
	PaddingPx       int
}

type coordKey struct {
	lat, lng float64
}

// PlaceMarkers computes display positions and a viewport for every
// post that carries a coordinate pair. Posts without coordinates are
// omitted and do not influence the viewport. ok is false when no post
// has a location, in which case there is nothing to frame.
//
// Exact duplicates are split into a ring: the i-th member (in input
// order) of a group of n sits at radius i*0.0001 degrees and angle
// i*360/n degrees from the shared point, so the n positions are
// pairwise distinct while staying within n*0.0001 degrees of the
// original. The bounds always cover the original coordinates, not the
// offset ones.
func PlaceMarkers(posts []Post) ([]Marker, Viewport, bool) {
	located := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.HasLocation() {
			located = append(located, p)
		}
	}
	if len(located) == 0 {
		return nil, Viewport{}, false
	}

	groupSize := make(map[coordKey]int, len(located))
	for _, p := range located {
		groupSize[coordKey{*p.Latitude, *p.Longitude}]++
	}

	bounds := Bounds{
		MinLatitude:  *located[0].Latitude,
		MaxLatitude:  *located[0].Latitude,
		MinLongitude: *located[0].Longitude,
		MaxLongitude: *located[0].Longitude,
	}

	markers := make([]Marker, 0, len(located))
	groupIndex := make(map[coordKey]int, len(groupSize))
	for _, p := range located {
		key := coordKey{*p.Latitude, *p.Longitude}
		lat, lng := key.lat, key.lng

		if n := groupSize[key]; n > 1 {
			i := groupIndex[key]
			groupIndex[key]++
			radius := float64(i) * duplicateOffsetDeg
			angle := float64(i) * 360 / float64(n) * math.Pi / 180
			lat += radius * math.Cos(angle)
			lng += radius * math.Sin(angle)
		}

		markers = append(markers, Marker{Post: p, Latitude: lat, Longitude: lng})

		bounds.MinLatitude = math.Min(bounds.MinLatitude, key.lat)
		bounds.MaxLatitude = math.Max(bounds.MaxLatitude, key.lat)
		bounds.MinLongitude = math.Min(bounds.MinLongitude, key.lng)
		bounds.MaxLongitude = math.Max(bounds.MaxLongitude, key.lng)
	}

	viewport := Viewport{
		Bounds:          bounds,
		CenterLatitude:  *located[0].Latitude,
		CenterLongitude: *located[0].Longitude,
		Zoom:            defaultZoom,
		MaxZoom:         fitMaxZoom,
		PaddingPx:       fitPaddingPx,
	}
	return markers, viewport, true
}
