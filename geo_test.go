package spotly

import (
	"math"
	"testing"
)

func locatedPost(id int, lat, lng float64) Post {
	return Post{ID: id, Latitude: ptr(lat), Longitude: ptr(lng)}
}

func TestPlaceMarkers_NoLocatedPosts(t *testing.T) {
	posts := []Post{{ID: 1}, {ID: 2, Latitude: ptr(1.0)}}
	markers, _, ok := PlaceMarkers(posts)
	if ok {
		t.Fatal("expected ok=false when no post carries a full coordinate pair")
	}
	if markers != nil {
		t.Errorf("expected no markers, got %d", len(markers))
	}
}

func TestPlaceMarkers_SkipsPostsWithoutCoordinates(t *testing.T) {
	posts := []Post{
		locatedPost(1, 40.0, -8.0),
		{ID: 2},
		locatedPost(3, 41.0, -8.5),
	}
	markers, viewport, ok := PlaceMarkers(posts)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(markers))
	}
	for _, m := range markers {
		if m.Post.ID == 2 {
			t.Error("post without coordinates produced a marker")
		}
	}
	if viewport.Bounds.MinLatitude != 40.0 || viewport.Bounds.MaxLatitude != 41.0 {
		t.Errorf("bounds latitude = [%v, %v], want [40, 41]",
			viewport.Bounds.MinLatitude, viewport.Bounds.MaxLatitude)
	}
}

func TestPlaceMarkers_UniqueCoordinatesUnchanged(t *testing.T) {
	posts := []Post{
		locatedPost(1, 40.0, -8.0),
		locatedPost(2, 41.0, -8.5),
	}
	markers, _, _ := PlaceMarkers(posts)
	for i, m := range markers {
		if m.Latitude != *posts[i].Latitude || m.Longitude != *posts[i].Longitude {
			t.Errorf("marker %d moved: got %v,%v", m.Post.ID, m.Latitude, m.Longitude)
		}
	}
}

func TestPlaceMarkers_DuplicatesArePairwiseDistinct(t *testing.T) {
	const lat, lng = 38.71667, -9.13333
	n := 5
	posts := make([]Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, locatedPost(i+1, lat, lng))
	}

	markers, _, _ := PlaceMarkers(posts)
	if len(markers) != n {
		t.Fatalf("expected %d markers, got %d", n, len(markers))
	}

	seen := make(map[[2]float64]int)
	for _, m := range markers {
		key := [2]float64{m.Latitude, m.Longitude}
		if prev, dup := seen[key]; dup {
			t.Errorf("markers %d and %d share position %v", prev, m.Post.ID, key)
		}
		seen[key] = m.Post.ID
	}
}

func TestPlaceMarkers_DuplicatesStayNearOriginal(t *testing.T) {
	const lat, lng = 38.71667, -9.13333
	n := 4
	posts := make([]Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, locatedPost(i+1, lat, lng))
	}

	markers, _, _ := PlaceMarkers(posts)
	maxDist := float64(n) * duplicateOffsetDeg
	for _, m := range markers {
		dist := math.Hypot(m.Latitude-lat, m.Longitude-lng)
		if dist > maxDist {
			t.Errorf("marker %d drifted %v degrees, limit %v", m.Post.ID, dist, maxDist)
		}
	}
}

func TestPlaceMarkers_FirstDuplicateKeepsOriginalPosition(t *testing.T) {
	const lat, lng = 10.0, 20.0
	posts := []Post{locatedPost(1, lat, lng), locatedPost(2, lat, lng)}
	markers, _, _ := PlaceMarkers(posts)
	if markers[0].Latitude != lat || markers[0].Longitude != lng {
		t.Errorf("first member of a group must stay at the shared point, got %v,%v",
			markers[0].Latitude, markers[0].Longitude)
	}
}

func TestPlaceMarkers_BoundsUseOriginalCoordinates(t *testing.T) {
	const lat, lng = 10.0, 20.0
	posts := []Post{
		locatedPost(1, lat, lng),
		locatedPost(2, lat, lng),
		locatedPost(3, lat, lng),
	}
	_, viewport, _ := PlaceMarkers(posts)
	if !viewport.Bounds.IsPoint() {
		t.Errorf("offsets leaked into bounds: %+v", viewport.Bounds)
	}
	if viewport.Bounds.MinLatitude != lat || viewport.Bounds.MinLongitude != lng {
		t.Errorf("bounds = %+v, want point %v,%v", viewport.Bounds, lat, lng)
	}
}

func TestPlaceMarkers_SinglePointViewport(t *testing.T) {
	_, viewport, ok := PlaceMarkers([]Post{locatedPost(1, 40.0, -8.0)})
	if !ok {
		t.Fatal("expected ok=true")
	}
	if !viewport.Bounds.IsPoint() {
		t.Error("single marker must yield point bounds")
	}
	if viewport.CenterLatitude != 40.0 || viewport.CenterLongitude != -8.0 {
		t.Errorf("center = %v,%v, want 40,-8", viewport.CenterLatitude, viewport.CenterLongitude)
	}
	if viewport.Zoom != defaultZoom {
		t.Errorf("zoom = %d, want %d", viewport.Zoom, defaultZoom)
	}
}

func TestPlaceMarkers_SpreadViewport(t *testing.T) {
	posts := []Post{
		locatedPost(1, 40.0, -8.0),
		locatedPost(2, 41.0, -9.0),
	}
	_, viewport, _ := PlaceMarkers(posts)
	if viewport.Bounds.IsPoint() {
		t.Fatal("distinct coordinates must not collapse to a point")
	}
	if viewport.MaxZoom != fitMaxZoom || viewport.PaddingPx != fitPaddingPx {
		t.Errorf("fit parameters = maxZoom %d padding %d, want %d and %d",
			viewport.MaxZoom, viewport.PaddingPx, fitMaxZoom, fitPaddingPx)
	}
}
