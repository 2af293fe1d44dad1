package render

import (
	"strings"
	"testing"
)

const markerSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.0 600.0" width="800" height="600">
  <rect id="marker-m1" x="0.00" y="0.00" width="400.00" height="300.00" fill="none" stroke="none"/>
</svg>`

func TestSpliceMarker_ScalesAndCenters(t *testing.T) {
	// A square document in a 400x300 box scales to 300x300 and centers
	// horizontally with a 50px offset.
	post := SpliceMarker("m1", `<svg viewBox="0 0 100 100"><g id="inner"/></svg>`)

	got := post(markerSVG)
	if strings.Contains(got, "marker-m1") {
		t.Error("marker rect still present")
	}
	if !strings.Contains(got, `<g transform="translate(50.00 0.00) scale(3.000000)"><g id="inner"/></g>`) {
		t.Errorf("transform wrong, got:\n%s", got)
	}
}

func TestSpliceMarker_BareFragmentPlacedAtOrigin(t *testing.T) {
	post := SpliceMarker("m1", `<circle r="5"/>`)

	got := post(markerSVG)
	if !strings.Contains(got, `<g transform="translate(0.00 0.00)"><circle r="5"/></g>`) {
		t.Errorf("fragment placement wrong, got:\n%s", got)
	}
}

func TestSpliceMarker_MissingMarkerPassesThrough(t *testing.T) {
	post := SpliceMarker("other", `<circle r="5"/>`)
	if got := post(markerSVG); got != markerSVG {
		t.Error("figure should pass through unchanged when the marker is absent")
	}
}

func TestSpliceMarker_IntrinsicSizeFromWidthHeight(t *testing.T) {
	post := SpliceMarker("m1", `<svg width="200px" height="300px"><g id="inner"/></svg>`)

	got := post(markerSVG)
	// Scale limited by height: 300/300 = 1, centered at (100, 0).
	if !strings.Contains(got, `<g transform="translate(100.00 0.00) scale(1.000000)"><g id="inner"/></g>`) {
		t.Errorf("transform wrong, got:\n%s", got)
	}
}

func TestCompose_OuterRunsAfterInner(t *testing.T) {
	inner := func(s string) string { return s + "i" }
	outer := func(s string) string { return s + "o" }
	if got := Compose(outer, inner)("x"); got != "xio" {
		t.Errorf("Compose = %q, want xio", got)
	}
}

func TestIdentity_ReturnsInput(t *testing.T) {
	if got := Identity("abc"); got != "abc" {
		t.Errorf("Identity = %q", got)
	}
}
