// Package render turns an abstract layout tree into a live figure by
// running each leaf's content producer, and serializes figures to SVG.
// Producers that return serialized content instead of drawing are
// handled through marker placeholders spliced in after serialization.
package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PostProcess rewrites a serialized figure after the fact, typically to
// splice externally produced content into marker placeholders. Post
// processors accumulate across edits; see [Compose].
type PostProcess func(svg string) string

// Identity leaves the serialized figure untouched.
func Identity(svg string) string { return svg }

// Compose chains two post processors, applying outer after inner.
func Compose(outer, inner PostProcess) PostProcess {
	return func(svg string) string {
		return outer(inner(svg))
	}
}

var svgRootRe = regexp.MustCompile(`(?s)<svg[^>]*>`)
var viewBoxRe = regexp.MustCompile(`viewBox="[\d.eE+-]+[ ,]+[\d.eE+-]+[ ,]+([\d.eE+-]+)[ ,]+([\d.eE+-]+)"`)
var sizeRe = regexp.MustCompile(`width="([\d.eE+-]+)(?:px)?"\s+height="([\d.eE+-]+)(?:px)?"`)

// SpliceMarker returns a post processor replacing the marker rect with
// the given id by the serialized content, scaled to fit the marker's
// region while preserving the content's aspect ratio and centering it.
// If the marker is absent (its cell was detached) the figure passes
// through unchanged.
func SpliceMarker(id, content string) PostProcess {
	markerRe := regexp.MustCompile(
		`<rect id="marker-` + regexp.QuoteMeta(id) +
			`" x="([\d.eE+-]+)" y="([\d.eE+-]+)" width="([\d.eE+-]+)" height="([\d.eE+-]+)"[^>]*/>`)

	return func(svg string) string {
		m := markerRe.FindStringSubmatch(svg)
		if m == nil {
			return svg
		}
		x, _ := strconv.ParseFloat(m[1], 64)
		y, _ := strconv.ParseFloat(m[2], 64)
		w, _ := strconv.ParseFloat(m[3], 64)
		h, _ := strconv.ParseFloat(m[4], 64)

		return strings.Replace(svg, m[0], placeContent(content, x, y, w, h), 1)
	}
}

// placeContent wraps the content fragment in a transform group fitting
// it into the target box. Full SVG documents are unwrapped to their
// inner markup and scaled by their intrinsic size; bare fragments are
// placed at the box origin unscaled.
func placeContent(content string, x, y, w, h float64) string {
	inner, cw, ch, ok := unwrapSVG(content)
	if !ok {
		return fmt.Sprintf(`<g transform="translate(%.2f %.2f)">%s</g>`, x, y, content)
	}

	scale := w / cw
	if h/ch < scale {
		scale = h / ch
	}
	tx := x + (w-cw*scale)/2
	ty := y + (h-ch*scale)/2
	return fmt.Sprintf(`<g transform="translate(%.2f %.2f) scale(%.6f)">%s</g>`, tx, ty, scale, inner)
}

// unwrapSVG extracts the inner markup and intrinsic size of a full SVG
// document. ok is false when content is not a parseable SVG document.
func unwrapSVG(content string) (inner string, w, h float64, ok bool) {
	root := svgRootRe.FindStringIndex(content)
	if root == nil {
		return "", 0, 0, false
	}
	end := strings.LastIndex(content, "</svg>")
	if end < root[1] {
		return "", 0, 0, false
	}

	tag := content[root[0]:root[1]]
	w, h, ok = intrinsicSize(tag)
	if !ok {
		return "", 0, 0, false
	}
	return content[root[1]:end], w, h, true
}

func intrinsicSize(tag string) (w, h float64, ok bool) {
	if m := viewBoxRe.FindStringSubmatch(tag); m != nil {
		w, _ = strconv.ParseFloat(m[1], 64)
		h, _ = strconv.ParseFloat(m[2], 64)
	} else if m := sizeRe.FindStringSubmatch(tag); m != nil {
		w, _ = strconv.ParseFloat(m[1], 64)
		h, _ = strconv.ParseFloat(m[2], 64)
	}
	return w, h, w > 0 && h > 0
}
