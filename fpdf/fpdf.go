// Package fpdf plots replayed routes as PDFs: the trail each track has left, and where its
// marker currently sits.
package fpdf

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/jung-kurt/gofpdf"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/skypies/geo"
)

// https://godoc.org/github.com/jung-kurt/gofpdf

// {{{ var()

// The map box is from NW(10,10) to SE(230,200), on a landscape Letter page
var (
	MapBoxOffsetX = 10.0
	MapBoxOffsetY = 12.0
	MapBoxWidth   = 220.0
	MapBoxHeight  = 180.0

	LegendOffsetX = 245.0

	MarkerRadiusMM = 1.6
	TrailWidthMM   = 0.4
)

// }}}

type marker struct {
	pos     geo.Latlong
	heading *float64
}

// A TrailRenderer is a timeline renderer (markers and paths) that keeps the most recent
// state of every track, so it can be plotted with WritePDF.
type TrailRenderer struct {
	markers map[string]marker
	paths   map[string][]geo.Latlong
	colors  map[string][]int // rgb, assigned in order of first appearance
}

func NewTrailRenderer() *TrailRenderer {
	return &TrailRenderer{
		markers: map[string]marker{},
		paths:   map[string][]geo.Latlong{},
		colors:  map[string][]int{},
	}
}

// {{{ tr.colorFor

// colorFor hands out hues around the color wheel by the golden angle, so that neighbouring
// tracks always look different.
func (tr *TrailRenderer) colorFor(id string) []int {
	if rgb, exists := tr.colors[id]; exists {
		return rgb
	}
	hue := math.Mod(float64(len(tr.colors))*137.508, 360)
	r, g, b := colorful.Hcl(hue, 0.6, 0.55).Clamped().RGB255()
	rgb := []int{int(r), int(g), int(b)}
	tr.colors[id] = rgb
	return rgb
}

// }}}
// {{{ Renderer, PathRenderer

func (tr *TrailRenderer) UpdateMarker(id string, pos geo.Latlong, heading *float64) {
	tr.colorFor(id)
	tr.markers[id] = marker{pos, heading}
}
func (tr *TrailRenderer) RemoveMarker(id string) { delete(tr.markers, id) }
func (tr *TrailRenderer) RemoveAllMarkers()      { tr.markers = map[string]marker{} }

func (tr *TrailRenderer) AddPathPoint(id string, pos geo.Latlong) {
	tr.colorFor(id)
	if p := tr.paths[id]; len(p) > 0 && p[len(p)-1].Equal(pos) {
		return
	}
	tr.paths[id] = append(tr.paths[id], pos)
}
func (tr *TrailRenderer) SetPath(id string, path []geo.Latlong) {
	tr.colorFor(id)
	tr.paths[id] = append([]geo.Latlong{}, path...)
}
func (tr *TrailRenderer) ResetPath(id string) { delete(tr.paths, id) }
func (tr *TrailRenderer) ResetAllPaths()      { tr.paths = map[string][]geo.Latlong{} }

// }}}
// {{{ tr.Path, Marker, TrackIDs, Bounds

func (tr *TrailRenderer) Path(id string) []geo.Latlong { return tr.paths[id] }

func (tr *TrailRenderer) Marker(id string) (geo.Latlong, *float64, bool) {
	m, exists := tr.markers[id]
	return m.pos, m.heading, exists
}

// TrackIDs lists every track that has a marker or a path, sorted.
func (tr *TrailRenderer) TrackIDs() []string {
	seen := map[string]bool{}
	for id := range tr.markers {
		seen[id] = true
	}
	for id := range tr.paths {
		seen[id] = true
	}
	ids := []string{}
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Bounds encloses all markers and path points. The bool is false if there is nothing.
func (tr *TrailRenderer) Bounds() (geo.LatlongBox, bool) {
	pts := []geo.Latlong{}
	for _, m := range tr.markers {
		pts = append(pts, m.pos)
	}
	for _, p := range tr.paths {
		pts = append(pts, p...)
	}
	if len(pts) == 0 {
		return geo.LatlongBox{}, false
	}
	box := pts[0].BoxTo(pts[0])
	for _, pos := range pts[1:] {
		box.Enclose(pos)
	}
	return box, true
}

// }}}

// {{{ DrawTitle

func DrawTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(MapBoxOffsetX, MapBoxOffsetY-3, title)
}

// }}}
// {{{ tr.drawTrail, drawMarker, drawLegend

func (tr *TrailRenderer) drawTrail(bg BaseGrid, id string) {
	path := tr.paths[id]
	if len(path) < 2 {
		return
	}
	rgb := tr.colors[id]
	bg.SetDrawColor(rgb[0], rgb[1], rgb[2])
	bg.SetLineWidth(TrailWidthMM)
	for i := range path[1:] {
		bg.Line(path[i], path[i+1])
	}
}

// drawMarker is a filled dot, with a short tick pointing along the heading.
func (tr *TrailRenderer) drawMarker(bg BaseGrid, id string) {
	m, exists := tr.markers[id]
	if !exists {
		return
	}
	u, v, oob := bg.LatlongUV(m.pos)
	if oob {
		return
	}
	rgb := tr.colors[id]
	bg.SetFillColor(rgb[0], rgb[1], rgb[2])
	bg.SetDrawColor(0, 0, 0)
	bg.SetLineWidth(0.2)
	bg.Circle(u, v, MarkerRadiusMM, "FD")

	if m.heading != nil {
		rad := *m.heading * math.Pi / 180
		l := MarkerRadiusMM * 2.5
		bg.SetLineWidth(0.4)
		bg.Fpdf.MoveTo(u, v)
		bg.Fpdf.LineTo(u+l*math.Sin(rad), v-l*math.Cos(rad)) // page v grows downwards
		bg.DrawPath("D")
	}
}

func (tr *TrailRenderer) drawLegend(pdf *gofpdf.Fpdf, ids []string) {
	width, height := 8.0, 5.0
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, id := range ids {
		x, y := LegendOffsetX, MapBoxOffsetY+float64(i)*height
		rgb := tr.colors[id]
		pdf.SetFillColor(rgb[0], rgb[1], rgb[2])
		pdf.Rect(x, y, width, height-1, "F")

		text := id
		if m, exists := tr.markers[id]; exists {
			text = fmt.Sprintf("%s  (%.4f,%.4f)", id, m.pos.Lat, m.pos.Long)
		}
		pdf.MoveTo(x+width+2, y)
		pdf.Cell(30, height-1, text)
	}
}

// }}}

// {{{ tr.NewPdf

// NewPdf draws everything onto a fresh landscape page.
func (tr *TrailRenderer) NewPdf(title string) (*gofpdf.Fpdf, error) {
	box, ok := tr.Bounds()
	if !ok {
		return nil, fmt.Errorf("fpdf: nothing to plot")
	}

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.AddPage()
	DrawTitle(pdf, title)

	bg := NewMapGrid(pdf, box, MapBoxOffsetX, MapBoxOffsetY, MapBoxWidth, MapBoxHeight)
	bg.DrawGridlines()
	bg.DrawFrame()

	ids := tr.TrackIDs()
	for _, id := range ids {
		tr.drawTrail(bg, id)
	}
	for _, id := range ids {
		tr.drawMarker(bg, id)
	}
	tr.drawLegend(pdf, ids)

	return pdf, pdf.Error()
}

// }}}
// {{{ tr.WritePDF

func (tr *TrailRenderer) WritePDF(output io.Writer, title string) error {
	pdf, err := tr.NewPdf(title)
	if err != nil {
		return err
	}
	return pdf.Output(output)
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
