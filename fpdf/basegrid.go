package fpdf

import (
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"
	"github.com/skypies/geo"
)

// Describes a grid we're going to plot over, and the location of its top-left corner in PDF space
type BaseGrid struct {
	*gofpdf.Fpdf // Embed the thing we're writing to

	// Describe the portion of PDF page space the grid will be drawn over (labels go outside of this)
	OffsetU float64 // where the origin (top-left) should be, in PDF coords
	OffsetV float64
	W, H    float64 // width and height of the grid, in PDF units (should be mm)

	// Control how (x,y) vals are mapped into (u,v) vals
	MinX, MinY, MaxX, MaxY float64 // the range of values that should be scaled onto the grid.
	Clip                   bool    // whether to skip lines that leave the grid

	// How to draw gridlines
	NoGridlines                    bool
	XGridlineEvery, YGridlineEvery float64 // From Min[XY] to Max[XY]
	XTickFmt, YTickFmt             string  // Will be passed a float64 via fmt.Sprintf; blank==none

	LineColor []int // rgb, each [0,255] - axis labels
}

// NewMapGrid lays a grid of longitude (x) by latitude (y) over the PDF area, covering the box
// plus a margin. The box is widened or heightened as needed so that the grid isn't distorted,
// using an equirectangular projection around the box's middle latitude.
func NewMapGrid(pdf *gofpdf.Fpdf, box geo.LatlongBox, u, v, w, h float64) BaseGrid {
	sw, ne := box.SW, box.NE
	midLat := (sw.Lat + ne.Lat) / 2
	xScale := math.Cos(midLat * math.Pi / 180) // mm per degree of lng, relative to lat
	if xScale < 0.01 {
		xScale = 0.01
	}

	spanX := math.Max((ne.Long-sw.Long)*xScale, 1e-4)
	spanY := math.Max(ne.Lat-sw.Lat, 1e-4)
	spanX, spanY = spanX*1.1, spanY*1.1 // margin

	// Grow whichever span is too small for the page's aspect ratio
	if spanX/spanY > w/h {
		spanY = spanX * h / w
	} else {
		spanX = spanY * w / h
	}

	midLng := (sw.Long + ne.Long) / 2
	bg := BaseGrid{
		Fpdf:    pdf,
		OffsetU: u,
		OffsetV: v,
		W:       w,
		H:       h,
		MinX:    midLng - spanX/xScale/2,
		MaxX:    midLng + spanX/xScale/2,
		MinY:    midLat - spanY/2,
		MaxY:    midLat + spanY/2,
		Clip:    true,
	}
	bg.XGridlineEvery = gridStep(bg.MaxX - bg.MinX)
	bg.YGridlineEvery = gridStep(bg.MaxY - bg.MinY)
	bg.XTickFmt, bg.YTickFmt = tickFmt(bg.XGridlineEvery), tickFmt(bg.YGridlineEvery)
	return bg
}

// gridStep picks a round step size that gives between roughly four and ten gridlines.
func gridStep(span float64) float64 {
	step := math.Pow(10, math.Floor(math.Log10(span)))
	for span/step < 4 {
		step /= 2
	}
	return step
}

func tickFmt(step float64) string {
	decimals := int(math.Max(0, math.Ceil(-math.Log10(step))))
	return fmt.Sprintf("%%.%df", decimals)
}

// {{{ bg.U, V, UV

// the bools are whether the coords are out-of-bounds for the grid.
func (bg BaseGrid) U(x float64) (float64, bool) {
	xRatio := (x - bg.MinX) / (bg.MaxX - bg.MinX)
	return bg.OffsetU + (xRatio * bg.W), xRatio < 0 || xRatio > 1
}

func (bg BaseGrid) V(y float64) (float64, bool) {
	yRatio := (y - bg.MinY) / (bg.MaxY - bg.MinY)
	return bg.OffsetV + (bg.H - (yRatio * bg.H)), yRatio < 0 || yRatio > 1
}

func (bg BaseGrid) UV(x, y float64) (float64, float64, bool) {
	u, oobU := bg.U(x)
	v, oobV := bg.V(y)
	return u, v, (oobU || oobV)
}

// LatlongUV maps a position onto the page.
func (bg BaseGrid) LatlongUV(pos geo.Latlong) (float64, float64, bool) {
	return bg.UV(pos.Long, pos.Lat)
}

// }}}
// {{{ bg.MoveTo, LineTo, Line

// We submit coords in gridspace (e.g. x,y), and the grid transforms them into PDFspace.
func (bg BaseGrid) MoveTo(x, y float64) bool {
	u, v, oob := bg.UV(x, y)
	bg.Fpdf.MoveTo(u, v)
	return oob
}

func (bg BaseGrid) LineTo(x, y float64) bool {
	u, v, oob := bg.UV(x, y)
	bg.Fpdf.LineTo(u, v)
	return oob
}

// Only draw the line if both points are inside bounds (when clipping)
func (bg BaseGrid) Line(from, to geo.Latlong) {
	u1, v1, oob1 := bg.LatlongUV(from)
	u2, v2, oob2 := bg.LatlongUV(to)

	if !bg.Clip || (!oob1 && !oob2) {
		bg.Fpdf.MoveTo(u1, v1)
		bg.Fpdf.LineTo(u2, v2)
		bg.DrawPath("D")
	}
}

// }}}
// {{{ bg.DrawFrame, DrawGridlines

func (bg BaseGrid) DrawFrame() {
	bg.SetDrawColor(0x00, 0x00, 0x00)
	bg.SetLineWidth(0.5)
	bg.Rect(bg.OffsetU, bg.OffsetV, bg.W, bg.H, "D")
}

func (bg BaseGrid) maybeSetTextColor() {
	if len(bg.LineColor) == 3 {
		bg.SetTextColor(bg.LineColor[0], bg.LineColor[1], bg.LineColor[2])
	} else {
		bg.SetTextColor(0, 0, 0)
	}
}

func (bg BaseGrid) DrawGridlines() {
	bg.SetFont("Arial", "", 7)
	bg.SetLineWidth(0.03)
	bg.SetDrawColor(0xe0, 0xe0, 0xe0)
	bg.maybeSetTextColor()

	for x := math.Ceil(bg.MinX/bg.XGridlineEvery) * bg.XGridlineEvery; x <= bg.MaxX; x += bg.XGridlineEvery {
		if !bg.NoGridlines {
			bg.MoveTo(x, bg.MinY)
			bg.LineTo(x, bg.MaxY)
		}
		if bg.XTickFmt != "" {
			u, _ := bg.U(x)
			bg.Text(u-4, bg.OffsetV+bg.H+4, fmt.Sprintf(bg.XTickFmt, x))
		}
	}

	for y := math.Ceil(bg.MinY/bg.YGridlineEvery) * bg.YGridlineEvery; y <= bg.MaxY; y += bg.YGridlineEvery {
		if !bg.NoGridlines {
			bg.MoveTo(bg.MinX, y)
			bg.LineTo(bg.MaxX, y)
		}
		if bg.YTickFmt != "" {
			v, _ := bg.V(y)
			bg.Text(bg.OffsetU+bg.W+1, v+1, fmt.Sprintf(bg.YTickFmt, y))
		}
	}
	bg.DrawPath("D")
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
