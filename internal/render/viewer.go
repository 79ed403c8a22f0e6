// Package render adapts the guideline/assistant drawing contract onto
// fyne canvas primitives, the way the original board widget turned
// strokes into canvas.Line objects.
package render

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"sketchcore/internal/geom"
)

var (
	colorActiveFront   = color.NRGBA{R: 0, G: 0, B: 0, A: 160}
	colorActiveBack    = color.NRGBA{R: 255, G: 255, B: 255, A: 160}
	colorInactiveFront = color.NRGBA{R: 0, G: 0, B: 0, A: 80}
	colorInactiveBack  = color.NRGBA{R: 255, G: 255, B: 255, A: 80}
	colorPointFill     = color.NRGBA{R: 128, G: 128, B: 128, A: 128}
	colorSelected      = color.NRGBA{R: 32, G: 96, B: 255, A: 220}
)

// CanvasViewer implements guideline.Viewer by appending fyne canvas
// objects (lines, circles) to a container, one call at a time. Callers
// reset it (Clear) before each frame and call container.Refresh
// themselves once drawing is done, mirroring the board widget's
// setupCanvas/Refresh split.
type CanvasViewer struct {
	Container  *fyne.Container
	PixelScale float64 // tool-space units per screen pixel, e.g. 1/zoom
}

// NewCanvasViewer creates a viewer appending into a fresh container.
func NewCanvasViewer() *CanvasViewer {
	return &CanvasViewer{Container: container.NewWithoutLayout(), PixelScale: 1}
}

// Clear drops every drawn object, ready for the next frame.
func (v *CanvasViewer) Clear() {
	v.Container.Objects = nil
}

func (v *CanvasViewer) PixelSize() float64 {
	if v.PixelScale <= 0 {
		return 1
	}
	return v.PixelScale
}

func pos(p geom.Point) fyne.Position { return fyne.NewPos(float32(p.X), float32(p.Y)) }

// DrawSegment draws a guideline/assistant edge as a double stroke (a
// slightly offset black line over a white one), the same doubled-offset
// convention the original guideline renderer used to stay visible over
// both light and dark strokes.
func (v *CanvasViewer) DrawSegment(p0, p1 geom.Point, active bool) {
	d := p1.Sub(p0)
	n2 := d.Norm2()
	front, back := colorInactiveFront, colorInactiveBack
	if active {
		front, back = colorActiveFront, colorActiveBack
	}
	if n2 <= 1e-12 {
		v.addLine(p0, p1, front)
		return
	}
	k := 0.5 * v.PixelSize() / math.Sqrt(n2)
	offset := geom.Point{X: -k * d.Y, Y: k * d.X}
	v.addLine(p0.Sub(offset), p1.Sub(offset), back)
	v.addLine(p0.Add(offset), p1.Add(offset), front)
}

func (v *CanvasViewer) addLine(p0, p1 geom.Point, c color.Color) {
	line := canvas.NewLine(c)
	line.Position1 = pos(p0)
	line.Position2 = pos(p1)
	line.StrokeWidth = 1
	v.Container.Add(line)
}

func (v *CanvasViewer) DrawDisk(center geom.Point, radius float64, selected bool) {
	r := radius * v.PixelSize()
	circle := canvas.NewCircle(colorPointFill)
	circle.Move(fyne.NewPos(float32(center.X-r), float32(center.Y-r)))
	circle.Resize(fyne.NewSize(float32(2*r), float32(2*r)))
	v.Container.Add(circle)
}

func (v *CanvasViewer) DrawCircle(center geom.Point, radius float64, selected bool) {
	r := radius * v.PixelSize()
	c := colorActiveFront
	width := float32(0.5)
	if selected {
		c = colorSelected
		width = 2
	}
	circle := canvas.NewCircle(color.Transparent)
	circle.StrokeColor = c
	circle.StrokeWidth = width
	circle.Move(fyne.NewPos(float32(center.X-r), float32(center.Y-r)))
	circle.Resize(fyne.NewSize(float32(2*r), float32(2*r)))
	v.Container.Add(circle)
}

func (v *CanvasViewer) DrawCrosshair(center geom.Point, size float64, selected bool) {
	c := colorActiveFront
	if selected {
		c = colorSelected
	}
	half := size * v.PixelSize() / 2
	v.addLine(center.Sub(geom.Point{X: half}), center.Add(geom.Point{X: half}), c)
	v.addLine(center.Sub(geom.Point{Y: half}), center.Add(geom.Point{Y: half}), c)
}
