package assistants

import (
	"math"

	"sketchcore/internal/config"
	"sketchcore/internal/geom"
	"sketchcore/internal/guideline"
	"sketchcore/internal/track"
)

// CircleGuideline snaps onto the circle of the given center and radius,
// both in tool space.
type CircleGuideline struct {
	guideline.Base
	Center geom.Point
	Radius float64
}

func (g CircleGuideline) TransformPoint(p track.Point) track.Point {
	d := p.Position.Sub(g.Center)
	n := d.Norm()
	if n < config.Default.Epsilon {
		p.Position = g.Center.Add(geom.Point{X: g.Radius})
		return p
	}
	p.Position = g.Center.Add(d.Scale(g.Radius / n))
	return p
}

func (g CircleGuideline) Draw(v guideline.Viewer, active bool) {
	// Approximate the circle outline as a polyline of segments so it can
	// be drawn with the same doubled-offset segment primitive as a line.
	const segments = 48
	prev := g.Center.Add(geom.Point{X: g.Radius})
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		cur := g.Center.Add(geom.Point{X: g.Radius * math.Cos(a), Y: g.Radius * math.Sin(a)})
		v.DrawSegment(prev, cur, active)
		prev = cur
	}
}

// Circle is a two-handle assistant: a center and a radius handle. The
// radius handle can be dragged anywhere; its distance from the center
// defines the guide's radius.
type Circle struct {
	common
}

const circleTypeName = "circle"

// NewCircle creates a circle assistant centered at the origin with a
// default radius of 100.
func NewCircle() *Circle {
	pts := []Point{
		{Type: PointCircleCross, Position: geom.Point{}, Radius: defaultPointRadius},
		{Type: PointCircle, Position: geom.Point{X: 100, Y: 0}, Radius: defaultPointRadius},
	}
	return &Circle{common: newCommon(circleTypeName, pts)}
}

func (c *Circle) LocalName() string { return "Circle" }

func (c *Circle) radius() float64 {
	if len(c.points) < 2 {
		return 0
	}
	return geom.Distance(c.points[0].Position, c.points[1].Position)
}

// MovePoint moves the center point (index 0) by translating both handles
// together, so the radius handle keeps its offset; the radius handle
// (index 1) moves freely, redefining the radius.
func (c *Circle) MovePoint(index int, position geom.Point) {
	if index != 0 || len(c.points) < 2 {
		c.common.MovePoint(index, position)
		return
	}
	delta := position.Sub(c.points[0].Position)
	c.points[0].Position = position
	c.points[1].Position = c.points[1].Position.Add(delta)
}

func (c *Circle) GetGuidelines(_ geom.Point, toTool geom.Affine) []guideline.Guideline {
	if !c.Enabled() || len(c.points) < 2 {
		return nil
	}
	center := toTool.Apply(c.points[0].Position)
	edge := toTool.Apply(c.points[1].Position)
	return []guideline.Guideline{CircleGuideline{Center: center, Radius: geom.Distance(center, edge)}}
}

func (c *Circle) Draw(v guideline.Viewer) {
	if len(c.points) < 2 {
		return
	}
	CircleGuideline{Center: c.points[0].Position, Radius: c.radius()}.Draw(v, false)
}

func (c *Circle) DrawEdit(v guideline.Viewer) {
	c.Draw(v)
	c.drawEditPoints(v)
}

func (c *Circle) ToVariant() Variant {
	v := c.baseVariant()
	v["type"] = circleTypeName
	return v
}

func (c *Circle) LoadVariant(v Variant) {
	c.loadBaseVariant(v, c.FixPoints)
}
