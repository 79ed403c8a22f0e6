package assistants

import (
	"sketchcore/internal/geom"
	"sketchcore/internal/guideline"
	"sketchcore/internal/track"
)

// LineGuideline snaps onto the infinite line through A and B (in tool
// space), both supplied at construction time by the owning assistant.
type LineGuideline struct {
	guideline.Base
	A, B geom.Point
}

func (g LineGuideline) TransformPoint(p track.Point) track.Point {
	d := g.B.Sub(g.A)
	n2 := d.Norm2()
	if n2 < 1e-12 {
		p.Position = g.A
		return p
	}
	t := p.Position.Sub(g.A).Dot(d) / n2
	p.Position = g.A.Add(d.Scale(t))
	return p
}

func (g LineGuideline) Draw(v guideline.Viewer, active bool) {
	v.DrawSegment(g.A, g.B, active)
}

// Straightedge is a two-handle straight-line assistant: its guideline is
// the infinite line through the two control points, independent of pivot.
type Straightedge struct {
	common
}

const straightedgeTypeName = "straightedge"

// NewStraightedge creates a straightedge with default handles spanning a
// horizontal segment centered at the origin.
func NewStraightedge() *Straightedge {
	pts := []Point{
		{Type: PointCircle, Position: geom.Point{X: -100, Y: 0}, Radius: defaultPointRadius},
		{Type: PointCircle, Position: geom.Point{X: 100, Y: 0}, Radius: defaultPointRadius},
	}
	return &Straightedge{common: newCommon(straightedgeTypeName, pts)}
}

func (s *Straightedge) LocalName() string { return "Straightedge" }

func (s *Straightedge) GetGuidelines(_ geom.Point, toTool geom.Affine) []guideline.Guideline {
	if !s.Enabled() || len(s.points) < 2 {
		return nil
	}
	a := toTool.Apply(s.points[0].Position)
	b := toTool.Apply(s.points[1].Position)
	return []guideline.Guideline{LineGuideline{A: a, B: b}}
}

func (s *Straightedge) Draw(v guideline.Viewer) {
	if len(s.points) < 2 {
		return
	}
	v.DrawSegment(s.points[0].Position, s.points[1].Position, false)
}

func (s *Straightedge) DrawEdit(v guideline.Viewer) {
	s.Draw(v)
	s.drawEditPoints(v)
}

func (s *Straightedge) ToVariant() Variant {
	v := s.baseVariant()
	v["type"] = straightedgeTypeName
	return v
}

func (s *Straightedge) LoadVariant(v Variant) {
	s.loadBaseVariant(v, s.FixPoints)
}
