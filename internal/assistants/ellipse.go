package assistants

import (
	"math"

	"sketchcore/internal/config"
	"sketchcore/internal/geom"
	"sketchcore/internal/guideline"
	"sketchcore/internal/track"
)

// EllipseGuideline snaps onto the ellipse centered at Center, with
// semi-axes RX along the rotated X axis and RY along the rotated Y axis,
// Angle radians from the tool-space X axis.
type EllipseGuideline struct {
	guideline.Base
	Center geom.Point
	RX, RY float64
	Angle  float64
}

// nearestAngle finds the ellipse parameter t (in local, unrotated frame)
// closest to local point p, by a short Newton iteration on the distance
// gradient. Five iterations is enough for the snap tolerances in play here
// since the initial guess (atan2 on the axis-normalized point) is already
// close for any reasonably eccentric ellipse.
func (g EllipseGuideline) nearestAngle(local geom.Point) float64 {
	rx, ry := g.RX, g.RY
	t := math.Atan2(local.Y/ry, local.X/rx)
	for i := 0; i < 5; i++ {
		ct, st := math.Cos(t), math.Sin(t)
		ex, ey := rx*ct, ry*st
		dex, dey := -rx*st, ry*ct
		ddex, ddey := -rx*ct, -ry*st
		num := (ex-local.X)*dex + (ey-local.Y)*dey
		den := dex*dex + dey*dey + (ex-local.X)*ddex + (ey-local.Y)*ddey
		if math.Abs(den) < 1e-12 {
			break
		}
		t -= num / den
	}
	return t
}

func (g EllipseGuideline) toLocal(p geom.Point) geom.Point {
	d := p.Sub(g.Center)
	ct, st := math.Cos(-g.Angle), math.Sin(-g.Angle)
	return geom.Point{X: d.X*ct - d.Y*st, Y: d.X*st + d.Y*ct}
}

func (g EllipseGuideline) fromLocal(p geom.Point) geom.Point {
	ct, st := math.Cos(g.Angle), math.Sin(g.Angle)
	rot := geom.Point{X: p.X*ct - p.Y*st, Y: p.X*st + p.Y*ct}
	return g.Center.Add(rot)
}

func (g EllipseGuideline) TransformPoint(p track.Point) track.Point {
	if g.RX < config.Default.Epsilon || g.RY < config.Default.Epsilon {
		return p
	}
	local := g.toLocal(p.Position)
	t := g.nearestAngle(local)
	p.Position = g.fromLocal(geom.Point{X: g.RX * math.Cos(t), Y: g.RY * math.Sin(t)})
	return p
}

func (g EllipseGuideline) Draw(v guideline.Viewer, active bool) {
	const segments = 48
	prev := g.fromLocal(geom.Point{X: g.RX, Y: 0})
	for i := 1; i <= segments; i++ {
		t := 2 * math.Pi * float64(i) / segments
		cur := g.fromLocal(geom.Point{X: g.RX * math.Cos(t), Y: g.RY * math.Sin(t)})
		v.DrawSegment(prev, cur, active)
		prev = cur
	}
}

// Ellipse is a three-handle assistant: a center, a major-axis handle (sets
// RX and the rotation angle) and a minor-axis handle, which is reprojected
// onto the line perpendicular to the major axis on every move, so dragging
// it only ever changes RY.
type Ellipse struct {
	common
}

const ellipseTypeName = "ellipse"

// NewEllipse creates an ellipse centered at the origin with RX=120, RY=70.
func NewEllipse() *Ellipse {
	pts := []Point{
		{Type: PointCircleCross, Position: geom.Point{}, Radius: defaultPointRadius},
		{Type: PointCircle, Position: geom.Point{X: 120, Y: 0}, Radius: defaultPointRadius},
		{Type: PointCircle, Position: geom.Point{X: 0, Y: 70}, Radius: defaultPointRadius},
	}
	return &Ellipse{common: newCommon(ellipseTypeName, pts)}
}

func (e *Ellipse) LocalName() string { return "Ellipse" }

func (e *Ellipse) axisAngle() float64 {
	if len(e.points) < 2 {
		return 0
	}
	d := e.points[1].Position.Sub(e.points[0].Position)
	return math.Atan2(d.Y, d.X)
}

func (e *Ellipse) rx() float64 {
	if len(e.points) < 2 {
		return 0
	}
	return geom.Distance(e.points[0].Position, e.points[1].Position)
}

func (e *Ellipse) ry() float64 {
	if len(e.points) < 3 {
		return 0
	}
	return geom.Distance(e.points[0].Position, e.points[2].Position)
}

// MovePoint translates the other handles along with the center (index 0),
// lets the major-axis handle (index 1) move freely, and reprojects the
// minor-axis handle (index 2) onto the line perpendicular to the major
// axis so only its distance from the center (RY) changes.
func (e *Ellipse) MovePoint(index int, position geom.Point) {
	if len(e.points) < 3 {
		e.common.MovePoint(index, position)
		return
	}
	switch index {
	case 0:
		delta := position.Sub(e.points[0].Position)
		for i := range e.points {
			e.points[i].Position = e.points[i].Position.Add(delta)
		}
		e.points[0].Position = position
	case 1:
		e.points[1].Position = position
		e.FixPoints()
	case 2:
		center := e.points[0].Position
		angle := e.axisAngle()
		perp := geom.Point{X: -math.Sin(angle), Y: math.Cos(angle)}
		d := position.Sub(center)
		signedLen := d.Dot(perp)
		e.points[2].Position = center.Add(perp.Scale(signedLen))
	default:
		e.common.MovePoint(index, position)
	}
}

// FixPoints re-projects the minor-axis handle onto the perpendicular line
// through the center and major-axis handle, preserving its current
// distance (RY) but correcting for drift after an axis-handle move.
func (e *Ellipse) FixPoints() {
	if len(e.points) < 3 {
		return
	}
	center := e.points[0].Position
	angle := e.axisAngle()
	perp := geom.Point{X: -math.Sin(angle), Y: math.Cos(angle)}
	ry := e.ry()
	if e.points[2].Position.Sub(center).Dot(perp) < 0 {
		ry = -ry
	}
	e.points[2].Position = center.Add(perp.Scale(ry))
}

func (e *Ellipse) GetGuidelines(_ geom.Point, toTool geom.Affine) []guideline.Guideline {
	if !e.Enabled() || len(e.points) < 3 {
		return nil
	}
	center := toTool.Apply(e.points[0].Position)
	rx := e.rx()
	ry := e.ry()
	if rx < config.Default.Epsilon || ry < config.Default.Epsilon {
		return nil
	}
	return []guideline.Guideline{EllipseGuideline{Center: center, RX: rx, RY: math.Abs(ry), Angle: e.axisAngle()}}
}

func (e *Ellipse) Draw(v guideline.Viewer) {
	if len(e.points) < 3 {
		return
	}
	g := EllipseGuideline{Center: e.points[0].Position, RX: e.rx(), RY: math.Abs(e.ry()), Angle: e.axisAngle()}
	g.Draw(v, false)
}

func (e *Ellipse) DrawEdit(v guideline.Viewer) {
	e.Draw(v)
	e.drawEditPoints(v)
}

func (e *Ellipse) ToVariant() Variant {
	v := e.baseVariant()
	v["type"] = ellipseTypeName
	return v
}

func (e *Ellipse) LoadVariant(v Variant) {
	e.loadBaseVariant(v, e.FixPoints)
}
