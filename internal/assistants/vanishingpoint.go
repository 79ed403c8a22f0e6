package assistants

import (
	"sketchcore/internal/geom"
	"sketchcore/internal/guideline"
)

const vanishingPointHandleRadius = 60.0

// VanishingPoint is a two-handle assistant: a vanishing point and an
// angle handle. The angle handle exists only to visualize orientation; it
// is reprojected onto a fixed-radius circle around the vanishing point on
// every move, so dragging it only ever changes angle, never distance.
type VanishingPoint struct {
	common
}

const vanishingPointTypeName = "vanishingPoint"

// NewVanishingPoint creates a vanishing point at the origin with its
// angle handle due east.
func NewVanishingPoint() *VanishingPoint {
	pts := []Point{
		{Type: PointCircleCross, Position: geom.Point{}, Radius: defaultPointRadius},
		{Type: PointCircle, Position: geom.Point{X: vanishingPointHandleRadius, Y: 0}, Radius: defaultPointRadius},
	}
	return &VanishingPoint{common: newCommon(vanishingPointTypeName, pts)}
}

func (vp *VanishingPoint) LocalName() string { return "Vanishing Point" }

// MovePoint moves the vanishing point (index 0) by translating the angle
// handle along with it; the angle handle (index 1) is reprojected onto
// the fixed-radius circle around the vanishing point.
func (vp *VanishingPoint) MovePoint(index int, position geom.Point) {
	if len(vp.points) < 2 {
		vp.common.MovePoint(index, position)
		return
	}
	switch index {
	case 0:
		delta := position.Sub(vp.points[0].Position)
		vp.points[0].Position = position
		vp.points[1].Position = vp.points[1].Position.Add(delta)
	case 1:
		center := vp.points[0].Position
		d := position.Sub(center)
		if n := d.Norm(); n > 1e-9 {
			vp.points[1].Position = center.Add(d.Scale(vanishingPointHandleRadius / n))
		}
	default:
		vp.common.MovePoint(index, position)
	}
}

// FixPoints re-clamps the angle handle after an external mutation (e.g. a
// document load that placed it at an arbitrary distance).
func (vp *VanishingPoint) FixPoints() {
	if len(vp.points) < 2 {
		return
	}
	center := vp.points[0].Position
	d := vp.points[1].Position.Sub(center)
	if n := d.Norm(); n > 1e-9 {
		vp.points[1].Position = center.Add(d.Scale(vanishingPointHandleRadius / n))
	} else {
		vp.points[1].Position = center.Add(geom.Point{X: vanishingPointHandleRadius})
	}
}

// GetGuidelines returns the single perspective line through the pivot
// (the point the user just started drawing at, in tool space) and the
// vanishing point: every stroke started near this assistant should point
// exactly at the vanishing point regardless of where it starts.
func (vp *VanishingPoint) GetGuidelines(pivot geom.Point, toTool geom.Affine) []guideline.Guideline {
	if !vp.Enabled() || len(vp.points) == 0 {
		return nil
	}
	center := toTool.Apply(vp.points[0].Position)
	if geom.Distance(center, pivot) < 1e-9 {
		return nil
	}
	return []guideline.Guideline{LineGuideline{A: center, B: pivot}}
}

func (vp *VanishingPoint) Draw(v guideline.Viewer) {
	if len(vp.points) == 0 {
		return
	}
	v.DrawCrosshair(vp.points[0].Position, 1.2*defaultPointRadius, false)
}

func (vp *VanishingPoint) DrawEdit(v guideline.Viewer) {
	vp.Draw(v)
	if len(vp.points) >= 2 {
		v.DrawSegment(vp.points[0].Position, vp.points[1].Position, false)
	}
	vp.drawEditPoints(v)
}

func (vp *VanishingPoint) ToVariant() Variant {
	v := vp.baseVariant()
	v["type"] = vanishingPointTypeName
	return v
}

func (vp *VanishingPoint) LoadVariant(v Variant) {
	vp.loadBaseVariant(v, vp.FixPoints)
}
