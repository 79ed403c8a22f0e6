// Package geom provides the small 2D vector and affine-transform types
// shared by tracks, guidelines and assistants.
package geom

import "math"

// Point is a 2D real point, mirroring fyne.Position but carrying float64
// precision since track math accumulates arc length over long strokes.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Norm2 returns the squared length of p.
func (p Point) Norm2() float64 { return p.Dot(p) }

// Norm returns the length of p.
func (p Point) Norm() float64 { return math.Sqrt(p.Norm2()) }

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 { return p.Sub(q).Norm() }

// Lerp linearly interpolates between p and q, l in [0,1] (unclamped).
func Lerp(p, q Point, l float64) Point {
	return Point{
		X: p.X*(1-l) + q.X*l,
		Y: p.Y*(1-l) + q.Y*l,
	}
}

// Hermite evaluates a cubic Hermite spline segment between p0 and p1 with
// tangents t0, t1, at parameter l in [0,1].
func Hermite(p0, p1, t0, t1 Point, l float64) Point {
	ll := l * l
	lll := ll * l
	h00 := 2*lll - 3*ll + 1
	h10 := lll - 2*ll + l
	h01 := -2*lll + 3*ll
	h11 := lll - ll
	return Point{
		X: p0.X*h00 + t0.X*h10 + p1.X*h01 + t1.X*h11,
		Y: p0.Y*h00 + t0.Y*h10 + p1.Y*h01 + t1.Y*h11,
	}
}

// Affine is a 2D affine transform (2x3 matrix) applied as p' = A*p + T.
type Affine struct {
	A, B, C, D float64 // linear part [[A C][B D]]
	Tx, Ty     float64 // translation
}

// Identity is the identity affine transform.
var Identity = Affine{A: 1, D: 1}

// Apply transforms p by the affine.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.Tx,
		Y: m.B*p.X + m.D*p.Y + m.Ty,
	}
}

// Translation returns a pure-translation affine transform.
func Translation(dx, dy float64) Affine {
	return Affine{A: 1, D: 1, Tx: dx, Ty: dy}
}

// Scaling returns a uniform-scale affine transform about the origin.
func Scaling(k float64) Affine {
	return Affine{A: k, D: k}
}
