// Package guideline implements geometric snap candidates and the scoring
// that picks the best one for a live track: calcTrackWeight and findBest.
package guideline

import (
	"math"

	"sketchcore/internal/config"
	"sketchcore/internal/geom"
	"sketchcore/internal/track"
)

// Guideline is a geometric snap candidate exposing a point-projection
// operator and a draw hook. The zero-value behavior (identity transform,
// no drawing) matches the base TGuideline in the original core, so
// embedding Base gives a concrete Guideline a sensible default.
type Guideline interface {
	// TransformPoint projects p onto the guide.
	TransformPoint(p track.Point) track.Point
	// Draw renders the guideline; active indicates it is the current
	// best-scoring candidate.
	Draw(v Viewer, active bool)
}

// Viewer is the minimal pixel-size-aware drawing surface a guideline (or
// assistant) needs; see package render for a concrete implementation.
type Viewer interface {
	PixelSize() float64
	DrawSegment(p0, p1 geom.Point, active bool)
	DrawDisk(center geom.Point, radius float64, selected bool)
	DrawCircle(center geom.Point, radius float64, selected bool)
	DrawCrosshair(center geom.Point, size float64, selected bool)
}

// Base is an identity guideline: TransformPoint returns its input
// unchanged and Draw does nothing. Concrete guidelines embed Base and
// override what they need, mirroring TGuideline's virtual defaults.
type Base struct{}

func (Base) TransformPoint(p track.Point) track.Point { return p }
func (Base) Draw(Viewer, bool)                        {}

// logNormalPDFUnscaled evaluates a log-normal density at x with
// parameters mu, sigma, without the normalizing constant — matching the
// original's logNormalDistribuitionUnscaled, which only cares about the
// relative shape for weighting, not a true probability density.
func logNormalPDFUnscaled(x, mu, sigma float64) float64 {
	if x <= 0 {
		return 0
	}
	logX := math.Log(x)
	logMu := math.Log(mu)
	d := (logX - logMu) / sigma
	return math.Exp(-0.5*d*d) / x
}

// CalcTrackWeight scores a guideline against a track in screen space: it
// walks the track accumulating arc length, weights each step by a
// log-normal kernel centered at
// SnapLength, and returns the weighted-average projection deviation. It
// reports longEnough once the walked screen-space length reaches
// 2*SnapLength*SnapScale. Fewer than two points, or a track whose total
// weight collapses to ~0, scores +Inf.
func CalcTrackWeight(g Guideline, t *track.Track, toScreen geom.Affine) (weight float64, longEnough bool) {
	if t.Size() < 2 {
		return math.Inf(1), false
	}

	snapLength := config.Default.SnapLength
	snapScale := config.Default.SnapScale
	maxLength := 2 * snapLength * snapScale
	eps := config.Default.Epsilon

	sumWeight := 0.0
	sumLength := 0.0
	sumDeviation := 0.0

	prev := toScreen.Apply(t.Point(0).Position)
	for i := 0; i < t.Size(); i++ {
		tp := t.Point(i)
		p := toScreen.Apply(tp.Position)
		length := geom.Distance(p, prev)
		sumLength += length

		mid := sumLength - 0.5*length
		if mid > eps {
			w := length * logNormalPDFUnscaled(mid, snapLength, snapScale)
			sumWeight += w

			projected := g.TransformPoint(tp)
			deviation := geom.Distance(toScreen.Apply(projected.Position), p)
			sumDeviation += w * deviation
		}
		prev = p

		if sumLength >= maxLength {
			longEnough = true
			break
		}
	}

	if sumWeight > eps {
		return sumDeviation / sumWeight, longEnough
	}
	return math.Inf(1), longEnough
}

// FindBest scans candidates and returns the least-weighted one; ties keep
// the first candidate encountered. longEnough is the logical OR across all
// candidates: as soon as any guideline's walk exhausts the screen-space
// budget, the track is long enough for a commit decision, independent of
// which guideline ultimately wins.
func FindBest(guidelines []Guideline, t *track.Track, toScreen geom.Affine) (best Guideline, weight float64, longEnough bool) {
	weight = math.Inf(1)
	for _, g := range guidelines {
		w, le := CalcTrackWeight(g, t, toScreen)
		if le {
			longEnough = true
		}
		if best == nil || w < weight {
			weight = w
			best = g
		}
	}
	return best, weight, longEnough
}
