// Package track implements the time- and geometry-indexed stroke data
// structure: Point, Track, and Modifier, with the multi-axis
// binary-search indexing and interpolation the rest of the core relies on.
package track

import (
	"math"
	"sync/atomic"

	"sketchcore/internal/config"
	"sketchcore/internal/geom"
	"sketchcore/internal/inputstate"
)

// Point is one sample of a track: position, pressure, tilt, the sample's
// position in the source track's index space, elapsed time, cumulative
// arc length and whether it is the last point of a finished stroke.
type Point struct {
	Position      geom.Point
	Pressure      float64
	Tilt          geom.Point
	OriginalIndex float64
	Time          float64
	Length        float64
	Final         bool
}

// Tangent carries a local derivative estimate for the position, pressure
// and tilt channels, used by spline interpolation.
type Tangent struct {
	Position geom.Point
	Pressure float64
	Tilt     geom.Point
}

// lastID is the process-wide monotonically increasing track id counter.
// It is never reset within a process lifetime.
var lastID int64

// Id is a track's immutable identity number.
type Id int64

func nextID() Id { return Id(atomic.AddInt64(&lastID, 1)) }

// Modifier derives a track point at a fractional index of the original
// track's index space; a bare Modifier does plain linear interpolation.
// Specializations (in package inputmanager and its modifiers) override
// CalcPoint to do more, e.g. project onto a guideline.
type Modifier interface {
	// Original returns the read-only track this modifier reads from.
	Original() *Track
	// TimeOffset is added to all timestamps this modifier derives.
	TimeOffset() float64
	// CalcPoint computes the derived point for a fractional index into
	// Original()'s index space.
	CalcPoint(originalIndex float64) Point
}

// LinearModifier is the default Modifier: plain linear interpolation of
// the original track, offset in time by TimeOffsetValue.
type LinearModifier struct {
	OriginalTrack   *Track
	TimeOffsetValue float64
}

func (m *LinearModifier) Original() *Track      { return m.OriginalTrack }
func (m *LinearModifier) TimeOffset() float64   { return m.TimeOffsetValue }
func (m *LinearModifier) CalcPoint(idx float64) Point {
	p := m.OriginalTrack.InterpolateLinear(idx)
	p.Time += m.TimeOffsetValue
	return p
}

// Track is an ordered sequence of points plus immutable identity, immutable
// capability flags, key/button history snapshots taken at creation, an
// optional modifier back-reference, and the mutable bookkeeping the input
// manager and the tool handler need (delta counters, an opaque handler).
//
// Track is not safe for concurrent use; the core is single-threaded.
type Track struct {
	ID          Id
	DeviceId    inputstate.DeviceId
	TouchId     inputstate.TouchId
	KeyHistory  inputstate.Holder[inputstate.Key]
	ButtonHistory inputstate.Holder[inputstate.Button]
	HasPressure bool
	HasTilt     bool
	Modifier    Modifier

	// Handler is an opaque, tool- or manager-specific attachment. The
	// input manager stores its save-point bookkeeping here; a downstream
	// tool may store its own paint-state cache here too.
	Handler interface{}

	// PointsAdded/PointsRemoved describe the delta since the last
	// consumer acknowledgement (ResetChanges).
	PointsAdded   int
	PointsRemoved int

	creationTicks inputstate.Ticks
	points        []Point
}

// New creates a level-0 (raw) track.
func New(deviceId inputstate.DeviceId, touchId inputstate.TouchId, keyHistory inputstate.Holder[inputstate.Key], buttonHistory inputstate.Holder[inputstate.Button], hasPressure, hasTilt bool, creationTicks inputstate.Ticks) *Track {
	return &Track{
		ID:            nextID(),
		DeviceId:      deviceId,
		TouchId:       touchId,
		KeyHistory:    keyHistory,
		ButtonHistory: buttonHistory,
		HasPressure:   hasPressure,
		HasTilt:       hasTilt,
		creationTicks: creationTicks,
	}
}

// NewDerived creates a track backed by a modifier. It shares the root
// track's identity fields (id, device, touch, history snapshots,
// capability flags), per the invariant that a derived track has the same
// identity as its root.
func NewDerived(modifier Modifier) *Track {
	root := modifier.Original().Root()
	return &Track{
		ID:            root.ID,
		DeviceId:      root.DeviceId,
		TouchId:       root.TouchId,
		KeyHistory:    root.KeyHistory,
		ButtonHistory: root.ButtonHistory,
		HasPressure:   root.HasPressure,
		HasTilt:       root.HasTilt,
		Modifier:      modifier,
		creationTicks: root.creationTicks,
	}
}

// Ticks returns the host tick at which this track (or its root) began.
func (t *Track) Ticks() inputstate.Ticks { return t.creationTicks }

// TimeOffset returns the modifier's time offset, or 0 for a raw track.
func (t *Track) TimeOffset() float64 {
	if t.Modifier != nil {
		return t.Modifier.TimeOffset()
	}
	return 0
}

// Changed reports whether any points were added or removed since the last
// ResetChanges.
func (t *Track) Changed() bool { return t.PointsAdded != 0 || t.PointsRemoved != 0 }

// ResetAdded zeroes the added-points counter.
func (t *Track) ResetAdded() { t.PointsAdded = 0 }

// ResetRemoved zeroes the removed-points counter.
func (t *Track) ResetRemoved() { t.PointsRemoved = 0 }

// ResetChanges zeroes both delta counters.
func (t *Track) ResetChanges() { t.ResetAdded(); t.ResetRemoved() }

// Size returns the number of points.
func (t *Track) Size() int { return len(t.points) }

// Empty reports whether the track has no points.
func (t *Track) Empty() bool { return len(t.points) == 0 }

// Finished reports whether the last point is final.
func (t *Track) Finished() bool {
	return len(t.points) > 0 && t.points[len(t.points)-1].Final
}

// ClampIndex clamps an integer index into [0, size-1].
func (t *Track) ClampIndex(index int) int {
	if n := t.Size(); n > 0 {
		if index < 0 {
			return 0
		}
		if index > n-1 {
			return n - 1
		}
	} else {
		return 0
	}
	return index
}

// Point returns the point at index, saturating to the valid range; an
// empty track returns the zero Point.
func (t *Track) Point(index int) Point {
	if t.Empty() {
		return Point{}
	}
	return t.points[t.ClampIndex(index)]
}

// Front returns the first point (zero Point if empty).
func (t *Track) Front() Point { return t.Point(0) }

// Back returns the last point (zero Point if empty).
func (t *Track) Back() Point { return t.Point(t.Size() - 1) }

// Points returns the underlying point slice; callers must not retain or
// mutate it across a PushBack/PopBack call.
func (t *Track) Points() []Point { return t.points }

// Current, Previous and Next address points relative to the tail of the
// most recent delta (size-pointsAdded), for modifiers inspecting "what was
// just appended".
func (t *Track) Current() Point  { return t.Point(t.Size() - t.PointsAdded) }
func (t *Track) Previous() Point { return t.Point(t.Size() - t.PointsAdded - 1) }
func (t *Track) Next() Point     { return t.Point(t.Size() - t.PointsAdded + 1) }

// PushBack appends p, computing its cumulative length from the previous
// point. It is a silent no-op if the track is already finished (per the
// core's "ignored input" error kind).
func (t *Track) PushBack(p Point) {
	if t.Finished() {
		return
	}
	if !t.Empty() {
		prev := t.Back()
		p.Length = prev.Length + geom.Distance(prev.Position, p.Position)
	} else {
		p.Length = 0
	}
	t.points = append(t.points, p)
	t.PointsAdded++
}

// PopBack removes the last n points. Callers must not pass n > Size(); it
// is clamped defensively rather than panicking.
func (t *Track) PopBack(n int) {
	if n <= 0 {
		return
	}
	if n > len(t.points) {
		n = len(t.points)
	}
	t.points = t.points[:len(t.points)-n]
	t.PointsRemoved += n
}

// Truncate shrinks the track to exactly count points.
func (t *Track) Truncate(count int) { t.PopBack(t.Size() - count) }

// Root follows the modifier chain to the origin track.
func (t *Track) Root() *Track {
	node := t
	for node.Modifier != nil {
		node = node.Modifier.Original()
	}
	return node
}

// Level returns the modifier chain depth (0 for a raw track).
func (t *Track) Level() int {
	n := 0
	node := t
	for node.Modifier != nil {
		n++
		node = node.Modifier.Original()
	}
	return n
}

// CalcPoint delegates to the modifier if this track has one, else falls
// back to linear interpolation.
func (t *Track) CalcPoint(index float64) Point {
	if t.Modifier != nil {
		return t.Modifier.CalcPoint(index)
	}
	return t.InterpolateLinear(index)
}

// RootIndexByIndex translates a fractional index at this track's level
// into the equivalent fractional index in the root track's space, by
// chaining OriginalIndexByIndex through every modifier level.
func (t *Track) RootIndexByIndex(index float64) float64 {
	node := t
	idx := index
	for node.Modifier != nil {
		idx = node.OriginalIndexByIndex(idx)
		node = node.Modifier.Original()
	}
	return idx
}

// CalcRootPoint evaluates the root track at the index corresponding to
// index at this track's level.
func (t *Track) CalcRootPoint(index float64) Point {
	root := t.Root()
	return root.CalcPoint(t.RootIndexByIndex(index))
}

// CalcTangent estimates a local position tangent at index by sampling the
// track distance arc-length units to either side and normalizing the
// difference. Returns the zero vector on a degenerate (near-empty or
// zero-length) track.
func (t *Track) CalcTangent(index float64, distance float64) geom.Point {
	if t.Size() < 2 {
		return geom.Point{}
	}
	center := t.LengthByIndex(index)
	lo := center - distance
	if lo < 0 {
		lo = 0
	}
	hi := center + distance
	p0 := t.InterpolateLinear(t.IndexByLength(lo)).Position
	p1 := t.InterpolateLinear(t.IndexByLength(hi)).Position
	d := p1.Sub(p0)
	if n := d.Norm(); n > config.Default.Epsilon {
		return d.Scale(1 / n)
	}
	return geom.Point{}
}

func (t *Track) floorIndexNoClamp(index float64) int {
	return int(math.Floor(index + config.Default.Epsilon))
}

func (t *Track) ceilIndexNoClamp(index float64) int {
	return int(math.Ceil(index - config.Default.Epsilon))
}

// FloorIndex clamps floorIndexNoClamp into the valid point range.
func (t *Track) FloorIndex(index float64) int { return t.ClampIndex(t.floorIndexNoClamp(index)) }

// CeilIndex clamps ceilIndexNoClamp into the valid point range.
func (t *Track) CeilIndex(index float64) int { return t.ClampIndex(t.ceilIndexNoClamp(index)) }

// floorPointFrac returns the floor point and the [0,1] fraction toward the
// ceil point for interpolation at index.
func (t *Track) floorPointFrac(index float64) (Point, float64) {
	fi := t.floorIndexNoClamp(index)
	frac := index - float64(fi)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return t.Point(t.ClampIndex(fi)), frac
}

func (t *Track) ceilPoint(index float64) Point {
	return t.Point(t.ceilIndexNoClamp(index))
}

// field selects a scalar channel from a Point, for the generic monotone
// binary search.
type field func(Point) float64

func fieldOriginalIndex(p Point) float64 { return p.OriginalIndex }
func fieldTime(p Point) float64          { return p.Time }
func fieldLength(p Point) float64        { return p.Length }

// binarySearch returns a fractional index in [0, size-1] such that linear
// interpolation of the selected field across the bracketing points equals
// value, within the configured epsilon. Degenerate (zero-span) ranges
// return the lower endpoint.
func (t *Track) binarySearch(get field, value float64) float64 {
	eps := config.Default.Epsilon
	n := t.Size()
	if n == 0 {
		return 0
	}
	a := 0
	aa := get(t.points[a])
	if value-aa <= 0.5*eps {
		return float64(a)
	}
	b := n - 1
	bb := get(t.points[b])
	if bb-value <= 0.5*eps {
		return float64(b)
	}
	for {
		c := (a + b) / 2
		if a == c {
			break
		}
		cc := get(t.points[c])
		if cc-value > 0.5*eps {
			b = c
			bb = cc
		} else {
			a = c
			aa = cc
		}
	}
	if bb-aa >= 0.5*eps {
		return float64(a) + (value-aa)/(bb-aa)
	}
	return float64(a)
}

// IndexByOriginalIndex is the monotone-field lookup on OriginalIndex.
func (t *Track) IndexByOriginalIndex(v float64) float64 { return t.binarySearch(fieldOriginalIndex, v) }

// IndexByTime is the monotone-field lookup on Time.
func (t *Track) IndexByTime(v float64) float64 { return t.binarySearch(fieldTime, v) }

// IndexByLength is the monotone-field lookup on Length.
func (t *Track) IndexByLength(v float64) float64 { return t.binarySearch(fieldLength, v) }

func (t *Track) scalarByIndex(get field, index float64) float64 {
	p0, frac := t.floorPointFrac(index)
	p1 := t.ceilPoint(index)
	return interpolationLinearScalar(get(p0), get(p1), frac)
}

// OriginalIndexByIndex returns the OriginalIndex field interpolated at index.
func (t *Track) OriginalIndexByIndex(index float64) float64 {
	return t.scalarByIndex(fieldOriginalIndex, index)
}

// TimeByIndex returns the Time field interpolated at index.
func (t *Track) TimeByIndex(index float64) float64 { return t.scalarByIndex(fieldTime, index) }

// LengthByIndex returns the Length field interpolated at index.
func (t *Track) LengthByIndex(index float64) float64 { return t.scalarByIndex(fieldLength, index) }

func interpolationLinearScalar(a, b, l float64) float64 { return a*(1-l) + b*l }

// InterpolateLinear blends all numeric attributes between floor(idx) and
// ceil(idx) with fraction frac. idx<=0 or idx>=size-1 clamp to the
// endpoint (enforced by floorPointFrac/ceilPoint's own clamping plus the
// epsilon short-circuit below).
func (t *Track) InterpolateLinear(index float64) Point {
	p0, frac := t.floorPointFrac(index)
	p1 := t.ceilPoint(index)
	return InterpolationLinear(p0, p1, frac)
}

// InterpolationLinear linearly blends two points; l<=epsilon returns p0,
// l>=1-epsilon returns p1.
func InterpolationLinear(p0, p1 Point, l float64) Point {
	eps := config.Default.Epsilon
	if l <= eps {
		return p0
	}
	if l >= 1-eps {
		return p1
	}
	return Point{
		Position:      geom.Lerp(p0.Position, p1.Position, l),
		Pressure:      interpolationLinearScalar(p0.Pressure, p1.Pressure, l),
		Tilt:          geom.Lerp(p0.Tilt, p1.Tilt, l),
		OriginalIndex: interpolationLinearScalar(p0.OriginalIndex, p1.OriginalIndex, l),
		Time:          interpolationLinearScalar(p0.Time, p1.Time, l),
		Length:        interpolationLinearScalar(p0.Length, p1.Length, l),
	}
}

// InterpolationSpline blends position with cubic Hermite (using t0,t1 as
// tangents) while keeping pressure, tilt, time and length linear, so those
// monotonic channels are never overshot by the spline.
func InterpolationSpline(p0, p1 Point, t0, t1 Tangent, l float64) Point {
	eps := config.Default.Epsilon
	if l <= eps {
		return p0
	}
	if l >= 1-eps {
		return p1
	}
	return Point{
		Position:      geom.Hermite(p0.Position, p1.Position, t0.Position, t1.Position, l),
		Pressure:      interpolationLinearScalar(p0.Pressure, p1.Pressure, l),
		Tilt:          geom.Lerp(p0.Tilt, p1.Tilt, l),
		OriginalIndex: interpolationLinearScalar(p0.OriginalIndex, p1.OriginalIndex, l),
		Time:          interpolationLinearScalar(p0.Time, p1.Time, l),
		Length:        interpolationLinearScalar(p0.Length, p1.Length, l),
	}
}

// GetKeyState returns the pressed-key set as of relativeTime seconds after
// the track's creation instant.
func (t *Track) GetKeyState(relativeTime float64) map[inputstate.Key]bool {
	return t.KeyHistory.Get(relativeTime, config.Default.TickStep)
}

// GetCurrentKeyState is GetKeyState at Current().Time.
func (t *Track) GetCurrentKeyState() map[inputstate.Key]bool { return t.GetKeyState(t.Current().Time) }

// GetButtonState returns the pressed-button set as of relativeTime seconds
// after the track's creation instant.
func (t *Track) GetButtonState(relativeTime float64) map[inputstate.Button]bool {
	return t.ButtonHistory.Get(relativeTime, config.Default.TickStep)
}

// GetCurrentButtonState is GetButtonState at Current().Time.
func (t *Track) GetCurrentButtonState() map[inputstate.Button]bool {
	return t.GetButtonState(t.Current().Time)
}
