// Package inputmanager implements the central event pipeline: raw device
// events become level-0 tracks, a chain of modifiers derives successive
// track levels, and a save-point protocol lets each modifier's output be
// rolled back and replayed as new points arrive, before the final level is
// handed to the active tool.
package inputmanager

import (
	"sync/atomic"

	"sketchcore/internal/geom"
	"sketchcore/internal/guideline"
	"sketchcore/internal/inputstate"
	"sketchcore/internal/track"
)

// SavePoint marks one round of the paint pipeline: a point in the
// modifier-output history that the tool may later be asked to replay from.
// Available goes false once the manager has folded it away (via rollback
// or apply) and it should no longer be referenced.
//
// A modifier that wants to keep buffering points across future events
// before committing this round calls Hold; the manager will not fold the
// save point away until a matching Release brings the hold count back to
// zero. Most modifiers never call either and the save point is free
// immediately, since C++'s shared_ptr copy-on-retain semantics have no
// equivalent without introducing a finalizer hook.
type SavePoint struct {
	Available bool
	refs      int32
}

func newSavePoint() *SavePoint { return &SavePoint{Available: true} }

// Hold marks the save point as still needed by a buffering modifier.
func (sp *SavePoint) Hold() { atomic.AddInt32(&sp.refs, 1) }

// Release undoes a Hold.
func (sp *SavePoint) Release() { atomic.AddInt32(&sp.refs, -1) }

func (sp *SavePoint) isFree() bool { return atomic.LoadInt32(&sp.refs) == 0 }

// TrackHandler is the manager's private attachment on every track it
// produces: Saves[i] is this track's point count as of the i-th save
// point, letting rollback/apply recompute how many points are pending.
type TrackHandler struct {
	Saves []int
}

func newTrackHandler(level int) *TrackHandler {
	return &TrackHandler{Saves: make([]int, level)}
}

// Modifier is one stage of the derivation pipeline. ModifyTrack derives
// zero or more output tracks from a single input track, appending to out;
// the manager calls it once per input track (see modifyTracksDefault) the
// way TInputModifier::modifyTracks iterates calling modifyTrack.
type Modifier interface {
	SetManager(m *Manager)
	Manager() *Manager
	Activate()
	Deactivate()
	ModifyTrack(t *track.Track, savePoint *SavePoint, out *[]*track.Track)
	ModifyHover(p geom.Point, out *[]geom.Point)
	DrawTrack(t *track.Track)
	DrawHover(p geom.Point)
}

// ModifierBase supplies the common no-op defaults; concrete modifiers
// embed it and implement at least ModifyTrack.
type ModifierBase struct {
	manager *Manager
}

func (b *ModifierBase) SetManager(m *Manager) { b.manager = m }
func (b *ModifierBase) Manager() *Manager     { return b.manager }
func (b *ModifierBase) Activate()             {}
func (b *ModifierBase) Deactivate()           {}
func (b *ModifierBase) DrawTrack(*track.Track) {}
func (b *ModifierBase) DrawHover(geom.Point)   {}

// ModifyHover's default passes the hover point through unchanged.
func (b *ModifierBase) ModifyHover(p geom.Point, out *[]geom.Point) { *out = append(*out, p) }

func modifyTracksDefault(mod Modifier, tracks []*track.Track, sp *SavePoint) []*track.Track {
	var out []*track.Track
	for _, t := range tracks {
		mod.ModifyTrack(t, sp, &out)
	}
	return out
}

func modifyHoversDefault(mod Modifier, hovers []geom.Point) []geom.Point {
	var out []geom.Point
	for _, h := range hovers {
		mod.ModifyHover(h, &out)
	}
	return out
}

func drawModifierDefault(mod Modifier, tracks []*track.Track, hovers []geom.Point) {
	for _, t := range tracks {
		mod.DrawTrack(t)
	}
	for _, h := range hovers {
		mod.DrawHover(h)
	}
}

// Tool is the consumer at the end of the pipeline: the active drawing
// tool, which receives finalized track levels and raw device/key/button
// events and controls its own undo-style paint stack via the Paint*
// methods.
type Tool interface {
	Enabled() bool
	SetBusy(bool)

	PaintTracks(tracks []*track.Track)
	// PaintPush asks the tool to remember a checkpoint; returns whether
	// it actually pushed one (a tool with nothing to undo may decline).
	PaintPush() bool
	PaintPop(count int)
	PaintCancel()
	// PaintApply commits up to count pending checkpoints and returns how
	// many were actually committed.
	PaintApply(count int) int

	KeyEvent(press bool, key inputstate.Key, m *Manager)
	ButtonEvent(press bool, device inputstate.DeviceId, button inputstate.Button, m *Manager)
	HoverEvent(m *Manager)
	DoubleClickEvent(m *Manager)
	OnInputText(preedit, commit string, replacementStart, replacementLen int)
	OnEnter()
	OnLeave()
	PreLeftButtonDown() bool
}

var lastTouchID int64

// GenTouchId returns a fresh, process-wide monotonically increasing touch
// id. Like track's id counter, it is never reset within a process
// lifetime and is shared across every Manager instance, matching the
// original's static counter rather than scoping it per manager.
func GenTouchId() inputstate.TouchId {
	return inputstate.TouchId(atomic.AddInt64(&lastTouchID, 1))
}

// Manager is the input pipeline: it owns the per-level track and hover
// lists, the modifier chain, the save-point stack and the attached tool
// and viewer.
type Manager struct {
	State *inputstate.State

	tracks [][]*track.Track
	hovers [][]geom.Point

	modifiers []Modifier

	savePoints     []*SavePoint
	savePointsSent int

	tool   Tool
	viewer guideline.Viewer
}

// New creates an empty manager with no modifiers, tool or viewer attached.
func New() *Manager {
	return &Manager{
		State:  inputstate.NewState(),
		tracks: [][]*track.Track{nil},
		hovers: [][]geom.Point{nil},
	}
}

// SetViewer attaches the drawing surface used for guideline/track overlay.
func (m *Manager) SetViewer(v guideline.Viewer) { m.viewer = v }

func (m *Manager) Viewer() guideline.Viewer { return m.viewer }

// SetTool attaches the active tool. Switching to a different tool resets
// the pipeline, matching the original's toolSwitched -> reset() wiring.
func (m *Manager) SetTool(t Tool) {
	if m.tool == t {
		return
	}
	m.tool = t
	m.Reset()
}

func (m *Manager) Tool() Tool { return m.tool }

// IsActive reports whether the manager has a viewer and an enabled tool
// attached; every event entry point is a no-op otherwise.
func (m *Manager) IsActive() bool {
	return m.viewer != nil && m.tool != nil && m.tool.Enabled()
}

// InputTracks returns the level-0 (raw) tracks currently in flight.
func (m *Manager) InputTracks() []*track.Track { return m.tracks[0] }

// OutputTracks returns the final-level tracks, after every modifier.
func (m *Manager) OutputTracks() []*track.Track { return m.tracks[len(m.tracks)-1] }

func trackCompare(t *track.Track, deviceId inputstate.DeviceId, touchId inputstate.TouchId) int {
	if t.DeviceId < deviceId {
		return -1
	}
	if deviceId < t.DeviceId {
		return 1
	}
	if t.TouchId < touchId {
		return -1
	}
	if touchId < t.TouchId {
		return 1
	}
	return 0
}

func (m *Manager) createTrack(index int, deviceId inputstate.DeviceId, touchId inputstate.TouchId, ticks inputstate.Ticks, hasPressure, hasTilt bool) *track.Track {
	t := track.New(
		deviceId, touchId,
		m.State.KeyHistoryHolder(ticks),
		m.State.ButtonHistoryHolder(deviceId, ticks),
		hasPressure, hasTilt,
		ticks,
	)
	orig := m.tracks[0]
	orig = append(orig, nil)
	copy(orig[index+1:], orig[index:])
	orig[index] = t
	m.tracks[0] = orig
	return t
}

// getTrack finds (or creates, in sorted position) the level-0 track for a
// device/touch pair, by the same binary search as the original.
func (m *Manager) getTrack(deviceId inputstate.DeviceId, touchId inputstate.TouchId, ticks inputstate.Ticks, hasPressure, hasTilt bool) *track.Track {
	orig := m.tracks[0]
	if len(orig) == 0 {
		return m.createTrack(0, deviceId, touchId, ticks, hasPressure, hasTilt)
	}

	a := 0
	if cmp := trackCompare(orig[a], deviceId, touchId); cmp == 0 {
		return orig[a]
	} else if cmp < 0 {
		return m.createTrack(a, deviceId, touchId, ticks, hasPressure, hasTilt)
	}

	b := len(orig) - 1
	if cmp := trackCompare(orig[b], deviceId, touchId); cmp == 0 {
		return orig[b]
	} else if cmp > 0 {
		return m.createTrack(b+1, deviceId, touchId, ticks, hasPressure, hasTilt)
	}

	for {
		c := (a + b) / 2
		if a == c {
			break
		}
		cmp := trackCompare(orig[c], deviceId, touchId)
		if cmp < 0 {
			b = c
		} else if cmp > 0 {
			a = c
		} else {
			return orig[c]
		}
	}
	return m.createTrack(b, deviceId, touchId, ticks, hasPressure, hasTilt)
}

func addTrackPoint(t *track.Track, position geom.Point, pressure float64, tilt geom.Point, time float64, final bool) {
	t.PushBack(track.Point{
		Position:      position,
		Pressure:      pressure,
		Tilt:          tilt,
		OriginalIndex: float64(t.Size()),
		Time:          time,
		Final:         final,
	})
}

// TouchTracks re-emits the last point of every unfinished level-0 track,
// optionally marking it final. It is how the manager flushes in-flight
// strokes around a key/button event or a forced finish.
func (m *Manager) TouchTracks(finish bool) {
	for _, t := range m.tracks[0] {
		if !t.Finished() && t.Size() > 0 {
			p := t.Back()
			addTrackPoint(t, p.Position, p.Pressure, p.Tilt, p.Time, finish)
		}
	}
}

func (m *Manager) modifierActivate(mod Modifier) {
	mod.SetManager(m)
	mod.Activate()
}

func (m *Manager) modifierDeactivate(mod Modifier) {
	mod.Deactivate()
	mod.SetManager(nil)
}

func (m *Manager) processTracks() {
	if m.IsActive() {
		m.paintTracks()
	}
}

// FinishTracks flushes every in-flight track as finished and runs the
// pipeline to completion, or resets immediately if the manager is not
// currently active (mirrors finishTracks' else-branch).
func (m *Manager) FinishTracks() {
	if m.IsActive() {
		m.TouchTracks(true)
		m.processTracks()
	} else {
		m.Reset()
	}
}

// Reset discards all in-flight tracks and save points, without notifying
// the tool (the caller, e.g. a tool switch, is assumed to have already
// reset the tool's own paint stack).
func (m *Manager) Reset() {
	m.savePointsSent = 0
	for _, sp := range m.savePoints {
		sp.Available = false
	}
	m.savePoints = nil
	for i := range m.tracks {
		m.tracks[i] = nil
	}
}

func (m *Manager) findModifier(mod Modifier) int {
	for i, existing := range m.modifiers {
		if existing == mod {
			return i
		}
	}
	return -1
}

// InsertModifier adds a modifier at index in the chain, finishing any
// in-flight tracks first so no partial track straddles the change.
func (m *Manager) InsertModifier(index int, mod Modifier) {
	if m.findModifier(mod) >= 0 {
		return
	}
	m.FinishTracks()
	m.modifiers = append(m.modifiers, nil)
	copy(m.modifiers[index+1:], m.modifiers[index:])
	m.modifiers[index] = mod

	m.tracks = append(m.tracks, nil)
	copy(m.tracks[index+2:], m.tracks[index+1:])
	m.tracks[index+1] = nil

	m.hovers = append(m.hovers, nil)
	copy(m.hovers[index+2:], m.hovers[index+1:])
	m.hovers[index+1] = nil

	m.modifierActivate(mod)
}

// RemoveModifier removes the modifier at index.
func (m *Manager) RemoveModifier(index int) {
	if index < 0 || index >= len(m.modifiers) {
		return
	}
	m.FinishTracks()
	m.modifierDeactivate(m.modifiers[index])
	m.modifiers = append(m.modifiers[:index], m.modifiers[index+1:]...)
	m.tracks = append(m.tracks[:index+1], m.tracks[index+2:]...)
	m.hovers = append(m.hovers[:index+1], m.hovers[index+2:]...)
}

// ClearModifiers removes every modifier, last first.
func (m *Manager) ClearModifiers() {
	for len(m.modifiers) > 0 {
		m.RemoveModifier(len(m.modifiers) - 1)
	}
}

// ModifiersCount returns the number of modifiers in the chain.
func (m *Manager) ModifiersCount() int { return len(m.modifiers) }
