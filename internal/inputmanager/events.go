package inputmanager

import (
	"sketchcore/internal/config"
	"sketchcore/internal/geom"
	"sketchcore/internal/inputstate"
)

// TrackEvent feeds one raw sample of a device/touch pair into its level-0
// track, creating the track on first contact. pressure and tilt are
// pointers so the caller can omit either on devices that don't report
// them; HasPressure/HasTilt on the resulting track record what the first
// sample of the gesture provided.
func (m *Manager) TrackEvent(deviceId inputstate.DeviceId, touchId inputstate.TouchId, position geom.Point, pressure *float64, tilt *geom.Point, final bool, ticks inputstate.Ticks) {
	wasEmpty := len(m.InputTracks()) == 0
	if m.IsActive() && wasEmpty {
		if m.tool.PreLeftButtonDown() {
			// the tool may swap its own viewer reference in response;
			// the manager's viewer is unaffected.
		}
	}
	if !m.IsActive() {
		return
	}
	if wasEmpty {
		m.tool.SetBusy(true)
	}

	t := m.getTrack(deviceId, touchId, ticks, pressure != nil, tilt != nil)
	if t.Finished() {
		return
	}
	time := float64(ticks-t.Ticks())*config.Default.TickStep - t.TimeOffset()
	p, tl := 1.0, geom.Point{}
	if pressure != nil {
		p = *pressure
	}
	if tilt != nil {
		tl = *tilt
	}
	addTrackPoint(t, position, p, tl, time, final)
}

// KeyEvent records a key transition in the shared input-state history and,
// if the manager is active, runs a process/deliver/touch/process cycle so
// the tool sees the key against an up-to-date track state.
func (m *Manager) KeyEvent(press bool, key inputstate.Key, ticks inputstate.Ticks) {
	m.State.KeyEvent(press, key, ticks)
	if !m.IsActive() {
		return
	}
	m.processTracks()
	m.tool.KeyEvent(press, key, m)
	m.TouchTracks(false)
	m.processTracks()
}

// ButtonEvent records a device button transition and runs the same
// process/deliver/touch/process cycle as KeyEvent.
func (m *Manager) ButtonEvent(press bool, deviceId inputstate.DeviceId, button inputstate.Button, ticks inputstate.Ticks) {
	m.State.ButtonEvent(press, deviceId, button, ticks)
	if !m.IsActive() {
		return
	}
	m.processTracks()
	m.tool.ButtonEvent(press, deviceId, button, m)
	m.TouchTracks(false)
	m.processTracks()
}

// HoverEvent pushes a fresh set of level-0 hover points through every
// modifier's ModifyHover and, if active, notifies the tool.
func (m *Manager) HoverEvent(hovers []geom.Point) {
	m.hovers[0] = hovers
	for i, mod := range m.modifiers {
		m.hovers[i+1] = modifyHoversDefault(mod, m.hovers[i])
	}
	if m.IsActive() {
		m.tool.HoverEvent(m)
	}
}

func (m *Manager) DoubleClickEvent() {
	if m.IsActive() {
		m.tool.DoubleClickEvent(m)
	}
}

func (m *Manager) TextEvent(preedit, commit string, replacementStart, replacementLen int) {
	if m.IsActive() {
		m.tool.OnInputText(preedit, commit, replacementStart, replacementLen)
	}
}

func (m *Manager) EnterEvent() {
	if m.IsActive() {
		m.tool.OnEnter()
	}
}

func (m *Manager) LeaveEvent() {
	if m.IsActive() {
		m.tool.OnLeave()
	}
}

// Draw renders whatever has not yet reached the tool (the trailing,
// unsent part of every output track) and then each modifier's own
// overlay. Segments up to the first unsent save point's boundary are
// drawn as active; segments past any later save point are drawn as
// inactive. The viewer receives only that active flag, so there are two
// levels of emphasis, not one per save point.
func (m *Manager) Draw() {
	if !m.IsActive() {
		return
	}
	const levelAlpha = 0.6

	if m.savePointsSent < len(m.savePoints) {
		for _, t := range m.OutputTracks() {
			h, ok := t.Handler.(*TrackHandler)
			if !ok || m.savePointsSent >= len(h.Saves) {
				continue
			}
			start := h.Saves[m.savePointsSent] - 1
			if start < 0 {
				start = 0
			}
			if start >= t.Size() {
				continue
			}
			level := m.savePointsSent
			alpha := 1.0
			for i := start + 1; i < t.Size(); i++ {
				for level < len(h.Saves) && h.Saves[level] <= i {
					alpha *= levelAlpha
					level++
				}
				p0 := t.Point(i - 1).Position
				p1 := t.Point(i).Position
				m.viewer.DrawSegment(p0, p1, alpha >= 1.0)
			}
		}
	}

	for i, mod := range m.modifiers {
		drawModifierDefault(mod, m.tracks[i], m.hovers[i])
	}
}
