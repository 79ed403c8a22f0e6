package inputmanager

import "sketchcore/internal/track"

// paintRollbackTo discards every save point from saveIndex+1 onward,
// un-committing whatever the tool had already applied past that point and
// marking the corresponding tracks' trailing points as pending again.
func (m *Manager) paintRollbackTo(saveIndex int, subTracks []*track.Track) {
	if saveIndex >= len(m.savePoints) {
		return
	}
	tool := m.tool
	level := saveIndex + 1
	if level <= m.savePointsSent {
		if level < m.savePointsSent {
			tool.PaintPop(m.savePointsSent - level)
		}
		tool.PaintCancel()
		m.savePointsSent = level
	}

	for _, t := range subTracks {
		h, ok := t.Handler.(*TrackHandler)
		if !ok || level > len(h.Saves) {
			continue
		}
		cnt := h.Saves[saveIndex]
		h.Saves = h.Saves[:level]
		t.PointsRemoved = 0
		t.PointsAdded = t.Size() - cnt
	}
	for i := level; i < len(m.savePoints); i++ {
		m.savePoints[i].Available = false
	}
	m.savePoints = m.savePoints[:level]
}

// paintApply commits count pending save points (oldest-first among the
// trailing ones), asking the tool to apply or roll back its own paint
// stack to match, then trims the corresponding bookkeeping.
func (m *Manager) paintApply(count int, subTracks []*track.Track) {
	if count <= 0 {
		return
	}
	tool := m.tool
	level := len(m.savePoints) - count
	resend := true

	if level < m.savePointsSent {
		applied := tool.PaintApply(m.savePointsSent - level)
		applied = max(0, min(m.savePointsSent-level, applied))
		m.savePointsSent -= applied
		if m.savePointsSent == level {
			resend = false
		}
	}

	if level < m.savePointsSent {
		tool.PaintPop(m.savePointsSent - level)
		m.savePointsSent = level
	}

	for _, t := range subTracks {
		h, ok := t.Handler.(*TrackHandler)
		if !ok {
			continue
		}
		if resend && m.savePointsSent < len(h.Saves) {
			t.PointsRemoved = 0
			t.PointsAdded = t.Size() - h.Saves[m.savePointsSent]
		}
		if level <= len(h.Saves) {
			h.Saves = h.Saves[:level]
		}
	}
	for i := level; i < len(m.savePoints); i++ {
		m.savePoints[i].Available = false
	}
	m.savePoints = m.savePoints[:level]
}

// paintTracks runs the modifier chain to a fixed point: each round derives
// every level from the one below it, folds away save points that are no
// longer needed for rollback, and hands the final level to the tool. It
// keeps looping, pushing a fresh save point each time, until a round
// produces a save point nobody is still holding onto — at which point
// that round's output is final and, if every level-0 track is finished,
// the whole pipeline is torn down.
func (m *Manager) paintTracks() {
	tool := m.tool

	allFinished := true
	for _, t := range m.tracks[0] {
		if !t.Finished() {
			allFinished = false
			break
		}
	}

	for {
		newSavePoint := newSavePoint()
		for i, mod := range m.modifiers {
			m.tracks[i+1] = modifyTracksDefault(mod, m.tracks[i], newSavePoint)
		}
		subTracks := m.tracks[len(m.tracks)-1]

		for _, t := range subTracks {
			if t.Handler == nil {
				t.Handler = newTrackHandler(len(m.savePoints))
			}
		}

		if len(m.savePoints) > 0 {
			rollbackIndex := len(m.savePoints)
			for _, t := range subTracks {
				if t.PointsRemoved <= 0 {
					continue
				}
				count := t.Size() - t.PointsAdded
				if h, ok := t.Handler.(*TrackHandler); ok {
					for rollbackIndex > 0 && (rollbackIndex >= len(m.savePoints) || h.Saves[rollbackIndex] > count) {
						rollbackIndex--
					}
				}
			}
			m.paintRollbackTo(rollbackIndex, subTracks)

			applyCount := 0
			for applyCount < len(m.savePoints) && m.savePoints[len(m.savePoints)-applyCount-1].isFree() {
				applyCount++
			}
			m.paintApply(applyCount, subTracks)
		}

		if m.savePointsSent == len(m.savePoints) && len(subTracks) > 0 {
			tool.PaintTracks(subTracks)
		}
		for _, t := range subTracks {
			t.PointsRemoved = 0
			t.PointsAdded = 0
		}

		if newSavePoint.isFree() {
			newSavePoint.Available = false
			if allFinished {
				m.paintApply(len(m.savePoints), subTracks)
				for i := range m.tracks {
					m.tracks[i] = nil
				}
				tool.SetBusy(false)
			}
			break
		}

		if tool.PaintPush() {
			m.savePointsSent++
		}
		m.savePoints = append(m.savePoints, newSavePoint)
		for _, t := range subTracks {
			if h, ok := t.Handler.(*TrackHandler); ok {
				h.Saves = append(h.Saves, t.Size())
			}
		}
	}
}
