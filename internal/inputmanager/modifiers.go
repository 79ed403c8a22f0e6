package inputmanager

import (
	"sketchcore/internal/assistants"
	"sketchcore/internal/geom"
	"sketchcore/internal/guideline"
	"sketchcore/internal/track"
)

// PassthroughModifier derives one output track per input track, unmodified
// beyond the identity relationship NewDerived establishes. It is the
// trivial modifier a pipeline with no active assistants collapses to.
type PassthroughModifier struct {
	ModifierBase
	tracks map[track.Id]*track.Track
}

func NewPassthroughModifier() *PassthroughModifier {
	return &PassthroughModifier{tracks: map[track.Id]*track.Track{}}
}

func (p *PassthroughModifier) ModifyTrack(t *track.Track, _ *SavePoint, out *[]*track.Track) {
	derived, ok := p.tracks[t.ID]
	if !ok {
		derived = track.NewDerived(&track.LinearModifier{OriginalTrack: t})
		p.tracks[t.ID] = derived
	}
	for derived.Size() < t.Size() {
		derived.PushBack(derived.CalcPoint(float64(derived.Size())))
	}
	if t.Finished() && !derived.Finished() && derived.Size() > 0 {
		last := derived.Point(derived.Size() - 1)
		last.Final = true
		derived.Truncate(derived.Size() - 1)
		derived.PushBack(last)
	}
	*out = append(*out, derived)
}

// GuidelineSnapModifier snaps derived track points onto whichever
// enabled assistant's guideline best matches the track so far, per
// guideline.FindBest; a track with no guideline long enough to commit to
// falls back to an unsnapped linear derivation. Only points derived after
// a guideline is committed to are snapped: points already derived stay
// as they were and are not re-derived.
type GuidelineSnapModifier struct {
	ModifierBase
	Assistants []assistants.Assistant
	ToScreen   geom.Affine
	ToTool     geom.Affine

	tracks map[track.Id]*trackSnapState
}

type trackSnapState struct {
	derived   *track.Track
	guideline guideline.Guideline
}

func NewGuidelineSnapModifier() *GuidelineSnapModifier {
	return &GuidelineSnapModifier{
		ToScreen: geom.Identity,
		ToTool:   geom.Identity,
		tracks:   map[track.Id]*trackSnapState{},
	}
}

type snapModifier struct {
	original  *track.Track
	guideline guideline.Guideline
}

func (s *snapModifier) Original() *track.Track    { return s.original }
func (s *snapModifier) TimeOffset() float64       { return 0 }
func (s *snapModifier) CalcPoint(index float64) track.Point {
	p := s.original.InterpolateLinear(index)
	if s.guideline != nil {
		p = s.guideline.TransformPoint(p)
	}
	return p
}

func (g *GuidelineSnapModifier) guidelinesFor(t *track.Track) []guideline.Guideline {
	var pivot geom.Point
	if t.Size() > 0 {
		pivot = g.ToTool.Apply(t.Front().Position)
	}
	var candidates []guideline.Guideline
	for _, a := range g.Assistants {
		if !a.Enabled() {
			continue
		}
		candidates = append(candidates, a.GetGuidelines(pivot, g.ToTool)...)
	}
	return candidates
}

func (g *GuidelineSnapModifier) ModifyTrack(t *track.Track, _ *SavePoint, out *[]*track.Track) {
	state, ok := g.tracks[t.ID]
	if !ok {
		state = &trackSnapState{}
		g.tracks[t.ID] = state
	}

	candidates := g.guidelinesFor(t)
	best, _, longEnough := guideline.FindBest(candidates, t, g.ToScreen)
	if longEnough {
		state.guideline = best
	}

	if state.derived == nil {
		state.derived = track.NewDerived(&snapModifier{original: t, guideline: state.guideline})
	} else if sm, ok := state.derived.Modifier.(*snapModifier); ok {
		sm.guideline = state.guideline
	}

	derived := state.derived
	for derived.Size() < t.Size() {
		derived.PushBack(derived.CalcPoint(float64(derived.Size())))
	}
	if t.Finished() && !derived.Finished() && derived.Size() > 0 {
		last := derived.Point(derived.Size() - 1)
		last.Final = true
		derived.Truncate(derived.Size() - 1)
		derived.PushBack(last)
	}
	*out = append(*out, derived)
}

func (g *GuidelineSnapModifier) DrawTrack(t *track.Track) {
	state, ok := g.tracks[t.ID]
	if !ok || state.guideline == nil || g.Manager() == nil {
		return
	}
	v := g.Manager().Viewer()
	if v == nil {
		return
	}
	state.guideline.Draw(v, true)
}
