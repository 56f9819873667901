/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sketch

import (
	"testing"

	"paperfold/internal/proximity"
	"paperfold/internal/script"
	"paperfold/internal/selection"
	"paperfold/internal/vector"
)

type recordingView struct {
	shapes     []Shape
	indicators []Indicator
}

func (v *recordingView) AddShape(s Shape)            { v.shapes = append(v.shapes, s) }
func (v *recordingView) ShowIndicator(ind Indicator) { v.indicators = append(v.indicators, ind) }

const eps = 1e-9

func TestNewSession_StartsWithBoundary(t *testing.T) {
	v := &recordingView{}
	s := New(DefaultOptions(), v)
	shapes := s.Shapes()
	if len(shapes) != 1 || shapes[0].Kind != KindBoundary {
		t.Fatalf("expected a single boundary shape, got %+v", shapes)
	}
	want := []vector.Pt{vector.P(10, 10), vector.P(790, 10), vector.P(790, 590), vector.P(10, 590), vector.P(10, 10)}
	got := shapes[0].Geometry.Vertices()
	if len(got) != len(want) {
		t.Fatalf("boundary vertices = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("boundary vertex %d = %v, want %v", i, got[i], want[i])
		}
	}
	if len(v.shapes) != 1 || v.shapes[0].ID == "" {
		t.Fatalf("view should receive the boundary with an id, got %+v", v.shapes)
	}
	if s.State().Phase() != selection.Idle {
		t.Fatalf("session should start idle")
	}
}

func TestSession_SketchesSegmentAcrossBoundary(t *testing.T) {
	v := &recordingView{}
	s := New(DefaultOptions(), v)

	ind := s.Move(vector.P(12, 300))
	if !ind.HasSnap || !ind.Snap.Eq(vector.P(10, 300), eps) {
		t.Fatalf("expected snap at (10,300), got %+v", ind)
	}
	ind = s.Click()
	if !ind.HasSource || !ind.Source.Eq(vector.P(10, 300), eps) {
		t.Fatalf("expected anchor at (10,300), got %+v", ind)
	}

	ind = s.Move(vector.P(788, 300))
	if !ind.HasSnap || !ind.Snap.Eq(vector.P(790, 300), eps) {
		t.Fatalf("expected snap at (790,300), got %+v", ind)
	}
	if ind.LineEnd != ind.Snap {
		t.Fatalf("rubber line should end at the snap point, got %+v", ind)
	}
	s.Click()

	segs := s.Segments()
	if len(segs) != 1 {
		t.Fatalf("expected one committed segment, got %d", len(segs))
	}
	if !segs[0].A.Eq(vector.P(10, 300), eps) || !segs[0].B.Eq(vector.P(790, 300), eps) {
		t.Fatalf("segment endpoints wrong: %+v", segs[0])
	}
	if s.State().HasAnchor() {
		t.Fatalf("anchor should be cleared after commit")
	}
	if len(v.shapes) != 2 || v.shapes[1].Kind != KindSegment {
		t.Fatalf("view should receive the new segment, got %+v", v.shapes)
	}
	if v.shapes[0].ID == v.shapes[1].ID {
		t.Fatalf("shape ids must be unique")
	}

	// the new segment is immediately searchable
	ind = s.Move(vector.P(400, 303))
	if !ind.HasSnap || !ind.Snap.Eq(vector.P(400, 300), eps) {
		t.Fatalf("expected snap onto the new segment, got %+v", ind)
	}
}

func TestSession_ClickWithoutSnapDoesNothing(t *testing.T) {
	s := New(DefaultOptions(), nil)
	ind := s.Move(vector.P(400, 300))
	if ind.HasSnap {
		t.Fatalf("center of the canvas is out of range, got %+v", ind)
	}
	s.Click()
	if s.State().HasAnchor() || len(s.Shapes()) != 1 {
		t.Fatalf("click without snap must not change anything")
	}
}

func TestSession_RubberLineFollowsCursorWithoutSnap(t *testing.T) {
	s := New(DefaultOptions(), nil)
	s.Move(vector.P(12, 300))
	s.Click()
	ind := s.Move(vector.P(400, 250))
	if ind.HasSnap || !ind.HasSource {
		t.Fatalf("expected anchor without snap, got %+v", ind)
	}
	if ind.LineEnd != vector.P(400, 250) {
		t.Fatalf("rubber line should end at the cursor, got %v", ind.LineEnd)
	}
}

func TestSession_NonPositiveThresholdNeverSnaps(t *testing.T) {
	opts := DefaultOptions()
	opts.Threshold = 0
	s := New(opts, nil)
	if ind := s.Move(vector.P(10, 300)); ind.HasSnap {
		t.Fatalf("threshold 0 must exclude even exact hits, got %+v", ind)
	}
}

func TestSession_PickPolicy(t *testing.T) {
	build := func(p proximity.Pick) *Session {
		opts := DefaultOptions()
		opts.Pick = p
		s := New(opts, nil)
		s.Replay([]script.Event{script.MoveTo(12, 300), script.ClickEvent(), script.MoveTo(788, 300), script.ClickEvent()})
		return s
	}

	// the boundary passes at distance 5, the segment at distance 1
	q := vector.P(15, 301)
	first := build(proximity.PickFirst).Move(q)
	if !first.Snap.Eq(vector.P(10, 301), eps) {
		t.Fatalf("PickFirst should snap to the boundary, got %v", first.Snap)
	}
	nearest := build(proximity.PickNearest).Move(q)
	if !nearest.Snap.Eq(vector.P(15, 300), eps) {
		t.Fatalf("PickNearest should snap to the segment, got %v", nearest.Snap)
	}
}

func TestSession_ReplayReproducesShapes(t *testing.T) {
	a := New(DefaultOptions(), nil)
	a.Move(vector.P(12, 300))
	a.Click()
	a.Move(vector.P(788, 300))
	a.Click()
	a.Move(vector.P(400, 304))
	a.Click()
	a.Move(vector.P(400, 588))
	a.Click()
	a.Move(vector.P(100, 100))

	parsed, errs := script.Parse(script.Format(a.Journal()))
	if len(errs) != 0 {
		t.Fatalf("journal did not parse: %+v", errs)
	}
	b := New(DefaultOptions(), nil)
	b.Replay(parsed)

	sa, sb := a.Segments(), b.Segments()
	if len(sa) != 2 || len(sa) != len(sb) {
		t.Fatalf("segment counts differ: %d vs %d", len(sa), len(sb))
	}
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("segment %d differs: %+v vs %+v", i, sa[i], sb[i])
		}
	}
	if a.State().Phase() != b.State().Phase() || a.Indicator() != b.Indicator() {
		t.Fatalf("replayed state differs")
	}
	if len(b.Journal()) != len(a.Journal()) {
		t.Fatalf("replay should record the same journal length")
	}
}

func TestSession_ShapesIsACopy(t *testing.T) {
	s := New(DefaultOptions(), nil)
	sh := s.Shapes()
	sh[0].ID = "changed"
	if s.Shapes()[0].ID == "changed" {
		t.Fatalf("Shapes must return a copy")
	}
}
