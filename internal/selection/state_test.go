/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package selection

import (
	"testing"

	"paperfold/internal/vector"
)

func ptr(p vector.Pt) *vector.Pt { return &p }

func TestNewStateIsIdle(t *testing.T) {
	s := New()
	if s.Phase() != Idle || s.HasAnchor() || s.HasNearest() {
		t.Fatalf("new state should be idle and empty: %+v", s)
	}
}

func TestSelect_IdleSetsAnchorWithoutEvent(t *testing.T) {
	s := New()
	events := 0
	s.OnSegmentFinished(func(Segment) { events++ })
	s.SetNearest(ptr(vector.P(10, 300)))
	s.Select()
	if s.Phase() != AnchorSet {
		t.Fatalf("phase = %v, want %v", s.Phase(), AnchorSet)
	}
	if a, ok := s.Anchor(); !ok || a != vector.P(10, 300) {
		t.Fatalf("anchor = %v ok=%v", a, ok)
	}
	if events != 0 {
		t.Fatalf("setting the anchor must not emit, got %d events", events)
	}
}

func TestSelect_AnchorSetEmitsOnceAndResets(t *testing.T) {
	s := New()
	var got []Segment
	s.OnSegmentFinished(func(seg Segment) { got = append(got, seg) })
	s.SetNearest(ptr(vector.P(10, 300)))
	s.Select()
	s.SetNearest(ptr(vector.P(790, 300)))
	s.Select()
	if len(got) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(got))
	}
	if got[0].From != vector.P(10, 300) || got[0].To != vector.P(790, 300) {
		t.Fatalf("payload order wrong: %+v", got[0])
	}
	if s.HasAnchor() || s.Phase() != Idle {
		t.Fatalf("anchor should be cleared after commit")
	}
	if !s.HasNearest() {
		t.Fatalf("commit must not clear the nearest point")
	}
}

func TestSelect_WithoutNearestIsNoop(t *testing.T) {
	s := New()
	events := 0
	s.OnSegmentFinished(func(Segment) { events++ })
	s.Select()
	if s.HasAnchor() {
		t.Fatalf("idle select without nearest must not set an anchor")
	}

	s.SetNearest(ptr(vector.P(1, 1)))
	s.Select()
	s.SetNearest(nil)
	s.Select()
	if a, ok := s.Anchor(); !ok || a != vector.P(1, 1) {
		t.Fatalf("anchor changed by no-op select: %v %v", a, ok)
	}
	if events != 0 {
		t.Fatalf("no event expected, got %d", events)
	}
}

func TestSetNearestCopiesAndClears(t *testing.T) {
	s := New()
	p := vector.P(4, 5)
	s.SetNearest(&p)
	p.X = 99
	if n, ok := s.Nearest(); !ok || n != vector.P(4, 5) {
		t.Fatalf("nearest should be a copy, got %v", n)
	}
	s.SetNearest(nil)
	if s.HasNearest() {
		t.Fatalf("nil should clear nearest")
	}
}

func TestOnSegmentFinished_SingleSlot(t *testing.T) {
	s := New()
	first, second := 0, 0
	s.OnSegmentFinished(func(Segment) { first++ })
	s.OnSegmentFinished(func(Segment) { second++ })
	s.SetNearest(ptr(vector.P(0, 0)))
	s.Select()
	s.Select()
	if first != 0 || second != 1 {
		t.Fatalf("only the last listener should fire: first=%d second=%d", first, second)
	}

	s.OnSegmentFinished(nil)
	s.Select()
	s.Select()
	if second != 1 || s.HasAnchor() {
		t.Fatalf("without a listener the cycle must still complete")
	}
}

func TestListenerSeesAnchorDuringCallback(t *testing.T) {
	s := New()
	held := false
	s.OnSegmentFinished(func(Segment) { held = s.HasAnchor() })
	s.SetNearest(ptr(vector.P(0, 0)))
	s.Select()
	s.Select()
	if !held {
		t.Fatalf("anchor is cleared only after the listener returns")
	}
}
