/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package selection holds the two-click segment selection state.
//
// The first click on a snapped point sets the anchor; the second click on a
// snapped point finishes a segment from the anchor to that point and returns
// to idle. Clicks without a snapped point do nothing.
package selection

import "paperfold/internal/vector"

// Phase is the machine state derived from whether an anchor is held.
type Phase int

const (
	Idle Phase = iota
	AnchorSet
)

func (p Phase) String() string {
	if p == AnchorSet {
		return "anchor-set"
	}
	return "idle"
}

// Segment is the payload of a finished selection: From is the anchor, To the
// point snapped at the second click.
type Segment struct {
	From, To vector.Pt
}

// SegmentFunc receives finished segments synchronously.
type SegmentFunc func(Segment)

// State is owned by a single interaction session and is not safe for
// concurrent use.
type State struct {
	anchor     vector.Pt
	hasAnchor  bool
	nearest    vector.Pt
	hasNearest bool

	onFinished SegmentFunc
}

// New returns an idle state with no nearest point.
func New() *State { return &State{} }

// SetNearest overwrites the nearest point. nil clears it.
func (s *State) SetNearest(p *vector.Pt) {
	if p == nil {
		s.nearest, s.hasNearest = vector.Pt{}, false
		return
	}
	s.nearest, s.hasNearest = *p, true
}

// Select advances the machine. Without a nearest point it is a no-op. Idle
// takes the nearest point as anchor; AnchorSet emits the finished segment
// (anchor first) and clears the anchor.
func (s *State) Select() {
	if !s.hasNearest {
		return
	}
	if !s.hasAnchor {
		s.anchor, s.hasAnchor = s.nearest, true
		return
	}
	if s.onFinished != nil {
		s.onFinished(Segment{From: s.anchor, To: s.nearest})
	}
	s.anchor, s.hasAnchor = vector.Pt{}, false
}

// OnSegmentFinished registers the single listener, replacing any previous one.
// nil unregisters.
func (s *State) OnSegmentFinished(fn SegmentFunc) { s.onFinished = fn }

func (s *State) HasNearest() bool { return s.hasNearest }
func (s *State) HasAnchor() bool  { return s.hasAnchor }

// Nearest returns the current nearest point, if any.
func (s *State) Nearest() (vector.Pt, bool) { return s.nearest, s.hasNearest }

// Anchor returns the current anchor, if any.
func (s *State) Anchor() (vector.Pt, bool) { return s.anchor, s.hasAnchor }

func (s *State) Phase() Phase {
	if s.hasAnchor {
		return AnchorSet
	}
	return Idle
}
