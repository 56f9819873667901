/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package sketch runs an interactive segment-sketching session: it snaps the
// pointer to the nearest tracked curve, feeds clicks into the selection state,
// and appends every finished segment to the searchable shape collection.
package sketch

import (
	"log/slog"

	"github.com/google/uuid"

	applog "paperfold/internal/log"
	"paperfold/internal/proximity"
	"paperfold/internal/script"
	"paperfold/internal/selection"
	"paperfold/internal/vector"
)

// Geometry is a curve the session can both search and draw.
type Geometry interface {
	proximity.Curve
	Vertices() []vector.Pt
}

// Kind tells the boundary apart from segments drawn by the user.
type Kind int

const (
	KindBoundary Kind = iota
	KindSegment
)

func (k Kind) String() string {
	if k == KindSegment {
		return "segment"
	}
	return "boundary"
}

// Shape is one entry of the shape collection.
type Shape struct {
	ID       string
	Kind     Kind
	Geometry Geometry
}

// Indicator describes the pointer feedback a view should draw after an event.
type Indicator struct {
	Cursor vector.Pt
	// Snap is the point the next click would select.
	Snap    vector.Pt
	HasSnap bool
	// Source is the held anchor. LineEnd is where the rubber line from Source
	// ends: the snap point if any, else the raw cursor.
	Source    vector.Pt
	HasSource bool
	LineEnd   vector.Pt
}

// View renders the session. Shapes are announced once, in insertion order.
type View interface {
	AddShape(Shape)
	ShowIndicator(Indicator)
}

// Options configures a session.
type Options struct {
	// Canvas is the drawing area; the boundary is inset from it by Offset.
	Canvas    vector.Size
	Offset    float64
	Threshold float64
	Search    proximity.Options
	Pick      proximity.Pick
}

// DefaultOptions mirrors the defaults of the config file.
func DefaultOptions() Options {
	return Options{
		Canvas:    vector.Size{W: 800, H: 600},
		Offset:    10,
		Threshold: proximity.DefaultThreshold,
		Search:    proximity.Options{CoarseStep: proximity.DefaultCoarseStep, Precision: proximity.DefaultPrecision},
		Pick:      proximity.PickFirst,
	}
}

// Boundary returns the rectangle the boundary outline follows.
func (o Options) Boundary() vector.Rect {
	return vector.R(0, 0, o.Canvas.W, o.Canvas.H).Inset(o.Offset, o.Offset)
}

// Session is single-threaded: every call runs to completion before the next
// event is processed. It is not safe for concurrent use.
type Session struct {
	opts  Options
	view  View
	log   *slog.Logger
	state *selection.State

	shapes  []Shape
	curves  []proximity.Curve
	journal []script.Event

	cursor    vector.Pt
	indicator Indicator
	newID     func() string
}

// New creates a session whose shape collection starts with the boundary
// outline. view may be nil.
func New(opts Options, view View) *Session {
	s := &Session{
		opts:  opts,
		view:  view,
		log:   applog.WithComponent("sketch"),
		state: selection.New(),
		newID: uuid.NewString,
	}
	s.state.OnSegmentFinished(s.segmentFinished)
	s.appendShape(KindBoundary, vector.RectOutline(opts.Boundary()))
	return s
}

// Move snaps the pointer at p and updates the selection's nearest point.
func (s *Session) Move(p vector.Pt) Indicator {
	s.journal = append(s.journal, script.Event{Kind: script.Move, At: p})
	s.cursor = p
	results := proximity.FindClosest(s.curves, p, s.opts.Threshold, s.opts.Search)
	if r, ok := s.opts.Pick.Reduce(results); ok {
		s.state.SetNearest(&r.Point)
	} else {
		s.state.SetNearest(nil)
	}
	return s.refresh()
}

// Click selects the current nearest point, possibly finishing a segment.
func (s *Session) Click() Indicator {
	s.journal = append(s.journal, script.Event{Kind: script.Click})
	hadAnchor := s.state.HasAnchor()
	s.state.Select()
	if !hadAnchor && s.state.HasAnchor() {
		a, _ := s.state.Anchor()
		s.log.Debug("anchor set", slog.Float64("x", a.X), slog.Float64("y", a.Y))
	}
	return s.refresh()
}

// Replay feeds recorded events through Move and Click.
func (s *Session) Replay(events []script.Event) {
	for _, e := range events {
		switch e.Kind {
		case script.Click:
			s.Click()
		default:
			s.Move(e.At)
		}
	}
}

// Shapes returns a copy of the shape collection in insertion order.
func (s *Session) Shapes() []Shape { return append([]Shape(nil), s.shapes...) }

// Segments returns the committed segments in order.
func (s *Session) Segments() []vector.Segment {
	var out []vector.Segment
	for _, sh := range s.shapes {
		if seg, ok := sh.Geometry.(vector.Segment); ok && sh.Kind == KindSegment {
			out = append(out, seg)
		}
	}
	return out
}

// State exposes the selection for read-only queries.
func (s *Session) State() *selection.State { return s.state }

// Indicator returns the feedback computed by the last event.
func (s *Session) Indicator() Indicator { return s.indicator }

// Journal returns a copy of the events received so far.
func (s *Session) Journal() []script.Event { return append([]script.Event(nil), s.journal...) }

func (s *Session) Options() Options { return s.opts }

func (s *Session) segmentFinished(seg selection.Segment) {
	sh := s.appendShape(KindSegment, vector.Segment{A: seg.From, B: seg.To})
	s.log.Debug("segment committed",
		slog.String("id", sh.ID),
		slog.Float64("x1", seg.From.X), slog.Float64("y1", seg.From.Y),
		slog.Float64("x2", seg.To.X), slog.Float64("y2", seg.To.Y),
		slog.Int("shapes", len(s.shapes)))
}

func (s *Session) appendShape(kind Kind, g Geometry) Shape {
	sh := Shape{ID: s.newID(), Kind: kind, Geometry: g}
	s.shapes = append(s.shapes, sh)
	s.curves = append(s.curves, g)
	if s.view != nil {
		s.view.AddShape(sh)
	}
	return sh
}

func (s *Session) refresh() Indicator {
	ind := Indicator{Cursor: s.cursor}
	ind.Snap, ind.HasSnap = s.state.Nearest()
	ind.Source, ind.HasSource = s.state.Anchor()
	if ind.HasSource {
		ind.LineEnd = s.cursor
		if ind.HasSnap {
			ind.LineEnd = ind.Snap
		}
	}
	s.indicator = ind
	if s.view != nil {
		s.view.ShowIndicator(ind)
	}
	return ind
}
