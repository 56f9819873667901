/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "sort"

// Curves addressed by arc length. Both kinds expose the same three methods so
// callers can treat outlines and committed segments uniformly.

// Polyline is a piecewise-linear curve through its vertices. A closed outline
// repeats its first vertex at the end. Polylines are immutable after construction.
type Polyline struct {
	pts []Pt
	cum []float64 // cum[i] is the arc length from pts[0] to pts[i]
}

// NewPolyline builds a polyline through pts. The slice is copied.
func NewPolyline(pts ...Pt) Polyline {
	p := Polyline{pts: append([]Pt(nil), pts...), cum: make([]float64, len(pts))}
	for i := 1; i < len(p.pts); i++ {
		p.cum[i] = p.cum[i-1] + p.pts[i-1].Dist(p.pts[i])
	}
	return p
}

// RectOutline returns the closed outline of r, clockwise from its min corner.
func RectOutline(r Rect) Polyline {
	c := r.Corners()
	return NewPolyline(c[0], c[1], c[2], c[3], c[0])
}

// Length returns the total arc length.
func (p Polyline) Length() float64 {
	if len(p.cum) == 0 {
		return 0
	}
	return p.cum[len(p.cum)-1]
}

// PointAt returns the point at arc length s from the first vertex. s is
// clamped to [0, Length()].
func (p Polyline) PointAt(s float64) Pt {
	n := len(p.pts)
	switch {
	case n == 0:
		return Pt{}
	case n == 1 || s <= 0:
		return p.pts[0]
	case s >= p.Length():
		return p.pts[n-1]
	}
	// first vertex at or beyond s; the point lies on the edge ending there
	i := sort.SearchFloat64s(p.cum, s)
	if p.cum[i] == s {
		return p.pts[i]
	}
	edge := p.cum[i] - p.cum[i-1]
	if edge == 0 {
		return p.pts[i]
	}
	return Lerp(p.pts[i-1], p.pts[i], (s-p.cum[i-1])/edge)
}

// Vertices returns a copy of the vertices.
func (p Polyline) Vertices() []Pt { return append([]Pt(nil), p.pts...) }

// Segment is a straight two-point curve from A to B.
type Segment struct{ A, B Pt }

func (s Segment) Length() float64 { return s.A.Dist(s.B) }

// PointAt returns the point at arc length d from A, clamped to the segment.
func (s Segment) PointAt(d float64) Pt {
	l := s.Length()
	if l == 0 || d <= 0 {
		return s.A
	}
	if d >= l {
		return s.B
	}
	return Lerp(s.A, s.B, d/l)
}

func (s Segment) Vertices() []Pt { return []Pt{s.A, s.B} }
