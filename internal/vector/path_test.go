/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestRectOutline_LengthAndPoints(t *testing.T) {
	p := RectOutline(R(10, 10, 780, 580))
	if got, want := p.Length(), 2*(780.0+580.0); got != want {
		t.Fatalf("Length = %v, want %v", got, want)
	}
	if v := p.Vertices(); len(v) != 5 || v[0] != v[4] {
		t.Fatalf("rect outline should be closed, got %v", v)
	}
	cases := []struct {
		s    float64
		want Pt
	}{
		{0, Pt{10, 10}},
		{390, Pt{400, 10}},
		{780, Pt{790, 10}},
		{780 + 290, Pt{790, 300}},
		{2140 + 290, Pt{10, 300}},
		{2720, Pt{10, 10}},
		{-5, Pt{10, 10}},
		{9999, Pt{10, 10}},
	}
	for _, c := range cases {
		if got := p.PointAt(c.s); !got.Eq(c.want, 1e-9) {
			t.Fatalf("PointAt(%v) = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestPolyline_Degenerate(t *testing.T) {
	single := NewPolyline(Pt{3, 4})
	if single.Length() != 0 {
		t.Fatalf("single point polyline should have zero length")
	}
	if got := single.PointAt(10); got != (Pt{3, 4}) {
		t.Fatalf("PointAt on single point = %v", got)
	}
	var empty Polyline
	if empty.Length() != 0 || empty.PointAt(1) != (Pt{}) {
		t.Fatalf("empty polyline should be zero")
	}
	dup := NewPolyline(Pt{0, 0}, Pt{0, 0}, Pt{10, 0})
	if got := dup.PointAt(5); got != (Pt{5, 0}) {
		t.Fatalf("PointAt across zero-length edge = %v", got)
	}
}

func TestPolyline_VerticesAreCopies(t *testing.T) {
	src := []Pt{{0, 0}, {1, 1}}
	p := NewPolyline(src...)
	src[0] = Pt{9, 9}
	v := p.Vertices()
	v[1] = Pt{7, 7}
	if got := p.Vertices(); got[0] != (Pt{0, 0}) || got[1] != (Pt{1, 1}) {
		t.Fatalf("polyline vertices were mutated: %v", got)
	}
}

func TestSegment_PointAt(t *testing.T) {
	s := Segment{A: Pt{0, 0}, B: Pt{30, 40}}
	if s.Length() != 50 {
		t.Fatalf("Length = %v, want 50", s.Length())
	}
	if got := s.PointAt(25); !got.Eq(Pt{15, 20}, 1e-9) {
		t.Fatalf("PointAt(25) = %v", got)
	}
	if got := s.PointAt(100); got != s.B {
		t.Fatalf("PointAt past end = %v, want %v", got, s.B)
	}
	z := Segment{A: Pt{2, 2}, B: Pt{2, 2}}
	if z.Length() != 0 || z.PointAt(1) != z.A {
		t.Fatalf("zero-length segment mis-evaluated")
	}
}

func TestStrokeOr(t *testing.T) {
	def := Stroke{Color: Black, Width: 1}
	if got := (Stroke{}).Or(def); got != def {
		t.Fatalf("zero stroke should fall back to default, got %+v", got)
	}
	got := Stroke{Width: 3}.Or(def)
	if got.Width != 3 || got.Color != Black {
		t.Fatalf("expected width kept and color defaulted, got %+v", got)
	}
	if got := (Stroke{Hidden: true}).Or(def); !got.Hidden || got.Width != 1 {
		t.Fatalf("hidden flag lost on fallback, got %+v", got)
	}
}
