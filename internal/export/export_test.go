/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"paperfold/internal/sketch"
	"paperfold/internal/vector"
)

// sampleSession draws one segment across the boundary and leaves the cursor
// snapped to it.
func sampleSession(t *testing.T) *sketch.Session {
	t.Helper()
	s := sketch.New(sketch.DefaultOptions(), nil)
	s.Move(vector.P(12, 300))
	s.Click()
	s.Move(vector.P(788, 300))
	s.Click()
	s.Move(vector.P(400, 303))
	s.Click()
	s.Move(vector.P(400, 200))
	if got := len(s.Shapes()); got != 2 {
		t.Fatalf("sample session has %d shapes, want 2", got)
	}
	return s
}

func TestWriteSVG(t *testing.T) {
	s := sampleSession(t)
	var buf bytes.Buffer
	if err := WriteSVG(&buf, s, Options{IncludeIndicator: true}); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	shapes := s.Shapes()
	for _, want := range []string{
		`width="800px" height="600px" viewBox="0 0 800 600"`,
		`<polyline id="` + shapes[0].ID + `" class="boundary" points="10,10 790,10 790,590 10,590 10,10"`,
		`<line id="` + shapes[1].ID + `" class="segment" x1="10" y1="300" x2="790" y2="300"`,
		`<g id="indicator">`,
		`<circle cx="400" cy="300"`,
		`stroke-dasharray="4 3"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "class=\"boundary\"") > strings.Index(out, "class=\"segment\"") {
		t.Fatalf("boundary must be drawn before segments")
	}
}

func TestWriteSVGWithoutIndicator(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, sampleSession(t), Options{DPI: 144}); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "indicator") {
		t.Fatalf("indicator should be omitted")
	}
	if !strings.Contains(out, `width="1600px" height="1200px"`) {
		t.Fatalf("dpi not applied:\n%s", out)
	}
}

func TestExportersDoNotMutateSession(t *testing.T) {
	s := sampleSession(t)
	shapes := len(s.Shapes())
	events := len(s.Journal())
	ind := s.Indicator()
	var buf bytes.Buffer
	_ = WriteSVG(&buf, s, Options{IncludeIndicator: true})
	_, _ = RenderImage(s, Options{IncludeIndicator: true, Caption: true})
	_ = WritePDF(&buf, s, Options{IncludeIndicator: true, Caption: true})
	if len(s.Shapes()) != shapes || len(s.Journal()) != events || s.Indicator() != ind {
		t.Fatalf("session changed during export")
	}
}

func TestRenderImage(t *testing.T) {
	img, err := RenderImage(sampleSession(t), Options{})
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("bounds = %v", b)
	}
	if c := img.RGBAAt(400, 100); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Fatalf("background pixel = %v, want white", c)
	}
	if c := img.RGBAAt(400, 300); c.R >= 200 {
		t.Fatalf("segment pixel = %v, want dark", c)
	}
	if c := img.RGBAAt(10, 300); c.R >= 255 {
		t.Fatalf("boundary pixel = %v, want ink", c)
	}
}

func inked(img *image.RGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if c := img.RGBAAt(x, y); c.R != 255 || c.G != 255 || c.B != 255 {
				n++
			}
		}
	}
	return n
}

func TestRenderImageCaption(t *testing.T) {
	s := sampleSession(t)
	plain, err := RenderImage(s, Options{})
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	captioned, err := RenderImage(s, Options{Caption: true})
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	area := image.Rect(0, 580, 200, 600)
	if inked(captioned, area) <= inked(plain, area) {
		t.Fatalf("caption did not draw any text")
	}
}

func TestRenderImageIndicator(t *testing.T) {
	s := sampleSession(t)
	s.Move(vector.P(400, 13))
	img, err := RenderImage(s, Options{IncludeIndicator: true})
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	plain, err := RenderImage(s, Options{})
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	// (403,12) lies on the snap ring around (400,10) and off every stroke
	if c := plain.RGBAAt(403, 12); c.G != 255 {
		t.Fatalf("pixel should be background without indicator, got %v", c)
	}
	if c := img.RGBAAt(403, 12); c.G >= 250 || c.R <= c.G {
		t.Fatalf("snap ring pixel = %v, want reddish", c)
	}
}

func TestFilesAreWritten(t *testing.T) {
	s := sampleSession(t)
	dir := filepath.Join(t.TempDir(), "out", "nested")
	files := map[string]func(string) error{
		"sketch.svg": func(p string) error { return SVGFile(p, s, Options{}) },
		"sketch.png": func(p string) error { return PNGFile(p, s, Options{}) },
		"sketch.pdf": func(p string) error { return PDFFile(p, s, Options{}) },
	}
	for name, write := range files {
		p := filepath.Join(dir, name)
		if err := write(p); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		st, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if st.Size() <= 0 {
			t.Fatalf("%s is empty", name)
		}
	}
}

func TestWritePDFHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleSession(t), Options{Caption: true}); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestNilSession(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, nil, Options{}); err == nil {
		t.Fatalf("expected error for nil session")
	}
	if _, err := RenderImage(nil, Options{}); err == nil {
		t.Fatalf("expected error for nil session")
	}
	if err := WritePDF(&buf, nil, Options{}); err == nil {
		t.Fatalf("expected error for nil session")
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{SegmentStroke: vector.Stroke{Width: 3}}.withDefaults()
	if o.DPI != 72 || o.IndicatorRadius != 4 || o.Background != vector.White {
		t.Fatalf("defaults not applied: %#v", o)
	}
	if o.SegmentStroke.Width != 3 || o.SegmentStroke.Color != vector.Black {
		t.Fatalf("stroke width kept and color defaulted expected, got %#v", o.SegmentStroke)
	}
}

func TestHiddenStrokesAreSkipped(t *testing.T) {
	s := sampleSession(t)
	opt := Options{BoundaryStroke: vector.Stroke{Hidden: true}}

	var buf bytes.Buffer
	if err := WriteSVG(&buf, s, opt); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	if strings.Contains(buf.String(), `class="boundary"`) {
		t.Fatalf("hidden boundary written to SVG:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `class="segment"`) {
		t.Fatalf("segment missing from SVG:\n%s", buf.String())
	}

	img, err := RenderImage(s, opt)
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	if c := img.RGBAAt(10, 200); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Fatalf("hidden boundary pixel = %v, want background", c)
	}
	if c := img.RGBAAt(400, 300); c.R >= 200 {
		t.Fatalf("segment pixel = %v, want dark", c)
	}

	buf.Reset()
	if err := WritePDF(&buf, s, opt); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
}

func TestStrokeOrKeepsHidden(t *testing.T) {
	o := Options{SegmentStroke: vector.Stroke{Width: 2, Hidden: true}, BoundaryStroke: vector.Stroke{Hidden: true}}.withDefaults()
	if !o.SegmentStroke.Hidden || o.SegmentStroke.Width != 2 {
		t.Fatalf("segment stroke = %#v", o.SegmentStroke)
	}
	if !o.BoundaryStroke.Hidden || o.BoundaryStroke.Width != 1 {
		t.Fatalf("boundary stroke should take default width and stay hidden, got %#v", o.BoundaryStroke)
	}
}
