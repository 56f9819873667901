/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	raster "golang.org/x/image/vector"

	"paperfold/internal/sketch"
	"paperfold/internal/vector"
)

const circleSteps = 32

// RenderImage rasterizes the session with anti-aliased strokes.
func RenderImage(s *sketch.Session, opt Options) (*image.RGBA, error) {
	sc, err := sceneOf(s)
	if err != nil {
		return nil, err
	}
	opt = opt.withDefaults()
	scale := opt.DPI / 72.0
	pixW := int(math.Round(sc.size.W * scale))
	pixH := int(math.Round(sc.size.H * scale))
	if pixW <= 0 || pixH <= 0 {
		return nil, fmt.Errorf("empty canvas %gx%g", sc.size.W, sc.size.H)
	}

	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), image.NewUniform(toRGBA(opt.Background)), image.Point{}, draw.Src)

	r := &painter{dst: img, scale: scale, z: raster.NewRasterizer(pixW, pixH)}
	for _, sh := range sc.shapes {
		st := opt.strokeFor(sh.Kind)
		if st.Hidden {
			continue
		}
		pts := sh.Geometry.Vertices()
		for i := 1; i < len(pts); i++ {
			r.line(pts[i-1], pts[i], st)
		}
	}

	if opt.IncludeIndicator {
		ind := sc.indicator
		if ind.HasSource {
			st := opt.SegmentStroke
			st.Color = opt.SourceColor
			r.line(ind.Source, ind.LineEnd, st)
			r.ring(ind.Source, opt.IndicatorRadius, 1, opt.SourceColor)
		}
		if ind.HasSnap {
			r.ring(ind.Snap, opt.IndicatorRadius, 1, opt.SnapColor)
		}
	}

	if opt.Caption {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.RGBA{A: 255}),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(4, pixH-4),
		}
		d.DrawString(sc.caption())
	}
	return img, nil
}

// WritePNG encodes the rasterized session to w.
func WritePNG(w io.Writer, s *sketch.Session, opt Options) error {
	img, err := RenderImage(s, opt)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PNGFile writes the rasterized session to path, creating parent directories.
func PNGFile(path string, s *sketch.Session, opt Options) error {
	return writeFile(path, func(f *os.File) error { return WritePNG(f, s, opt) })
}

func toRGBA(c vector.Color) color.RGBA {
	// color.RGBA is alpha-premultiplied
	a := uint32(c.A)
	return color.RGBA{R: uint8(uint32(c.R) * a / 255), G: uint8(uint32(c.G) * a / 255), B: uint8(uint32(c.B) * a / 255), A: c.A}
}

// painter fills polygons in canvas units onto dst.
type painter struct {
	dst   *image.RGBA
	scale float64
	z     *raster.Rasterizer
}

func (p *painter) fill(c vector.Color, paths ...[]vector.Pt) {
	b := p.dst.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
	p.z.DrawOp = draw.Over
	for _, pts := range paths {
		if len(pts) < 3 {
			continue
		}
		p.z.MoveTo(float32(pts[0].X*p.scale), float32(pts[0].Y*p.scale))
		for _, q := range pts[1:] {
			p.z.LineTo(float32(q.X*p.scale), float32(q.Y*p.scale))
		}
		p.z.ClosePath()
	}
	p.z.Draw(p.dst, b, image.NewUniform(toRGBA(c)), image.Point{})
}

// line strokes a to b as a quad; round caps extend it by half the width.
// Strokes narrower than one pixel are widened to one pixel.
func (p *painter) line(a, b vector.Pt, st vector.Stroke) {
	d := b.Sub(a)
	l := a.Dist(b)
	if l == 0 {
		return
	}
	w := math.Max(st.Width, 1/p.scale)
	u := d.Scale(1 / l)
	n := vector.Pt{X: -u.Y, Y: u.X}.Scale(w / 2)
	if st.Cap == vector.CapRound {
		a = a.Sub(u.Scale(w / 2))
		b = b.Add(u.Scale(w / 2))
	}
	p.fill(st.Color, []vector.Pt{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
}

// ring draws a circle outline of the given radius and width around c.
func (p *painter) ring(c vector.Pt, radius, width float64, col vector.Color) {
	outer := circle(c, radius+width/2, false)
	inner := circle(c, math.Max(radius-width/2, 0), true)
	p.fill(col, outer, inner)
}

func circle(c vector.Pt, r float64, reverse bool) []vector.Pt {
	pts := make([]vector.Pt, circleSteps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSteps
		if reverse {
			a = -a
		}
		pts[i] = vector.Pt{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return pts
}
