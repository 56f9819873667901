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
	"fmt"
	"io"
	"math"
	"os"

	"paperfold/internal/sketch"
	"paperfold/internal/vector"
)

// WriteSVG writes the session as an SVG document. Each shape becomes an
// element whose id is the shape ID.
func WriteSVG(w io.Writer, s *sketch.Session, opt Options) error {
	sc, err := sceneOf(s)
	if err != nil {
		return err
	}
	opt = opt.withDefaults()
	scale := opt.DPI / 72.0
	pxW := int(math.Round(sc.size.W * scale))
	pxH := int(math.Round(sc.size.H * scale))

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %g %g\">\n", pxW, pxH, sc.size.W, sc.size.H)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", sc.size.W, sc.size.H, svgColor(opt.Background))

	for _, sh := range sc.shapes {
		st := opt.strokeFor(sh.Kind)
		if st.Hidden {
			continue
		}
		pts := sh.Geometry.Vertices()
		switch {
		case len(pts) == 2:
			wf("  <line id=\"%s\" class=\"%s\" x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" %s/>\n",
				escAttr(sh.ID), sh.Kind, pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, svgStroke(st))
		case len(pts) > 2:
			wf("  <polyline id=\"%s\" class=\"%s\" points=\"%s\" fill=\"none\" %s/>\n",
				escAttr(sh.ID), sh.Kind, svgPoints(pts), svgStroke(st))
		}
	}

	if opt.IncludeIndicator {
		ind := sc.indicator
		r := opt.IndicatorRadius
		wf("  <g id=\"indicator\">\n")
		if ind.HasSource {
			sw := opt.SegmentStroke
			sw.Color = opt.SourceColor
			wf("    <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke-dasharray=\"4 3\" %s/>\n",
				ind.Source.X, ind.Source.Y, ind.LineEnd.X, ind.LineEnd.Y, svgStroke(sw))
			wf("    <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"none\" stroke=\"%s\"/>\n", ind.Source.X, ind.Source.Y, r, svgColor(opt.SourceColor))
		}
		if ind.HasSnap {
			wf("    <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"none\" stroke=\"%s\"/>\n", ind.Snap.X, ind.Snap.Y, r, svgColor(opt.SnapColor))
		}
		wf("  </g>\n")
	}

	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// SVGFile writes the session to path, creating parent directories.
func SVGFile(path string, s *sketch.Session, opt Options) error {
	return writeFile(path, func(f *os.File) error { return WriteSVG(f, s, opt) })
}

func svgColor(c vector.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func svgStroke(st vector.Stroke) string {
	capName := "butt"
	if st.Cap == vector.CapRound {
		capName = "round"
	}
	out := fmt.Sprintf("stroke=\"%s\" stroke-width=\"%g\" stroke-linecap=\"%s\"", svgColor(st.Color), st.Width, capName)
	if st.Color.A != 255 {
		out += fmt.Sprintf(" stroke-opacity=\"%g\"", vector.FloatRound(float64(st.Color.A)/255, 3))
	}
	return out
}

func svgPoints(pts []vector.Pt) string {
	var b bytes.Buffer
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%g,%g", p.X, p.Y)
	}
	return b.String()
}

func escAttr(s string) string {
	// naive escaping sufficient for our simple usage
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, '&', 'q', 'u', 'o', 't', ';')
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '\n':
			out = append(out, ' ')
		case '\r':
			// skip
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
