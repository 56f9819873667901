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
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"paperfold/internal/sketch"
	"paperfold/internal/version"
	"paperfold/internal/vector"
)

// WritePDF writes the session as a single-page vector PDF.
// Units are points and one canvas unit maps to one point; the page origin is
// top-left like the canvas.
func WritePDF(w io.Writer, s *sketch.Session, opt Options) error {
	sc, err := sceneOf(s)
	if err != nil {
		return err
	}
	opt = opt.withDefaults()

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: sc.size.W, Ht: sc.size.H},
		OrientationStr: "P",
	})
	pdf.SetTitle("paperfold sketch", false)
	pdf.SetCreator(version.String(), false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	setFillColor(pdf, opt.Background)
	pdf.Rect(0, 0, sc.size.W, sc.size.H, "F")

	for _, sh := range sc.shapes {
		st := opt.strokeFor(sh.Kind)
		if st.Hidden {
			continue
		}
		applyStroke(pdf, st)
		pts := sh.Geometry.Vertices()
		for i := 1; i < len(pts); i++ {
			pdf.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y)
		}
	}

	if opt.IncludeIndicator {
		ind := sc.indicator
		if ind.HasSource {
			st := opt.SegmentStroke
			st.Color = opt.SourceColor
			applyStroke(pdf, st)
			pdf.SetDashPattern([]float64{4, 3}, 0)
			pdf.Line(ind.Source.X, ind.Source.Y, ind.LineEnd.X, ind.LineEnd.Y)
			pdf.SetDashPattern([]float64{}, 0)
			pdf.Circle(ind.Source.X, ind.Source.Y, opt.IndicatorRadius, "D")
		}
		if ind.HasSnap {
			setDrawColor(pdf, opt.SnapColor)
			pdf.SetLineWidth(1)
			pdf.Circle(ind.Snap.X, ind.Snap.Y, opt.IndicatorRadius, "D")
		}
	}

	if opt.Caption {
		// Built-in Helvetica keeps text vector without embedding
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(4, sc.size.H-4, sc.caption())
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// PDFFile writes the session PDF to path, creating parent directories.
func PDFFile(path string, s *sketch.Session, opt Options) error {
	return writeFile(path, func(f *os.File) error { return WritePDF(f, s, opt) })
}

func applyStroke(pdf *gofpdf.Fpdf, st vector.Stroke) {
	setDrawColor(pdf, st.Color)
	pdf.SetLineWidth(st.Width)
	if st.Cap == vector.CapRound {
		pdf.SetLineCapStyle("round")
	} else {
		pdf.SetLineCapStyle("butt")
	}
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
