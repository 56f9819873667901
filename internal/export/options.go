/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a snapshot of a sketch session to SVG, PNG and PDF.
// Shapes are drawn in insertion order; the boundary first. Exporters only
// read from the session.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"paperfold/internal/sketch"
	"paperfold/internal/vector"
)

// Options controls rendering. Zero values fall back to DefaultOptions.
//
//nolint:revive // keep options grouped and explicit for clarity
type Options struct {
	// DPI sets the raster density; 72 maps one canvas unit to one pixel.
	DPI              float64
	BoundaryStroke   vector.Stroke
	SegmentStroke    vector.Stroke
	Background       vector.Color
	IncludeIndicator bool
	IndicatorRadius  float64
	SnapColor        vector.Color
	SourceColor      vector.Color
	// Caption prints the shape count in the corner (PNG and PDF).
	Caption bool
}

// DefaultOptions returns black hairline strokes on white at 72 DPI.
func DefaultOptions() Options {
	return Options{
		DPI:             72,
		BoundaryStroke:  vector.Stroke{Color: vector.Color{R: 90, G: 90, B: 90, A: 255}, Width: 1, Cap: vector.CapButt},
		SegmentStroke:   vector.Stroke{Color: vector.Black, Width: 1, Cap: vector.CapRound},
		Background:      vector.White,
		IndicatorRadius: 4,
		SnapColor:       vector.Color{R: 220, G: 40, B: 40, A: 255},
		SourceColor:     vector.Color{R: 40, G: 90, B: 220, A: 255},
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.DPI <= 0 {
		o.DPI = def.DPI
	}
	o.BoundaryStroke = o.BoundaryStroke.Or(def.BoundaryStroke)
	o.SegmentStroke = o.SegmentStroke.Or(def.SegmentStroke)
	if o.Background.IsZero() {
		o.Background = def.Background
	}
	if o.IndicatorRadius <= 0 {
		o.IndicatorRadius = def.IndicatorRadius
	}
	if o.SnapColor.IsZero() {
		o.SnapColor = def.SnapColor
	}
	if o.SourceColor.IsZero() {
		o.SourceColor = def.SourceColor
	}
	return o
}

func (o Options) strokeFor(k sketch.Kind) vector.Stroke {
	if k == sketch.KindBoundary {
		return o.BoundaryStroke
	}
	return o.SegmentStroke
}

// scene is the read-only view of a session the renderers draw from.
type scene struct {
	size      vector.Size
	shapes    []sketch.Shape
	indicator sketch.Indicator
}

var errNilSession = errors.New("session is nil")

func sceneOf(s *sketch.Session) (scene, error) {
	if s == nil {
		return scene{}, errNilSession
	}
	return scene{size: s.Options().Canvas, shapes: s.Shapes(), indicator: s.Indicator()}, nil
}

func (sc scene) caption() string {
	return fmt.Sprintf("paperfold: %d shapes", len(sc.shapes))
}

// writeFile creates the parent directory and writes via fn.
func writeFile(path string, fn func(f *os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}
