/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Styles and paint definitions used by the renderers.

type Color struct{ R, G, B, A uint8 }

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
)

// IsZero reports whether c is the zero value, which renderers treat as "use default".
func (c Color) IsZero() bool { return c == Color{} }

type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
)

type Stroke struct {
	Color  Color
	Width  float64
	Cap    LineCap
	// Hidden strokes are skipped by the renderers.
	Hidden bool
}

// Or returns s, or def when s has no width. Hidden is taken from s either way.
func (s Stroke) Or(def Stroke) Stroke {
	if s.Width <= 0 {
		def.Hidden = s.Hidden
		return def
	}
	if s.Color.IsZero() {
		s.Color = def.Color
	}
	return s
}
