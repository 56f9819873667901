/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "paperfold/internal/vector"

// A journal is the ordered list of pointer events a sketch session received.
// Replaying it into a fresh session with the same options reproduces the same
// shapes, which makes it the unit of bug reports and batch rendering.
//
// Text form, one event per line:
//
//	move <x> <y>
//	click
//
// Lines starting with "#" or ";" are comments; blank lines are ignored.

// EventKind distinguishes pointer events.
type EventKind int

const (
	Move EventKind = iota
	Click
)

func (k EventKind) String() string {
	if k == Click {
		return "click"
	}
	return "move"
}

// Event is one pointer event. At is only meaningful for Move.
type Event struct {
	Kind   EventKind
	At     vector.Pt
	LineNo int // 1-based source line when parsed; 0 when recorded live
}

// MoveTo and ClickEvent are shorthands for building journals in code.
func MoveTo(x, y float64) Event { return Event{Kind: Move, At: vector.P(x, y)} }
func ClickEvent() Event         { return Event{Kind: Click} }

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string {
	return "line " + itoa(e.Line) + ":" + itoa(e.Column) + ": " + e.Message
}
