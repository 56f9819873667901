/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package proximity

import (
	"fmt"
	"strings"
)

// Pick reduces the per-curve results of FindClosest to the single point a
// caller snaps to.
type Pick int

const (
	// PickFirst takes the first passing curve in insertion order without
	// comparing distances across curves.
	PickFirst Pick = iota
	// PickNearest takes the globally nearest result; ties go to the earlier curve.
	PickNearest
)

func (p Pick) String() string {
	switch p {
	case PickFirst:
		return "first"
	case PickNearest:
		return "nearest"
	default:
		return fmt.Sprintf("Pick(%d)", int(p))
	}
}

// ParsePick converts "first" or "nearest" (case-insensitive) to a Pick.
func ParsePick(s string) (Pick, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return PickFirst, nil
	case "nearest":
		return PickNearest, nil
	}
	return PickFirst, fmt.Errorf("unknown pick policy %q", s)
}

// Reduce selects one result. ok is false when results is empty.
func (p Pick) Reduce(results []Result) (r Result, ok bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	if p != PickNearest {
		return results[0], true
	}
	r = results[0]
	for _, c := range results[1:] {
		if c.Distance < r.Distance {
			r = c
		}
	}
	return r, true
}
