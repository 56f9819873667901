/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package proximity finds the point on a set of curves closest to a query point.
//
// Curves are opaque: the search only evaluates them by arc length. A coarse
// uniform scan picks the best sample, then an adaptive step hill-climb refines
// it. The refinement converges to a local minimum of the distance along the
// curve, so the coarse step must stay below half the smallest feature of the
// curve for the result to be the global one. CoarseStep and Precision trade
// precision for evaluations and are kept tunable for that reason.
package proximity

import (
	"math"

	"paperfold/internal/vector"
)

const (
	// DefaultCoarseStep is the arc-length spacing of the coarse scan.
	DefaultCoarseStep = 8.0
	// DefaultPrecision is the refinement step at which the search stops.
	// It is in curve units and does not scale with curve length.
	DefaultPrecision = 0.5
	// DefaultThreshold is the snapping radius used by interactive callers.
	DefaultThreshold = 10.0
)

// Curve is anything that can be evaluated by arc length. Both methods must be
// deterministic and free of side effects for a given curve.
type Curve interface {
	Length() float64
	PointAt(s float64) vector.Pt
}

// Options tunes the search. Zero, negative and non-finite values select the
// defaults.
type Options struct {
	CoarseStep float64
	Precision  float64
}

func (o Options) normalized() Options {
	if !usable(o.CoarseStep) {
		o.CoarseStep = DefaultCoarseStep
	}
	if !usable(o.Precision) {
		o.Precision = DefaultPrecision
	}
	return o
}

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Result is the closest point found on one curve.
type Result struct {
	Point    vector.Pt
	Distance float64
	// Length is the arc-length position of Point on its curve.
	Length float64
	// Curve is the index of the curve in the slice passed to FindClosest.
	Curve int
}

// Closest returns the point on c nearest to q. Squared distances are compared
// throughout and the square root is taken once at the end.
func Closest(c Curve, q vector.Pt, opts Options) Result {
	opts = opts.normalized()
	total := c.Length()
	if !(total > 0) || math.IsInf(total, 1) {
		total = 0
	}

	// coarse scan, endpoint inclusive; a zero-length curve yields one sample
	best := c.PointAt(0)
	bestLen := 0.0
	bestD2 := best.Dist2(q)
	last := 0.0
	for i := 1; ; i++ {
		s := float64(i) * opts.CoarseStep
		if s > total {
			break
		}
		if p := c.PointAt(s); p.Dist2(q) < bestD2 {
			best, bestLen, bestD2 = p, s, p.Dist2(q)
		}
		last = s
	}
	if last < total {
		if p := c.PointAt(total); p.Dist2(q) < bestD2 {
			best, bestLen, bestD2 = p, total, p.Dist2(q)
		}
	}

	// refine: keep the step while it improves, halve it otherwise
	for h := opts.CoarseStep / 2; h > opts.Precision; {
		if before := bestLen - h; before >= 0 {
			if p := c.PointAt(before); p.Dist2(q) < bestD2 {
				best, bestLen, bestD2 = p, before, p.Dist2(q)
				continue
			}
		}
		if after := bestLen + h; after <= total {
			if p := c.PointAt(after); p.Dist2(q) < bestD2 {
				best, bestLen, bestD2 = p, after, p.Dist2(q)
				continue
			}
		}
		h /= 2
	}

	return Result{Point: best, Distance: math.Sqrt(bestD2), Length: bestLen}
}

// FindClosest returns, in curve order, the closest point of every curve whose
// distance to q is strictly below threshold. A non-positive threshold excludes
// everything; no curves yields no results.
func FindClosest(curves []Curve, q vector.Pt, threshold float64, opts Options) []Result {
	var out []Result
	for i, c := range curves {
		r := Closest(c, q, opts)
		if r.Distance < threshold {
			r.Curve = i
			out = append(out, r)
		}
	}
	return out
}
