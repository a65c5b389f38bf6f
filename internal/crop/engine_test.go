/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crop

import (
	"math"
	"testing"

	"cropdesk/internal/geom"
)

var (
	container = geom.Size{W: 500, H: 375}
	minSize   = float32(50)
)

func approxEq(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-3 }

func rectApproxEq(a, b geom.Rect) bool {
	return approxEq(a.X, b.X) && approxEq(a.Y, b.Y) && approxEq(a.W, b.W) && approxEq(a.H, b.H)
}

func drag(h Handle, r0 geom.Rect, dx, dy float32, ratio geom.AspectRatio) geom.Rect {
	start := geom.Pt{X: 10, Y: 10}
	g := BeginGesture(h, start, r0)
	return UpdateGesture(g, geom.Pt{X: start.X + dx, Y: start.Y + dy}, ratio, container, minSize)
}

func TestSoutheastFreeDrag(t *testing.T) {
	r0 := geom.R(100, 75, 300, 225)
	got := drag(SouthEast, r0, 50, -20, geom.FreeRatio)
	want := geom.R(100, 75, 350, 205)
	if !rectApproxEq(got, want) {
		t.Fatalf("southeast drag = %+v, want %+v", got, want)
	}
}

func TestMoveClampsToContainer(t *testing.T) {
	r0 := geom.R(100, 75, 300, 225)
	got := drag(Move, r0, 5000, 5000, geom.FreeRatio)
	want := geom.R(200, 150, 300, 225)
	if !rectApproxEq(got, want) {
		t.Fatalf("move drag = %+v, want %+v", got, want)
	}
	got = drag(Move, r0, -5000, -5000, geom.FreeRatio)
	want = geom.R(0, 0, 300, 225)
	if !rectApproxEq(got, want) {
		t.Fatalf("move drag = %+v, want %+v", got, want)
	}
}

func TestResizeAnchors(t *testing.T) {
	r0 := geom.R(100, 75, 300, 225)
	cases := []struct {
		handle Handle
		dx, dy float32
		want   geom.Rect
	}{
		{East, 40, 99, geom.R(100, 75, 340, 225)},     // dy ignored, left edge fixed
		{West, 40, 0, geom.R(140, 75, 260, 225)},      // right edge fixed at 400
		{North, 0, 30, geom.R(100, 105, 300, 195)},    // bottom edge fixed at 300
		{South, 0, 30, geom.R(100, 75, 300, 255)},     // top edge fixed
		{NorthEast, 20, -10, geom.R(100, 65, 320, 235)},
		{NorthWest, 20, -10, geom.R(120, 65, 280, 235)},
		{SouthEast, 20, -10, geom.R(100, 75, 320, 215)},
		{SouthWest, 20, -10, geom.R(120, 75, 280, 215)},
	}
	for _, tc := range cases {
		got := drag(tc.handle, r0, tc.dx, tc.dy, geom.FreeRatio)
		if !rectApproxEq(got, tc.want) {
			t.Fatalf("%s drag = %+v, want %+v", tc.handle, got, tc.want)
		}
	}
}

func TestResizeFloorsAtMinSize(t *testing.T) {
	r0 := geom.R(100, 75, 300, 225)
	// Drag the west handle far past the right edge: width floors at minSize
	// and the right edge stays fixed.
	got := drag(West, r0, 1000, 0, geom.FreeRatio)
	if !approxEq(got.W, minSize) {
		t.Fatalf("width = %v, want floor %v", got.W, minSize)
	}
	if !approxEq(got.X+got.W, r0.X+r0.W) {
		t.Fatalf("right edge moved: %v, want %v", got.X+got.W, r0.X+r0.W)
	}
	got = drag(North, r0, 0, 1000, geom.FreeRatio)
	if !approxEq(got.H, minSize) || !approxEq(got.Y+got.H, r0.Y+r0.H) {
		t.Fatalf("north floor: %+v", got)
	}
}

func TestRatioLockEastDerivesHeight(t *testing.T) {
	square := geom.AspectRatio{Name: "1:1", Ratio: 1}
	r0 := geom.R(100, 20, 200, 200)
	got := drag(East, r0, 60, 0, square)
	want := geom.R(100, 20, 260, 260)
	if !rectApproxEq(got, want) {
		t.Fatalf("east ratio drag = %+v, want %+v", got, want)
	}
}

func TestRatioLockNorthRecentersHorizontally(t *testing.T) {
	square := geom.AspectRatio{Name: "1:1", Ratio: 1}
	r0 := geom.R(150, 100, 200, 200)
	got := drag(North, r0, 0, -40, square)
	// height 240, width follows, centered on the pre-drag center x=250
	want := geom.R(130, 60, 240, 240)
	if !rectApproxEq(got, want) {
		t.Fatalf("north ratio drag = %+v, want %+v", got, want)
	}
}

func TestCornerRatioDriverTieBreak(t *testing.T) {
	square := geom.AspectRatio{Name: "1:1", Ratio: 1}
	r0 := geom.R(50, 20, 200, 200)
	// Width changed more: width drives height.
	got := drag(SouthEast, r0, 60, 10, square)
	if !rectApproxEq(got, geom.R(50, 20, 260, 260)) {
		t.Fatalf("width-driven corner drag = %+v", got)
	}
	// Height changed more: height drives width.
	got = drag(SouthEast, r0, 10, 60, square)
	if !rectApproxEq(got, geom.R(50, 20, 260, 260)) {
		t.Fatalf("height-driven corner drag = %+v", got)
	}
}

func TestRatioInvariantDuringDrag(t *testing.T) {
	ratio := geom.AspectRatio{Name: "4:3", Ratio: 4.0 / 3.0}
	r0 := geom.R(150, 120, 160, 120)
	handles := []Handle{North, South, East, West, NorthEast, NorthWest, SouthEast, SouthWest}
	for _, h := range handles {
		for _, d := range []geom.Pt{{X: 15, Y: 10}, {X: -20, Y: 12}, {X: 8, Y: -16}} {
			got := drag(h, r0, d.X, d.Y, ratio)
			if !got.Within(container) {
				t.Fatalf("%s drag left container: %+v", h, got)
			}
			if r := got.W / got.H; !approxEq(r, ratio.Ratio) {
				t.Fatalf("%s drag broke ratio: %v (rect %+v)", h, r, got)
			}
		}
	}
}

func TestBoundsInvariantUnderExtremePointers(t *testing.T) {
	r0 := geom.R(100, 75, 300, 225)
	handles := []Handle{Move, North, South, East, West, NorthEast, NorthWest, SouthEast, SouthWest}
	ratios := []geom.AspectRatio{geom.FreeRatio, {Name: "16:9", Ratio: 16.0 / 9.0}}
	extremes := []geom.Pt{
		{X: -10000, Y: -10000},
		{X: 10000, Y: 10000},
		{X: -10000, Y: 10000},
		{X: 10000, Y: -10000},
	}
	for _, h := range handles {
		for _, ratio := range ratios {
			for _, d := range extremes {
				got := drag(h, r0, d.X, d.Y, ratio)
				if !got.Within(container) {
					t.Fatalf("%s extreme drag out of bounds: %+v", h, got)
				}
				if got.W < minSize || got.H < minSize {
					t.Fatalf("%s extreme drag below min size: %+v", h, got)
				}
			}
		}
	}
}

func TestUpdateGestureDoesNotMutateSnapshot(t *testing.T) {
	r0 := geom.R(100, 75, 300, 225)
	g := BeginGesture(SouthEast, geom.Pt{X: 400, Y: 300}, r0)
	_ = UpdateGesture(g, geom.Pt{X: 450, Y: 280}, geom.FreeRatio, container, minSize)
	if g.Rect != r0 || g.Start.X != 400 || g.Start.Y != 300 {
		t.Fatalf("gesture snapshot mutated: %+v", g)
	}
}

func TestApplyAspectRatioBoundaryExact(t *testing.T) {
	// Derived height lands exactly on the 80% boundary: no shrink occurs.
	square := geom.AspectRatio{Name: "1:1", Ratio: 1}
	got := ApplyAspectRatio(square, geom.R(100, 75, 300, 225), container, minSize)
	want := geom.R(100, 37.5, 300, 300)
	if !rectApproxEq(got, want) {
		t.Fatalf("retarget = %+v, want %+v", got, want)
	}
}

func TestApplyAspectRatioShrinksToFit(t *testing.T) {
	square := geom.AspectRatio{Name: "1:1", Ratio: 1}
	got := ApplyAspectRatio(square, geom.R(0, 0, 450, 300), container, minSize)
	want := geom.R(75, 0, 300, 300)
	if !rectApproxEq(got, want) {
		t.Fatalf("retarget = %+v, want %+v", got, want)
	}
	if !got.Within(container) {
		t.Fatalf("retarget escaped container: %+v", got)
	}
}

func TestApplyAspectRatioHoldsMinSize(t *testing.T) {
	// A west drag pinned at the width floor leaves a 50-wide rectangle.
	// Deriving 16:9 from that width alone would put the height under the
	// floor, so both dimensions must grow together instead.
	wide := geom.AspectRatio{Name: "16:9", Ratio: 16.0 / 9.0}
	narrow := drag(West, geom.R(100, 75, 300, 225), 999, 0, geom.FreeRatio)
	if !approxEq(narrow.W, minSize) {
		t.Fatalf("setup drag width = %v, want %v", narrow.W, minSize)
	}
	got := ApplyAspectRatio(wide, narrow, container, minSize)
	if got.W < minSize-1e-3 || got.H < minSize-1e-3 {
		t.Fatalf("retarget under minimum: %+v", got)
	}
	if !approxEq(got.W/got.H, wide.Ratio) {
		t.Fatalf("retarget ratio = %v, want %v", got.W/got.H, wide.Ratio)
	}
	if !got.Within(container) {
		t.Fatalf("retarget escaped container: %+v", got)
	}
}

func TestApplyAspectRatioFreeUnchanged(t *testing.T) {
	r := geom.R(13, 17, 111, 222)
	if got := ApplyAspectRatio(geom.FreeRatio, r, container, minSize); got != r {
		t.Fatalf("free retarget changed rect: %+v", got)
	}
}

func TestApplyAspectRatioIdempotent(t *testing.T) {
	ratios := []geom.AspectRatio{
		{Name: "1:1", Ratio: 1},
		{Name: "16:9", Ratio: 16.0 / 9.0},
		{Name: "2:3", Ratio: 2.0 / 3.0},
	}
	for _, ratio := range ratios {
		once := ApplyAspectRatio(ratio, geom.R(100, 75, 300, 225), container, minSize)
		twice := ApplyAspectRatio(ratio, once, container, minSize)
		if !rectApproxEq(once, twice) {
			t.Fatalf("%s retarget not idempotent: %+v vs %+v", ratio.Name, once, twice)
		}
	}
}

func TestDefaultRectCentered(t *testing.T) {
	got := DefaultRect(container, minSize)
	want := geom.R(100, 75, 300, 225)
	if !rectApproxEq(got, want) {
		t.Fatalf("default rect = %+v, want %+v", got, want)
	}
	small := DefaultRect(geom.Size{W: 60, H: 60}, minSize)
	if small.W < minSize || small.H < minSize {
		t.Fatalf("default rect below min size: %+v", small)
	}
}
