/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crop implements the interactive crop-geometry engine: gesture-driven
// rectangle resizing with aspect-ratio locking, ratio retargeting, bounds
// clamping, and the display-to-source coordinate mapping used for previews.
//
// Every operation is a pure function over immutable snapshots. Inputs are
// assumed well-formed; out-of-range pointer positions are legal and simply
// produce a clamped rectangle, never an error.
package crop

import "cropdesk/internal/geom"

// Gesture is the immutable snapshot taken at pointer-down. It lives for one
// drag; UpdateGesture reads it and never mutates it.
type Gesture struct {
	Handle Handle
	Start  geom.Pt   // pointer position at pointer-down
	Rect   geom.Rect // crop rectangle at pointer-down
}

// BeginGesture captures the rectangle and pointer position at drag start.
func BeginGesture(h Handle, pointer geom.Pt, current geom.Rect) Gesture {
	return Gesture{Handle: h, Start: pointer, Rect: current}
}

// UpdateGesture computes the crop rectangle for the current pointer position.
//
// Move drags translate the start rectangle and clamp it into the container.
// Resize drags map the pointer deltas onto width/height per the handle table,
// floor both dimensions at minSize, apply ratio coupling when the selected
// ratio is constrained, restore the anchored edges, and finally clamp:
// position first, then size. The clamp order means a rectangle can be shrunk
// against a container edge but never pushed out of bounds.
func UpdateGesture(g Gesture, pointer geom.Pt, ratio geom.AspectRatio, container geom.Size, minSize float32) geom.Rect {
	dx := pointer.X - g.Start.X
	dy := pointer.Y - g.Start.Y
	r0 := g.Rect

	if g.Handle == Move {
		x := geom.Clamp(r0.X+dx, 0, container.W-r0.W)
		y := geom.Clamp(r0.Y+dy, 0, container.H-r0.H)
		return geom.R(x, y, r0.W, r0.H)
	}

	spec := edgeSpecs[g.Handle]
	w, h := r0.W, r0.H
	if spec.wSign != 0 {
		w = r0.W + spec.wSign*dx
	}
	if spec.hSign != 0 {
		h = r0.H + spec.hSign*dy
	}
	if w < minSize {
		w = minSize
	}
	if h < minSize {
		h = minSize
	}

	centerX := false
	if !ratio.Free() {
		switch {
		case spec.wSign != 0 && spec.hSign != 0:
			// Corner handles: whichever dimension the drag changed more
			// drives the other. The tie-break keeps diagonal drags from
			// oscillating when both deltas are non-zero.
			if abs(w-r0.W) >= abs(h-r0.H) {
				h = w / ratio.Ratio
			} else {
				w = h * ratio.Ratio
			}
		case spec.wSign != 0:
			// East/west edges: width leads, height follows.
			h = w / ratio.Ratio
		default:
			// North/south edges: height leads; the rectangle stays
			// horizontally centered on its pre-drag center.
			w = h * ratio.Ratio
			centerX = true
		}
		// Re-deriving a dimension can drop it under the floor; rescale both
		// together so the minimum holds without breaking the lock.
		if s := maxf(minSize/w, minSize/h); s > 1 {
			w *= s
			h *= s
		}
	}

	x, y := r0.X, r0.Y
	if spec.anchorRight {
		x = r0.X + r0.W - w
	}
	if spec.anchorBottom {
		y = r0.Y + r0.H - h
	}
	if centerX {
		x = r0.X + r0.W/2 - w/2
	}

	x = geom.Clamp(x, 0, container.W-minSize)
	y = geom.Clamp(y, 0, container.H-minSize)
	if w > container.W-x {
		w = container.W - x
	}
	if h > container.H-y {
		h = container.H - y
	}
	return geom.R(x, y, w, h)
}

// ApplyAspectRatio retargets the crop rectangle to a newly selected ratio
// outside of a drag. The current width is preserved and the height derived
// from it; if either derived dimension exceeds 80% of the container, both are
// scaled down together so the result fits. Deriving from a narrow rectangle
// can drop a dimension under minSize, so both are rescaled up together the
// same way UpdateGesture holds the floor during a locked drag. The rectangle
// is re-centered on its previous center and clamped into the container.
// Unconstrained ratios leave the rectangle unchanged. The operation is
// idempotent.
func ApplyAspectRatio(ratio geom.AspectRatio, current geom.Rect, container geom.Size, minSize float32) geom.Rect {
	if ratio.Free() {
		return current
	}
	c := current.Center()
	w := current.W
	h := w / ratio.Ratio

	// Grow-then-shrink-to-fit: the strict > means a dimension sitting exactly
	// on the 80% boundary is left alone.
	if maxH := 0.8 * container.H; h > maxH {
		w *= maxH / h
		h = maxH
	}
	if maxW := 0.8 * container.W; w > maxW {
		h *= maxW / w
		w = maxW
	}

	// The minimum is a hard floor, so it applies after the 80% preference.
	if s := maxf(minSize/w, minSize/h); s > 1 {
		w *= s
		h *= s
	}

	x := geom.Clamp(c.X-w/2, 0, container.W-w)
	y := geom.Clamp(c.Y-h/2, 0, container.H-h)
	return geom.R(x, y, w, h)
}

// DefaultRect returns the centered starting crop rectangle used after an
// image load: 60% of the container in both dimensions, floored at minSize.
func DefaultRect(container geom.Size, minSize float32) geom.Rect {
	w := container.W * 0.6
	h := container.H * 0.6
	if w < minSize {
		w = minSize
	}
	if h < minSize {
		h = minSize
	}
	return geom.R((container.W-w)/2, (container.H-h)/2, w, h)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
