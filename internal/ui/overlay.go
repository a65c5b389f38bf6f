/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui provides the desktop shell. The crop-overlay hit geometry lives
// here without build tags so it compiles and tests headlessly.
package ui

import (
	"cropdesk/internal/crop"
	"cropdesk/internal/geom"
)

// HandleOrder is the stable draw and hit-test order for the resize handles.
// Corners come first so they win over edges where the squares overlap.
var HandleOrder = []crop.Handle{
	crop.NorthWest, crop.NorthEast, crop.SouthWest, crop.SouthEast,
	crop.North, crop.South, crop.East, crop.West,
}

// handleCenter returns the anchor point of h on the crop rectangle r.
func handleCenter(h crop.Handle, r geom.Rect) geom.Pt {
	cx := r.X + r.W/2
	cy := r.Y + r.H/2
	switch h {
	case crop.North:
		return geom.Pt{X: cx, Y: r.Y}
	case crop.South:
		return geom.Pt{X: cx, Y: r.Y + r.H}
	case crop.East:
		return geom.Pt{X: r.X + r.W, Y: cy}
	case crop.West:
		return geom.Pt{X: r.X, Y: cy}
	case crop.NorthEast:
		return geom.Pt{X: r.X + r.W, Y: r.Y}
	case crop.NorthWest:
		return geom.Pt{X: r.X, Y: r.Y}
	case crop.SouthEast:
		return geom.Pt{X: r.X + r.W, Y: r.Y + r.H}
	case crop.SouthWest:
		return geom.Pt{X: r.X, Y: r.Y + r.H}
	default:
		return geom.Pt{X: cx, Y: cy}
	}
}

// HandleRect returns the square of side size centered on handle h of r.
func HandleRect(h crop.Handle, r geom.Rect, size float32) geom.Rect {
	c := handleCenter(h, r)
	return geom.R(c.X-size/2, c.Y-size/2, size, size)
}

// HitHandle resolves a pointer position against the crop rectangle. Handles
// are checked in HandleOrder; a point inside the rectangle body resolves to
// Move. The boolean is false when the point touches neither.
func HitHandle(r geom.Rect, p geom.Pt, size float32) (crop.Handle, bool) {
	for _, h := range HandleOrder {
		if HandleRect(h, r, size).Contains(p) {
			return h, true
		}
	}
	if r.Contains(p) {
		return crop.Move, true
	}
	return crop.Move, false
}
