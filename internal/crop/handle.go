/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crop

// Handle identifies which part of the crop rectangle a drag gesture grabbed:
// the body (Move) or one of eight directional resize affordances.
type Handle int

const (
	Move Handle = iota
	North
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

func (h Handle) String() string {
	switch h {
	case Move:
		return "move"
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	case NorthEast:
		return "northeast"
	case NorthWest:
		return "northwest"
	case SouthEast:
		return "southeast"
	case SouthWest:
		return "southwest"
	default:
		return "unknown"
	}
}

// edgeSpec describes, per handle, how pointer deltas map onto the rectangle:
// which dimension each delta feeds (and with which sign), and which edges are
// anchored so the opposite corner/edge stays fixed during the resize.
type edgeSpec struct {
	wSign        float32 // dx multiplier for width: +1 east side, -1 west side, 0 untouched
	hSign        float32 // dy multiplier for height: +1 south side, -1 north side, 0 untouched
	anchorRight  bool    // x is recomputed so the right edge stays fixed
	anchorBottom bool    // y is recomputed so the bottom edge stays fixed
}

// edgeSpecs replaces the eight near-duplicate per-handle branches with one
// generic computation in UpdateGesture. Move is intentionally absent; it does
// not resize.
var edgeSpecs = map[Handle]edgeSpec{
	East:      {wSign: +1},
	West:      {wSign: -1, anchorRight: true},
	North:     {hSign: -1, anchorBottom: true},
	South:     {hSign: +1},
	NorthEast: {wSign: +1, hSign: -1, anchorBottom: true},
	NorthWest: {wSign: -1, hSign: -1, anchorRight: true, anchorBottom: true},
	SouthEast: {wSign: +1, hSign: +1},
	SouthWest: {wSign: -1, hSign: +1, anchorRight: true},
}
