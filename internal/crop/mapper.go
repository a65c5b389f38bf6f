/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crop

import "cropdesk/internal/geom"

// PreviewBudget is the default preview box size along its longer side,
// in display units.
const PreviewBudget = 200

// MapToSource translates a crop rectangle in display coordinates into source
// image pixel coordinates. The display container shows the source scaled by
// zoom (uniform per axis) and the mapper inverts that scaling.
//
// Rotation is deliberately not applied here: the crop selection is
// independent of the rotation preview, so callers receive the unrotated
// source region and pass the rotation angle to the renderer as a separate
// transform.
func MapToSource(rect geom.Rect, zoom float32, container, source geom.Size) geom.Rect {
	sx := source.W / (container.W * zoom)
	sy := source.H / (container.H * zoom)
	return geom.R(rect.X*sx, rect.Y*sy, rect.W*sx, rect.H*sy)
}

// OutputSize derives the preview canvas size for a source region: the budget
// along the longer side, the other side scaled to preserve the region's
// aspect ratio.
func OutputSize(region geom.Size, budget float32) geom.Size {
	if region.W <= 0 || region.H <= 0 {
		return geom.Size{}
	}
	ar := region.W / region.H
	if ar > 1 {
		return geom.Size{W: budget, H: budget / ar}
	}
	return geom.Size{W: budget * ar, H: budget}
}
