/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render turns a mapped source region into preview and export pixels.
// It is the only place that touches image data; the crop engine stays pure
// geometry.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"cropdesk/internal/geom"
)

// PixelRegion converts a float source region to integer pixel bounds,
// rounding outward minimally and intersecting with the image bounds so the
// crop never samples outside the source.
func PixelRegion(r geom.Rect, bounds image.Rectangle) image.Rectangle {
	x0 := int(math.Floor(float64(r.X)))
	y0 := int(math.Floor(float64(r.Y)))
	x1 := int(math.Ceil(float64(r.X + r.W)))
	y1 := int(math.Ceil(float64(r.Y + r.H)))
	return image.Rect(x0, y0, x1, y1).Intersect(bounds)
}

// Preview renders the cropped sub-region scaled into the output box, then
// rotates the result around its center. The sampling window itself is never
// rotated; rotation is a display transform on the rendered pixels.
func Preview(src image.Image, region geom.Rect, out geom.Size, rotationDeg int) image.Image {
	px := PixelRegion(region, src.Bounds())
	if px.Empty() || out.W < 1 || out.H < 1 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	img := imaging.Crop(src, px)
	img = imaging.Resize(img, int(out.W+0.5), int(out.H+0.5), imaging.Lanczos)
	if rotationDeg != 0 {
		// imaging rotates counter-clockwise for positive angles; the UI
		// slider treats positive as clockwise.
		img = imaging.Rotate(img, -float64(rotationDeg), color.Transparent)
	}
	return img
}

// Crop extracts the mapped region from the source at full resolution,
// applying the same display rotation. Used by the export path.
func Crop(src image.Image, region geom.Rect, rotationDeg int) image.Image {
	px := PixelRegion(region, src.Bounds())
	if px.Empty() {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	img := imaging.Crop(src, px)
	if rotationDeg != 0 {
		img = imaging.Rotate(img, -float64(rotationDeg), color.Transparent)
	}
	return img
}

// Thumbnail scales the image down so its longer side is at most maxSide,
// for the recent-images store. Small images pass through unscaled.
func Thumbnail(src image.Image, maxSide int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return src
	}
	var tw, th int
	if w >= h {
		tw = maxSide
		th = h * maxSide / w
	} else {
		th = maxSide
		tw = w * maxSide / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
