/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package imageio

import (
	"image"
	"image/color"
)

// GenerateSample renders a synthetic test card: a two-axis color gradient
// with a grid every 100 pixels and a border. It gives users something to
// crop without picking a file, and gives tests a deterministic source.
func GenerateSample(w, h int) *Source {
	if w <= 0 {
		w = 1000
	}
	if h <= 0 {
		h = 750
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := uint8(255 * x / w)
			g := uint8(255 * y / h)
			b := uint8(255 - (255*(x+y))/(w+h))
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	grid := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			onGrid := x%100 == 0 || y%100 == 0
			onBorder := x == 0 || y == 0 || x == w-1 || y == h-1
			if onGrid || onBorder {
				img.SetNRGBA(x, y, grid)
			}
		}
	}
	return fromImage(img, "sample")
}
