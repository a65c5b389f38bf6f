//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based widgets. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"

	"cropdesk/internal/geom"
	"cropdesk/internal/imageio"
	"cropdesk/internal/session"
)

func newTestCanvas() (*CropCanvas, *session.Session) {
	sess := session.New(session.Params{Container: geom.Size{W: 500, H: 375}, MinCrop: 50})
	return NewCropCanvas(sess), sess
}

func TestCropCanvas_Defaults(t *testing.T) {
	cc, _ := newTestCanvas()
	sz := cc.PreferredSize()
	if sz.Width != 640 || sz.Height != 480 {
		t.Fatalf("unexpected PreferredSize: %v", sz)
	}
}

func TestCropCanvas_CoordinateRoundTrip(t *testing.T) {
	cc, sess := newTestCanvas()
	sess.Load(imageio.GenerateSample(0, 0))
	cc.Resize(fyne.NewSize(1000, 750))

	pt := geom.Pt{X: 250, Y: 187.5}
	pos := cc.toScreen(pt)
	back := cc.toContainer(pos)
	if back.X < pt.X-0.5 || back.X > pt.X+0.5 || back.Y < pt.Y-0.5 || back.Y > pt.Y+0.5 {
		t.Fatalf("round trip drifted: %v -> %v -> %v", pt, pos, back)
	}
}

func TestCropCanvas_DragResizesCrop(t *testing.T) {
	cc, sess := newTestCanvas()
	sess.Load(imageio.GenerateSample(0, 0))
	cc.Resize(fyne.NewSize(500, 375)) // 1:1 mapping

	before := sess.Transform().Crop
	// grab the southeast handle and pull it 50px right, 20px down
	start := cc.toScreen(geom.Pt{X: before.X + before.W, Y: before.Y + before.H})
	cc.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(start.X+50, start.Y+20)},
		Dragged:    fyne.NewDelta(50, 20),
	})
	cc.DragEnd()

	after := sess.Transform().Crop
	if after.W <= before.W || after.H <= before.H {
		t.Fatalf("drag did not grow the crop: before %+v after %+v", before, after)
	}
	if sess.Dragging() {
		t.Fatalf("gesture should end on DragEnd")
	}
}

func TestCropCanvas_DragOutsideOverlayIsIgnored(t *testing.T) {
	cc, sess := newTestCanvas()
	sess.Load(imageio.GenerateSample(0, 0))
	cc.Resize(fyne.NewSize(500, 375))

	before := sess.Transform().Crop
	cc.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(5, 5)},
		Dragged:    fyne.NewDelta(2, 2),
	})
	cc.DragEnd()
	if sess.Transform().Crop != before {
		t.Fatalf("drag outside overlay must not change the crop")
	}
}
