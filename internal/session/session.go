/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session holds the per-image editing state: the loaded source, the
// crop rectangle, zoom, rotation, and the selected aspect ratio. It is the
// single writer of that state; the UI reads snapshots and feeds pointer
// events through it into the crop engine.
//
// The session is a two-state machine. Empty means no image is loaded;
// Editing means a source is present and a transform is active. Loading an
// image always resets the transform — there is no image swap that preserves
// crop state.
package session

import (
	"log/slog"

	"cropdesk/internal/crop"
	"cropdesk/internal/geom"
	"cropdesk/internal/imageio"
	applog "cropdesk/internal/log"
)

// State enumerates the session lifecycle.
type State int

const (
	Empty State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "empty"
}

// Zoom and rotation limits for the transform state.
const (
	ZoomMin = 0.5
	ZoomMax = 3.0

	RotationMin = -180
	RotationMax = 180
)

// Params fixes the display-space geometry for the lifetime of a session.
type Params struct {
	Container geom.Size
	MinCrop   float32
}

// Transform is the per-image state snapshot handed to the UI and the mapper.
type Transform struct {
	Crop        geom.Rect
	Zoom        float32
	RotationDeg int
	Ratio       geom.AspectRatio
}

// Session orchestrates the crop engine for one image at a time. All methods
// run on the UI event loop; the session is not safe for concurrent use.
type Session struct {
	params  Params
	state   State
	src     *imageio.Source
	tf      Transform
	gesture *crop.Gesture
	log     *slog.Logger

	// OnChanged, when set, fires after every state mutation so the UI can
	// re-render the overlay and preview.
	OnChanged func()
}

func New(p Params) *Session {
	if p.MinCrop <= 0 {
		p.MinCrop = 50
	}
	return &Session{params: p, log: applog.WithComponent("session")}
}

func (s *Session) State() State           { return s.state }
func (s *Session) Params() Params         { return s.params }
func (s *Session) Transform() Transform   { return s.tf }
func (s *Session) Source() *imageio.Source { return s.src }

func (s *Session) notify() {
	if s.OnChanged != nil {
		s.OnChanged()
	}
}

// Load installs a new source image and resets the transform: centered default
// crop, zoom 1, no rotation, Free ratio. Load on an already-editing session
// behaves identically; prior state is discarded.
func (s *Session) Load(src *imageio.Source) {
	s.src = src
	s.state = Editing
	s.gesture = nil
	s.tf = Transform{
		Crop:  crop.DefaultRect(s.params.Container, s.params.MinCrop),
		Zoom:  1,
		Ratio: geom.FreeRatio,
	}
	s.log.Info("image loaded",
		slog.String("origin", src.Origin),
		slog.Int("w", src.Width), slog.Int("h", src.Height))
	s.notify()
}

// Clear drops the image and returns to Empty.
func (s *Session) Clear() {
	s.src = nil
	s.state = Empty
	s.gesture = nil
	s.tf = Transform{}
	s.log.Info("session cleared")
	s.notify()
}

// SetZoom clamps into [ZoomMin, ZoomMax]. No-op while Empty.
func (s *Session) SetZoom(z float32) {
	if s.state != Editing {
		return
	}
	s.tf.Zoom = geom.Clamp(z, ZoomMin, ZoomMax)
	s.notify()
}

// SetRotation clamps into [RotationMin, RotationMax] degrees.
func (s *Session) SetRotation(deg int) {
	if s.state != Editing {
		return
	}
	if deg < RotationMin {
		deg = RotationMin
	}
	if deg > RotationMax {
		deg = RotationMax
	}
	s.tf.RotationDeg = deg
	s.notify()
}

// SetRatio selects an aspect ratio and retargets the crop rectangle through
// the engine. Gestures in progress keep their snapshot; the new ratio applies
// from the next pointer event.
func (s *Session) SetRatio(r geom.AspectRatio) {
	if s.state != Editing {
		return
	}
	s.tf.Ratio = r
	s.tf.Crop = crop.ApplyAspectRatio(r, s.tf.Crop, s.params.Container, s.params.MinCrop)
	s.notify()
}

// PointerDown begins a gesture. A stray PointerDown while one is active
// replaces it; the engine only ever tracks a single gesture.
func (s *Session) PointerDown(h crop.Handle, p geom.Pt) {
	if s.state != Editing {
		return
	}
	g := crop.BeginGesture(h, p, s.tf.Crop)
	s.gesture = &g
}

// PointerMove recomputes the crop rectangle from the gesture snapshot.
func (s *Session) PointerMove(p geom.Pt) {
	if s.state != Editing || s.gesture == nil {
		return
	}
	s.tf.Crop = crop.UpdateGesture(*s.gesture, p, s.tf.Ratio, s.params.Container, s.params.MinCrop)
	s.notify()
}

// PointerUp discards the gesture snapshot, committing the last computed
// rectangle. There is no revert path.
func (s *Session) PointerUp() {
	s.gesture = nil
}

// Dragging reports whether a gesture is in progress.
func (s *Session) Dragging() bool { return s.gesture != nil }

// SourceRegion maps the current crop rectangle to source pixel coordinates
// for preview rendering. Zero rect while Empty.
func (s *Session) SourceRegion() geom.Rect {
	if s.state != Editing {
		return geom.Rect{}
	}
	return crop.MapToSource(s.tf.Crop, s.tf.Zoom, s.params.Container,
		geom.Size{W: float32(s.src.Width), H: float32(s.src.Height)})
}

// PreviewSize derives the preview canvas size for the current crop.
func (s *Session) PreviewSize() geom.Size {
	r := s.SourceRegion()
	return crop.OutputSize(geom.Size{W: r.W, H: r.H}, crop.PreviewBudget)
}
