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

package ui

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"cropdesk/internal/config"
	"cropdesk/internal/crash"
	"cropdesk/internal/export"
	"cropdesk/internal/geom"
	"cropdesk/internal/imageio"
	applog "cropdesk/internal/log"
	"cropdesk/internal/presets"
	"cropdesk/internal/recent"
	"cropdesk/internal/render"
	"cropdesk/internal/session"
	"cropdesk/internal/telemetry"
)

// Run starts the Fyne-based desktop editor. Pass an optional image path to
// open immediately.
func Run(imagePath string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	cfg, token, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	cfgDir, _ := config.Dir()
	defer crash.Recover(cfgDir)

	telemetry.InitDefault()
	telemetry.Event(telemetry.EventAppStart, nil)

	fyneApp := app.NewWithID("cropdesk")
	w := fyneApp.NewWindow("CropDesk")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1100)
	winH := prefs.IntWithFallback("window.height", 720)
	if winW < 900 {
		winW = 900
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	sess := session.New(session.Params{
		Container: geom.Size{W: float32(cfg.Editor.ContainerWidth), H: float32(cfg.Editor.ContainerHeight)},
		MinCrop:   float32(cfg.Editor.MinCropSize),
	})

	// Aspect-ratio catalog: built-ins plus user presets from the config dir.
	catalog := geom.Ratios
	if pPath, err := presets.DefaultPath(); err == nil {
		if user, err := presets.Load(pPath); err != nil {
			l.Warn("user presets ignored", slog.Any("err", err))
		} else if len(user) > 0 {
			catalog = presets.Merge(user)
		}
	}

	// Recent-images store; the UI degrades gracefully without it.
	var store *recent.Store
	if rPath, err := recent.DefaultPath(); err == nil {
		if store, err = recent.Open(rPath); err != nil {
			l.Warn("recent store unavailable", slog.Any("err", err))
			store = nil
		} else {
			defer func() { _ = store.Close() }()
		}
	}

	cropCanvas := NewCropCanvas(sess)
	status := widget.NewLabel("No image loaded")

	preview := canvas.NewImageFromImage(nil)
	preview.FillMode = canvas.ImageFillContain
	preview.SetMinSize(fyne.NewSize(float32(cfg.Editor.PreviewBudget), float32(cfg.Editor.PreviewBudget)))

	var recentEntries []recent.Entry
	recentList := widget.NewList(
		func() int { return len(recentEntries) },
		func() fyne.CanvasObject { return widget.NewLabel("origin") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < 0 || i >= len(recentEntries) {
				return
			}
			e := recentEntries[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s (%dx%d)", shortenOrigin(e.Origin), e.Width, e.Height))
		},
	)
	refreshRecent := func() {
		if store == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if es, err := store.List(ctx, 0); err == nil {
			recentEntries = es
			recentList.Refresh()
		}
	}
	refreshRecent()

	fetcher := imageio.NewFetcher(time.Duration(cfg.Remote.TimeoutMs)*time.Millisecond, token)

	loadSource := func(src *imageio.Source, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		sess.Load(src)
		telemetry.Event(telemetry.EventImageLoaded, map[string]any{"w": src.Width, "h": src.Height})
		if store != nil {
			thumb := encodePNG(render.Thumbnail(src.Image, 128))
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := store.Touch(ctx, recent.Entry{
				Origin: src.Origin, Width: src.Width, Height: src.Height, Thumb: thumb,
			}); err != nil {
				l.Warn("recent touch failed", slog.Any("err", err))
			}
			refreshRecent()
		}
	}

	recentList.OnSelected = func(i widget.ListItemID) {
		defer recentList.UnselectAll()
		if i < 0 || i >= len(recentEntries) {
			return
		}
		origin := recentEntries[i].Origin
		switch {
		case origin == "sample":
			loadSource(imageio.GenerateSample(0, 0), nil)
		case strings.HasPrefix(origin, "http://"), strings.HasPrefix(origin, "https://"):
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Remote.TimeoutMs)*time.Millisecond)
			defer cancel()
			loadSource(fetcher.LoadURL(ctx, origin))
		default:
			loadSource(imageio.LoadFile(origin))
		}
	}

	// Transform controls.
	ratioSelect := widget.NewSelect(geom.RatioNames(catalog), func(name string) {
		if r, ok := geom.RatioByName(catalog, name); ok {
			sess.SetRatio(r)
		}
	})
	ratioSelect.SetSelected(geom.FreeRatio.Name)

	zoomValue := widget.NewLabel("1.00x")
	zoomSlider := widget.NewSlider(session.ZoomMin, session.ZoomMax)
	zoomSlider.Step = 0.05
	zoomSlider.Value = 1
	zoomSlider.OnChanged = func(v float64) { sess.SetZoom(float32(v)) }

	rotValue := widget.NewLabel("0°")
	rotSlider := widget.NewSlider(session.RotationMin, session.RotationMax)
	rotSlider.Step = 1
	rotSlider.Value = 0
	rotSlider.OnChanged = func(v float64) { sess.SetRotation(int(v)) }

	resetTransform := widget.NewButton("Reset", func() {
		if src := sess.Source(); src != nil {
			sess.Load(src)
		}
	})

	sess.OnChanged = func() {
		tf := sess.Transform()
		switch sess.State() {
		case session.Editing:
			src := sess.Source()
			region := sess.SourceRegion()
			status.SetText(fmt.Sprintf("%s  |  crop %.0fx%.0f @ (%.0f, %.0f)  |  source region %.0fx%.0f",
				shortenOrigin(src.Origin), tf.Crop.W, tf.Crop.H, tf.Crop.X, tf.Crop.Y, region.W, region.H))
			preview.Image = render.Preview(src.Image, region, sess.PreviewSize(), tf.RotationDeg)
			preview.Refresh()
		default:
			status.SetText("No image loaded")
			preview.Image = nil
			preview.Refresh()
		}
		zoomValue.SetText(fmt.Sprintf("%.2fx", tf.Zoom))
		rotValue.SetText(fmt.Sprintf("%d°", tf.RotationDeg))
		if zoomSlider.Value != float64(tf.Zoom) {
			zoomSlider.Value = float64(tf.Zoom)
			zoomSlider.Refresh()
		}
		if rotSlider.Value != float64(tf.RotationDeg) {
			rotSlider.Value = float64(tf.RotationDeg)
			rotSlider.Refresh()
		}
		cropCanvas.Refresh()
	}

	imgFilter := fstorage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff"})

	openFile := func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			loadSource(imageio.LoadFile(path))
		}, w)
		fd.SetFilter(imgFilter)
		fd.Show()
	}

	openURL := func() {
		entry := widget.NewEntry()
		entry.SetPlaceHolder("https://example.com/image.jpg")
		form := dialog.NewForm("Open URL", "Fetch", "Cancel", []*widget.FormItem{
			widget.NewFormItem("URL", entry),
		}, func(ok bool) {
			if !ok || strings.TrimSpace(entry.Text) == "" {
				return
			}
			url := strings.TrimSpace(entry.Text)
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Remote.TimeoutMs)*time.Millisecond)
			defer cancel()
			loadSource(fetcher.LoadURL(ctx, url))
		}, w)
		form.Resize(fyne.NewSize(480, form.MinSize().Height))
		form.Show()
	}

	// Paste accepts a file path or URL from the clipboard.
	paste := func() {
		text := strings.TrimSpace(w.Clipboard().Content())
		if text == "" {
			dialog.ShowInformation("Paste", "Clipboard is empty.", w)
			return
		}
		if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Remote.TimeoutMs)*time.Millisecond)
			defer cancel()
			loadSource(fetcher.LoadURL(ctx, text))
			return
		}
		if _, err := os.Stat(text); err == nil {
			loadSource(imageio.LoadFile(text))
			return
		}
		dialog.ShowInformation("Paste", "Clipboard does not contain an image path or URL.", w)
	}

	exportAs := func(ext string) {
		src := sess.Source()
		if src == nil {
			dialog.ShowInformation("Export", "Load an image first.", w)
			return
		}
		fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil || wc == nil {
				return
			}
			path := wc.URI().Path()
			_ = wc.Close()
			if !strings.HasSuffix(strings.ToLower(path), ext) {
				path += ext
			}
			out := render.Crop(src.Image, sess.SourceRegion(), sess.Transform().RotationDeg)
			if err := export.Save(out, path, export.JPEGOptions{Quality: cfg.Editor.JPEGQuality}); err != nil {
				dialog.ShowError(err, w)
				return
			}
			telemetry.Event(telemetry.EventCropExported, map[string]any{"format": strings.TrimPrefix(ext, ".")})
			status.SetText("Exported " + path)
		}, w)
		fd.SetFileName("crop" + ext)
		fd.Show()
	}

	toolbar := container.NewHBox(
		widget.NewButton("Open...", openFile),
		widget.NewButton("URL...", openURL),
		widget.NewButton("Paste", paste),
		widget.NewButton("Sample", func() { loadSource(imageio.GenerateSample(0, 0), nil) }),
		widget.NewButton("Clear", sess.Clear),
		widget.NewSeparator(),
		widget.NewButton("Export PNG", func() { exportAs(".png") }),
		widget.NewButton("Export JPEG", func() { exportAs(".jpg") }),
		widget.NewButton("Export PDF", func() { exportAs(".pdf") }),
	)

	controls := container.NewVBox(
		widget.NewLabelWithStyle("Aspect ratio", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		ratioSelect,
		widget.NewLabelWithStyle("Zoom", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, zoomValue, zoomSlider),
		widget.NewLabelWithStyle("Rotation", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, rotValue, rotSlider),
		resetTransform,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Preview", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		preview,
	)

	left := container.NewBorder(
		widget.NewLabelWithStyle("Recent", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil, recentList)

	root := container.NewBorder(toolbar, status, left, controls, cropCanvas)
	w.SetContent(root)

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		telemetry.Event(telemetry.EventAppExit, nil)
	})

	if strings.TrimSpace(imagePath) != "" {
		loadSource(imageio.LoadFile(imagePath))
	}

	w.ShowAndRun()
	return nil
}

func shortenOrigin(origin string) string {
	if len(origin) <= 48 {
		return origin
	}
	return "..." + origin[len(origin)-45:]
}

// encodePNG serializes a thumbnail for the recent store; nil on failure.
func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

// CropCanvas renders the display container, the zoomed image, and the crop
// overlay with its eight handles. Pointer drags feed the session, which owns
// all crop state.
type CropCanvas struct {
	widget.BaseWidget
	sess     *session.Session
	dragging bool
}

const handleHitPx = 14 // on-screen hit size for one handle square

func NewCropCanvas(sess *session.Session) *CropCanvas {
	c := &CropCanvas{sess: sess}
	c.ExtendBaseWidget(c)
	return c
}

func (c *CropCanvas) PreferredSize() fyne.Size { return fyne.NewSize(640, 480) }

// originAndScale maps container coordinates to widget coordinates: the
// container is fit-scaled and centered in the widget.
func (c *CropCanvas) originAndScale() (cx, cy, s float32) {
	size := c.Size()
	p := c.sess.Params()
	if p.Container.W <= 0 || p.Container.H <= 0 || size.Width <= 0 || size.Height <= 0 {
		return 0, 0, 1
	}
	sx := size.Width / p.Container.W
	sy := size.Height / p.Container.H
	s = sx
	if sy < sx {
		s = sy
	}
	cx = size.Width/2 - p.Container.W*s/2
	cy = size.Height/2 - p.Container.H*s/2
	return cx, cy, s
}

func (c *CropCanvas) toScreen(pt geom.Pt) fyne.Position {
	cx, cy, s := c.originAndScale()
	return fyne.NewPos(cx+pt.X*s, cy+pt.Y*s)
}

func (c *CropCanvas) toContainer(pos fyne.Position) geom.Pt {
	cx, cy, s := c.originAndScale()
	return geom.Pt{X: (pos.X - cx) / s, Y: (pos.Y - cy) / s}
}

// Dragged resolves the grabbed handle on the first event of a drag, then
// streams pointer positions into the session.
func (c *CropCanvas) Dragged(e *fyne.DragEvent) {
	if c.sess.State() != session.Editing {
		return
	}
	pos := e.Position
	if !c.dragging {
		start := fyne.NewPos(pos.X-e.Dragged.DX, pos.Y-e.Dragged.DY)
		pt := c.toContainer(start)
		_, _, s := c.originAndScale()
		h, ok := HitHandle(c.sess.Transform().Crop, pt, handleHitPx/s)
		if !ok {
			return
		}
		c.sess.PointerDown(h, pt)
		c.dragging = true
	}
	c.sess.PointerMove(c.toContainer(pos))
}

func (c *CropCanvas) DragEnd() {
	if c.dragging {
		c.sess.PointerUp()
		c.dragging = false
	}
}

// Scrolled zooms the image under the crop overlay.
func (c *CropCanvas) Scrolled(e *fyne.ScrollEvent) {
	if c.sess.State() != session.Editing {
		return
	}
	step := float32(e.Scrolled.DY) * 0.01
	c.sess.SetZoom(c.sess.Transform().Zoom + step)
}

func (c *CropCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})

	frame := canvas.NewRectangle(color.RGBA{R: 18, G: 18, B: 20, A: 255})
	frame.StrokeColor = color.RGBA{R: 70, G: 70, B: 76, A: 255}
	frame.StrokeWidth = 1

	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillStretch
	img.Hide()

	// four shade rectangles dim everything outside the crop
	var shades [4]*canvas.Rectangle
	for i := range shades {
		shades[i] = canvas.NewRectangle(color.RGBA{A: 130})
		shades[i].Hide()
	}

	bbox := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
	bbox.StrokeColor = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	bbox.StrokeWidth = 1.5
	bbox.Hide()

	handles := make([]*canvas.Rectangle, len(HandleOrder))
	for i := range handles {
		handles[i] = canvas.NewRectangle(color.RGBA{R: 0, G: 170, B: 255, A: 255})
		handles[i].Hide()
	}

	objs := []fyne.CanvasObject{bg, frame, img}
	for _, sh := range shades {
		objs = append(objs, sh)
	}
	objs = append(objs, bbox)
	for _, h := range handles {
		objs = append(objs, h)
	}
	return &cropCanvasRenderer{cc: c, objects: objs, bg: bg, frame: frame, img: img, shades: shades, bbox: bbox, handles: handles}
}

type cropCanvasRenderer struct {
	cc      *CropCanvas
	objects []fyne.CanvasObject
	bg      *canvas.Rectangle
	frame   *canvas.Rectangle
	img     *canvas.Image
	shades  [4]*canvas.Rectangle
	bbox    *canvas.Rectangle
	handles []*canvas.Rectangle
}

func (r *cropCanvasRenderer) Destroy()                     {}
func (r *cropCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *cropCanvasRenderer) MinSize() fyne.Size           { return r.cc.PreferredSize() }
func (r *cropCanvasRenderer) Refresh()                     { r.Layout(r.cc.Size()); canvas.Refresh(r.cc) }

func (r *cropCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	cx, cy, s := r.cc.originAndScale()
	p := r.cc.sess.Params()
	frameW := p.Container.W * s
	frameH := p.Container.H * s
	r.frame.Resize(fyne.NewSize(frameW, frameH))
	r.frame.Move(fyne.NewPos(cx, cy))

	if r.cc.sess.State() != session.Editing {
		r.img.Hide()
		for _, sh := range r.shades {
			sh.Hide()
		}
		r.bbox.Hide()
		for _, h := range r.handles {
			h.Hide()
		}
		return
	}

	// image: fit into the container, then apply the session zoom, centered
	src := r.cc.sess.Source()
	tf := r.cc.sess.Transform()
	fit := p.Container.W / float32(src.Width)
	if fh := p.Container.H / float32(src.Height); fh < fit {
		fit = fh
	}
	imgW := float32(src.Width) * fit * tf.Zoom * s
	imgH := float32(src.Height) * fit * tf.Zoom * s
	if r.img.Image != src.Image {
		r.img.Image = src.Image
	}
	r.img.Show()
	r.img.Resize(fyne.NewSize(imgW, imgH))
	r.img.Move(fyne.NewPos(cx+frameW/2-imgW/2, cy+frameH/2-imgH/2))
	r.img.Refresh()

	// crop overlay
	crp := tf.Crop
	p0 := r.cc.toScreen(geom.Pt{X: crp.X, Y: crp.Y})
	cw := crp.W * s
	ch := crp.H * s

	// shades: top, bottom, left, right of the crop inside the frame
	r.shades[0].Resize(fyne.NewSize(frameW, p0.Y-cy))
	r.shades[0].Move(fyne.NewPos(cx, cy))
	r.shades[1].Resize(fyne.NewSize(frameW, cy+frameH-(p0.Y+ch)))
	r.shades[1].Move(fyne.NewPos(cx, p0.Y+ch))
	r.shades[2].Resize(fyne.NewSize(p0.X-cx, ch))
	r.shades[2].Move(fyne.NewPos(cx, p0.Y))
	r.shades[3].Resize(fyne.NewSize(cx+frameW-(p0.X+cw), ch))
	r.shades[3].Move(fyne.NewPos(p0.X+cw, p0.Y))
	for _, sh := range r.shades {
		sh.Show()
	}

	r.bbox.Show()
	r.bbox.Resize(fyne.NewSize(cw, ch))
	r.bbox.Move(fyne.NewPos(p0.X, p0.Y))

	for i, h := range HandleOrder {
		hr := HandleRect(h, crp, handleHitPx/s)
		hp := r.cc.toScreen(geom.Pt{X: hr.X, Y: hr.Y})
		r.handles[i].Show()
		r.handles[i].Resize(fyne.NewSize(hr.W*s, hr.H*s))
		r.handles[i].Move(hp)
	}
}
