/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes the applied crop to disk as PNG, JPEG, or a
// single-page PDF sized to the image.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"

	applog "cropdesk/internal/log"
)

// JPEGOptions controls lossy export. Quality 0 means the default of 90.
type JPEGOptions struct {
	Quality int
}

// SavePNG writes img as a PNG file, creating parent directories.
func SavePNG(img image.Image, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	logSaved(path, img)
	return nil
}

// SaveJPEG writes img as a JPEG file with the given quality.
func SaveJPEG(img image.Image, path string, opt JPEGOptions) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	q := opt.Quality
	if q <= 0 {
		q = 90
	}
	if q > 100 {
		q = 100
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(q)); err != nil {
		return fmt.Errorf("save jpeg: %w", err)
	}
	logSaved(path, img)
	return nil
}

// SavePDF embeds img into a single-page PDF whose page matches the image at
// 72 dpi (1 px = 1 pt).
func SavePDF(img image.Image, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	b := img.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	if w < 1 || h < 1 {
		return fmt.Errorf("save pdf: empty image")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode for pdf: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
		OrientationStr: "",
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("crop", opts, &buf)
	pdf.ImageOptions("crop", 0, 0, w, h, false, opts, 0, "")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	logSaved(path, img)
	return nil
}

// Save dispatches on the output file extension.
func Save(img image.Image, path string, jpeg JPEGOptions) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return SavePNG(img, path)
	case ".jpg", ".jpeg":
		return SaveJPEG(img, path, jpeg)
	case ".pdf":
		return SavePDF(img, path)
	default:
		return fmt.Errorf("unsupported export format: %s", filepath.Ext(path))
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	return nil
}

func logSaved(path string, img image.Image) {
	b := img.Bounds()
	applog.WithComponent("export").Info("crop exported",
		slog.String("path", path), slog.Int("w", b.Dx()), slog.Int("h", b.Dy()))
}
