/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"cropdesk/internal/config"
	"cropdesk/internal/crash"
	"cropdesk/internal/export"
	"cropdesk/internal/geom"
	"cropdesk/internal/imageio"
	applog "cropdesk/internal/log"
	"cropdesk/internal/render"
	"cropdesk/internal/ui"
	"cropdesk/internal/version"
)

func usage() {
	fmt.Println("CropDesk — interactive image cropper")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cropdesk version|-v|--version                 Show version")
	fmt.Println("  cropdesk info <image>                          Print image dimensions")
	fmt.Println("  cropdesk crop <in> <out> <x> <y> <w> <h>       Crop a source-pixel region and save it")
	fmt.Println("  cropdesk sample <out>                          Write the built-in sample image")
	fmt.Println("  cropdesk ui [<image>]                          Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	cfgDir, _ := config.Dir()
	defer crash.Recover(cfgDir)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("CropDesk — interactive image cropper")
			fmt.Println(version.String())
			return
		case "info":
			if len(args) < 3 {
				fmt.Println("info requires <image>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			src, err := imageio.LoadFile(abs)
			if err != nil {
				l.Error("load failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("%s: %dx%d\n", abs, src.Width, src.Height)
			return
		case "crop":
			if len(args) < 8 {
				fmt.Println("crop requires <in> <out> <x> <y> <w> <h>")
				usage()
				os.Exit(2)
			}
			in, _ := filepath.Abs(args[2])
			out, _ := filepath.Abs(args[3])
			region, err := parseRegion(args[4:8])
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(2)
			}
			src, err := imageio.LoadFile(in)
			if err != nil {
				l.Error("load failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			cfg, _, cerr := config.Load()
			if cerr != nil {
				cfg = config.Defaults()
			}
			img := render.Crop(src.Image, region, 0)
			if err := export.Save(img, out, export.JPEGOptions{Quality: cfg.Editor.JPEGQuality}); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote", out)
			return
		case "sample":
			if len(args) < 3 {
				fmt.Println("sample requires <out>")
				usage()
				os.Exit(2)
			}
			out, _ := filepath.Abs(args[2])
			src := imageio.GenerateSample(0, 0)
			if err := export.Save(src.Image, out, export.JPEGOptions{}); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Wrote", out)
			return
		case "ui":
			var img string
			if len(args) >= 3 {
				img = args[2]
			}
			if err := ui.Run(img); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

// parseRegion reads x, y, w, h source-pixel values from CLI args.
func parseRegion(parts []string) (geom.Rect, error) {
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return geom.Rect{}, fmt.Errorf("bad region value %q: %w", p, err)
		}
		vals[i] = v
	}
	r := geom.R(float32(vals[0]), float32(vals[1]), float32(vals[2]), float32(vals[3]))
	if r.W <= 0 || r.H <= 0 {
		return geom.Rect{}, fmt.Errorf("region width and height must be positive")
	}
	return r, nil
}
