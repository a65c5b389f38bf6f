/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package imageio acquires source images for the editor: local files, raw
// bytes (clipboard paste), remote URLs, and a generated sample card. Failures
// carry one of three sentinel errors so callers can translate them into
// user-visible messages without string matching.
package imageio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	applog "cropdesk/internal/log"
)

// Named load failures per the loader contract.
var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrDecodeFailed    = errors.New("image decode failed")
	ErrNetworkFailed   = errors.New("image fetch failed")
)

// Source is a decoded raster image plus its native pixel dimensions.
// It is read-only to the crop engine.
type Source struct {
	Image  image.Image
	Width  int
	Height int
	Origin string // file path, URL, or a pseudo-origin like "clipboard" / "sample"
}

// supported extensions for file loads; decoding itself is format-sniffing,
// the extension check just produces the friendlier unsupported-type error.
var supportedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

func fromImage(img image.Image, origin string) *Source {
	b := img.Bounds()
	return &Source{Image: img, Width: b.Dx(), Height: b.Dy(), Origin: origin}
}

// LoadFile decodes a local image file. JPEG EXIF orientation is applied
// during decode so the editor always sees upright pixels.
func LoadFile(path string) (*Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExts[ext] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailed, path, err)
	}
	src := fromImage(img, path)
	applog.WithComponent("imageio").Debug("file loaded",
		slog.String("path", path), slog.Int("w", src.Width), slog.Int("h", src.Height))
	return src, nil
}

// LoadBytes decodes an in-memory image, e.g. a clipboard paste.
func LoadBytes(data []byte, origin string) (*Source, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailed, origin, err)
	}
	return fromImage(img, origin), nil
}

// Fetcher loads images over HTTP. The optional bearer token comes from the
// OS keyring via the config package.
type Fetcher struct {
	cli   *http.Client
	token string
	// MaxBytes caps the response body; zero means the default of 32 MiB.
	MaxBytes int64
}

const defaultMaxFetchBytes = 32 << 20

func NewFetcher(timeout time.Duration, token string) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{cli: &http.Client{Timeout: timeout}, token: token}
}

// LoadURL fetches and decodes a remote image. Transport and HTTP-status
// problems surface as ErrNetworkFailed; body problems as ErrDecodeFailed.
func (f *Fetcher) LoadURL(ctx context.Context, url string) (*Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNetworkFailed, url, err)
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	resp, err := f.cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNetworkFailed, url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", ErrNetworkFailed, url, resp.StatusCode)
	}
	limit := f.MaxBytes
	if limit <= 0 {
		limit = defaultMaxFetchBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNetworkFailed, url, err)
	}
	src, err := LoadBytes(data, url)
	if err != nil {
		return nil, err
	}
	applog.WithComponent("imageio").Debug("url loaded",
		slog.String("url", url), slog.Int("bytes", len(data)))
	return src, nil
}
