/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package presets loads user-defined aspect-ratio presets from a JSON file
// and merges them with the built-in catalog. The file is validated against an
// embedded JSON schema before it is trusted.
package presets

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"cropdesk/internal/config"
	"cropdesk/internal/geom"
	applog "cropdesk/internal/log"
)

//go:embed schema.json
var schemaJSON []byte

// FileName is the presets file name inside the per-user config directory.
const FileName = "presets.json"

// Preset is one user-defined aspect ratio. Width and height are the two
// sides of the ratio, not pixel dimensions: {Name: "Banner", Width: 3,
// Height: 1} locks crops to 3:1.
type Preset struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// File is the on-disk presets document.
type File struct {
	Version int      `json:"version"`
	Presets []Preset `json:"presets"`
}

// DefaultPath returns the per-user presets file path.
func DefaultPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Validate checks raw file bytes against the embedded schema.
func Validate(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("validate presets: %w", err)
	}
	if !result.Valid() {
		var sb strings.Builder
		for i, e := range result.Errors() {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(e.String())
		}
		return fmt.Errorf("presets file invalid: %s", sb.String())
	}
	return nil
}

// Parse validates and decodes raw presets bytes. Duplicate names within the
// file are rejected.
func Parse(data []byte) (File, error) {
	var f File
	if err := Validate(data); err != nil {
		return f, err
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse presets: %w", err)
	}
	seen := make(map[string]bool, len(f.Presets))
	for _, p := range f.Presets {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if seen[key] {
			return File{}, fmt.Errorf("presets file invalid: duplicate preset name %q", p.Name)
		}
		seen[key] = true
	}
	return f, nil
}

// Load reads the presets file at path and returns the user ratios. A missing
// file is not an error: the built-in catalog alone applies.
func Load(path string) ([]geom.AspectRatio, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	out := make([]geom.AspectRatio, 0, len(f.Presets))
	for _, p := range f.Presets {
		out = append(out, geom.AspectRatio{
			Name:  strings.TrimSpace(p.Name),
			Ratio: float32(p.Width / p.Height),
		})
	}
	applog.WithComponent("presets").Info("user presets loaded", slog.Int("count", len(out)), slog.String("path", path))
	return out, nil
}

// Merge appends user ratios to the built-in catalog. A user preset whose
// name matches a built-in entry replaces it in place; Free is never replaced.
func Merge(user []geom.AspectRatio) []geom.AspectRatio {
	out := make([]geom.AspectRatio, len(geom.Ratios))
	copy(out, geom.Ratios)
	for _, u := range user {
		if u.Ratio <= 0 || u.Name == "" {
			continue
		}
		replaced := false
		for i := range out {
			if out[i].Free() {
				continue
			}
			if strings.EqualFold(out[i].Name, u.Name) {
				out[i] = u
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, u)
		}
	}
	return out
}
