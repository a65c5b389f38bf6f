/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// AspectRatio is a named width/height proportion. A Ratio <= 0 marks the
// unconstrained "Free" entry that disables width/height coupling.
type AspectRatio struct {
	Name  string
	Ratio float32 // width / height
}

// Free reports whether the entry places no constraint on the crop shape.
func (a AspectRatio) Free() bool { return a.Ratio <= 0 }

// FreeRatio is the catalog entry with no constraint.
var FreeRatio = AspectRatio{Name: "Free"}

// Ratios is the built-in ordered catalog shown in the ratio selector.
// User presets may be appended at startup; the built-in entries are fixed.
var Ratios = []AspectRatio{
	FreeRatio,
	{Name: "1:1", Ratio: 1},
	{Name: "4:3", Ratio: 4.0 / 3.0},
	{Name: "3:2", Ratio: 3.0 / 2.0},
	{Name: "16:9", Ratio: 16.0 / 9.0},
	{Name: "2:3", Ratio: 2.0 / 3.0},
	{Name: "9:16", Ratio: 9.0 / 16.0},
}

// RatioByName looks up an entry in the given catalog. The boolean reports
// whether the name was found.
func RatioByName(catalog []AspectRatio, name string) (AspectRatio, bool) {
	for _, a := range catalog {
		if a.Name == name {
			return a, true
		}
	}
	return AspectRatio{}, false
}

// RatioNames returns the catalog names in order, for selector widgets.
func RatioNames(catalog []AspectRatio) []string {
	names := make([]string, 0, len(catalog))
	for _, a := range catalog {
		names = append(names, a.Name)
	}
	return names
}
