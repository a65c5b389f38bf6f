/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "testing"

func TestRectContainsAndCenter(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	if r.Contains(Pt{9, 20}) {
		t.Fatalf("point left of rect should not be contained")
	}
	c := r.Center()
	if c.X != 60 || c.Y != 45 {
		t.Fatalf("unexpected center: %+v", c)
	}
}

func TestRectWithin(t *testing.T) {
	s := Size{W: 500, H: 375}
	if !R(0, 0, 500, 375).Within(s) {
		t.Fatalf("full-container rect should be within")
	}
	if R(100, 75, 401, 100).Within(s) {
		t.Fatalf("rect past right edge should not be within")
	}
	if R(-1, 0, 10, 10).Within(s) {
		t.Fatalf("rect past left edge should not be within")
	}
}

func TestClamp(t *testing.T) {
	if v := Clamp(5, 0, 10); v != 5 {
		t.Fatalf("in-range value changed: %v", v)
	}
	if v := Clamp(-3, 0, 10); v != 0 {
		t.Fatalf("expected lower bound, got %v", v)
	}
	if v := Clamp(42, 0, 10); v != 10 {
		t.Fatalf("expected upper bound, got %v", v)
	}
	// inverted bounds collapse to the lower bound
	if v := Clamp(7, 5, 2); v != 5 {
		t.Fatalf("inverted bounds should clamp to lo, got %v", v)
	}
}

func TestRatioCatalog(t *testing.T) {
	if Ratios[0].Name != "Free" || !Ratios[0].Free() {
		t.Fatalf("first catalog entry must be the unconstrained Free ratio")
	}
	a, ok := RatioByName(Ratios, "16:9")
	if !ok {
		t.Fatalf("16:9 missing from catalog")
	}
	if got, want := a.Ratio, float32(16.0/9.0); got != want {
		t.Fatalf("16:9 ratio = %v, want %v", got, want)
	}
	if _, ok := RatioByName(Ratios, "21:9"); ok {
		t.Fatalf("unexpected catalog entry 21:9")
	}
	names := RatioNames(Ratios)
	if len(names) != len(Ratios) || names[1] != "1:1" {
		t.Fatalf("unexpected names: %v", names)
	}
}
