/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package drawing

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#ff0000", Color{255, 0, 0, 255}},
		{"#00FF0080", Color{0, 255, 0, 128}},
		{"0000ff", Color{0, 0, 255, 255}},
		{" #ffffff ", White},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseColor(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "#fff", "#gggggg", "#1234567", "red"} {
		if _, err := ParseColor(bad); !errors.Is(err, ErrInvalidColor) {
			t.Fatalf("ParseColor(%q) err = %v, want ErrInvalidColor", bad, err)
		}
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	for _, c := range []Color{Black, White, {12, 34, 56, 78}} {
		got, err := ParseColor(c.Hex())
		if err != nil || got != c {
			t.Fatalf("round trip %v: got %v err %v", c, got, err)
		}
	}
	if Black.Hex() != "#000000" {
		t.Fatalf("opaque colors should omit alpha, got %s", Black.Hex())
	}
}

func TestFromColor(t *testing.T) {
	got, err := FromColor(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	if err != nil || got != (Color{10, 20, 30, 255}) {
		t.Fatalf("FromColor = %v, %v", got, err)
	}
	if _, err := FromColor(nil); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("nil color should be invalid, got %v", err)
	}
}
