/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package drawing holds the value types of a sketch: colors, pen styles,
// strokes and the ordered stroke list.
package drawing

import "errors"

var (
	// ErrInvalidColor is returned when a color string cannot be parsed.
	ErrInvalidColor = errors.New("invalid color")
	// ErrInvalidWidth is returned for a non-positive pen width.
	ErrInvalidWidth = errors.New("invalid pen width")
	// ErrEmptyHistory is returned by RemoveLast on an empty list.
	ErrEmptyHistory = errors.New("stroke list is empty")
	ErrUnknownStyle = errors.New("unknown style name")
)
