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

// List is the ordered set of committed strokes, in paint order.
// The zero value is an empty list. It is not safe for concurrent use.
type List struct {
	strokes []Stroke
}

func (l *List) Len() int { return len(l.strokes) }

// Append adds s on top of the existing strokes.
func (l *List) Append(s Stroke) { l.strokes = append(l.strokes, s.Clone()) }

// RemoveLast pops the most recent stroke.
func (l *List) RemoveLast() (Stroke, error) {
	n := len(l.strokes)
	if n == 0 {
		return Stroke{}, ErrEmptyHistory
	}
	s := l.strokes[n-1]
	l.strokes[n-1] = Stroke{}
	l.strokes = l.strokes[:n-1]
	return s, nil
}

// Clear removes every stroke and returns what was removed, oldest first.
func (l *List) Clear() []Stroke {
	old := l.strokes
	l.strokes = nil
	return old
}

// Restore replaces the contents with strokes, e.g. when a clear is undone.
func (l *List) Restore(strokes []Stroke) {
	l.strokes = make([]Stroke, 0, len(strokes))
	for _, s := range strokes {
		l.strokes = append(l.strokes, s.Clone())
	}
}

// All returns a deep copy of the strokes in paint order.
func (l *List) All() []Stroke {
	out := make([]Stroke, len(l.strokes))
	for i, s := range l.strokes {
		out[i] = s.Clone()
	}
	return out
}

// Each calls fn for every stroke in paint order until fn returns false.
// The stroke passed to fn must not be retained or modified.
func (l *List) Each(fn func(Stroke) bool) {
	for _, s := range l.strokes {
		if !fn(s) {
			return
		}
	}
}

// Bounds is the union of all stroke bounds.
func (l *List) Bounds() Rect {
	r := Rect{Min: Point{1, 1}}
	for _, s := range l.strokes {
		r = r.Union(s.Bounds())
	}
	return r
}
