/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"sketchpad/internal/drawing"
)

// addStroke commits one stroke on top of the list.
type addStroke struct {
	list   *drawing.List
	stroke drawing.Stroke
}

func (c *addStroke) Name() string { return "Draw stroke" }

func (c *addStroke) Do() error {
	c.list.Append(c.stroke)
	return nil
}

func (c *addStroke) Undo() error {
	_, err := c.list.RemoveLast()
	return err
}

// clearAll removes every stroke and keeps them for undo.
type clearAll struct {
	list    *drawing.List
	removed []drawing.Stroke
}

func (c *clearAll) Name() string { return "Clear" }

func (c *clearAll) Do() error {
	c.removed = c.list.Clear()
	return nil
}

func (c *clearAll) Undo() error {
	c.list.Restore(c.removed)
	c.removed = nil
	return nil
}

// changeBackground swaps the canvas background color.
type changeBackground struct {
	bg       *drawing.Color
	from, to drawing.Color
}

func (c *changeBackground) Name() string { return "Change background" }

func (c *changeBackground) Do() error {
	*c.bg = c.to
	return nil
}

func (c *changeBackground) Undo() error {
	*c.bg = c.from
	return nil
}
