/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package undo implements a linear command history with a position pointer.
package undo

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyHistory is the common cause of ErrNothingToUndo and ErrNothingToRedo.
	ErrEmptyHistory  = errors.New("history is empty")
	ErrNothingToUndo = fmt.Errorf("nothing to undo: %w", ErrEmptyHistory)
	ErrNothingToRedo = fmt.Errorf("nothing to redo: %w", ErrEmptyHistory)
)

// Command is a reversible edit. Do must be callable again after Undo (redo).
type Command interface {
	Name() string
	Do() error
	Undo() error
}

// Config controls history depth.
type Config struct {
	// MaxDepth limits the number of retained commands (0 means unlimited).
	// When exceeded the oldest commands are dropped and can no longer be undone.
	MaxDepth int
}

// History holds executed commands. Commands before the pointer are undoable,
// commands at or after it are redoable. It is not safe for concurrent use.
type History struct {
	cfg  Config
	cmds []Command
	pos  int
}

func NewHistory(cfg Config) *History {
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	return &History{cfg: cfg}
}

// Execute runs cmd and records it. Any redoable commands are discarded.
// If Do fails nothing is recorded.
func (h *History) Execute(cmd Command) error {
	if err := cmd.Do(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	for i := h.pos; i < len(h.cmds); i++ {
		h.cmds[i] = nil
	}
	h.cmds = append(h.cmds[:h.pos], cmd)
	h.pos++
	h.enforceDepth()
	return nil
}

// Undo reverts the command before the pointer.
func (h *History) Undo() error {
	if h.pos == 0 {
		return ErrNothingToUndo
	}
	cmd := h.cmds[h.pos-1]
	if err := cmd.Undo(); err != nil {
		return fmt.Errorf("undo %s: %w", cmd.Name(), err)
	}
	h.pos--
	return nil
}

// Redo re-applies the command at the pointer.
func (h *History) Redo() error {
	if h.pos == len(h.cmds) {
		return ErrNothingToRedo
	}
	cmd := h.cmds[h.pos]
	if err := cmd.Do(); err != nil {
		return fmt.Errorf("redo %s: %w", cmd.Name(), err)
	}
	h.pos++
	return nil
}

func (h *History) CanUndo() bool { return h.pos > 0 }
func (h *History) CanRedo() bool { return h.pos < len(h.cmds) }

// Len is the number of recorded commands, undone ones included.
func (h *History) Len() int { return len(h.cmds) }

// Position is the pointer: the number of currently applied commands.
func (h *History) Position() int { return h.pos }

// UndoName names the command Undo would revert, or "" when there is none.
func (h *History) UndoName() string {
	if h.pos == 0 {
		return ""
	}
	return h.cmds[h.pos-1].Name()
}

// RedoName names the command Redo would re-apply, or "" when there is none.
func (h *History) RedoName() string {
	if h.pos == len(h.cmds) {
		return ""
	}
	return h.cmds[h.pos].Name()
}

// Reset forgets all commands without running them.
func (h *History) Reset() {
	h.cmds = nil
	h.pos = 0
}

func (h *History) enforceDepth() {
	if h.cfg.MaxDepth <= 0 || len(h.cmds) <= h.cfg.MaxDepth {
		return
	}
	drop := len(h.cmds) - h.cfg.MaxDepth
	h.cmds = append([]Command(nil), h.cmds[drop:]...)
	h.pos -= drop
	if h.pos < 0 {
		h.pos = 0
	}
}
