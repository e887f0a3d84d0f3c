/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

// appendCmd appends v to a shared slice; Undo removes it again.
type appendCmd struct {
	log *[]string
	v   string
}

func (c appendCmd) Name() string { return "append " + c.v }
func (c appendCmd) Do() error    { *c.log = append(*c.log, c.v); return nil }
func (c appendCmd) Undo() error {
	n := len(*c.log)
	if n == 0 || (*c.log)[n-1] != c.v {
		return fmt.Errorf("unexpected state %v", *c.log)
	}
	*c.log = (*c.log)[:n-1]
	return nil
}

type failCmd struct{ err error }

func (f failCmd) Name() string { return "fail" }
func (f failCmd) Do() error    { return f.err }
func (f failCmd) Undo() error  { return f.err }

func TestUndoRedoSequence(t *testing.T) {
	var state []string
	h := NewHistory(Config{})
	for _, v := range []string{"A", "B"} {
		if err := h.Execute(appendCmd{&state, v}); err != nil {
			t.Fatalf("execute %s: %v", v, err)
		}
	}
	steps := []struct {
		op   func() error
		want []string
	}{
		{h.Undo, []string{"A"}},
		{h.Undo, []string{}},
		{h.Redo, []string{"A"}},
		{h.Redo, []string{"A", "B"}},
	}
	for i, s := range steps {
		if err := s.op(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if !slices.Equal(state, s.want) {
			t.Fatalf("step %d: state %v, want %v", i, state, s.want)
		}
	}
}

func TestBoundaries(t *testing.T) {
	var state []string
	h := NewHistory(Config{})
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) || !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("undo on empty: %v", err)
	}
	_ = h.Execute(appendCmd{&state, "A"})
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) || !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("redo at end: %v", err)
	}
	if h.Position() != 1 || h.Len() != 1 || !slices.Equal(state, []string{"A"}) {
		t.Fatalf("boundary ops must not change state: pos=%d len=%d state=%v", h.Position(), h.Len(), state)
	}
}

func TestExecuteTruncatesRedoTail(t *testing.T) {
	var state []string
	h := NewHistory(Config{})
	_ = h.Execute(appendCmd{&state, "A"})
	_ = h.Execute(appendCmd{&state, "B"})
	_ = h.Undo()
	if !h.CanRedo() || h.RedoName() != "append B" {
		t.Fatalf("expected B to be redoable, got %q", h.RedoName())
	}
	_ = h.Execute(appendCmd{&state, "C"})
	if h.CanRedo() || h.Len() != 2 {
		t.Fatalf("redo tail not discarded: len=%d canRedo=%v", h.Len(), h.CanRedo())
	}
	if !slices.Equal(state, []string{"A", "C"}) || h.UndoName() != "append C" {
		t.Fatalf("state %v undoName %q", state, h.UndoName())
	}
}

func TestExecuteFailureLeavesHistory(t *testing.T) {
	var state []string
	h := NewHistory(Config{})
	_ = h.Execute(appendCmd{&state, "A"})
	_ = h.Undo()
	boom := errors.New("boom")
	if err := h.Execute(failCmd{boom}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if h.Len() != 1 || h.Position() != 0 || !h.CanRedo() {
		t.Fatalf("failed execute changed history: len=%d pos=%d", h.Len(), h.Position())
	}
}

func TestMaxDepth(t *testing.T) {
	var state []string
	h := NewHistory(Config{MaxDepth: 2})
	for _, v := range []string{"A", "B", "C"} {
		_ = h.Execute(appendCmd{&state, v})
	}
	if h.Len() != 2 || h.Position() != 2 {
		t.Fatalf("len=%d pos=%d", h.Len(), h.Position())
	}
	_ = h.Undo()
	_ = h.Undo()
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("oldest command should have been dropped, got %v", err)
	}
	if !slices.Equal(state, []string{"A"}) {
		t.Fatalf("state = %v", state)
	}
}

func TestReset(t *testing.T) {
	var state []string
	h := NewHistory(Config{})
	_ = h.Execute(appendCmd{&state, "A"})
	h.Reset()
	if h.CanUndo() || h.CanRedo() || h.UndoName() != "" || h.RedoName() != "" {
		t.Fatalf("reset left commands behind")
	}
}
