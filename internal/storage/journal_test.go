/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteFileAtomicReplaces(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sub", "out.png")
	if err := WriteFileAtomic(p, []byte("first"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFileAtomic(p, []byte("second"), 0o600); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "second" {
		t.Fatalf("content = %q, %v", b, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(p))
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestJournalRecordAndRecent(t *testing.T) {
	j, err := OpenJournal(filepath.Join(t.TempDir(), JournalFileName))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })

	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.png", "b.jpg", "c.bmp"} {
		id, err := j.Record(ctx, Entry{Path: name, Format: strings.TrimPrefix(filepath.Ext(name), "."),
			Width: 1176, Height: 642, Bytes: int64(100 * (i + 1)), Strokes: i, At: base.Add(time.Duration(i) * time.Minute)})
		if err != nil {
			t.Fatalf("record %s: %v", name, err)
		}
		if id != int64(i+1) {
			t.Fatalf("id = %d", id)
		}
	}

	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].Path != "c.bmp" || got[1].Path != "b.jpg" {
		t.Fatalf("recent order wrong: %+v", got)
	}
	if got[0].Strokes != 2 || got[0].Bytes != 300 || !got[0].At.Equal(base.Add(2*time.Minute)) {
		t.Fatalf("fields not round-tripped: %+v", got[0])
	}
}

func TestJournalReopenKeepsEntries(t *testing.T) {
	p := filepath.Join(t.TempDir(), JournalFileName)
	j, err := OpenJournal(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := j.Record(context.Background(), Entry{Path: "x.png", Format: "png"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = j.Close()

	j2, err := OpenJournal(p)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = j2.Close() }()
	got, err := j2.Recent(context.Background(), 0)
	if err != nil || len(got) != 1 || got[0].At.IsZero() {
		t.Fatalf("after reopen: %+v, %v", got, err)
	}
}

func TestOpenJournalRequiresPath(t *testing.T) {
	if _, err := OpenJournal("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
