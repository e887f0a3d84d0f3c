/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	events  []map[string]any
	crashes [][]byte
}

func (r *recorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, req *http.Request) {
		var m map[string]any
		_ = json.NewDecoder(req.Body).Decode(&m)
		r.mu.Lock()
		r.events = append(r.events, m)
		r.mu.Unlock()
	})
	mux.HandleFunc("/crash", func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.crashes = append(r.crashes, b)
		r.mu.Unlock()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientEventAndCrashUpload(t *testing.T) {
	var rec recorder
	srv := rec.server(t)
	c := New(Config{OptIn: true, EventsURL: srv.URL + "/events", CrashURL: srv.URL + "/crash", Timeout: 2 * time.Second})
	defer c.Close()

	if !c.Enabled() {
		t.Fatalf("expected client to be enabled")
	}
	c.Event(EventExport, map[string]any{"format": "png", "strokes": 3})
	c.Flush(context.Background())

	rec.mu.Lock()
	if len(rec.events) != 1 {
		rec.mu.Unlock()
		t.Fatalf("events sent = %d", len(rec.events))
	}
	ev := rec.events[0]
	rec.mu.Unlock()
	if ev["name"] != EventExport || ev["format"] != "png" {
		t.Fatalf("event payload = %v", ev)
	}
	if _, ok := ev["ts"].(string); !ok {
		t.Fatalf("missing ts field")
	}

	if !c.UploadCrash([]byte("STACKTRACE")) {
		t.Fatalf("crash upload should succeed")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.crashes) != 1 || string(rec.crashes[0]) != "STACKTRACE" {
		t.Fatalf("crashes = %q", rec.crashes)
	}
}

func TestDisabledClientSendsNothing(t *testing.T) {
	var rec recorder
	srv := rec.server(t)
	c := New(Config{OptIn: false, EventsURL: srv.URL + "/events", CrashURL: srv.URL + "/crash"})
	defer c.Close()

	c.Event(EventAppStart, nil)
	c.Flush(context.Background())
	if c.UploadCrash([]byte("x")) {
		t.Fatalf("upload must not happen without opt-in")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 0 || len(rec.crashes) != 0 {
		t.Fatalf("disabled client sent data: %d events %d crashes", len(rec.events), len(rec.crashes))
	}
}

func TestUnreachableEndpointDoesNotBlock(t *testing.T) {
	c := New(Config{OptIn: true, EventsURL: "http://127.0.0.1:1/events", CrashURL: "http://127.0.0.1:1/crash", Timeout: 200 * time.Millisecond})
	defer c.Close()
	start := time.Now()
	for i := 0; i < 200; i++ {
		c.Event(EventAppExit, nil)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("Event blocked the caller")
	}
	if c.UploadCrash([]byte("x")) {
		t.Fatalf("upload to closed port reported success")
	}
}

func TestFromEnvAndDefault(t *testing.T) {
	t.Setenv(EnvOptIn, "true")
	t.Setenv(EnvEventsURL, "http://127.0.0.1:0")
	t.Setenv(EnvCrashURL, "")
	t.Setenv(EnvTimeoutMs, "100")

	cfg := FromEnv()
	if !cfg.OptIn || cfg.EventsURL == "" || cfg.Timeout != 100*time.Millisecond {
		t.Fatalf("FromEnv did not parse correctly: %+v", cfg)
	}
	c := New(cfg)
	SetDefault(c)
	t.Cleanup(func() { SetDefault(nil) })
	if Default() != c || !Default().Enabled() {
		t.Fatalf("default client not installed")
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	c.Event("x", nil)
	c.Flush(context.Background())
	c.Close()
	if c.Enabled() || c.UploadCrash(nil) {
		t.Fatalf("nil client must be inert")
	}
}
