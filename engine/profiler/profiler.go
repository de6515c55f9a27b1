//go:build profile

package profiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type span struct {
	name       string
	start, end int64 // ns
}

var rec struct {
	mu    sync.Mutex
	spans []span
	next  int
	full  bool
}

// Init sizes the span ring. Older spans are overwritten once it is full.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 16
	}
	rec.mu.Lock()
	rec.spans = make([]span, capacity)
	rec.next, rec.full = 0, false
	rec.mu.Unlock()
}

// Start opens a named span; call the returned func to close it.
func Start(name string) func() {
	begin := time.Now().UnixNano()
	return func() {
		end := time.Now().UnixNano()
		rec.mu.Lock()
		if len(rec.spans) > 0 {
			rec.spans[rec.next] = span{name: name, start: begin, end: end}
			rec.next++
			if rec.next == len(rec.spans) {
				rec.next, rec.full = 0, true
			}
		}
		rec.mu.Unlock()
	}
}

func snapshot() []span {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	var out []span
	if rec.full {
		out = append(out, rec.spans[rec.next:]...)
	}
	return append(out, rec.spans[:rec.next]...)
}

// OpenProfilerGraph writes the recorded spans as a speedscope file in the
// temp dir and returns its path.
func OpenProfilerGraph() (string, error) {
	spans := snapshot()
	if len(spans) == 0 {
		return "", errors.New("profiler: no spans recorded")
	}
	path := filepath.Join(os.TempDir(), "orbit.speedscope.json")
	if err := writeSpeedscope(spans, path); err != nil {
		return "", fmt.Errorf("profiler: %w", err)
	}
	return path, nil
}

type ssEvent struct {
	Type  string `json:"type"`
	At    int64  `json:"at"`
	Frame int    `json:"frame"`
}

func writeSpeedscope(spans []span, path string) error {
	// Outer spans first; a stack walk then emits balanced open/close pairs.
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})
	base := spans[0].start
	us := func(ns int64) int64 { return (ns - base) / 1000 }

	frameIDs := map[string]int{}
	var frames []map[string]string
	var events []ssEvent
	var stack []span
	closeUntil := func(t int64) {
		for len(stack) > 0 && stack[len(stack)-1].end <= t {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			events = append(events, ssEvent{Type: "C", At: us(top.end), Frame: frameIDs[top.name]})
		}
	}
	for _, s := range spans {
		closeUntil(s.start)
		if len(stack) > 0 && s.end > stack[len(stack)-1].end {
			s.end = stack[len(stack)-1].end
		}
		id, ok := frameIDs[s.name]
		if !ok {
			id = len(frames)
			frameIDs[s.name] = id
			frames = append(frames, map[string]string{"name": s.name})
		}
		events = append(events, ssEvent{Type: "O", At: us(s.start), Frame: id})
		stack = append(stack, s)
	}
	closeUntil(1<<63 - 1)
	end := events[len(events)-1].At

	doc := map[string]any{
		"$schema": "https://www.speedscope.app/file-format-schema.json",
		"shared":  map[string]any{"frames": frames},
		"profiles": []map[string]any{{
			"type": "evented", "name": "orbit", "unit": "microseconds",
			"startValue": 0, "endValue": end, "events": events,
		}},
		"exporter": "orbit-profiler",
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
