package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// waitFired repeats trigger until onChange reports a call, or fails after a
// few seconds. Repeating covers the window before the watch is in place.
func waitFired(t *testing.T, fired <-chan struct{}, trigger func()) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	trigger()
	for {
		select {
		case <-fired:
			return
		case <-tick.C:
			trigger()
		case <-deadline:
			t.Fatal("filter file change not noticed")
		}
	}
}

// drain drops the extra events one save can produce.
func drain(fired <-chan struct{}) {
	time.Sleep(300 * time.Millisecond)
	for {
		select {
		case <-fired:
		default:
			return
		}
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatchFilters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filters.toml")
	writeFile(t, path, `search_text = "camp"`)

	fired := make(chan struct{}, 100)
	calls := 0
	onChange := func() error {
		calls++
		fired <- struct{}{}
		if calls == 1 {
			return errors.New("archive unreachable")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchFilters(ctx, path, onChange) }()

	// A failing search keeps the watch going.
	waitFired(t, fired, func() { writeFile(t, path, `search_text = "battle"`) })
	drain(fired)

	// Editors that save through a rename replace the watched file.
	tmp := filepath.Join(dir, "filters.toml.tmp")
	writeFile(t, tmp, `search_text = "home"`)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("rename over the filter file not noticed")
	}
	drain(fired)

	// The replaced file is watched again.
	waitFired(t, fired, func() { writeFile(t, path, `search_text = "furlough"`) })

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("watchFilters = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchFilters did not stop on cancel")
	}
}
