// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// TestWatcherDebounceCoalescesClassWrites verifies that rapid writes to
// several class files produce a single callback carrying all of them.
func TestWatcherDebounceCoalescesClassWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{})

	w, err := New(Config{
		ClassesDir: dir,
		Debounce:   100 * time.Millisecond,
		Logger:     quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			close(done)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	for _, name := range []string{"A.class", "B.class", "C.class"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("code"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		// Small pause so events arrive separately, still well within the
		// debounce window.
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	// Allow a brief settle for any spurious extra callbacks.
	time.Sleep(200 * time.Millisecond)

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}
	for _, want := range []string{"A.class", "B.class", "C.class"} {
		if !slices.Contains(collected, want) {
			t.Errorf("expected %q in changed files, got %v", want, collected)
		}
	}
}

// TestWatcherDefaultPatternSkipsNonClassFiles verifies that with no
// explicit patterns only class files trigger the callback.
func TestWatcherDefaultPatternSkipsNonClassFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	fired := make(chan []string, 10)
	w, err := New(Config{
		ClassesDir: dir,
		Debounce:   100 * time.Millisecond,
		Logger:     quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Foo.class"), []byte("code"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case changed := <-fired:
		if slices.Contains(changed, "notes.txt") {
			t.Errorf("non-class file triggered the callback: %v", changed)
		}
		if !slices.Contains(changed, "Foo.class") {
			t.Errorf("class file missing from callback: %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

// TestWatcherIgnorePatterns confirms that user-supplied ignore patterns
// suppress callbacks even for matching class files.
func TestWatcherIgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "generated"), 0o755); err != nil {
		t.Fatal(err)
	}

	fired := make(chan []string, 10)
	w, err := New(Config{
		ClassesDir: dir,
		Ignore:     []string{"generated/**"},
		Debounce:   100 * time.Millisecond,
		Logger:     quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "generated", "Gen.class"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Kept.class"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case changed := <-fired:
		if slices.Contains(changed, filepath.Join("generated", "Gen.class")) {
			t.Errorf("ignored file triggered the callback: %v", changed)
		}
		if !slices.Contains(changed, "Kept.class") {
			t.Errorf("non-ignored file missing from callback: %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestWatcherInvalidPatternFailsAtConstruction(t *testing.T) {
	t.Parallel()

	_, err := New(Config{
		ClassesDir: t.TempDir(),
		Patterns:   []string{"[unclosed"},
		Logger:     quietLogger(),
	})
	if err == nil {
		t.Fatal("New() with an invalid watch pattern returned nil error")
	}

	_, err = New(Config{
		ClassesDir: t.TempDir(),
		Ignore:     []string{"[unclosed"},
		Logger:     quietLogger(),
	})
	if err == nil {
		t.Fatal("New() with an invalid ignore pattern returned nil error")
	}
}

func TestWatcherRunTwiceErrors(t *testing.T) {
	t.Parallel()

	w, err := New(Config{ClassesDir: t.TempDir(), Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the first Run a moment to claim the started flag.
	time.Sleep(50 * time.Millisecond)

	if err := w.Run(ctx); err == nil {
		t.Error("second Run() returned nil error")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
}

func TestDefaultIgnoresReturnsCopy(t *testing.T) {
	t.Parallel()

	a := DefaultIgnores()
	if len(a) == 0 {
		t.Fatal("DefaultIgnores() returned an empty slice")
	}
	a[0] = "mutated"
	if b := DefaultIgnores(); b[0] == "mutated" {
		t.Error("DefaultIgnores() exposed the internal slice")
	}
}
