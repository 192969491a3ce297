package wasmhost

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/termsink/backend"
)

// buildGuest compiles cmd/termsink-guest for wasip1 and returns the module bytes
func buildGuest(t *testing.T) []byte {
	t.Helper()
	if testing.Short() {
		t.Skip("guest build skipped in short mode")
	}
	gobin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not on PATH")
	}

	out := filepath.Join(t.TempDir(), "guest.wasm")
	cmd := exec.Command(gobin, "build", "-o", out, "./cmd/termsink-guest")
	cmd.Dir = ".."
	cmd.Env = append(os.Environ(), "GOOS=wasip1", "GOARCH=wasm")
	if msg, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("guest build failed: %v\n%s", err, msg)
	}

	wasm, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	return wasm
}

func TestRunBuiltGuest(t *testing.T) {
	wasm := buildGuest(t)
	rec := backend.NewRecorder(backend.Rect{Width: 40, Height: 6})

	var stderr bytes.Buffer
	err := Run(context.Background(), wasm, rec, Options{
		Args:   []string{"-frames", "3"},
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("Run failed: %v\nstderr: %s", err, stderr.String())
	}

	if got := rec.Count(backend.OpFlush); got != 3 {
		t.Errorf("Expected 3 flushed frames, got %d", got)
	}
	if got := rec.Count(backend.OpShowCursor); got != 1 {
		t.Errorf("Expected one show_cursor, got %d", got)
	}
	last, ok := rec.Last()
	if !ok || last.Op != backend.OpShowCursor {
		t.Errorf("Expected show_cursor last, got %+v", last)
	}
	if r := rec.Cell(0, 0).Rune; r != '╭' {
		t.Errorf("Expected rounded corner at origin, got %q", r)
	}
}
