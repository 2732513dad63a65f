package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerWritesFrames(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("Converting to PNG...")
	s.w = &buf
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.StopWithSuccess("Converted")

	out := buf.String()
	if !strings.Contains(out, "Converting to PNG...") {
		t.Errorf("spinner output missing message: %q", out)
	}
	if !strings.Contains(out, "Converted") {
		t.Errorf("spinner output missing success line: %q", out)
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Connecting...")
	s.w = &bytes.Buffer{}
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Waiting...")
	s.w = &bytes.Buffer{}
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Stopping...")
	s.w = &bytes.Buffer{}
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithError(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("Rendering...")
	s.w = &buf
	s.Start()
	s.StopWithError("rsvg-convert failed")

	if !strings.Contains(buf.String(), "rsvg-convert failed") {
		t.Errorf("output = %q, want error line", buf.String())
	}
}
