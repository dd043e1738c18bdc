package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestSimpleProgress_Render(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	p.Start(10)
	p.Update(5)
	p.Finish()

	out := buf.String()
	if !strings.Contains(out, "(5/10 files)") {
		t.Errorf("midpoint render missing: %q", out)
	}
	if !strings.Contains(out, "(10/10 files)") {
		t.Errorf("final render missing: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Finish should terminate the line")
	}
}

func TestSimpleProgress_ZeroTotalIsSilent(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	p.Start(0)
	p.Update(0)

	if buf.Len() != 0 {
		t.Errorf("zero-total progress wrote %q", buf.String())
	}
}

func TestSimpleProgress_Hook(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)

	hook := p.Hook()
	hook(10, 23)
	hook(20, 23)
	hook(23, 23)

	out := buf.String()
	if !strings.Contains(out, "(23/23 files)") {
		t.Errorf("hook did not drive the bar to completion: %q", out)
	}
}
