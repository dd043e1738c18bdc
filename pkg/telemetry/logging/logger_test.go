package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("hello", "key", "value")
	out := buf.String()
	if !strings.Contains(out, `"msg":"hello"`) || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("json output = %q", out)
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Warn("careful")
	if !strings.Contains(buf.String(), "msg=careful") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("dropped")
	l.Error("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("error message should pass at warn level")
	}
}

func TestNew_InvalidInputs(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := WithSessionID(context.Background(), "s-1")
	ctx = WithTarget(ctx, "/project")
	ctx = WithRuleID(ctx, "r-go")

	l.InfoContext(ctx, "validating")
	out := buf.String()
	for _, want := range []string{`"session_id":"s-1"`, `"target":"/project"`, `"rule_id":"r-go"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %q", want, out)
		}
	}

	if id, ok := SessionIDFrom(ctx); !ok || id != "s-1" {
		t.Errorf("SessionIDFrom = %q, %v", id, ok)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.With("component", "pipeline").Info("ready")
	if !strings.Contains(buf.String(), `"component":"pipeline"`) {
		t.Errorf("output = %q", buf.String())
	}
}
