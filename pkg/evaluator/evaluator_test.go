package evaluator

import (
	"context"
	"errors"
	"testing"
)

func TestGoEvaluator_BoolPass(t *testing.T) {
	g := NewGoEvaluator()

	ok, err := g.Evaluate(context.Background(), `package check

func Check(bindings map[string]any) (bool, error) {
	name, _ := bindings["file"].(string)
	return name != "", nil
}
`, map[string]any{"file": "main.go"})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !ok {
		t.Error("Evaluate() = false, want true")
	}
}

func TestGoEvaluator_BoolFail(t *testing.T) {
	g := NewGoEvaluator()

	ok, err := g.Evaluate(context.Background(), `package check

func Check(bindings map[string]any) (bool, error) {
	return false, nil
}
`, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if ok {
		t.Error("Evaluate() = true, want false")
	}
}

func TestGoEvaluator_ForallValues(t *testing.T) {
	g := NewGoEvaluator()

	ok, err := g.Evaluate(context.Background(), `package check

func Check(bindings map[string]any) ([]string, error) {
	return []string{"src/a.go", "src/b.go"}, nil
}
`, nil)
	if ok {
		t.Error("Evaluate() = true, want false")
	}

	var forall *ForallViolationError
	if !errors.As(err, &forall) {
		t.Fatalf("error type = %T, want *ForallViolationError", err)
	}
	if len(forall.FailingValues) != 2 || forall.FailingValues[0] != "src/a.go" {
		t.Errorf("FailingValues = %v", forall.FailingValues)
	}
}

func TestGoEvaluator_EmptyForallPasses(t *testing.T) {
	g := NewGoEvaluator()

	ok, err := g.Evaluate(context.Background(), `package check

func Check(bindings map[string]any) ([]string, error) {
	return nil, nil
}
`, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !ok {
		t.Error("Evaluate() = false, want true")
	}
}

func TestGoEvaluator_ExpressionError(t *testing.T) {
	g := NewGoEvaluator()

	if _, err := g.Evaluate(context.Background(), `package check

func Check(bindings map[string]any) (bool, error) {
	return false, errors.New("cannot read file")
}

import "errors"
`, nil); err == nil {
		t.Fatal("expected interpretation error for malformed source")
	}
}

func TestGoEvaluator_MissingCheck(t *testing.T) {
	g := NewGoEvaluator()

	if _, err := g.Evaluate(context.Background(), `package check

func Verify() bool { return true }
`, nil); err == nil {
		t.Fatal("expected error when Check is undefined")
	}
}

func TestGoEvaluator_CancelledContext(t *testing.T) {
	g := NewGoEvaluator()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Evaluate(ctx, "package check", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestFuncAdapter(t *testing.T) {
	called := false
	f := Func(func(ctx context.Context, expression string, bindings map[string]any) (bool, error) {
		called = true
		return true, nil
	})

	ok, err := f.Evaluate(context.Background(), "x", nil)
	if err != nil || !ok || !called {
		t.Errorf("Func adapter: ok=%v err=%v called=%v", ok, err, called)
	}
}
