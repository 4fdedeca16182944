package pipeline

import (
	"bytes"
	"testing"
)

func TestRunEvaluatesAndAppendsTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	result, err := Run("Print 42", Options{Evaluate: true, Out: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "42\n" {
		t.Errorf("got %q, want %q", got, "42\n")
	}
	if result.AST == nil || result.ST == nil || result.Family == nil {
		t.Fatal("expected every intermediate artifact to be populated")
	}
}

func TestRunWithoutEvaluateStopsAfterCompile(t *testing.T) {
	var buf bytes.Buffer
	result, err := Run("Print 42", Options{Evaluate: false, Out: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output when Evaluate is false, got %q", buf.String())
	}
	if result.Family == nil {
		t.Fatal("expected the compiled family to still be populated")
	}
}

func TestRunPropagatesParseErrors(t *testing.T) {
	_, err := Run("let x = in x", Options{Evaluate: true, Out: &bytes.Buffer{}})
	if err == nil {
		t.Fatal("expected a parse error to propagate")
	}
}

type stepRecord struct {
	kind  string
	depth int
	env   int
}

type recordingTracer struct {
	steps []stepRecord
}

func (r *recordingTracer) Step(ctrlKind string, stackDepth, envID int) {
	r.steps = append(r.steps, stepRecord{ctrlKind, stackDepth, envID})
}

func TestRunWiresTracerIntoEveryStep(t *testing.T) {
	tracer := &recordingTracer{}
	var buf bytes.Buffer
	if _, err := Run("Print (1 + 2)", Options{Evaluate: true, Out: &buf, Tracer: tracer}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracer.steps) == 0 {
		t.Fatal("expected the tracer to observe at least one evaluator step")
	}
}
