package kb

import (
	"strings"
	"testing"
)

func TestParse_Basic(t *testing.T) {
	text := `
; comment line
(is-condition influenza)
(has-symptom influenza fever)

(has-urgency influenza routine-care)
`

	facts, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(facts) != 3 {
		t.Fatalf("expected 3 facts, got %d", len(facts))
	}

	if facts[0].Relation != "is-condition" || facts[0].Arg(0) != "influenza" {
		t.Errorf("unexpected first fact: %+v", facts[0])
	}
	if facts[1].Relation != RelHasSymptom || facts[1].Arg(1) != "fever" {
		t.Errorf("unexpected second fact: %+v", facts[1])
	}
}

func TestParse_SchemaLinesSkipped(t *testing.T) {
	text := `(: has-symptom (-> Condition Symptom))
(has-symptom influenza fever)`

	facts, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(facts) != 1 {
		t.Fatalf("expected schema line skipped, got %d facts", len(facts))
	}
}

func TestParse_QuotedValue(t *testing.T) {
	text := `(safety-warning anticoagulation "High bleeding risk. Avoid contact sports.")`

	facts, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(facts) != 1 {
		t.Fatalf("expected 1 fact, got %d", len(facts))
	}

	f := facts[0]
	if len(f.Args) != 2 {
		t.Fatalf("expected quoted span as one argument, got args %v", f.Args)
	}
	if f.Arg(1) != "High bleeding risk. Avoid contact sports." {
		t.Errorf("unexpected quoted value: %q", f.Arg(1))
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"unparenthesized", "has-symptom influenza fever", "parenthesized"},
		{"missing close", "(has-symptom influenza fever", "parenthesized"},
		{"bare relation", "(is-condition)", "at least one argument"},
		{"unterminated quote", `(safety-warning x "oops)`, "unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatalf("expected error for %q", tt.text)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
			if !strings.Contains(err.Error(), "line 1") {
				t.Errorf("expected line number in error, got %v", err)
			}
		})
	}
}

func TestParse_LineNumbers(t *testing.T) {
	text := "(is-condition influenza)\n\n; comment\nbad line"

	_, err := Parse(text)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Errorf("expected line 4 in error, got %v", err)
	}
}

func TestLoad_Empty(t *testing.T) {
	if _, err := Load("; nothing but comments\n"); err == nil {
		t.Error("expected error for empty fact listing")
	}
}
