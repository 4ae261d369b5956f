package pipeline

import (
	"strings"
	"testing"

	"github.com/medichain/triage/internal/model"
)

func newPipeline() *Pipeline {
	cfg := model.DefaultConfig()
	return NewPipeline(cfg)
}

func TestTriage_FullFlow(t *testing.T) {
	p := newPipeline()

	report := p.Triage("I am 34 years old with a severe headache and fever for 2 days, and my neck is stiff", PatientContext{})

	if report.ReportID == "" {
		t.Error("expected a report ID")
	}
	if report.GeneratedAt.IsZero() {
		t.Error("expected a generation timestamp")
	}
	if report.Age == nil || *report.Age != 34 {
		t.Errorf("expected age 34 extracted from text, got %v", report.Age)
	}
	if len(report.Symptoms) == 0 {
		t.Fatal("expected extracted symptoms")
	}

	if report.Analysis.UrgencyLevel != model.UrgencyEmergency {
		t.Errorf("expected emergency urgency, got %s", report.Analysis.UrgencyLevel)
	}

	if report.Treatment == nil {
		t.Fatal("expected a treatment section for a non-empty differential")
	}
	if report.Treatment.Condition == "" || len(report.Treatment.Treatments) == 0 {
		t.Errorf("incomplete treatment section: %+v", report.Treatment)
	}
	if report.Treatment.Condition != report.Analysis.DifferentialDiagnoses[0] {
		t.Errorf("treatment targets %s, expected top differential %s",
			report.Treatment.Condition, report.Analysis.DifferentialDiagnoses[0])
	}
}

func TestTriage_NoSymptoms(t *testing.T) {
	p := newPipeline()

	report := p.Triage("hello there", PatientContext{})

	if len(report.Symptoms) != 0 {
		t.Errorf("expected no symptoms, got %v", report.Symptoms)
	}
	if report.Clarification == "" {
		t.Error("expected a clarification prompt for empty extraction")
	}
	if report.Treatment != nil {
		t.Error("expected no treatment section without symptoms")
	}
	if report.Analysis.UrgencyLevel != "" {
		t.Errorf("expected no analysis without symptoms, got %+v", report.Analysis)
	}
}

func TestTriage_ExplicitAgeWins(t *testing.T) {
	p := newPipeline()
	age := 50

	report := p.Triage("I am 20 years old with a fever", PatientContext{Age: &age})

	if report.Age == nil || *report.Age != 50 {
		t.Errorf("expected caller-supplied age 50 to win, got %v", report.Age)
	}
}

func TestTriage_PatientContextFlowsToTreatment(t *testing.T) {
	p := newPipeline()

	report := p.Triage("I have chest pain, nausea and I'm short of breath, started 1 hour ago", PatientContext{
		Allergies: []string{"aspirin"},
	})

	if report.Treatment == nil {
		t.Fatal("expected a treatment section")
	}
	if report.Treatment.Condition != "heart-attack" {
		t.Fatalf("expected heart-attack as primary condition, got %s", report.Treatment.Condition)
	}

	found := false
	for _, w := range report.Treatment.SafetyWarnings {
		if strings.Contains(w, "ALLERGY ALERT") && strings.Contains(w, "aspirin") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected aspirin allergy alert in treatment, got %v", report.Treatment.SafetyWarnings)
	}
}

func TestTriage_DifferentialLinksAnnotated(t *testing.T) {
	p := newPipeline()

	report := p.Triage("I have a fever, cough, sore throat and chills and feel exhausted", PatientContext{})

	found := false
	for _, d := range report.Analysis.DifferentialDiagnoses {
		if d == "influenza" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected influenza in differential, got %v", report.Analysis.DifferentialDiagnoses)
	}

	links := report.Analysis.DifferentialLinks["influenza"]
	if len(links) != 2 || links[0] != "covid-19" || links[1] != "common-cold" {
		t.Errorf("expected influenza annotated with [covid-19 common-cold], got %v", links)
	}
}

func TestTriage_UniqueReportIDs(t *testing.T) {
	p := newPipeline()

	a := p.Triage("I have a fever", PatientContext{})
	b := p.Triage("I have a fever", PatientContext{})

	if a.ReportID == b.ReportID {
		t.Error("expected distinct report IDs")
	}

	// Everything outside the envelope is deterministic for identical input
	if a.Analysis.UrgencyLevel != b.Analysis.UrgencyLevel {
		t.Errorf("urgency differs: %s vs %s", a.Analysis.UrgencyLevel, b.Analysis.UrgencyLevel)
	}
	if len(a.Analysis.DifferentialDiagnoses) != len(b.Analysis.DifferentialDiagnoses) {
		t.Errorf("differential differs: %v vs %v", a.Analysis.DifferentialDiagnoses, b.Analysis.DifferentialDiagnoses)
	}
}

func TestTriage_FallbackBackend(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.KB.Backend = "fallback"
	p := NewPipeline(cfg)

	report := p.Triage("I have a fever and cough for 3 days", PatientContext{})

	if len(report.Symptoms) == 0 {
		t.Fatal("expected symptoms with fallback backend")
	}
	if len(report.Analysis.DifferentialDiagnoses) == 0 {
		t.Error("expected differential diagnoses from the curated subset")
	}
}
