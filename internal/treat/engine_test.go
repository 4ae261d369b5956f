package treat

import (
	"reflect"
	"strings"
	"testing"

	"github.com/medichain/triage/internal/kb"
	"github.com/medichain/triage/internal/model"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(kb.New(kb.KindPattern, "", false))
}

func TestRecommend_HeartAttack(t *testing.T) {
	e := newEngine(t)

	result := e.Recommend(model.TreatmentRequest{
		PrimaryCondition: "heart-attack",
		UrgencyLevel:     model.UrgencyEmergency,
	})

	if result.Condition != "heart-attack" {
		t.Errorf("unexpected condition: %s", result.Condition)
	}
	if len(result.Treatments) == 0 || result.Treatments[0] != "immediate-911" {
		t.Errorf("expected immediate-911 first in declaration order, got %v", result.Treatments)
	}
	if result.SpecialistReferral != "Cardiologist (ER immediately - call 911)" {
		t.Errorf("unexpected specialist: %q", result.SpecialistReferral)
	}
	if result.FollowUpTimeline != "Immediate (ER visit required)" {
		t.Errorf("unexpected follow-up: %q", result.FollowUpTimeline)
	}
	for _, tr := range result.Treatments {
		if result.EvidenceSources[tr] == "" {
			t.Errorf("missing evidence source for %s", tr)
		}
	}
}

func TestRecommend_AllergyAlert(t *testing.T) {
	e := newEngine(t)

	result := e.Recommend(model.TreatmentRequest{
		PrimaryCondition: "heart-attack",
		UrgencyLevel:     model.UrgencyEmergency,
		Allergies:        []string{"aspirin"},
	})

	found := false
	for _, w := range result.SafetyWarnings {
		if w == "ALLERGY ALERT: aspirin-immediately may contain aspirin" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected aspirin allergy alert, got %v", result.SafetyWarnings)
	}
}

func TestRecommend_DrugInteraction(t *testing.T) {
	e := newEngine(t)

	result := e.Recommend(model.TreatmentRequest{
		PrimaryCondition:   "covid-19",
		UrgencyLevel:       model.UrgencyUrgent,
		CurrentMedications: []string{"statins"},
	})

	found := false
	for _, w := range result.SafetyWarnings {
		if strings.Contains(w, "Drug interaction") && strings.Contains(w, "antiviral-paxlovid") && strings.Contains(w, "statins") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected paxlovid/statins interaction warning, got %v", result.SafetyWarnings)
	}
}

func TestRecommend_HistoryContraindications(t *testing.T) {
	e := newEngine(t)

	result := e.Recommend(model.TreatmentRequest{
		PrimaryCondition: "migraine",
		UrgencyLevel:     model.UrgencyRoutine,
		MedicalHistory:   []string{"kidney-disease"},
	})

	nsaids := result.Contraindications["NSAIDs"]
	if len(nsaids) == 0 {
		t.Fatalf("expected NSAIDs contraindications, got %v", result.Contraindications)
	}

	var hasHistory, hasDose bool
	for _, c := range nsaids {
		if c == "Contraindicated with kidney-disease" {
			hasHistory = true
		}
		if c == "Dose adjustment required for kidney-disease" {
			hasDose = true
		}
	}
	if !hasHistory {
		t.Errorf("expected history contraindication, got %v", nsaids)
	}
	// requires-dose-adjustment is declared for NSAIDs/elderly, not kidney-disease
	if hasDose {
		t.Errorf("unexpected dose adjustment for kidney-disease, got %v", nsaids)
	}
}

func TestRecommend_DoseAdjustment(t *testing.T) {
	e := newEngine(t)

	result := e.Recommend(model.TreatmentRequest{
		PrimaryCondition: "migraine",
		UrgencyLevel:     model.UrgencyRoutine,
		MedicalHistory:   []string{"elderly"},
	})

	found := false
	for _, c := range result.Contraindications["NSAIDs"] {
		if c == "Dose adjustment required for elderly" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected NSAIDs dose adjustment for elderly, got %v", result.Contraindications)
	}
}

func TestRecommend_AgeRules(t *testing.T) {
	e := newEngine(t)

	child := 10
	result := e.Recommend(model.TreatmentRequest{
		PrimaryCondition: "heart-attack",
		UrgencyLevel:     model.UrgencyEmergency,
		PatientAge:       &child,
	})

	var pediatric bool
	for _, c := range result.Contraindications["aspirin-immediately"] {
		if c == "Not approved for pediatric use" {
			pediatric = true
		}
	}
	if !pediatric {
		t.Errorf("expected pediatric contraindication for aspirin, got %v", result.Contraindications)
	}

	adult := 40
	result = e.Recommend(model.TreatmentRequest{
		PrimaryCondition: "heart-attack",
		UrgencyLevel:     model.UrgencyEmergency,
		PatientAge:       &adult,
	})
	for _, c := range result.Contraindications["aspirin-immediately"] {
		if c == "Not approved for pediatric use" {
			t.Errorf("unexpected pediatric contraindication for adult, got %v", result.Contraindications)
		}
	}
}

func TestRecommend_UnknownCondition(t *testing.T) {
	e := newEngine(t)

	result := e.Recommend(model.TreatmentRequest{
		PrimaryCondition: "mystery-ailment",
		UrgencyLevel:     model.UrgencyRoutine,
	})

	if len(result.Treatments) != 1 {
		t.Fatalf("expected single placeholder treatment, got %v", result.Treatments)
	}
	if result.Treatments[0] != "Consult healthcare provider for mystery-ailment treatment" {
		t.Errorf("unexpected placeholder: %q", result.Treatments[0])
	}
	if result.SpecialistReferral != "" {
		t.Errorf("expected no specialist for unknown routine condition, got %q", result.SpecialistReferral)
	}
}

func TestRecommend_UnknownEmergencyFallsBackToER(t *testing.T) {
	e := newEngine(t)

	result := e.Recommend(model.TreatmentRequest{
		PrimaryCondition: "mystery-ailment",
		UrgencyLevel:     model.UrgencyEmergency,
	})

	if result.SpecialistReferral != "Emergency Department immediately" {
		t.Errorf("expected ER fallback referral, got %q", result.SpecialistReferral)
	}
}

func TestRecommend_FollowUpTimelines(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		condition string
		urgency   string
		want      string
	}{
		{"meningitis", model.UrgencyEmergency, "Immediate (ER visit required)"},
		{"pneumonia", model.UrgencyUrgent, "Within 24 hours"},
		{"stroke", model.UrgencyUrgent, "Within 3 hours"},
		{"common-cold", model.UrgencyRoutine, "1-2 weeks (or sooner if symptoms worsen)"},
	}

	for _, tt := range tests {
		result := e.Recommend(model.TreatmentRequest{PrimaryCondition: tt.condition, UrgencyLevel: tt.urgency})
		if result.FollowUpTimeline != tt.want {
			t.Errorf("%s/%s: expected %q, got %q", tt.condition, tt.urgency, tt.want, result.FollowUpTimeline)
		}
	}
}

func TestRecommend_WarningsDedupedAndSorted(t *testing.T) {
	e := newEngine(t)

	result := e.Recommend(model.TreatmentRequest{
		PrimaryCondition: "heart-attack",
		UrgencyLevel:     model.UrgencyEmergency,
		Allergies:        []string{"aspirin", "aspirin"},
	})

	seen := make(map[string]bool)
	for i, w := range result.SafetyWarnings {
		if seen[w] {
			t.Errorf("duplicate warning: %q", w)
		}
		seen[w] = true
		if i > 0 && result.SafetyWarnings[i-1] > w {
			t.Errorf("warnings not sorted: %q before %q", result.SafetyWarnings[i-1], w)
		}
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	e := newEngine(t)

	req := model.TreatmentRequest{
		PrimaryCondition:   "covid-19",
		UrgencyLevel:       model.UrgencyUrgent,
		Allergies:          []string{"penicillin"},
		CurrentMedications: []string{"statins"},
		MedicalHistory:     []string{"kidney-disease"},
	}

	first := e.Recommend(req)
	second := e.Recommend(req)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("recommendation is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// panicBackend triggers the recovery boundary
type panicBackend struct{ kb.Backend }

func (panicBackend) TreatmentsOf(string) []string { panic("backend unavailable") }

func TestRecommend_RecoversFromPanic(t *testing.T) {
	e := NewEngine(panicBackend{})

	result := e.Recommend(model.TreatmentRequest{PrimaryCondition: "influenza"})

	if len(result.Treatments) != 1 || !strings.Contains(result.Treatments[0], "consult a healthcare provider") {
		t.Errorf("expected degraded treatments, got %v", result.Treatments)
	}
	if result.SpecialistReferral != "Healthcare Provider" {
		t.Errorf("expected generic referral, got %q", result.SpecialistReferral)
	}
	if result.FollowUpTimeline != "As soon as possible" {
		t.Errorf("expected asap follow-up, got %q", result.FollowUpTimeline)
	}
}
