package model

import "time"

// Report is the complete triage report envelope for one case description.
// The envelope carries the ID and timestamp; the stage results inside are a
// pure function of the input text and the knowledge base.
type Report struct {
	ReportID    string    `json:"report_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Input       string    `json:"input"`

	Symptoms []Symptom `json:"symptoms"`
	Age      *int      `json:"age,omitempty"`

	Analysis  AnalysisResult   `json:"analysis"`
	Treatment *TreatmentResult `json:"treatment,omitempty"`

	Clarification string `json:"clarification,omitempty"` // Follow-up prompt when intake data is incomplete
}

// AnalysisResult is the diagnostic engine output
type AnalysisResult struct {
	UrgencyLevel          string              `json:"urgency_level"`
	RedFlags              []string            `json:"red_flags"`
	DifferentialDiagnoses []string            `json:"differential_diagnoses"`
	DifferentialLinks     map[string][]string `json:"differential_links,omitempty"` // Declared differential-from links per retained diagnosis
	ConfidenceScores      map[string]float64  `json:"confidence_scores"`
	ReasoningTrace        []string            `json:"reasoning_trace"`
	RecommendedNextStep   string              `json:"recommended_next_step"`
}

// TreatmentResult is the treatment engine output
type TreatmentResult struct {
	Condition          string              `json:"condition"`
	Treatments         []string            `json:"treatments"`
	EvidenceSources    map[string]string   `json:"evidence_sources"`
	Contraindications  map[string][]string `json:"contraindications"`
	SafetyWarnings     []string            `json:"safety_warnings"`
	SpecialistReferral string              `json:"specialist_referral,omitempty"`
	FollowUpTimeline   string              `json:"follow_up_timeline"`
	ReasoningTrace     []string            `json:"reasoning_trace"`
}
