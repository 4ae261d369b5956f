package model

// AnalysisRequest is the transport-agnostic input to the diagnostic engine
type AnalysisRequest struct {
	Symptoms       []string          `json:"symptoms"`
	Age            *int              `json:"age,omitempty"`
	SeverityScores map[string]int    `json:"severity_scores,omitempty"`
	DurationInfo   map[string]string `json:"duration_info,omitempty"`
	MedicalHistory []string          `json:"medical_history,omitempty"`
}

// TreatmentRequest is the transport-agnostic input to the treatment engine
type TreatmentRequest struct {
	PrimaryCondition      string   `json:"primary_condition"`
	AlternativeConditions []string `json:"alternative_conditions,omitempty"`
	UrgencyLevel          string   `json:"urgency_level"`
	PatientAge            *int     `json:"patient_age,omitempty"`
	Allergies             []string `json:"allergies,omitempty"`
	CurrentMedications    []string `json:"current_medications,omitempty"`
	MedicalHistory        []string `json:"medical_history,omitempty"`
}
