package model

// Symptom represents a canonical symptom extracted from free text
type Symptom struct {
	Name     string `json:"name"`               // Canonical kebab-case token (e.g., "severe-headache")
	RawText  string `json:"raw_text"`           // The phrase that triggered the match
	Severity int    `json:"severity"`           // Estimated severity 1-10
	Duration string `json:"duration,omitempty"` // Free-form duration (e.g., "2 days"), empty if unknown
}

// Urgency levels produced by the diagnostic engine
const (
	UrgencyEmergency = "emergency"
	UrgencyUrgent    = "urgent"
	UrgencyRoutine   = "routine"
)

// Urgency classifications as declared in the knowledge base
const (
	KBUrgencyEmergency   = "emergency"
	KBUrgencyUrgent24h   = "urgent-24h"
	KBUrgencyRoutineCare = "routine-care"
	KBUrgencyUnknown     = "unknown"
)
