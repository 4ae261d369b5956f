package kb

import "github.com/medichain/triage/internal/model"

// FallbackBackend answers the same query contract from a hand-curated subset
// of the knowledge base encoded as direct maps. It exists so the pipeline
// still degrades gracefully when the fact listing cannot be loaded.
type FallbackBackend struct {
	conditionSymptoms map[string][]string
	symptomConditions []string // condition iteration order for ConditionsWith
	urgency           map[string]string
	redFlags          []string
	treatments        map[string][]string
	contraindications map[string][]string
	safetyWarnings    map[string]string
}

// NewFallbackBackend creates the dictionary backend
func NewFallbackBackend() *FallbackBackend {
	return &FallbackBackend{
		conditionSymptoms: map[string][]string{
			"meningitis":      {"fever", "severe-headache", "stiff-neck", "neck-stiffness", "confusion", "nausea", "vomiting"},
			"stroke":          {"face-drooping", "arm-weakness", "speech-difficulty", "slurred-speech", "confusion", "dizziness"},
			"heart-attack":    {"chest-pain", "shortness-of-breath", "radiating-pain-left-arm"},
			"pneumonia":       {"cough", "fever", "chest-pain", "shortness-of-breath", "chills", "fatigue"},
			"influenza":       {"fever", "cough", "sore-throat", "muscle-aches", "body-aches", "fatigue", "headache", "chills"},
			"covid-19":        {"fever", "cough", "shortness-of-breath", "fatigue", "loss-of-taste", "loss-of-smell"},
			"migraine":        {"headache", "nausea", "vomiting", "light-sensitivity"},
			"gastroenteritis": {"diarrhea", "nausea", "vomiting", "abdominal-pain"},
		},
		symptomConditions: []string{
			"meningitis", "stroke", "heart-attack", "pneumonia",
			"influenza", "covid-19", "migraine", "gastroenteritis",
		},
		urgency: map[string]string{
			"meningitis":      model.KBUrgencyEmergency,
			"stroke":          model.KBUrgencyEmergency,
			"heart-attack":    model.KBUrgencyEmergency,
			"pneumonia":       model.KBUrgencyUrgent24h,
			"influenza":       model.KBUrgencyRoutineCare,
			"covid-19":        model.KBUrgencyUrgent24h,
			"migraine":        model.KBUrgencyRoutineCare,
			"gastroenteritis": model.KBUrgencyRoutineCare,
		},
		redFlags: []string{
			"chest-pain", "face-drooping", "stiff-neck", "neck-stiffness",
			"altered-mental-status", "shortness-of-breath", "coughing-blood",
		},
		treatments: map[string][]string{
			"meningitis":      {"immediate-911", "emergency-antibiotics", "hospital-admission"},
			"stroke":          {"immediate-911", "tPA-within-3-hours"},
			"heart-attack":    {"immediate-911", "aspirin-immediately", "cardiac-catheterization"},
			"pneumonia":       {"antibiotics-bacterial", "rest-and-fluids", "oxygen-therapy"},
			"influenza":       {"antiviral-medications", "rest-and-fluids", "symptom-management"},
			"covid-19":        {"isolation", "antiviral-paxlovid", "rest-and-fluids"},
			"migraine":        {"triptans", "NSAIDs", "rest-dark-room"},
			"gastroenteritis": {"oral-rehydration", "rest", "bland-diet"},
		},
		contraindications: map[string][]string{
			"aspirin-immediately": {"bleeding-disorder", "active-bleeding", "aspirin-allergy"},
			"triptans":            {"heart-disease", "pregnancy", "uncontrolled-hypertension"},
			"NSAIDs":              {"kidney-disease", "stomach-ulcers", "heart-failure"},
		},
		safetyWarnings: map[string]string{
			"aspirin-immediately": "Chew, don't swallow whole. Call 911 immediately.",
			"tPA-within-3-hours":  "3-hour window critical. Note symptom start time.",
		},
	}
}

func (b *FallbackBackend) SymptomsOf(condition string) []string {
	return b.conditionSymptoms[condition]
}

func (b *FallbackBackend) ConditionsWith(symptom string) []string {
	var out []string
	for _, cond := range b.symptomConditions {
		for _, s := range b.conditionSymptoms[cond] {
			if s == symptom {
				out = append(out, cond)
				break
			}
		}
	}
	return out
}

func (b *FallbackBackend) UrgencyOf(condition string) string {
	if u, ok := b.urgency[condition]; ok {
		return u
	}
	return model.KBUrgencyUnknown
}

func (b *FallbackBackend) RedFlagSymptoms() []string {
	return b.redFlags
}

// TimeSensitivity is not encoded in the curated subset
func (b *FallbackBackend) TimeSensitivity(condition string) (int, bool) {
	return 0, false
}

// DifferentialLinks is not encoded in the curated subset
func (b *FallbackBackend) DifferentialLinks(condition string) []string {
	return nil
}

func (b *FallbackBackend) TreatmentsOf(condition string) []string {
	return b.treatments[condition]
}

func (b *FallbackBackend) ContraindicationsOf(treatment string) []string {
	return b.contraindications[treatment]
}

// HasDrugInteraction is not encoded in the curated subset
func (b *FallbackBackend) HasDrugInteraction(treatment, medication string) bool {
	return false
}

// RequiresDoseAdjustment is not encoded in the curated subset
func (b *FallbackBackend) RequiresDoseAdjustment(treatment, condition string) bool {
	return false
}

func (b *FallbackBackend) SafetyWarning(treatment string) string {
	return b.safetyWarnings[treatment]
}
