// Package extract turns free-text symptom descriptions into canonical
// symptom records using priority-ordered keyword tables.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/medichain/triage/internal/model"
)

// symptomEntry pairs a canonical symptom with its keyword variants.
// Entries are matched in slice order: more specific phrasings must come
// before their generic cousins ("severe headache" before "headache") so the
// specific canonical symptom wins when both would match.
type symptomEntry struct {
	name     string
	keywords []string
}

// Extractor extracts and normalizes symptoms from natural language text
type Extractor struct {
	symptoms []symptomEntry

	severityHigh   []string
	severityMedium []string
	severityLow    []string
}

// NewExtractor creates an extractor with the built-in keyword tables
func NewExtractor() *Extractor {
	return &Extractor{
		symptoms: []symptomEntry{
			// Fever & temperature
			{"high-fever", []string{"high fever", "very high temperature", "burning up with fever"}},
			{"fever", []string{"fever", "high temperature", "temp", "hot"}},
			{"chills", []string{"chills", "shivering", "shaking", "cold"}},

			// Head & neurological
			{"severe-headache", []string{"severe headache", "terrible headache", "worst headache", "intense headache"}},
			{"headache", []string{"headache", "head pain", "head hurts", "migraine", "head ache"}},
			{"dizziness", []string{"dizzy", "lightheaded", "vertigo", "spinning"}},
			{"confusion", []string{"confused", "disoriented", "foggy", "can't think"}},

			// Neck
			{"neck-stiffness", []string{"neck is very stiff", "neck is stiff", "very stiff neck", "extremely stiff neck"}},
			{"stiff-neck", []string{"stiff neck", "neck stiff", "can't move neck", "neck hurts to move"}},

			// Respiratory
			{"difficulty-breathing", []string{"difficulty breathing", "hard to breathe", "can't breathe well"}},
			{"shortness-of-breath", []string{"short of breath", "can't breathe", "breathless", "gasping"}},
			{"cough", []string{"cough", "coughing", "hacking"}},
			{"sore-throat", []string{"sore throat", "throat pain", "hurts to swallow"}},

			// Gastrointestinal
			{"nausea", []string{"nausea", "nauseous", "queasy", "sick to stomach"}},
			{"vomiting", []string{"vomiting", "throwing up", "vomit", "puking"}},
			{"diarrhea", []string{"diarrhea", "loose stool", "runny stool"}},
			{"abdominal-pain", []string{"stomach pain", "abdominal pain", "belly pain", "stomach ache"}},

			// Muscular & pain
			{"chest-pain", []string{"chest pain", "chest hurts", "chest pressure"}},
			{"muscle-pain", []string{"muscle pain", "body aches", "sore muscles", "aching"}},
			{"joint-pain", []string{"joint pain", "joints hurt", "stiff joints"}},

			// Skin
			{"rash", []string{"rash", "skin rash", "spots", "bumps"}},

			// Energy & consciousness
			{"fatigue", []string{"tired", "fatigue", "exhausted", "weakness", "weak"}},
			{"loss-of-consciousness", []string{"passed out", "fainted", "blacked out", "unconscious"}},
		},
		severityHigh:   []string{"severe", "extreme", "worst", "unbearable", "terrible", "intense"},
		severityMedium: []string{"moderate", "significant", "bad", "strong"},
		severityLow:    []string{"mild", "slight", "little bit", "somewhat"},
	}
}

var (
	durationForRe = regexp.MustCompile(`for\s+(\d+)\s+(days?|hours?|weeks?)`)
	durationAgoRe = regexp.MustCompile(`(\d+)\s+(days?|hours?|weeks?)\s+ago`)
	ageRe         = regexp.MustCompile(`(\d+)\s*(year|years|yr|yrs)\s*old`)
)

// Extract returns one record per matched canonical symptom. The severity
// and duration estimates are global per call: they are derived from the
// whole text and applied identically to every extracted symptom.
//
// A matched keyword is consumed from the working text, so a specific
// phrasing ("terrible headache") yields its specific symptom and keeps the
// generic cousin ("headache") from re-matching the same span.
func (e *Extractor) Extract(text string) []model.Symptom {
	lower := strings.ToLower(text)

	severity := e.estimateSeverity(lower)
	duration := extractDuration(lower)

	working := lower
	var symptoms []model.Symptom
	for _, entry := range e.symptoms {
		for _, keyword := range entry.keywords {
			if strings.Contains(working, keyword) {
				symptoms = append(symptoms, model.Symptom{
					Name:     entry.name,
					RawText:  keyword,
					Severity: severity,
					Duration: duration,
				})
				working = strings.ReplaceAll(working, keyword, " ")
				break // First variant hit wins; one record per symptom
			}
		}
	}

	return symptoms
}

// estimateSeverity maps intensity descriptors to a 1-10 estimate
func (e *Extractor) estimateSeverity(lower string) int {
	for _, word := range e.severityHigh {
		if strings.Contains(lower, word) {
			return 8
		}
	}
	for _, word := range e.severityMedium {
		if strings.Contains(lower, word) {
			return 5
		}
	}
	for _, word := range e.severityLow {
		if strings.Contains(lower, word) {
			return 3
		}
	}
	return 5
}

// extractDuration tries the duration rules in order; first hit wins
func extractDuration(lower string) string {
	if m := durationForRe.FindStringSubmatch(lower); m != nil {
		return m[1] + " " + m[2]
	}
	if m := durationAgoRe.FindStringSubmatch(lower); m != nil {
		return m[1] + " " + m[2]
	}
	if strings.Contains(lower, "yesterday") {
		return "1 day"
	}
	if strings.Contains(lower, "this morning") || strings.Contains(lower, "today") {
		return "hours"
	}
	if strings.Contains(lower, "this week") {
		return "days"
	}
	return ""
}

// ExtractAge returns the first "<N> years old" match in the text
func ExtractAge(text string) (int, bool) {
	m := ageRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	age, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return age, true
}
