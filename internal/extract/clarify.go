package extract

import (
	"strings"

	"github.com/medichain/triage/internal/model"
)

// criticalSymptoms are the symptoms whose duration matters for assessment
var criticalSymptoms = map[string]bool{
	"chest-pain":            true,
	"shortness-of-breath":   true,
	"confusion":             true,
	"loss-of-consciousness": true,
}

// Clarify returns a follow-up prompt when the intake data is too thin for a
// useful assessment, or "" when everything needed is present. No symptoms at
// all is not a fault; it is a request for more detail.
func Clarify(symptoms []model.Symptom, age *int) string {
	if len(symptoms) == 0 {
		return "I didn't detect any specific symptoms. Could you describe what you're experiencing? " +
			"For example: 'I have a fever and headache' or 'I'm having chest pain and shortness of breath'."
	}

	var missing []string
	for _, s := range symptoms {
		if criticalSymptoms[s.Name] && s.Duration == "" {
			missing = append(missing, strings.ReplaceAll(s.Name, "-", " "))
		}
	}
	if len(missing) > 0 {
		return "You mentioned " + strings.Join(missing, ", ") + ". This could be important. " +
			"How long have you been experiencing this? (e.g., '2 hours', '3 days')"
	}

	if age == nil {
		for _, s := range symptoms {
			if s.Name == "fever" {
				return "I see you have a fever. Your age helps with accurate assessment. How old are you?"
			}
		}
	}

	return ""
}
