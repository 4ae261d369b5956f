// Package treat resolves treatments for a selected condition together with
// contraindication, drug-interaction and safety checks.
package treat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/medichain/triage/internal/diagnose"
	"github.com/medichain/triage/internal/kb"
	"github.com/medichain/triage/internal/model"
)

// evidenceLabel is attached to every treatment; per-treatment citation
// lookup is not part of this version.
const evidenceLabel = "Clinical guidelines (consult healthcare provider)"

// specialistMap is the fixed condition-to-specialist referral table
var specialistMap = map[string]string{
	"meningitis":      "Neurologist or Infectious Disease Specialist (ER immediately)",
	"stroke":          "Neurologist (ER immediately - time is brain)",
	"heart-attack":    "Cardiologist (ER immediately - call 911)",
	"appendicitis":    "General Surgeon (ER immediately)",
	"pneumonia":       "Pulmonologist or Primary Care Physician",
	"migraine":        "Neurologist",
	"covid-19":        "Primary Care Physician or Infectious Disease Specialist",
	"influenza":       "Primary Care Physician",
	"gastroenteritis": "Gastroenterologist or Primary Care Physician",
}

// Engine resolves treatment recommendations against an immutable query
// backend. Safe for concurrent use.
type Engine struct {
	backend kb.Backend
}

// NewEngine creates a treatment engine over the given backend
func NewEngine(backend kb.Backend) *Engine {
	return &Engine{backend: backend}
}

// Recommend resolves treatments plus safety checks for the request's primary
// condition. Any internal panic degrades to a generic consult-a-provider
// result; the boundary never propagates a failure.
func (e *Engine) Recommend(req model.TreatmentRequest) (result model.TreatmentResult) {
	defer func() {
		if r := recover(); r != nil {
			result = model.TreatmentResult{
				Condition:          req.PrimaryCondition,
				Treatments:         []string{"Unable to generate recommendations. Please consult a healthcare provider."},
				EvidenceSources:    map[string]string{},
				Contraindications:  map[string][]string{},
				SafetyWarnings:     []string{fmt.Sprintf("recommendation failed: %v", r)},
				SpecialistReferral: "Healthcare Provider",
				FollowUpTimeline:   "As soon as possible",
				ReasoningTrace:     []string{fmt.Sprintf("recommendation failed: %v", r)},
			}
		}
	}()

	condition := diagnose.Normalize(req.PrimaryCondition)
	trace := []string{"generating treatment recommendations for: " + condition}

	// Step 1: treatments
	trace = append(trace, "querying knowledge base for evidence-based treatments")
	treatments := e.backend.TreatmentsOf(condition)
	if len(treatments) == 0 {
		trace = append(trace, "no specific treatments found in knowledge base")
		treatments = []string{"Consult healthcare provider for " + req.PrimaryCondition + " treatment"}
	}
	trace = append(trace, fmt.Sprintf("found %d treatment options", len(treatments)))

	// Step 2: evidence sources
	evidence := make(map[string]string, len(treatments))
	for _, t := range treatments {
		evidence[t] = evidenceLabel
	}

	// Steps 3-5: safety validation
	trace = append(trace, "performing safety validation")
	contraindications := e.resolveContraindications(treatments, req.PatientAge, req.MedicalHistory)
	warnings := e.resolveWarnings(treatments, req.CurrentMedications, req.Allergies)
	if len(contraindications) > 0 {
		total := 0
		for _, v := range contraindications {
			total += len(v)
		}
		trace = append(trace, fmt.Sprintf("contraindications found: %d across %d treatments", total, len(contraindications)))
	}

	// Step 6: specialist referral
	specialist := e.recommendSpecialist(condition, req.UrgencyLevel)
	if specialist != "" {
		trace = append(trace, "specialist referral: "+specialist)
	}

	// Step 7: follow-up timeline
	followUp := e.followUpTimeline(req.UrgencyLevel, condition)
	trace = append(trace, "follow-up timeline: "+followUp)

	return model.TreatmentResult{
		Condition:          condition,
		Treatments:         treatments,
		EvidenceSources:    evidence,
		Contraindications:  contraindications,
		SafetyWarnings:     warnings,
		SpecialistReferral: specialist,
		FollowUpTimeline:   followUp,
		ReasoningTrace:     trace,
	}
}

// resolveContraindications unions backend contraindications with age-based
// rules and medical-history checks, per treatment
func (e *Engine) resolveContraindications(treatments []string, age *int, history []string) map[string][]string {
	all := make(map[string][]string)

	for _, treatment := range treatments {
		// Treatment tokens come from the knowledge base already canonical;
		// normalizing would break case-sensitive tokens like NSAIDs.
		declared := e.backend.ContraindicationsOf(treatment)

		declaredSet := make(map[string]bool, len(declared))
		contraindications := make([]string, 0, len(declared))
		for _, c := range declared {
			declaredSet[c] = true
			contraindications = append(contraindications, c)
		}

		if age != nil {
			if *age < 18 && declaredSet["age-under-18"] {
				contraindications = append(contraindications, "Not approved for pediatric use")
			} else if *age >= 65 && declaredSet["age-over-65"] {
				contraindications = append(contraindications, "Use with caution in elderly patients")
			}
		}

		for _, condition := range history {
			norm := diagnose.Normalize(condition)
			if declaredSet[norm] {
				contraindications = append(contraindications, "Contraindicated with "+condition)
			}
			if e.backend.RequiresDoseAdjustment(treatment, norm) {
				contraindications = append(contraindications, "Dose adjustment required for "+condition)
			}
		}

		if len(contraindications) > 0 {
			all[treatment] = contraindications
		}
	}

	return all
}

// resolveWarnings collects drug-interaction, allergy and declared safety
// warnings for every treatment. The final list is deduplicated and sorted so
// identical requests produce identical output.
func (e *Engine) resolveWarnings(treatments, medications, allergies []string) []string {
	var warnings []string

	for _, treatment := range treatments {
		for _, medication := range medications {
			if e.backend.HasDrugInteraction(treatment, diagnose.Normalize(medication)) {
				warnings = append(warnings, fmt.Sprintf("Drug interaction: %s may interact with %s", treatment, medication))
			}
		}
	}

	for _, treatment := range treatments {
		lowerTreatment := strings.ToLower(treatment)
		for _, allergy := range allergies {
			if strings.Contains(lowerTreatment, strings.ToLower(allergy)) {
				warnings = append(warnings, fmt.Sprintf("ALLERGY ALERT: %s may contain %s", treatment, allergy))
			}
		}
	}

	for _, treatment := range treatments {
		if w := e.backend.SafetyWarning(treatment); w != "" {
			warnings = append(warnings, w)
		}
	}

	return dedupe(warnings)
}

func (e *Engine) recommendSpecialist(condition, urgency string) string {
	specialist := specialistMap[condition]

	if urgency == model.UrgencyEmergency {
		if specialist == "" {
			return "Emergency Department immediately"
		}
		return specialist
	}

	return specialist
}

func (e *Engine) followUpTimeline(urgency, condition string) string {
	switch urgency {
	case model.UrgencyEmergency:
		return "Immediate (ER visit required)"
	case model.UrgencyUrgent:
		if hours, ok := e.backend.TimeSensitivity(condition); ok && hours <= 24 {
			return fmt.Sprintf("Within %d hours", hours)
		}
		return "Within 24 hours"
	default:
		return "1-2 weeks (or sooner if symptoms worsen)"
	}
}

// dedupe removes duplicates and sorts the remainder
func dedupe(warnings []string) []string {
	seen := make(map[string]bool, len(warnings))
	unique := warnings[:0]
	for _, w := range warnings {
		if !seen[w] {
			seen[w] = true
			unique = append(unique, w)
		}
	}
	sort.Strings(unique)
	return unique
}
