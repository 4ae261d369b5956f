// Package diagnose implements the diagnostic inference engine: red-flag
// detection, candidate matching, confidence scoring, urgency assessment and
// differential diagnosis over the knowledge base.
package diagnose

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/medichain/triage/internal/kb"
	"github.com/medichain/triage/internal/model"
)

// Conditions that force emergency urgency on a confident match regardless of
// their declared classification
var highestRiskConditions = map[string]bool{
	"meningitis":   true,
	"stroke":       true,
	"heart-attack": true,
}

const (
	maxDifferentials   = 5
	diffThreshold      = 0.2
	confidentThreshold = 0.5
	possibleThreshold  = 0.3
	ageRiskThreshold   = 0.4
	emergencyWindowHrs = 6
)

// Engine runs diagnostic analysis against an immutable query backend. It
// holds no other state, so a single Engine is safe for concurrent use.
type Engine struct {
	backend kb.Backend
}

// NewEngine creates a diagnostic engine over the given backend
func NewEngine(backend kb.Backend) *Engine {
	return &Engine{backend: backend}
}

// Analyze runs the six-step diagnostic pipeline. Any internal panic is
// converted into a degraded routine-level result; the boundary never
// propagates a failure to the caller.
func (e *Engine) Analyze(req model.AnalysisRequest) (result model.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			result = model.AnalysisResult{
				UrgencyLevel:          model.UrgencyRoutine,
				RedFlags:              []string{},
				DifferentialDiagnoses: []string{},
				DifferentialLinks:     map[string][]string{},
				ConfidenceScores:      map[string]float64{},
				ReasoningTrace:        []string{fmt.Sprintf("analysis failed: %v", r)},
				RecommendedNextStep:   "Unable to complete analysis. Please consult a healthcare provider.",
			}
		}
	}()

	trace := []string{fmt.Sprintf("analyzing %d symptoms: %s", len(req.Symptoms), strings.Join(req.Symptoms, ", "))}

	// Step 1: red flags
	redFlags := e.detectRedFlags(req.Symptoms)
	if len(redFlags) > 0 {
		trace = append(trace, "red flags detected: "+strings.Join(redFlags, ", "))
	}

	// Step 2: candidate matching
	trace = append(trace, "querying knowledge base for matching conditions")
	candidates := e.matchConditions(req.Symptoms)
	trace = append(trace, fmt.Sprintf("found %d candidate conditions", len(candidates)))

	// Step 3: confidence scores
	scores := e.scoreConfidence(req.Symptoms, candidates, req.SeverityScores)

	// Step 4: urgency
	urgency := e.assessUrgency(candidates, redFlags, scores, req.Age)
	trace = append(trace, "urgency assessment: "+strings.ToUpper(urgency))

	// Step 5: differential diagnosis
	differential := e.differentialDiagnoses(candidates, scores)
	links := e.differentialLinks(differential)
	if len(differential) > 0 {
		top := differential
		if len(top) > 3 {
			top = top[:3]
		}
		trace = append(trace, "top differential diagnoses: "+strings.Join(top, ", "))
	}

	// Step 6: next step
	nextStep := recommendNextStep(urgency, redFlags)
	trace = append(trace, "recommendation: "+nextStep)

	return model.AnalysisResult{
		UrgencyLevel:          urgency,
		RedFlags:              redFlags,
		DifferentialDiagnoses: differential,
		DifferentialLinks:     links,
		ConfidenceScores:      scores,
		ReasoningTrace:        trace,
		RecommendedNextStep:   nextStep,
	}
}

// detectRedFlags unions individually flagged symptoms with fixed
// combinatorial rules over the normalized symptom set
func (e *Engine) detectRedFlags(symptoms []string) []string {
	var redFlags []string

	flagged := make(map[string]bool)
	for _, s := range e.backend.RedFlagSymptoms() {
		flagged[s] = true
	}

	symptomSet := make(map[string]bool, len(symptoms))
	for _, s := range symptoms {
		norm := Normalize(s)
		symptomSet[norm] = true
		if flagged[norm] {
			redFlags = append(redFlags, s)
		}
	}

	// Meningitis triad
	if symptomSet["severe-headache"] && symptomSet["fever"] && (symptomSet["neck-stiffness"] || symptomSet["stiff-neck"]) {
		redFlags = append(redFlags, "Meningitis triad (headache + fever + neck stiffness)")
	}

	// Stroke FAST signs
	if symptomSet["face-drooping"] || symptomSet["arm-weakness"] || symptomSet["slurred-speech"] {
		redFlags = append(redFlags, "Stroke warning signs (FAST protocol)")
	}

	// Cardiac
	if symptomSet["chest-pain"] {
		redFlags = append(redFlags, "Chest pain (potential cardiac emergency)")
	}

	return redFlags
}

// matchConditions accumulates per-condition hit counts over the input
// symptoms and returns conditions sorted by hit count descending, ties kept
// in first-seen order
func (e *Engine) matchConditions(symptoms []string) []string {
	counts := make(map[string]int)
	var order []string

	for _, s := range symptoms {
		for _, cond := range e.backend.ConditionsWith(Normalize(s)) {
			if counts[cond] == 0 {
				order = append(order, cond)
			}
			counts[cond]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	return order
}

// scoreConfidence derives a [0,1] confidence per candidate condition:
// matchRatio weighted by average reported severity, clamped at 1.0 and
// rounded to two decimals. A condition with no known symptoms scores 0.0.
func (e *Engine) scoreConfidence(symptoms, candidates []string, severityScores map[string]int) map[string]float64 {
	patientSet := make(map[string]bool, len(symptoms))
	for _, s := range symptoms {
		patientSet[Normalize(s)] = true
	}

	scores := make(map[string]float64, len(candidates))
	for _, cond := range candidates {
		condSymptoms := e.backend.SymptomsOf(cond)
		if len(condSymptoms) == 0 {
			scores[cond] = 0.0
			continue
		}

		var matched []string
		for _, s := range condSymptoms {
			if patientSet[s] {
				matched = append(matched, s)
			}
		}
		matchRatio := float64(len(matched)) / float64(len(condSymptoms))

		severityWeight := 1.0
		if len(severityScores) > 0 {
			total := 0
			for _, s := range matched {
				if sev, ok := severityScores[s]; ok {
					total += sev
				} else {
					total += 5
				}
			}
			avg := float64(total) / math.Max(float64(len(matched)), 1)
			severityWeight = 0.5 + avg/20.0
		}

		confidence := math.Min(matchRatio*severityWeight, 1.0)
		scores[cond] = math.Round(confidence*100) / 100
	}

	return scores
}

// assessUrgency walks the escalation ladder. Red flags force emergency
// unconditionally; otherwise confident matches on emergency-class,
// highest-risk or tightly time-sensitive conditions short-circuit to
// emergency, weaker matches raise the running level to urgent, and extreme
// age bumps routine to urgent when any score clears the risk threshold.
func (e *Engine) assessUrgency(candidates, redFlags []string, scores map[string]float64, age *int) string {
	if len(redFlags) > 0 {
		return model.UrgencyEmergency
	}

	level := model.UrgencyRoutine

	for _, cond := range candidates {
		confidence := scores[cond]
		switch {
		case confidence > confidentThreshold:
			urgency := e.backend.UrgencyOf(cond)
			if urgency == model.KBUrgencyEmergency || highestRiskConditions[cond] {
				return model.UrgencyEmergency
			}
			if hours, ok := e.backend.TimeSensitivity(cond); ok && hours <= emergencyWindowHrs {
				return model.UrgencyEmergency
			}
			if urgency == model.KBUrgencyUrgent24h {
				level = model.UrgencyUrgent
			}
		case confidence > possibleThreshold:
			urgency := e.backend.UrgencyOf(cond)
			if urgency == model.KBUrgencyEmergency || urgency == model.KBUrgencyUrgent24h {
				level = model.UrgencyUrgent
			}
		}
	}

	// Age never escalates past urgent and never overrides emergency
	if age != nil && (*age < 5 || *age > 65) && level == model.UrgencyRoutine {
		for _, confidence := range scores {
			if confidence > ageRiskThreshold {
				level = model.UrgencyUrgent
				break
			}
		}
	}

	return level
}

// differentialDiagnoses keeps conditions above the confidence threshold,
// capped at five; when fewer than two survive but at least two were scored,
// the top two are kept regardless of threshold
func (e *Engine) differentialDiagnoses(candidates []string, scores map[string]float64) []string {
	ranked := make([]string, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})

	top := ranked
	if len(top) > maxDifferentials {
		top = top[:maxDifferentials]
	}

	var differential []string
	for _, cond := range top {
		if scores[cond] > diffThreshold {
			differential = append(differential, cond)
		}
	}

	if len(differential) < 2 && len(ranked) >= 2 {
		differential = ranked[:2]
	}

	return differential
}

// differentialLinks annotates each retained diagnosis with the conditions it
// is declared differential from. Diagnoses without declared links get no entry.
func (e *Engine) differentialLinks(differential []string) map[string][]string {
	links := make(map[string][]string, len(differential))
	for _, cond := range differential {
		if related := e.backend.DifferentialLinks(cond); len(related) > 0 {
			links[cond] = related
		}
	}
	return links
}

func recommendNextStep(urgency string, redFlags []string) string {
	switch urgency {
	case model.UrgencyEmergency:
		if len(redFlags) > 0 {
			return "EMERGENCY: Call 911 or go to the ER immediately. Red flags detected."
		}
		return "EMERGENCY: Seek immediate medical attention at the ER."
	case model.UrgencyUrgent:
		return "URGENT: Schedule a medical appointment within 24 hours."
	default:
		return "ROUTINE: Schedule an appointment with your primary care physician."
	}
}

// Normalize converts a symptom or condition token to its canonical
// kebab-case form
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	return s
}
