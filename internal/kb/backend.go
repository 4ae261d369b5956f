package kb

import (
	"strconv"

	"github.com/medichain/triage/internal/model"
)

// Backend is the query contract over the medical knowledge store. Both
// implementations resolve unknown identifiers to empty/zero results; no
// operation returns an error.
type Backend interface {
	// SymptomsOf returns the symptoms of a condition in declaration order
	SymptomsOf(condition string) []string
	// ConditionsWith returns the conditions carrying a symptom in declaration order
	ConditionsWith(symptom string) []string
	// UrgencyOf returns the urgency classification or "unknown"
	UrgencyOf(condition string) string
	// RedFlagSymptoms returns all symptoms asserted as red flags
	RedFlagSymptoms() []string
	// TimeSensitivity returns the treatment window in hours, if declared
	TimeSensitivity(condition string) (int, bool)
	// DifferentialLinks returns the conditions a condition is declared
	// differential from, in declaration order
	DifferentialLinks(condition string) []string
	// TreatmentsOf returns treatments in fact-declaration order
	TreatmentsOf(condition string) []string
	// ContraindicationsOf returns contraindicated condition tokens for a treatment
	ContraindicationsOf(treatment string) []string
	// HasDrugInteraction reports a declared treatment-medication interaction
	HasDrugInteraction(treatment, medication string) bool
	// RequiresDoseAdjustment reports a declared dose-adjustment requirement
	RequiresDoseAdjustment(treatment, condition string) bool
	// SafetyWarning returns the declared warning text or ""
	SafetyWarning(treatment string) string
}

// FactBackend answers every contract operation as a pattern query over the
// fact relation named in the operation.
type FactBackend struct {
	store *Store
}

// NewFactBackend creates a pattern-matching backend over a loaded store
func NewFactBackend(store *Store) *FactBackend {
	return &FactBackend{store: store}
}

// Store exposes the underlying fact store
func (b *FactBackend) Store() *Store {
	return b.store
}

func (b *FactBackend) SymptomsOf(condition string) []string {
	return secondArgs(b.store.Match(RelHasSymptom, condition))
}

func (b *FactBackend) ConditionsWith(symptom string) []string {
	var out []string
	for _, f := range b.store.Match(RelHasSymptom, "", symptom) {
		out = append(out, f.Arg(0))
	}
	return out
}

func (b *FactBackend) UrgencyOf(condition string) string {
	facts := b.store.Match(RelHasUrgency, condition)
	if len(facts) == 0 {
		return model.KBUrgencyUnknown
	}
	return facts[0].Arg(1)
}

func (b *FactBackend) RedFlagSymptoms() []string {
	// Facts asserting false are inert: only true assertions mark a red flag.
	var out []string
	for _, f := range b.store.Match(RelRedFlagSymptom, "", "true") {
		out = append(out, f.Arg(0))
	}
	return out
}

func (b *FactBackend) TimeSensitivity(condition string) (int, bool) {
	facts := b.store.Match(RelTimeSensitive, condition)
	if len(facts) == 0 {
		return 0, false
	}
	hours, err := strconv.Atoi(facts[0].Arg(1))
	if err != nil {
		return 0, false
	}
	return hours, true
}

func (b *FactBackend) DifferentialLinks(condition string) []string {
	return b.store.DifferentialsOf(condition)
}

func (b *FactBackend) TreatmentsOf(condition string) []string {
	return secondArgs(b.store.Match(RelHasTreatment, condition))
}

func (b *FactBackend) ContraindicationsOf(treatment string) []string {
	return secondArgs(b.store.Match(RelContraindication, treatment))
}

func (b *FactBackend) HasDrugInteraction(treatment, medication string) bool {
	return len(b.store.Match(RelDrugInteraction, treatment, medication)) > 0
}

func (b *FactBackend) RequiresDoseAdjustment(treatment, condition string) bool {
	return len(b.store.Match(RelDoseAdjustment, treatment, condition)) > 0
}

func (b *FactBackend) SafetyWarning(treatment string) string {
	facts := b.store.Match(RelSafetyWarning, treatment)
	if len(facts) == 0 {
		return ""
	}
	return facts[0].Arg(1)
}

func secondArgs(facts []Fact) []string {
	var out []string
	for _, f := range facts {
		out = append(out, f.Arg(1))
	}
	return out
}
