package kb

// Fact is one typed relational statement from the knowledge base,
// e.g. (has-symptom meningitis fever) or (time-sensitive stroke 3).
type Fact struct {
	Relation string   // Relation name (first token)
	Args     []string // Remaining tokens; quoted values are a single arg
}

// Relation names used by the query contract
const (
	RelIsCondition      = "is-condition"
	RelHasSymptom       = "has-symptom"
	RelHasSeverity      = "has-severity"
	RelHasUrgency       = "has-urgency"
	RelHasTreatment     = "has-treatment"
	RelRedFlagSymptom   = "red-flag-symptom"
	RelTimeSensitive    = "time-sensitive"
	RelContraindication = "contraindication"
	RelDrugInteraction  = "drug-interaction"
	RelSafetyWarning    = "safety-warning"
	RelDoseAdjustment   = "requires-dose-adjustment"
	RelRequiresAction   = "requires-action"
	RelDifferentialFrom = "differential-from"
)

// Arg returns the i-th argument or "" if absent
func (f Fact) Arg(i int) string {
	if i < 0 || i >= len(f.Args) {
		return ""
	}
	return f.Args[i]
}
