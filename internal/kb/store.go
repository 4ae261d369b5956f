package kb

// Store is the immutable in-memory fact store. Facts are grouped by relation
// in declaration order and never mutated after construction, so a single
// Store is safe to share across concurrent callers without locking.
type Store struct {
	byRelation map[string][]Fact
	conditions map[string]bool
	order      []Fact
}

// NewStore builds a store from parsed facts
func NewStore(facts []Fact) *Store {
	s := &Store{
		byRelation: make(map[string][]Fact),
		conditions: make(map[string]bool),
		order:      facts,
	}

	for _, f := range facts {
		s.byRelation[f.Relation] = append(s.byRelation[f.Relation], f)
		if f.Relation == RelIsCondition {
			s.conditions[f.Arg(0)] = true
		}
	}

	return s
}

// Match returns all facts of the given relation whose arguments match the
// pattern. An empty pattern string is a wildcard; a shorter pattern matches
// any remaining arguments. Declaration order is preserved.
func (s *Store) Match(relation string, pattern ...string) []Fact {
	var out []Fact
	for _, f := range s.byRelation[relation] {
		if matchArgs(f.Args, pattern) {
			out = append(out, f)
		}
	}
	return out
}

func matchArgs(args, pattern []string) bool {
	if len(pattern) > len(args) {
		return false
	}
	for i, p := range pattern {
		if p != "" && p != args[i] {
			return false
		}
	}
	return true
}

// Len returns the total number of loaded facts
func (s *Store) Len() int {
	return len(s.order)
}

// IsCondition reports whether the token was declared as a condition
func (s *Store) IsCondition(token string) bool {
	return s.conditions[token]
}

// DifferentialsOf returns the declared differential-from links for a condition
func (s *Store) DifferentialsOf(condition string) []string {
	var out []string
	for _, f := range s.Match(RelDifferentialFrom, condition) {
		out = append(out, f.Arg(1))
	}
	return out
}

// UnknownConditions reports condition tokens referenced by condition-keyed
// relations without a matching is-condition declaration. The store stays
// permissive about them: queries on unknown tokens resolve to empty results.
func (s *Store) UnknownConditions() []string {
	seen := make(map[string]bool)
	var out []string

	check := func(token string) {
		if token == "" || s.conditions[token] || seen[token] {
			return
		}
		seen[token] = true
		out = append(out, token)
	}

	for _, rel := range []string{RelHasSymptom, RelHasSeverity, RelHasUrgency, RelHasTreatment, RelTimeSensitive, RelRequiresAction} {
		for _, f := range s.byRelation[rel] {
			check(f.Arg(0))
		}
	}
	for _, f := range s.byRelation[RelDifferentialFrom] {
		check(f.Arg(0))
		check(f.Arg(1))
	}

	return out
}
