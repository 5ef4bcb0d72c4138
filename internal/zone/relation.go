package zone

// Relation is the outcome of comparing two zones bound by bound.
type Relation int

const (
	// Equal means every bound coincides.
	Equal Relation = iota
	// Subset means every bound of the receiver is at most the other's, so
	// the receiver's region is contained in the other's.
	Subset
	// Superset is the converse of Subset.
	Superset
	// Incomparable means neither zone's bounds dominate the other's. It says
	// nothing about whether the regions intersect.
	Incomparable
)

var relationLabels = [...]string{
	Equal:        "EQUAL",
	Subset:       "SUBSET",
	Superset:     "SUPERSET",
	Incomparable: "INCOMPARABLE",
}

func (r Relation) String() string {
	if r < 0 || int(r) >= len(relationLabels) {
		return "UNKNOWN"
	}
	return relationLabels[r]
}

// ParseRelation maps a label produced by String back to a Relation.
func ParseRelation(s string) (Relation, bool) {
	for r, label := range relationLabels {
		if label == s {
			return Relation(r), true
		}
	}
	return 0, false
}

func relationOf(leq, geq bool) Relation {
	switch {
	case leq && geq:
		return Equal
	case leq:
		return Subset
	case geq:
		return Superset
	default:
		return Incomparable
	}
}
