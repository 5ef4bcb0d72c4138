package ir

import "fmt"

// Init selects the starting region of a base zone.
type Init string

const (
	// InitZero pins every clock to 0.
	InitZero Init = "zero"
	// InitTop leaves every clock unconstrained (apart from being non-negative).
	InitTop Init = "top"
)

// Combine selects how a derived zone is built from two earlier zones.
type Combine string

const (
	CombineIntersection Combine = "intersection"
	CombineEnclosure    Combine = "enclosure"
	CombineInterpolant  Combine = "interpolant"
)

// ValidCombines defines allowed combinators.
var ValidCombines = map[Combine]bool{
	CombineIntersection: true,
	CombineEnclosure:    true,
	CombineInterpolant:  true,
}

// ZoneSpec describes a named zone in a script.
//
// A base zone has Clocks, Init and Steps. A derived zone has Combine and
// exactly two operand names in Of, each naming a zone declared earlier.
type ZoneSpec struct {
	Name    string
	Clocks  []Clock
	Init    Init
	Steps   []Step
	Combine Combine
	Of      []string
}

// IsDerived reports whether the zone is built by a combinator.
func (s ZoneSpec) IsDerived() bool {
	return s.Combine != ""
}

// Validate checks the structural rules above. It does not resolve operand
// names; that happens during evaluation.
func (s ZoneSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("zone name is required")
	}
	if s.IsDerived() {
		if !ValidCombines[s.Combine] {
			return fmt.Errorf("zone %s: unknown combine %q", s.Name, s.Combine)
		}
		if len(s.Of) != 2 {
			return fmt.Errorf("zone %s: %s needs exactly two operands, got %d", s.Name, s.Combine, len(s.Of))
		}
		if len(s.Clocks) > 0 || len(s.Steps) > 0 || s.Init != "" {
			return fmt.Errorf("zone %s: derived zones cannot declare clocks, init or steps", s.Name)
		}
		return nil
	}
	switch s.Init {
	case InitZero, InitTop:
	case "":
		return fmt.Errorf("zone %s: init is required", s.Name)
	default:
		return fmt.Errorf("zone %s: init must be %q or %q, got %q", s.Name, InitZero, InitTop, s.Init)
	}
	seen := make(map[Clock]bool, len(s.Clocks))
	for _, c := range s.Clocks {
		if c.Name() == "" {
			return fmt.Errorf("zone %s: empty clock name", s.Name)
		}
		if seen[c] {
			return fmt.Errorf("zone %s: clock %s declared twice", s.Name, c)
		}
		seen[c] = true
	}
	return nil
}
