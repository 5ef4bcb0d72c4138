package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/zonedbm/internal/ir"
)

// zoneFields lists the fields a zone struct may declare.
var zoneFields = map[string]bool{
	"clocks":  true,
	"init":    true,
	"steps":   true,
	"combine": true,
	"of":      true,
}

// CompileZones compiles every zone under the top-level "zone" struct of v, in
// declaration order. A value without a "zone" field yields no specs.
//
//	zone: {
//		a: { clocks: ["x"], init: "zero", steps: ["up", "and x <= 3"] }
//		b: { clocks: ["x"], init: "top", steps: ["and x >= 2"] }
//		i: { combine: "intersection", of: ["a", "b"] }
//	}
func CompileZones(v cue.Value) ([]ir.ZoneSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	zonesVal := v.LookupPath(cue.ParsePath("zone"))
	if !zonesVal.Exists() {
		return nil, nil
	}

	iter, err := zonesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var specs []ir.ZoneSpec
	for iter.Next() {
		spec, err := compileZone(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		specs = append(specs, *spec)
	}
	return specs, nil
}

// CompileZone parses a single zone struct. The zone is named after the last
// selector of the value's path, e.g. "a" for zone.a.
func CompileZone(v cue.Value) (*ir.ZoneSpec, error) {
	var name string
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		name = labels[len(labels)-1].String()
	}
	return compileZone(name, v)
}

func compileZone(name string, v cue.Value) (*ir.ZoneSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	fields, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for fields.Next() {
		if !zoneFields[fields.Label()] {
			return nil, &CompileError{
				Field:   fmt.Sprintf("zone.%s.%s", name, fields.Label()),
				Message: "unknown field",
				Pos:     fields.Value().Pos(),
			}
		}
	}

	spec := &ir.ZoneSpec{Name: name}

	clocks, err := stringList(v, name, "clocks")
	if err != nil {
		return nil, err
	}
	spec.Clocks = ir.Clocks(clocks...)

	initName, err := optionalString(v, "init")
	if err != nil {
		return nil, err
	}
	spec.Init = ir.Init(initName)

	lines, err := stringList(v, name, "steps")
	if err != nil {
		return nil, err
	}
	if len(lines) > 0 {
		spec.Steps, err = ir.ParseSteps(lines)
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("zone.%s.steps", name),
				Message: err.Error(),
				Pos:     v.LookupPath(cue.ParsePath("steps")).Pos(),
			}
		}
	}

	combine, err := optionalString(v, "combine")
	if err != nil {
		return nil, err
	}
	spec.Combine = ir.Combine(combine)

	spec.Of, err = stringList(v, name, "of")
	if err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, &CompileError{
			Field:   "zone." + name,
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return spec, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func stringList(v cue.Value, zone, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, &CompileError{
			Field:   fmt.Sprintf("zone.%s.%s", zone, field),
			Message: "must be a list of strings",
			Pos:     fv.Pos(),
		}
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError represents a compilation error with position info.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
