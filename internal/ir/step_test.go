package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStep(t *testing.T) {
	x, y := NewClock("x"), NewClock("y")

	tests := []struct {
		input string
		want  Step
	}{
		{"up", UpStep{}},
		{"  down  ", DownStep{}},
		{"and x <= 3", AndStep{Constr: Unit(x, Leq, 3)}},
		{"and x - y < 0 && y >= 1", AndStep{Constr: And(Diff(x, y, Lt, 0), Unit(y, Geq, 1))}},
		{"guard x > 2", OpStep{Op: GuardOp{Constr: Unit(x, Gt, 2)}}},
		{"reset x 0", OpStep{Op: ResetOp{Clock: x, Value: 0}}},
		{"reset y 4", OpStep{Op: ResetOp{Clock: y, Value: 4}}},
		{"shift x -2", OpStep{Op: ShiftOp{Clock: x, Offset: -2}}},
		{"free y", OpStep{Op: FreeOp{Clock: y}}},
		{"copy x y", OpStep{Op: CopyOp{Clock: x, Value: y}}},
		{"norm x:5 y:10", NormStep{Ceilings: []Ceiling{{Clock: x, Value: 5}, {Clock: y, Value: 10}}}},
		{"track z", TrackStep{Clock: NewClock("z")}},
		{"untrack x", UntrackStep{Clock: x}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStep(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStep_RoundTrip(t *testing.T) {
	lines := []string{
		"up",
		"down",
		"and x <= 3",
		"guard x - y >= -1",
		"reset x 7",
		"shift y 3",
		"free x",
		"copy y x",
		"norm x:2 y:0",
		"track w",
		"untrack w",
	}
	for _, line := range lines {
		st, err := ParseStep(line)
		require.NoError(t, err, line)
		assert.Equal(t, line, st.String())
	}
}

func TestParseStep_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "empty step"},
		{"jump", `unknown step "jump"`},
		{"up now", "up takes no arguments"},
		{"and", "and requires a constraint"},
		{"guard", "guard requires a constraint"},
		{"and x <", "parse"},
		{"reset x", "reset requires a clock and a constant"},
		{"shift x one", `invalid constant "one"`},
		{"free", "free requires exactly one clock"},
		{"track x y", "track requires exactly one clock"},
		{"copy x", "copy requires two clocks"},
		{"norm x", `ceiling "x" must be clock:constant`},
		{"norm :3", `ceiling ":3" must be clock:constant`},
		{"norm x:big", `invalid ceiling "x:big"`},
		{"reset x 2000000000000", "constant 2000000000000 out of range [-1099511627776, 1099511627776]"},
		{"shift x -2000000000000", "constant -2000000000000 out of range"},
		{"norm x:-1", "ceiling x: constant -1 out of range [0, 1099511627776]"},
		{"norm x:3 y:1099511627777", "ceiling y: constant 1099511627777 out of range"},
		{"and x >= 2000000000000", "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseStep(tt.input)
			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseSteps(t *testing.T) {
	steps, err := ParseSteps([]string{"up", "reset x 0"})
	require.NoError(t, err)
	assert.Equal(t, []Step{UpStep{}, OpStep{Op: ResetOp{Clock: NewClock("x")}}}, steps)

	_, err = ParseSteps([]string{"up", "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `steps[1]: parse "bogus": unknown step "bogus"`)
}

func TestNormStepCeilingMap(t *testing.T) {
	st := NormStep{Ceilings: []Ceiling{{Clock: NewClock("x"), Value: 3}, {Clock: NewClock("x"), Value: 5}}}
	assert.Equal(t, map[Clock]int64{NewClock("x"): 5}, st.CeilingMap())
}
