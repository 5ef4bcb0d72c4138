package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintString(t *testing.T) {
	x, y := NewClock("x"), NewClock("y")

	tests := []struct {
		c    Constraint
		want string
	}{
		{True(), "true"},
		{False(), "false"},
		{Unit(x, Leq, 3), "x <= 3"},
		{Unit(x, Gt, 5), "x > 5"},
		{Unit(x, Eq, 0), "x == 0"},
		{Diff(x, y, Lt, -2), "x - y < -2"},
		{Diff(y, x, Geq, 1), "y - x >= 1"},
		{And(Unit(x, Geq, 1), Unit(x, Leq, 2)), "x >= 1 && x <= 2"},
		{And(), "true"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.String())
		})
	}
}

func TestRelString(t *testing.T) {
	assert.Equal(t, "<", Lt.String())
	assert.Equal(t, ">=", Geq.String())
	assert.Equal(t, "Rel(9)", Rel(9).String())
}

func TestParseConstraint(t *testing.T) {
	x, y := NewClock("x"), NewClock("y")

	tests := []struct {
		input string
		want  Constraint
	}{
		{"true", True()},
		{"false", False()},
		{"x <= 3", Unit(x, Leq, 3)},
		{"x  <  3", Unit(x, Lt, 3)},
		{"x > 5", Unit(x, Gt, 5)},
		{"x >= 0", Unit(x, Geq, 0)},
		{"x == 3", Unit(x, Eq, 3)},
		{"x - y <= 0", Diff(x, y, Leq, 0)},
		{"x - y < -4", Diff(x, y, Lt, -4)},
		{"(x - y) >= +2", Diff(x, y, Geq, 2)},
		{"x >= 1 && x <= 2", And(Unit(x, Geq, 1), Unit(x, Leq, 2))},
		{"x >= 1 && (y <= 2 && x - y < 0)", And(Unit(x, Geq, 1), Unit(y, Leq, 2), Diff(x, y, Lt, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseConstraint(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseConstraint_RoundTrip(t *testing.T) {
	for _, s := range []string{"x <= 3", "x > 5", "x - y < -1", "y - x >= 2", "x == 7 && y < 1"} {
		c, err := ParseConstraint(s)
		require.NoError(t, err)
		assert.Equal(t, s, c.String())
	}
}

func TestParseConstraint_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x <=", "parse"},
		{"x", "used without a bound"},
		{"x + y <= 3", "left-hand side must be x or x - y"},
		{"x <= 1.5", "bound must be an integer"},
		{"x <= y", "bound must be an integer literal"},
		{"x != 3", "unsupported operator"},
		{"3 <= x", "bound must be an integer literal"},
		{"x || y", "unsupported operator"},
		{"x <= 2000000000000", "constant 2000000000000 out of range [-1099511627776, 1099511627776]"},
		{"x - y > -2000000000000", "constant -2000000000000 out of range"},
		{"y <= 1 && x == 1099511627777", "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseConstraint(tt.input)
			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.input, pe.Input)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMustParseConstraint(t *testing.T) {
	assert.Equal(t, Unit(NewClock("x"), Leq, 1), MustParseConstraint("x <= 1"))
	assert.Panics(t, func() { MustParseConstraint("x <=") })
}
