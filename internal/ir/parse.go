package ir

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/parser"
	"cuelang.org/go/cue/token"
)

// ParseError reports a constraint or step that could not be parsed.
type ParseError struct {
	Input   string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, e.Message)
}

// MaxConst is the largest constant magnitude a zone stores exactly.
// Constraints, resets, shifts and ceilings beyond it are rejected.
const MaxConst = 1 << 40

// checkConst rejects constants outside [lo, MaxConst].
func checkConst(m, lo int64) error {
	if m < lo || m > MaxConst {
		return fmt.Errorf("constant %d out of range [%d, %d]", m, lo, int64(MaxConst))
	}
	return nil
}

// ParseConstraint parses the textual form produced by Constraint.String.
//
// Accepted forms:
//
//	true | false
//	x <op> m          (unit bound)
//	x - y <op> m      (difference bound)
//	c1 && c2 && ...   (conjunction, parentheses allowed)
//
// where <op> is one of <, <=, >, >=, == and m is an integer literal.
// The expression grammar is CUE's, so operator precedence matches the
// rendering: "-" binds tighter than comparisons, which bind tighter than "&&".
func ParseConstraint(s string) (Constraint, error) {
	expr, err := parser.ParseExpr("constraint", s)
	if err != nil {
		return nil, &ParseError{Input: s, Message: err.Error()}
	}
	c, err := constraintFromExpr(expr)
	if err != nil {
		return nil, &ParseError{Input: s, Message: err.Error()}
	}
	return c, nil
}

// MustParseConstraint is like ParseConstraint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

func constraintFromExpr(expr ast.Expr) (Constraint, error) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return constraintFromExpr(e.X)
	case *ast.BasicLit:
		switch e.Kind {
		case token.TRUE:
			return True(), nil
		case token.FALSE:
			return False(), nil
		}
		return nil, fmt.Errorf("unexpected literal %s", e.Value)
	case *ast.Ident:
		switch e.Name {
		case "true":
			return True(), nil
		case "false":
			return False(), nil
		}
		return nil, fmt.Errorf("clock %s used without a bound", e.Name)
	case *ast.BinaryExpr:
		if e.Op == token.LAND {
			left, err := constraintFromExpr(e.X)
			if err != nil {
				return nil, err
			}
			right, err := constraintFromExpr(e.Y)
			if err != nil {
				return nil, err
			}
			return And(append(conjuncts(left), conjuncts(right)...)...), nil
		}
		return atomFromExpr(e)
	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

// conjuncts flattens nested conjunctions so "a && b && c" yields one AndConstr.
func conjuncts(c Constraint) []Constraint {
	if and, ok := c.(AndConstr); ok {
		return and.Constrs
	}
	return []Constraint{c}
}

var relTokens = map[token.Token]Rel{
	token.LSS: Lt,
	token.LEQ: Leq,
	token.GTR: Gt,
	token.GEQ: Geq,
	token.EQL: Eq,
}

func atomFromExpr(e *ast.BinaryExpr) (Constraint, error) {
	rel, ok := relTokens[e.Op]
	if !ok {
		return nil, fmt.Errorf("unsupported operator %s", e.Op)
	}
	m, err := intFromExpr(e.Y)
	if err != nil {
		return nil, err
	}
	if err := checkConst(m, -MaxConst); err != nil {
		return nil, err
	}

	switch lhs := e.X.(type) {
	case *ast.Ident:
		return Unit(NewClock(lhs.Name), rel, m), nil
	case *ast.BinaryExpr:
		if lhs.Op != token.SUB {
			return nil, fmt.Errorf("left-hand side must be x or x - y, got operator %s", lhs.Op)
		}
		x, ok := lhs.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("left operand of - must be a clock")
		}
		y, ok := lhs.Y.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("right operand of - must be a clock")
		}
		return Diff(NewClock(x.Name), NewClock(y.Name), rel, m), nil
	case *ast.ParenExpr:
		return atomFromExpr(&ast.BinaryExpr{X: lhs.X, Op: e.Op, Y: e.Y})
	default:
		return nil, fmt.Errorf("left-hand side must be x or x - y")
	}
}

func intFromExpr(expr ast.Expr) (int64, error) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind != token.INT {
			return 0, fmt.Errorf("bound must be an integer, got %s", e.Value)
		}
		return strconv.ParseInt(e.Value, 0, 64)
	case *ast.UnaryExpr:
		m, err := intFromExpr(e.X)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case token.SUB:
			return -m, nil
		case token.ADD:
			return m, nil
		}
		return 0, fmt.Errorf("unsupported unary operator %s", e.Op)
	case *ast.ParenExpr:
		return intFromExpr(e.X)
	default:
		return 0, fmt.Errorf("bound must be an integer literal")
	}
}
