package formula

import (
	"errors"
	"fmt"
	"go/token"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/finscore/finscore/schema"
)

var errDivisionByZero = errors.New("division by zero")

// Eval evaluates the formula against a bundle.
//
// An empty table referenced by the formula yields schema.ErrMissingData. Any other
// failure (missing line item, division by zero, non-finite value, scalar result)
// wraps schema.ErrFormula.
func (e *Expr) Eval(bundle *schema.StatementBundle) (Value, error) {
	for _, name := range e.tables {
		if len(bundle.Table(name)) == 0 {
			return Value{}, fmt.Errorf("%w: %s table is empty", schema.ErrMissingData, name)
		}
	}
	v, err := e.root.eval(bundle)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %s: %v", schema.ErrFormula, e.src, err)
	}
	if !v.IsSeries {
		return Value{}, fmt.Errorf("%w: %s: result is a scalar, want a series", schema.ErrFormula, e.src)
	}
	return v, nil
}

type node interface {
	eval(b *schema.StatementBundle) (Value, error)
}

type numberNode float64

func (n numberNode) eval(*schema.StatementBundle) (Value, error) {
	return scalar(float64(n)), nil
}

type columnNode struct {
	table schema.TableName
	item  string
}

func (n *columnNode) eval(b *schema.StatementBundle) (Value, error) {
	points := columnSeries(b.Table(n.table), n.item)
	if len(points) == 0 {
		return Value{}, fmt.Errorf("line item %q not found in %s", n.item, n.table)
	}
	for _, p := range points {
		if _, err := finite(p.Value); err != nil {
			return Value{}, fmt.Errorf("%s[%q] %d: %w", n.table, n.item, p.Year, err)
		}
	}
	return series(points), nil
}

type negNode struct {
	x node
}

func (n *negNode) eval(b *schema.StatementBundle) (Value, error) {
	v, err := n.x.eval(b)
	if err != nil {
		return Value{}, err
	}
	return combine(scalar(-1), v, func(a, x float64) (float64, error) { return a * x, nil })
}

// binaryOps holds the arithmetic and comparison operators formulas may use.
// Comparisons yield 1 when they hold and 0 otherwise.
var binaryOps = map[token.Token]func(a, b float64) (float64, error){
	token.ADD: func(a, b float64) (float64, error) { return finite(a + b) },
	token.SUB: func(a, b float64) (float64, error) { return finite(a - b) },
	token.MUL: func(a, b float64) (float64, error) { return finite(a * b) },
	token.QUO: func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, errDivisionByZero
		}
		return finite(a / b)
	},
	token.GTR: func(a, b float64) (float64, error) { return boolValue(a > b), nil },
	token.LSS: func(a, b float64) (float64, error) { return boolValue(a < b), nil },
	token.EQL: func(a, b float64) (float64, error) { return boolValue(a == b), nil },
}

func boolValue(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

type binaryNode struct {
	op   token.Token
	x, y node
}

func (n *binaryNode) eval(b *schema.StatementBundle) (Value, error) {
	x, err := n.x.eval(b)
	if err != nil {
		return Value{}, err
	}
	y, err := n.y.eval(b)
	if err != nil {
		return Value{}, err
	}
	return combine(x, y, binaryOps[n.op])
}

type callNode struct {
	name string
	fn   function
	args []node
}

func (n *callNode) eval(b *schema.StatementBundle) (Value, error) {
	args := make([]Value, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(b)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	v, err := n.fn.apply(args)
	if err != nil {
		return Value{}, fmt.Errorf("%s: %w", n.name, err)
	}
	return v, nil
}

// function is a built-in formula function with a fixed number of arguments.
type function struct {
	arity int
	apply func(args []Value) (Value, error)
}

// functions is the complete set of callable names in a formula.
var functions = map[string]function{
	"pct_change": {arity: 1, apply: pctChange},
	"shift":      {arity: 2, apply: shift},
	"mean":       {arity: 1, apply: reduce(func(x []float64) float64 { return stat.Mean(x, nil) })},
	"sum":        {arity: 1, apply: reduce(floats.Sum)},
	"prod":       {arity: 1, apply: reduce(floats.Prod)},
	"latest":     {arity: 1, apply: latest},
	"abs":        {arity: 1, apply: abs},
	"pow":        {arity: 2, apply: pow},
}

// Functions returns the names of all built-in formula functions.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func requireSeries(v Value) ([]schema.SeriesPoint, error) {
	if !v.IsSeries {
		return nil, errors.New("argument must be a series")
	}
	if len(v.Points) == 0 {
		return nil, errors.New("series is empty")
	}
	return v.Points, nil
}

// pctChange is the year-over-year change in percent. The oldest period has
// no predecessor and is dropped. A gap in fiscal years is an error, since the
// change would span more than one year.
func pctChange(args []Value) (Value, error) {
	points, err := requireSeries(args[0])
	if err != nil {
		return Value{}, err
	}
	out := make([]schema.SeriesPoint, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		if points[i].Year != points[i-1].Year+1 {
			return Value{}, fmt.Errorf("%d: no value for %d", points[i].Year, points[i].Year-1)
		}
		prev, cur := points[i-1].Value, points[i].Value
		if prev == 0 {
			return Value{}, fmt.Errorf("%d: %w", points[i].Year, errDivisionByZero)
		}
		v, err := finite((cur/prev - 1) * 100)
		if err != nil {
			return Value{}, fmt.Errorf("%d: %w", points[i].Year, err)
		}
		out = append(out, schema.SeriesPoint{Year: points[i].Year, PeriodEnd: points[i].PeriodEnd, Value: v})
	}
	return series(out), nil
}

// shift moves values n periods later, so shift(s, 1) at year Y holds the value of
// the period before Y. Periods without a source value are dropped.
func shift(args []Value) (Value, error) {
	points, err := requireSeries(args[0])
	if err != nil {
		return Value{}, err
	}
	if args[1].IsSeries {
		return Value{}, errors.New("period count must be a number")
	}
	n := int(args[1].Scalar)
	if float64(n) != args[1].Scalar || n < 0 {
		return Value{}, fmt.Errorf("period count must be a non-negative integer, got %v", args[1].Scalar)
	}
	out := make([]schema.SeriesPoint, 0, len(points))
	for i := n; i < len(points); i++ {
		out = append(out, schema.SeriesPoint{Year: points[i].Year, PeriodEnd: points[i].PeriodEnd, Value: points[i-n].Value})
	}
	return series(out), nil
}

func reduce(fn func([]float64) float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		points, err := requireSeries(args[0])
		if err != nil {
			return Value{}, err
		}
		values := make([]float64, len(points))
		for i, p := range points {
			values[i] = p.Value
		}
		v, err := finite(fn(values))
		if err != nil {
			return Value{}, err
		}
		return scalar(v), nil
	}
}

func latest(args []Value) (Value, error) {
	points, err := requireSeries(args[0])
	if err != nil {
		return Value{}, err
	}
	return scalar(points[len(points)-1].Value), nil
}

func abs(args []Value) (Value, error) {
	if !args[0].IsSeries {
		return scalar(math.Abs(args[0].Scalar)), nil
	}
	return mapSeries(args[0].Points, func(v float64) (float64, error) { return math.Abs(v), nil })
}

func pow(args []Value) (Value, error) {
	return combine(args[0], args[1], func(a, b float64) (float64, error) {
		return finite(math.Pow(a, b))
	})
}
